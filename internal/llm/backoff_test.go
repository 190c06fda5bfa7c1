package llm_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"privlens/internal/llm"
)

func TestBackoff_CeilingDoublesUpToMax(t *testing.T) {
	b := llm.Backoff{Base: 500 * time.Millisecond, Max: 8 * time.Second}

	assert.Equal(t, 500*time.Millisecond, b.Ceiling(0))
	assert.Equal(t, time.Second, b.Ceiling(1))
	assert.Equal(t, 2*time.Second, b.Ceiling(2))
	assert.Equal(t, 8*time.Second, b.Ceiling(4))
	assert.Equal(t, 8*time.Second, b.Ceiling(20))
}

func TestBackoff_DelayIsJitteredWithinCeiling(t *testing.T) {
	var gotN int64
	b := llm.Backoff{
		Base: 100 * time.Millisecond,
		Max:  time.Second,
		Rand: func(n int64) int64 { gotN = n; return n / 2 },
	}

	d := b.Delay(1)
	assert.Equal(t, int64(200*time.Millisecond)+1, gotN)
	assert.Equal(t, 100*time.Millisecond, d)

	real := llm.Backoff{Base: 10 * time.Millisecond, Max: 40 * time.Millisecond}
	for i := 0; i < 50; i++ {
		assert.LessOrEqual(t, real.Delay(5), 40*time.Millisecond)
	}
}

func TestBackoff_ZeroBase(t *testing.T) {
	assert.Equal(t, time.Duration(0), llm.Backoff{}.Delay(3))
}
