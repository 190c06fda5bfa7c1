package llm

import (
	"math/rand/v2"
	"time"
)

// Backoff computes capped exponential delays with full jitter.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
	// Rand returns a value in [0, n). Defaults to math/rand/v2.
	Rand func(n int64) int64
}

// Delay returns the wait before retry number attempt (0-based).
func (b Backoff) Delay(attempt int) time.Duration {
	ceiling := b.Ceiling(attempt)
	if ceiling <= 0 {
		return 0
	}
	rnd := b.Rand
	if rnd == nil {
		rnd = rand.Int64N
	}
	return time.Duration(rnd(int64(ceiling) + 1))
}

// Ceiling returns the un-jittered delay cap for attempt.
func (b Backoff) Ceiling(attempt int) time.Duration {
	if b.Base <= 0 {
		return 0
	}
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}
