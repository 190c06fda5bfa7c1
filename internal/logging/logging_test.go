package logging_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"privlens/internal/config"
	"privlens/internal/logging"
)

func TestNew_ConsoleAndJSON(t *testing.T) {
	for _, format := range []string{"console", "json"} {
		l, err := logging.New(config.LogConfig{Level: "info", Format: format})
		require.NoError(t, err, format)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	}
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := logging.New(config.LogConfig{Level: "chatty", Format: "json"})
	assert.Error(t, err)
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logging.OrNop(nil))
}
