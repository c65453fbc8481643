package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("Levels", func(t *testing.T) {
		for level, want := range map[string]zapcore.Level{
			"":      zapcore.InfoLevel,
			"debug": zapcore.DebugLevel,
			"WARN":  zapcore.WarnLevel,
			"error": zapcore.ErrorLevel,
		} {
			logger, err := New(level)
			require.NoError(t, err, level)
			assert.True(t, logger.Core().Enabled(want), level)
			if want > zapcore.DebugLevel {
				assert.False(t, logger.Core().Enabled(want-1), level)
			}
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := New("loud")
		assert.Error(t, err)
	})
}
