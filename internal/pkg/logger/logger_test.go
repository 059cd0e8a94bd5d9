package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		l := NewLogger(env)
		require.NotNil(t, l)
		l.Info("test message")
	}
}

func TestNewLogger_LogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	l := NewLogger("production")
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLogger_InvalidLogLevelIgnored(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	l := NewLogger("production")
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestSetAndPackageHelpers(t *testing.T) {
	original := Get()
	t.Cleanup(func() { Set(original) })

	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))

	Debug("d")
	Info("i", zap.Int("seat", 3))
	Warn("w")
	Error("e")

	require.Equal(t, 4, logs.Len())
	entries := logs.All()
	assert.Equal(t, "i", entries[1].Message)
	assert.Equal(t, int64(3), entries[1].ContextMap()["seat"])
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}
