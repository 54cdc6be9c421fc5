package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"dataset-assistant/internal/config"
)

func TestLoggerAdapter_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core))

	log.WithField("task", "explanation").
		WithFields(map[string]any{"kind": "validation"}).
		Warn("Task input rejected", "error", "boom")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "Task input rejected", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "explanation", ctx["task"])
	assert.Equal(t, "validation", ctx["kind"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLoggerAdapter_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := NewFromZap(zap.New(core))

	log.Debug("hidden")
	log.Info("shown")
	log.Error("also shown", "n", 1)

	assert.Equal(t, 2, logs.Len())
}

func TestNewLoggerAdapter(t *testing.T) {
	log, err := NewLoggerAdapter(config.LoggerConfig{
		Level:            "debug",
		Encoding:         "json",
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	})
	require.NoError(t, err)

	log.Info("hello", "k", "v")
	_ = log.Close()
}

func TestNop(t *testing.T) {
	log := NewNop()
	log.WithField("a", 1).Info("nothing")
	assert.NoError(t, log.Close())
}
