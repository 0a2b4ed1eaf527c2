package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorAttachesCause(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewFromZap(zap.New(core)).Named("api").With(zap.String("instance_id", "i-1"))

	log.Error("Request failed", errors.New("boom"), zap.Int("status", 500))
	log.Error("No cause", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "api", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.Equal(t, "boom", fields["error"])
	assert.Equal(t, "i-1", fields["instance_id"])
	assert.EqualValues(t, 500, fields["status"])
	assert.NotContains(t, entries[1].ContextMap(), "error")
}

func TestNewZapLoggerLevelOverride(t *testing.T) {
	assert.NotPanics(t, func() {
		l := NewZapLogger("production", "warn")
		l.Info("dropped")
		_ = l.Sync()
	})
	assert.NotPanics(t, func() { NewZapLogger("development", "nonsense") })
}
