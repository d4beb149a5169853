package util

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestStepClockIsMonotonic(t *testing.T) {
	c := NewStepClock(time.Unix(0, 0), time.Millisecond)

	first := Timestamp(c)
	second := Timestamp(c)
	assert.Equal(t, uint64(time.Millisecond), first)
	assert.Equal(t, first+uint64(time.Millisecond), second)

	fired := <-c.After(time.Second)
	assert.Equal(t, time.Unix(0, 0).Add(2*time.Millisecond+time.Second), fired)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("WARN"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
}

func TestNewLoggerWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "engine.log")
	logger, err := NewLoggerWithFile(path, "info")
	require.NoError(t, err)
	logger.Info("started")
	_ = logger.Sync()
	assert.FileExists(t, path)
}
