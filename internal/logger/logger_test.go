package logger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/feral-file/ff-bitmap/internal/logger"
)

func TestLogger_NoopBeforeInitialize(t *testing.T) {
	logger.SetLogger(nil)
	assert.NotPanics(t, func() {
		logger.Info("hello")
		logger.DebugCtx(context.Background(), "debug")
		logger.Error(errors.New("boom"))
	})
}

func TestLogger_Initialize(t *testing.T) {
	require.NoError(t, logger.Initialize(logger.Config{Debug: true, Service: "test"}))
	assert.True(t, logger.Default().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, logger.Initialize(logger.Config{}))
	assert.False(t, logger.Default().Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Default().Core().Enabled(zapcore.InfoLevel))
}

func TestLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogger(zap.New(core))
	defer logger.SetLogger(nil)

	ctx := context.Background()
	logger.InfoCtx(ctx, "saved image", zap.Int("bytes", 42))
	logger.ErrorCtx(ctx, errors.New("encode failed"), zap.String("stage", "encode"))
	logger.ErrorCtx(ctx, nil)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, "saved image", entries[0].Message)
	assert.Equal(t, int64(42), entries[0].ContextMap()["bytes"])
	assert.Equal(t, "encode failed", entries[1].Message)
	assert.Equal(t, "encode", entries[1].ContextMap()["stage"])
	assert.Equal(t, "error occurred", entries[2].Message)
}
