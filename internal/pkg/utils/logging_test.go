package utils

import (
	"context"
	"errors"
	"testing"

	"ecg-labeling-service/internal/pkg/constvars"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogOperation(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)

		err := LogOperation(zap.New(core), "labelsUsecase.run", "req-1", func() error { return nil })
		require.NoError(t, err)

		completed := logs.FilterMessage("Operation completed").All()
		require.Len(t, completed, 1)
		fields := completed[0].ContextMap()
		assert.Equal(t, "labelsUsecase.run", fields[constvars.LoggingOperationKey])
		assert.Equal(t, "req-1", fields[constvars.LoggingRequestIDKey])
		assert.Equal(t, true, fields[constvars.LoggingSuccessKey])
		assert.Equal(t, 1, logs.FilterMessage("Operation started").Len())
	})

	t.Run("Failure", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		failure := errors.New("disk full")

		err := LogOperation(zap.New(core), "datasetsUsecase.Download", "", func() error { return failure })
		assert.ErrorIs(t, err, failure)

		failed := logs.FilterMessage("Operation failed").All()
		require.Len(t, failed, 1)
		assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
		assert.Equal(t, false, failed[0].ContextMap()[constvars.LoggingSuccessKey])
		assert.Zero(t, logs.FilterMessage("Operation completed").Len())
	})
}

func TestGetRequestID(t *testing.T) {
	ctx := context.WithValue(context.Background(), constvars.CONTEXT_REQUEST_ID_KEY, "req-2")
	assert.Equal(t, "req-2", GetRequestID(ctx))
	assert.Empty(t, GetRequestID(context.Background()))
}
