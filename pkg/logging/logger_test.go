package logging_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/agentstation/confkit/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	original := *logging.Default()
	t.Cleanup(func() { logging.SetDefault(original) })

	buf := &bytes.Buffer{}
	logging.SetDefault(zerolog.New(buf).Level(zerolog.DebugLevel))

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Err(errors.New("boom")).Msg("error message")

	output := buf.String()
	assert.Contains(t, output, "info message")
	assert.Contains(t, output, "boom")
}

func TestContextLogger(t *testing.T) {
	testLogger := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithOperation(ctx, "sync")
	ctx = logging.WithEntity(ctx, "session", "talk-1")
	ctx = logging.WithSource(ctx, "conference-hall")

	logging.FromContext(ctx).Info().Msg("test message")

	testLogger.AssertContains(t, `"operation":"sync"`)
	testLogger.AssertContains(t, `"entity_id":"talk-1"`)
	testLogger.AssertContains(t, `"source":"conference-hall"`)
	testLogger.AssertContains(t, "test message")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is part of the contract
	assert.Same(t, logging.Default(), logging.FromContext(nil))
}

func TestRequestID(t *testing.T) {
	testLogger := logging.NewTestLogger(t)
	ctx := logging.WithLogger(context.Background(), testLogger.Logger)
	ctx = logging.WithRequestID(ctx, "req-7")

	assert.Equal(t, "req-7", logging.RequestID(ctx))
	logging.Ctx(ctx).Warn().Msg("slow")
	testLogger.AssertContains(t, "req-7")
}

func TestCaptureLoggingForTest(t *testing.T) {
	captured := logging.CaptureLoggingForTest(t)

	logging.Warn().Str("key", "value").Msg("captured")

	assert.True(t, captured.Contains("captured"))
	assert.Len(t, captured.Lines(), 1)
	assert.True(t, strings.Contains(captured.Output(), `"key":"value"`))
}
