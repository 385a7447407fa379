package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerKey    = ctxKey{"logger"}
	requestIDKey = ctxKey{"request-id"}
)

// WithLogger stores logger in ctx. A nil logger stores the package logger.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger stored in ctx, or the package logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*zerolog.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}

// Ctx is short for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger { return FromContext(ctx) }

// WithFields returns a context whose logger carries fields.
func WithFields(ctx context.Context, fields map[string]any) context.Context {
	logger := FromContext(ctx).With().Fields(fields).Logger()
	return WithLogger(ctx, &logger)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}

// WithRequestID records the id of an HTTP request in ctx and its logger.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withStr(context.WithValue(ctx, requestIDKey, id), "request_id", id)
}

// RequestID returns the request id recorded by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithSource tags log entries with the id of the source being read.
func WithSource(ctx context.Context, source string) context.Context {
	return withStr(ctx, "source", source)
}

// WithOperation tags log entries with an operation name such as sync or patch.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withStr(ctx, "operation", operation)
}

// WithEntity tags log entries with a document kind and id.
func WithEntity(ctx context.Context, kind, id string) context.Context {
	logger := FromContext(ctx).With().Str("kind", kind).Str("entity_id", id).Logger()
	return WithLogger(ctx, &logger)
}
