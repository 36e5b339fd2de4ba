package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type contextKey struct{}

// Field names attached by the With* helpers.
const (
	FieldSource    = "source"
	FieldOperation = "operation"
	FieldRun       = "run_id"
	FieldRecord    = "record_id"
)

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(contextKey{}).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithSource tags the logger with the record source (crm, marketplace, a file path).
func WithSource(ctx context.Context, source string) context.Context {
	return withStr(ctx, FieldSource, source)
}

// WithOperation tags the logger with the command or pipeline stage.
func WithOperation(ctx context.Context, operation string) context.Context {
	return withStr(ctx, FieldOperation, operation)
}

// WithRun tags the logger with a reconciliation run ID.
func WithRun(ctx context.Context, runID string) context.Context {
	return withStr(ctx, FieldRun, runID)
}

// WithRecord tags the logger with the ID of the record being processed.
func WithRecord(ctx context.Context, id string) context.Context {
	return withStr(ctx, FieldRecord, id)
}

func withStr(ctx context.Context, key, value string) context.Context {
	logger := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &logger)
}
