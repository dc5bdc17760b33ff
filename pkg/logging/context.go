package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{}

// WithLogger stores logger in ctx. A nil logger stores the default.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok && l != nil {
			return l
		}
	}
	return Default()
}

// Ctx is shorthand for FromContext.
func Ctx(ctx context.Context) *zerolog.Logger {
	return FromContext(ctx)
}

// WithStage tags later log lines with a pipeline stage
// (normalize, match, merge, restore).
func WithStage(ctx context.Context, stage string) context.Context {
	return withStr(ctx, "stage", stage)
}

// WithDataset tags later log lines with "primary" or "secondary".
func WithDataset(ctx context.Context, dataset string) context.Context {
	return withStr(ctx, "dataset", dataset)
}

// WithFile tags later log lines with a gradebook path.
func WithFile(ctx context.Context, path string) context.Context {
	return withStr(ctx, "file", path)
}

func withStr(ctx context.Context, key, value string) context.Context {
	l := FromContext(ctx).With().Str(key, value).Logger()
	return WithLogger(ctx, &l)
}
