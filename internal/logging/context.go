package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type ctxKey int

const loggerKey ctxKey = iota

// WithLogger attaches logger to ctx. A nil ctx is treated as Background.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// FromContext returns the logger attached by WithLogger, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}
