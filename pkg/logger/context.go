package logger

import "context"

type ctxKey struct{}

// NewContext returns a copy of ctx carrying log
func NewContext(ctx context.Context, log Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored in ctx, or the singleton logger
func FromContext(ctx context.Context) Logger {
	if log, ok := ctx.Value(ctxKey{}).(Logger); ok {
		return log
	}
	return GetLogger()
}
