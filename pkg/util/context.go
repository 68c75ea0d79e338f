package util

import (
	"context"
)

type key string

// WithRequestID returns a context with request id
// still using old implementation until deprecated
func WithRequestID(ctx context.Context, id string) context.Context {
	return ContextWithRequestID(ctx, id)
}

// GetRequestID returns request id from context
// will generate request id if not present
// still using old implementation until deprecated
func GetRequestID(ctx context.Context) string {
	return FromContext(ctx)
}

// EnsureRequestID returns ctx unchanged when it already carries a request id,
// otherwise a derived context holding a freshly generated one.
func EnsureRequestID(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	ctx = ContextWithRequestID(ctx, "")
	return ctx, FromContext(ctx)
}
