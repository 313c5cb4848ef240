// Package snsctx carries per-invocation tracing switches through context.
package snsctx

import "context"

type ctxKey int

const ctxKeyVerbose ctxKey = iota

// IsVerbose reports whether transports should dump raw traffic.
func IsVerbose(ctx context.Context) bool {
	val, ok := ctx.Value(ctxKeyVerbose).(bool)
	return ok && val
}

func SetVerbose(ctx context.Context, value bool) context.Context {
	return context.WithValue(ctx, ctxKeyVerbose, value)
}
