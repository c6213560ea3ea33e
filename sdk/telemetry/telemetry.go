// Package telemetry carries a per-run trace id through a context so log
// lines from the generator and the execution engines can be correlated.
package telemetry

import (
	"context"

	"github.com/google/uuid"
)

type telKey int

const (
	traceIDKey telKey = iota + 1
)

// NoTrace is reported for contexts that never had a trace id set.
const NoTrace = "--------NOTRACE--------"

// SetTraceID returns a context carrying a fresh trace id.
func SetTraceID(ctx context.Context) context.Context {
	return WithTraceID(ctx, uuid.NewString())
}

// WithTraceID returns a context carrying id.
func WithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// EnsureTraceID keeps an existing trace id and sets one otherwise.
func EnsureTraceID(ctx context.Context) context.Context {
	if _, ok := TraceID(ctx); ok {
		return ctx
	}
	return SetTraceID(ctx)
}

// TraceID reports the trace id stored in ctx.
func TraceID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(traceIDKey).(string)
	return v, ok && v != ""
}

// GetTraceID returns the trace id or NoTrace.
func GetTraceID(ctx context.Context) string {
	if v, ok := TraceID(ctx); ok {
		return v
	}
	return NoTrace
}
