// Package ctxutil carries per-request values through context.Context.
package ctxutil

import "context"

type (
	requestDataKey struct{}
	traceDataKey   struct{}
)

// RequestData is the authenticated caller attached by the auth middleware.
type RequestData struct {
	ExternalID string
	Email      string
	Name       string
	ImageURL   string
}

// TraceData correlates log lines and responses for one request.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	return lookup[*RequestData](ctx, requestDataKey{})
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	return lookup[*TraceData](ctx, traceDataKey{})
}

func lookup[T any](ctx context.Context, key any) T {
	var zero T
	if ctx == nil {
		return zero
	}
	if v, ok := ctx.Value(key).(T); ok {
		return v
	}
	return zero
}
