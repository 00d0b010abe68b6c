package logging

import "context"

type requestIDKey struct{}

// RequestIDField is the key under which a context request id is logged.
const RequestIDField = "request_id"

// WithRequestID returns a context whose log entries carry id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id stored by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// withContextFields appends fields carried by ctx to args.
func withContextFields(ctx context.Context, args []any) []any {
	if id := RequestID(ctx); id != "" {
		return append(args, RequestIDField, id)
	}
	return args
}
