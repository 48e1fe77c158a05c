package requestctx

import "context"

type ctxKey string

const requestIDKey ctxKey = "request_id"

// WithRequestID stores the request id used by handlers, the audit trail
// and batch event records.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}
