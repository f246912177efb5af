package types

import "context"

// Context Keys
type contextKey string

const (
	invocationIDKey contextKey = "invocation_id"
)

// WithInvocationID stores the invocation ID in the context.
func WithInvocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, invocationIDKey, id)
}

// GetInvocationID retrieves the invocation ID from the context.
func GetInvocationID(ctx context.Context) string {
	id, _ := ctx.Value(invocationIDKey).(string)
	return id
}
