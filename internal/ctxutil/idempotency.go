package ctxutil

import "context"

// IdempotencyKey is the context key for a caller-supplied retry token.
type IdempotencyKey struct{}

// WithIdempotencyKey returns a context carrying token. A mutation retried
// with the same token returns its first result instead of applying again.
func WithIdempotencyKey(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, IdempotencyKey{}, token)
}

// IdempotencyKeyFromContext returns the token, or empty string if not set.
func IdempotencyKeyFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(IdempotencyKey{}).(string); ok {
		return v
	}
	return ""
}
