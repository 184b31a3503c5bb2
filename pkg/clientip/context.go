package clientip

import (
	"context"
)

// clientIPContextKey is the key for storing the client IP in context.
type clientIPContextKey struct{}

// WithContext stores the client IP in context.
func WithContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPContextKey{}, ip)
}

// FromContext retrieves the client IP from context. Returns an empty string
// when the middleware has not run.
func FromContext(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPContextKey{}).(string)
	return ip
}
