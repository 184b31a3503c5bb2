package ratelimiter

import "context"

// Store holds bucket state keyed by (endpoint, actor). Implementations
// apply the refill-then-take step atomically per key; taking zero tokens
// reads the state without consuming.
type Store interface {
	Take(ctx context.Context, key string, tokens int, rule Rule) (TokenState, error)
	Reset(ctx context.Context, key string) error
}
