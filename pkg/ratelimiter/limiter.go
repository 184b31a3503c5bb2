package ratelimiter

import (
	"context"
	"fmt"
	"hash/fnv"
	"strconv"
)

// maxActorLength bounds the actor part of a storage key. Actor values
// derived from request headers have no length guarantee.
const maxActorLength = 64

// Limiter meters request bursts per (endpoint, actor) pair on top of a
// Store. One limiter serves all endpoints; the rules come from Config with
// per-endpoint overrides via options.
type Limiter struct {
	store Store
	rules map[Endpoint]Rule
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithRule overrides or adds the rule for one endpoint.
func WithRule(endpoint Endpoint, rule Rule) Option {
	return func(l *Limiter) {
		l.rules[endpoint] = rule
	}
}

// New creates a limiter from the configured endpoint rules.
func New(store Store, cfg Config, opts ...Option) (*Limiter, error) {
	l := &Limiter{
		store: store,
		rules: cfg.Rules(),
	}
	for _, opt := range opts {
		opt(l)
	}

	for endpoint, rule := range l.rules {
		if err := validateRule(rule); err != nil {
			return nil, fmt.Errorf("%s: %w", endpoint, err)
		}
	}
	return l, nil
}

// Allow takes one token from the actor's bucket for the endpoint.
func (l *Limiter) Allow(ctx context.Context, endpoint Endpoint, actor string) (*Decision, error) {
	return l.AllowN(ctx, endpoint, actor, 1)
}

// AllowN takes n tokens at once, for endpoints where one request fans out
// into several metered units.
func (l *Limiter) AllowN(ctx context.Context, endpoint Endpoint, actor string, n int) (*Decision, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: must be positive, got %d", ErrInvalidTokenCount, n)
	}
	return l.take(ctx, endpoint, actor, n)
}

// Peek reads the actor's bucket state without consuming tokens.
func (l *Limiter) Peek(ctx context.Context, endpoint Endpoint, actor string) (*Decision, error) {
	return l.take(ctx, endpoint, actor, 0)
}

// Reset clears the actor's bucket for the endpoint.
func (l *Limiter) Reset(ctx context.Context, endpoint Endpoint, actor string) error {
	if _, ok := l.rules[endpoint]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEndpoint, endpoint)
	}
	return l.store.Reset(ctx, bucketKey(endpoint, actor))
}

func (l *Limiter) take(ctx context.Context, endpoint Endpoint, actor string, n int) (*Decision, error) {
	rule, ok := l.rules[endpoint]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEndpoint, endpoint)
	}

	state, err := l.store.Take(ctx, bucketKey(endpoint, actor), n, rule)
	if err != nil {
		return nil, err
	}

	return &Decision{
		Endpoint:  endpoint,
		Limit:     rule.Burst,
		Remaining: state.Remaining,
		ResetAt:   state.RefilledAt.Add(rule.RefillEvery),
	}, nil
}

// bucketKey joins endpoint and actor into the storage key. Oversized actors
// are FNV-1a hashed so keys stay bounded regardless of header contents.
func bucketKey(endpoint Endpoint, actor string) string {
	if len(actor) > maxActorLength {
		h := fnv.New64a()
		h.Write([]byte(actor))
		actor = strconv.FormatUint(h.Sum64(), 36)
	}
	return string(endpoint) + ":" + actor
}

func validateRule(r Rule) error {
	if r.Burst <= 0 {
		return fmt.Errorf("%w: burst must be positive, got %d", ErrInvalidRule, r.Burst)
	}
	if r.RefillTokens <= 0 {
		return fmt.Errorf("%w: refill tokens must be positive, got %d", ErrInvalidRule, r.RefillTokens)
	}
	if r.RefillEvery <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidRule, r.RefillEvery)
	}
	return nil
}
