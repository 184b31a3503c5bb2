package ratelimiter_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farescope/quotakit/pkg/ratelimiter"
)

func defaultConfig() ratelimiter.Config {
	return ratelimiter.Config{
		SearchBurst:         30,
		SearchRefillEvery:   time.Hour,
		SeatmapBurst:        5,
		SeatmapRefillEvery:  time.Hour,
		BookmarkBurst:       10,
		BookmarkRefillEvery: time.Hour,
	}
}

func newLimiter(t *testing.T, opts ...ratelimiter.Option) (*ratelimiter.Limiter, *ratelimiter.MemoryStore) {
	t.Helper()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithSweepInterval(0))
	limiter, err := ratelimiter.New(store, defaultConfig(), opts...)
	require.NoError(t, err)
	return limiter, store
}

func TestNew_InvalidRule(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithSweepInterval(0))

	tests := []struct {
		name string
		rule ratelimiter.Rule
	}{
		{"zero burst", ratelimiter.Rule{Burst: 0, RefillTokens: 1, RefillEvery: time.Second}},
		{"zero refill tokens", ratelimiter.Rule{Burst: 5, RefillTokens: 0, RefillEvery: time.Second}},
		{"zero refill interval", ratelimiter.Rule{Burst: 5, RefillTokens: 1, RefillEvery: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ratelimiter.New(store, defaultConfig(), ratelimiter.WithRule(ratelimiter.EndpointSearch, tt.rule))
			assert.ErrorIs(t, err, ratelimiter.ErrInvalidRule)
		})
	}
}

func TestLimiter_UnknownEndpoint(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t)

	_, err := limiter.Allow(context.Background(), ratelimiter.Endpoint("checkout"), "user-1")
	assert.ErrorIs(t, err, ratelimiter.ErrUnknownEndpoint)
}

func TestLimiter_AllowUntilExhausted(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t, ratelimiter.WithRule(ratelimiter.EndpointSeatmap,
		ratelimiter.Rule{Burst: 3, RefillTokens: 1, RefillEvery: time.Hour}))

	ctx := context.Background()

	for i := range 3 {
		decision, err := limiter.Allow(ctx, ratelimiter.EndpointSeatmap, "203.0.113.9")
		require.NoError(t, err)
		assert.True(t, decision.Allowed(), "request %d should be allowed", i+1)
	}

	decision, err := limiter.Allow(ctx, ratelimiter.EndpointSeatmap, "203.0.113.9")
	require.NoError(t, err)
	assert.False(t, decision.Allowed())
	assert.Positive(t, decision.RetryAfter())
}

func TestLimiter_EndpointsAreIndependent(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t, ratelimiter.WithRule(ratelimiter.EndpointSeatmap,
		ratelimiter.Rule{Burst: 1, RefillTokens: 1, RefillEvery: time.Hour}))

	ctx := context.Background()
	const actor = "user-1"

	first, err := limiter.Allow(ctx, ratelimiter.EndpointSeatmap, actor)
	require.NoError(t, err)
	require.True(t, first.Allowed())

	blocked, err := limiter.Allow(ctx, ratelimiter.EndpointSeatmap, actor)
	require.NoError(t, err)
	assert.False(t, blocked.Allowed())

	// The same actor's search bucket is untouched.
	search, err := limiter.Allow(ctx, ratelimiter.EndpointSearch, actor)
	require.NoError(t, err)
	assert.True(t, search.Allowed())
}

func TestLimiter_ActorsAreIndependent(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t, ratelimiter.WithRule(ratelimiter.EndpointBookmark,
		ratelimiter.Rule{Burst: 1, RefillTokens: 1, RefillEvery: time.Hour}))

	ctx := context.Background()

	first, err := limiter.Allow(ctx, ratelimiter.EndpointBookmark, "user-1")
	require.NoError(t, err)
	require.True(t, first.Allowed())

	blocked, err := limiter.Allow(ctx, ratelimiter.EndpointBookmark, "user-1")
	require.NoError(t, err)
	assert.False(t, blocked.Allowed())

	other, err := limiter.Allow(ctx, ratelimiter.EndpointBookmark, "user-2")
	require.NoError(t, err)
	assert.True(t, other.Allowed())
}

func TestLimiter_OversizedActorsKeepOneBucket(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t, ratelimiter.WithRule(ratelimiter.EndpointSearch,
		ratelimiter.Rule{Burst: 1, RefillTokens: 1, RefillEvery: time.Hour}))

	ctx := context.Background()
	actor := strings.Repeat("x", 200)

	first, err := limiter.Allow(ctx, ratelimiter.EndpointSearch, actor)
	require.NoError(t, err)
	require.True(t, first.Allowed())

	// The hashed key must be stable: the same oversized actor hits the same
	// bucket, while a different oversized actor gets its own.
	blocked, err := limiter.Allow(ctx, ratelimiter.EndpointSearch, actor)
	require.NoError(t, err)
	assert.False(t, blocked.Allowed())

	other, err := limiter.Allow(ctx, ratelimiter.EndpointSearch, strings.Repeat("y", 200))
	require.NoError(t, err)
	assert.True(t, other.Allowed())
}

func TestLimiter_AllowN(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t)

	ctx := context.Background()

	decision, err := limiter.AllowN(ctx, ratelimiter.EndpointSeatmap, "user-1", 5)
	require.NoError(t, err)
	assert.True(t, decision.Allowed())
	assert.Equal(t, 0, decision.Remaining)

	_, err = limiter.AllowN(ctx, ratelimiter.EndpointSeatmap, "user-1", 0)
	assert.ErrorIs(t, err, ratelimiter.ErrInvalidTokenCount)
}

func TestLimiter_PeekDoesNotConsume(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t)

	ctx := context.Background()

	status, err := limiter.Peek(ctx, ratelimiter.EndpointSeatmap, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, status.Remaining)

	status, err = limiter.Peek(ctx, ratelimiter.EndpointSeatmap, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 5, status.Remaining)
}

func TestLimiter_Reset(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t, ratelimiter.WithRule(ratelimiter.EndpointSeatmap,
		ratelimiter.Rule{Burst: 1, RefillTokens: 1, RefillEvery: time.Hour}))

	ctx := context.Background()

	_, err := limiter.Allow(ctx, ratelimiter.EndpointSeatmap, "user-1")
	require.NoError(t, err)

	require.NoError(t, limiter.Reset(ctx, ratelimiter.EndpointSeatmap, "user-1"))

	decision, err := limiter.Allow(ctx, ratelimiter.EndpointSeatmap, "user-1")
	require.NoError(t, err)
	assert.True(t, decision.Allowed())
}

func TestLimiter_Refill(t *testing.T) {
	t.Parallel()

	limiter, _ := newLimiter(t, ratelimiter.WithRule(ratelimiter.EndpointSearch,
		ratelimiter.Rule{Burst: 1, RefillTokens: 1, RefillEvery: 10 * time.Millisecond}))

	ctx := context.Background()

	decision, err := limiter.Allow(ctx, ratelimiter.EndpointSearch, "user-1")
	require.NoError(t, err)
	require.True(t, decision.Allowed())

	time.Sleep(25 * time.Millisecond)

	decision, err = limiter.Allow(ctx, ratelimiter.EndpointSearch, "user-1")
	require.NoError(t, err)
	assert.True(t, decision.Allowed())
}

func TestLimiter_ConcurrentConsumption(t *testing.T) {
	t.Parallel()

	const burst = 50

	limiter, _ := newLimiter(t, ratelimiter.WithRule(ratelimiter.EndpointSearch,
		ratelimiter.Rule{Burst: burst, RefillTokens: 1, RefillEvery: time.Hour}))

	ctx := context.Background()

	var wg sync.WaitGroup
	allowed := make(chan struct{}, burst*2)

	for range burst * 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			decision, err := limiter.Allow(ctx, ratelimiter.EndpointSearch, "shared")
			if err == nil && decision.Allowed() {
				allowed <- struct{}{}
			}
		}()
	}

	wg.Wait()
	close(allowed)

	assert.Len(t, allowed, burst)
}
