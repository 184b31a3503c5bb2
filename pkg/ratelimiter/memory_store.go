package ratelimiter

import (
	"context"
	"sync"
	"time"
)

// entry is one bucket's state plus the moment stored state stops carrying
// information: past expiresAt an untouched bucket would be full again, so
// absence and presence are equivalent. The same horizon drives the PEXPIRE
// in the Redis store.
type entry struct {
	remaining  int
	refilledAt time.Time
	expiresAt  time.Time
}

// MemoryStore implements the Store interface in process memory. Suitable
// for single-instance deployments; multi-instance edges should use the
// Redis store so all replicas share bucket state.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*entry

	sweepEvery time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithSweepInterval sets how often expired buckets are dropped. Zero
// disables the janitor.
func WithSweepInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.sweepEvery = interval
	}
}

// NewMemoryStore creates an in-memory store with a background janitor.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:    make(map[string]*entry),
		sweepEvery: 5 * time.Minute,
		stop:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ms)
	}

	if ms.sweepEvery > 0 {
		go ms.janitor()
	}
	return ms
}

// Take refills the bucket by whole elapsed intervals, then consumes. The
// arithmetic matches the Redis store's script so a deployment can switch
// backends without changing observed behavior.
func (ms *MemoryStore) Take(_ context.Context, key string, tokens int, rule Rule) (TokenState, error) {
	now := time.Now()

	ms.mu.Lock()
	defer ms.mu.Unlock()

	e, ok := ms.buckets[key]
	if !ok || !e.expiresAt.After(now) {
		e = &entry{remaining: rule.Burst, refilledAt: now}
		ms.buckets[key] = e
	} else {
		intervals := int(now.Sub(e.refilledAt) / rule.RefillEvery)
		if maxIntervals := rule.Burst/rule.RefillTokens + 1; intervals > maxIntervals {
			intervals = maxIntervals
		}
		if intervals > 0 {
			e.remaining = min(e.remaining+intervals*rule.RefillTokens, rule.Burst)
			e.refilledAt = now
		}
	}

	e.remaining -= tokens
	e.expiresAt = now.Add(rule.fullAgainIn())

	return TokenState{Remaining: e.remaining, RefilledAt: e.refilledAt}, nil
}

func (ms *MemoryStore) Reset(_ context.Context, key string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.buckets, key)
	return nil
}

func (ms *MemoryStore) janitor() {
	ticker := time.NewTicker(ms.sweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.dropExpired()
		case <-ms.stop:
			return
		}
	}
}

func (ms *MemoryStore) dropExpired() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := time.Now()
	for key, e := range ms.buckets {
		if !e.expiresAt.After(now) {
			delete(ms.buckets, key)
		}
	}
}

// Close stops the janitor. Safe to call multiple times.
func (ms *MemoryStore) Close() {
	ms.stopOnce.Do(func() { close(ms.stop) })
}
