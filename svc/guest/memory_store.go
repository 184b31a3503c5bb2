package guest

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements the Store interface in process memory with the same
// cap and expiry semantics as the Mongo store. Intended for tests and local
// development.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record
	now     func() time.Time
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithClock overrides the store's clock. Tests use it to age records past
// their expiry without sleeping.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewMemoryStore creates an empty in-memory guest access store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		records: make(map[string]Record),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Second) },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, ip string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[ip]
	if !ok || rec.Expired(s.now()) {
		return Record{}, false, nil
	}
	return rec, true, nil
}

func (s *MemoryStore) CanMakeSeatmapRequest(ctx context.Context, ip string) bool {
	return s.Remaining(ctx, ip) > 0
}

func (s *MemoryStore) Remaining(ctx context.Context, ip string) int {
	rec, found, err := s.Get(ctx, ip)
	if err != nil {
		return 0
	}
	if !found {
		return LifetimeSeatmapCap
	}
	return rec.Remaining()
}

func (s *MemoryStore) RecordSeatmapRequest(ctx context.Context, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	rec, ok := s.records[ip]
	if !ok || rec.Expired(now) {
		rec = Record{
			IPAddress:   ip,
			FirstAccess: now,
			ExpiresAt:   expiryFrom(now),
		}
	}

	if rec.SeatmapRequestsUsed >= LifetimeSeatmapCap {
		return ErrLimitReached
	}

	rec.SeatmapRequestsUsed++
	last := now
	rec.LastSeatmapRequest = &last
	s.records[ip] = rec
	return nil
}
