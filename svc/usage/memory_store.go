package usage

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore implements the Store interface in process memory with the same
// conditional-increment semantics as the Mongo store. Intended for tests and
// local development.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]Record // key: userId|monthYear
}

// NewMemoryStore creates an empty in-memory usage store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func key(userID uuid.UUID, monthYear string) string {
	return userID.String() + "|" + monthYear
}

func (s *MemoryStore) GetOrCreate(ctx context.Context, userID uuid.UUID) Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := NewRecord(userID)
	if existing, ok := s.records[key(userID, rec.MonthYear)]; ok {
		return existing
	}
	return rec
}

func (s *MemoryStore) Save(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key(rec.UserID, rec.MonthYear)] = rec
	return nil
}

func (s *MemoryStore) IncrementBookmarks(ctx context.Context, userID uuid.UUID, limit int) error {
	return s.increment(ctx, userID, limit, func(rec *Record) *int {
		return &rec.BookmarksCreated
	})
}

func (s *MemoryStore) IncrementSeatmapRequests(ctx context.Context, userID uuid.UUID, limit int) error {
	return s.increment(ctx, userID, limit, func(rec *Record) *int {
		return &rec.SeatmapRequestsUsed
	})
}

func (s *MemoryStore) increment(ctx context.Context, userID uuid.UUID, limit int, field func(*Record) *int) error {
	if limit == 0 {
		return ErrLimitReached
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := NewRecord(userID)
	k := key(userID, rec.MonthYear)
	if existing, ok := s.records[k]; ok {
		rec = existing
	}

	counter := field(&rec)
	if limit > 0 && *counter >= limit {
		return ErrLimitReached
	}

	*counter++
	s.records[k] = rec
	return nil
}

func (s *MemoryStore) RemainingBookmarks(ctx context.Context, userID uuid.UUID, limit int) int {
	rec := s.GetOrCreate(ctx, userID)
	return Remaining(limit, rec.BookmarksCreated)
}
