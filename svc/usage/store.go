package usage

import (
	"context"

	"github.com/google/uuid"
)

// Store persists per-user-per-month usage records.
//
// The increments are conditional atomic operations: the counter only
// advances when the resulting value stays within limit, in a single store
// round trip. Two concurrent calls racing for the last slot cannot both
// succeed. A negative limit means unlimited and always increments.
type Store interface {
	// GetOrCreate returns the user's record for the current month. It never
	// fails: a store error or missing record yields a zeroed in-memory
	// record, which is the canonical representation of "no usage yet".
	GetOrCreate(ctx context.Context, userID uuid.UUID) Record

	// Save persists the record, overwriting any existing one for its
	// (user, month) key.
	Save(ctx context.Context, rec Record) error

	// IncrementBookmarks advances the bookmark counter by one if the result
	// stays within limit. Returns ErrLimitReached without incrementing when
	// the counter is already at the cap.
	IncrementBookmarks(ctx context.Context, userID uuid.UUID, limit int) error

	// IncrementSeatmapRequests advances the seat-map counter by one if the
	// result stays within limit.
	IncrementSeatmapRequests(ctx context.Context, userID uuid.UUID, limit int) error

	// RemainingBookmarks reports how many bookmarks the user may still create
	// this month under limit.
	RemainingBookmarks(ctx context.Context, userID uuid.UUID, limit int) int
}
