package guest

import (
	"context"
)

// Store persists per-IP lifetime seat-map counters with TTL expiry.
//
// Checks follow the fail-safe-deny policy: a store error answers "no" rather
// than propagating. RecordSeatmapRequest is a conditional atomic increment;
// concurrent requests cannot push the counter past the cap.
type Store interface {
	// Get returns the record for ip. found is false for an absent or expired
	// record; expiry is checked explicitly rather than trusting store-side
	// TTL reclamation timing.
	Get(ctx context.Context, ip string) (rec Record, found bool, err error)

	// CanMakeSeatmapRequest reports whether ip has lifetime cap left.
	// Returns false on store errors.
	CanMakeSeatmapRequest(ctx context.Context, ip string) bool

	// Remaining reports how many free requests ip has left. Absent and
	// expired records count as fresh; store errors report zero.
	Remaining(ctx context.Context, ip string) int

	// RecordSeatmapRequest increments ip's counter and refreshes the
	// last-request timestamp, creating the record on first use with a
	// six-month expiry. Returns ErrLimitReached without incrementing when
	// the cap is already consumed. An expired record is restarted as a
	// fresh cycle.
	RecordSeatmapRequest(ctx context.Context, ip string) error
}
