// Package usage persists per-user-per-month consumption counters for the
// billable operations: bookmark creation and seat-map fetches.
//
// Records are keyed by (userId, monthYear) with months formatted "YYYY-MM"
// in UTC. A missing record means zero usage; records are created lazily on
// first increment and may be aged out by the store after a retention window.
//
// Counter updates are single conditional writes (increment only while the
// result stays within the tier limit), so two concurrent requests racing for
// the last slot in a month cannot both succeed. Reads are deliberately
// forgiving: GetOrCreate never fails, falling back to a zeroed record so
// availability problems in the store surface as conservative quota answers
// rather than request errors.
package usage
