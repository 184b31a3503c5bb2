package guest

import (
	"time"
)

// LifetimeSeatmapCap is the fixed number of seat-map fetches an
// unregistered IP gets. Lifetime, not monthly.
const LifetimeSeatmapCap = 2

// recordLifetimeMonths is how long a guest record lives from first access
// before the store reclaims it and the IP starts a fresh cycle.
const recordLifetimeMonths = 6

// denialMessage is shown when a guest exhausts the lifetime cap.
const denialMessage = "You have used your 2 free seat map views. Create a free account to keep exploring seat maps."

// Record tracks one client IP's lifetime seat-map consumption.
type Record struct {
	IPAddress           string
	SeatmapRequestsUsed int
	FirstAccess         time.Time
	LastSeatmapRequest  *time.Time // nil until the first recorded request
	ExpiresAt           time.Time
}

// Expired reports whether the record's TTL has elapsed at now. An expired
// record is treated as absent even if the store has not physically reclaimed
// it yet; background TTL deletion timing is not trusted.
func (r Record) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}

// Remaining returns how many seat-map requests the record still allows.
func (r Record) Remaining() int {
	return max(0, LifetimeSeatmapCap-r.SeatmapRequestsUsed)
}

// expiryFrom computes a record's expiry from its first access.
func expiryFrom(firstAccess time.Time) time.Time {
	return firstAccess.AddDate(0, recordLifetimeMonths, 0)
}

// DenialMessage returns the user-facing text for a guest who has exhausted
// the free cap. The text names the cap and prompts registration.
func DenialMessage() string {
	return denialMessage
}
