package usage

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// monthKeyLayout formats a calendar month as "YYYY-MM".
const monthKeyLayout = "2006-01"

// Record holds one user's consumption counters for one calendar month (UTC).
// A missing record is equivalent to all-zero counts; counters never decrease
// within a month.
type Record struct {
	UserID              uuid.UUID
	MonthYear           string // "YYYY-MM", UTC
	BookmarksCreated    int
	SeatmapRequestsUsed int
}

// NewRecord returns a zeroed record for the user's current month.
func NewRecord(userID uuid.UUID) Record {
	return Record{
		UserID:    userID,
		MonthYear: CurrentMonth(),
	}
}

// MonthKey formats t's calendar month in UTC.
func MonthKey(t time.Time) string {
	return t.UTC().Format(monthKeyLayout)
}

// CurrentMonth returns the month key for the current moment.
func CurrentMonth() string {
	return MonthKey(time.Now())
}

// Remaining computes how many actions remain under limit given used.
// Unlimited tiers (negative limit) report the maximum representable integer.
func Remaining(limit, used int) int {
	if limit < 0 {
		return math.MaxInt
	}
	return max(0, limit-used)
}
