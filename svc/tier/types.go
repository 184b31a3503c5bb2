package tier

import (
	"strings"
	"time"
)

// Well-known tier names. The policy table may define others; these are the
// ones the service logic refers to directly.
const (
	Free     = "FREE"
	Pro      = "PRO"
	Business = "BUSINESS"
)

// Unlimited marks a limit with no cap (-1).
const Unlimited = -1

// Definition describes a named tier's limits within a region. Definitions are
// administered out of band and are read-only to this module.
type Definition struct {
	ID                 string    `bson:"_id,omitempty"`
	TierName           string    `bson:"tierName"`
	MaxBookmarks       int       `bson:"maxBookmarks"`       // per month, Unlimited = no cap
	MaxSeatmapCalls    int       `bson:"maxSeatmapCalls"`    // per month, Unlimited = no cap
	CanDowngrade       bool      `bson:"canDowngrade"`       // false for one-time-purchase tiers
	PubliclyAccessible bool      `bson:"publiclyAccessible"` // listed on the public pricing page
	Active             bool      `bson:"active"`
	Region             string    `bson:"region"`
	DisplayName        string    `bson:"displayName,omitempty"`
	Description        string    `bson:"description,omitempty"`
	CreatedAt          time.Time `bson:"createdAt,omitempty"`
	UpdatedAt          time.Time `bson:"updatedAt,omitempty"`
}

// Name returns the upper-cased tier name used as the lookup key.
func (d Definition) Name() string {
	return Normalize(d.TierName)
}

// BookmarksUnlimited reports whether the tier has no monthly bookmark cap.
func (d Definition) BookmarksUnlimited() bool {
	return d.MaxBookmarks < 0
}

// SeatmapCallsUnlimited reports whether the tier has no monthly seat-map cap.
func (d Definition) SeatmapCallsUnlimited() bool {
	return d.MaxSeatmapCalls < 0
}

// Normalize upper-cases a tier name for case-insensitive lookup.
func Normalize(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
