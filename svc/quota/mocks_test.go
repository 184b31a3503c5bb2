package quota_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/farescope/quotakit/svc/guest"
	"github.com/farescope/quotakit/svc/tier"
	"github.com/farescope/quotakit/svc/usage"
)

// stubResolver resolves tiers from a fixed map, or fails wholesale.
type stubResolver struct {
	defs map[string]tier.Definition
	err  error
}

func (r stubResolver) Resolve(name string) (tier.Definition, error) {
	if r.err != nil {
		return tier.Definition{}, r.err
	}
	def, ok := r.defs[tier.Normalize(name)]
	if !ok {
		return tier.Definition{}, tier.ErrPolicyUnavailable
	}
	return def, nil
}

func testResolver() stubResolver {
	return stubResolver{defs: map[string]tier.Definition{
		"FREE":     {TierName: "FREE", MaxBookmarks: 0, MaxSeatmapCalls: 5, Active: true},
		"PRO":      {TierName: "PRO", MaxBookmarks: 3, MaxSeatmapCalls: 10, Active: true},
		"BUSINESS": {TierName: "BUSINESS", MaxBookmarks: tier.Unlimited, MaxSeatmapCalls: tier.Unlimited, Active: true},
	}}
}

// failingUsageStore errors on every write and reads as empty.
type failingUsageStore struct {
	err error
}

func (s failingUsageStore) GetOrCreate(ctx context.Context, userID uuid.UUID) usage.Record {
	return usage.NewRecord(userID)
}

func (s failingUsageStore) Save(ctx context.Context, rec usage.Record) error { return s.err }

func (s failingUsageStore) IncrementBookmarks(ctx context.Context, userID uuid.UUID, limit int) error {
	return s.err
}

func (s failingUsageStore) IncrementSeatmapRequests(ctx context.Context, userID uuid.UUID, limit int) error {
	return s.err
}

func (s failingUsageStore) RemainingBookmarks(ctx context.Context, userID uuid.UUID, limit int) int {
	// Mirrors the real stores: unreadable usage answers conservatively.
	return 0
}

// failingGuestStore errors on reads and denies checks.
type failingGuestStore struct {
	err error
}

func (s failingGuestStore) Get(ctx context.Context, ip string) (guest.Record, bool, error) {
	return guest.Record{}, false, s.err
}

func (s failingGuestStore) CanMakeSeatmapRequest(ctx context.Context, ip string) bool { return false }

func (s failingGuestStore) Remaining(ctx context.Context, ip string) int { return 0 }

func (s failingGuestStore) RecordSeatmapRequest(ctx context.Context, ip string) error { return s.err }
