package tier_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farescope/quotakit/svc/tier"
)

type failingSource struct{}

func (failingSource) Load(ctx context.Context) ([]tier.Definition, error) {
	return nil, errors.New("scan throttled")
}

func testDefinitions() []tier.Definition {
	return []tier.Definition{
		{TierName: "FREE", MaxBookmarks: 0, MaxSeatmapCalls: 5, CanDowngrade: true, PubliclyAccessible: true, Active: true, Region: "global"},
		{TierName: "PRO", MaxBookmarks: 50, MaxSeatmapCalls: 100, CanDowngrade: true, PubliclyAccessible: true, Active: true, Region: "global"},
		{TierName: "BUSINESS", MaxBookmarks: tier.Unlimited, MaxSeatmapCalls: tier.Unlimited, Active: true, Region: "global"},
	}
}

func TestStore_Resolve(t *testing.T) {
	t.Parallel()

	store := tier.NewStore(context.Background(), tier.NewInMemSource(testDefinitions()...))
	require.False(t, store.Failed())

	def, err := store.Resolve("PRO")
	require.NoError(t, err)
	assert.Equal(t, 50, def.MaxBookmarks)
	assert.Equal(t, 100, def.MaxSeatmapCalls)
}

func TestStore_ResolveIsCaseInsensitive(t *testing.T) {
	t.Parallel()

	store := tier.NewStore(context.Background(), tier.NewInMemSource(testDefinitions()...))

	for _, name := range []string{"pro", "Pro", "PRO", " pro "} {
		def, err := store.Resolve(name)
		require.NoError(t, err, "name %q", name)
		assert.Equal(t, "PRO", def.Name())
	}
}

func TestStore_ResolveUnknownTier(t *testing.T) {
	t.Parallel()

	store := tier.NewStore(context.Background(), tier.NewInMemSource(testDefinitions()...))

	_, err := store.Resolve("PLATINUM")
	assert.ErrorIs(t, err, tier.ErrPolicyUnavailable)
}

func TestStore_FailedLoadDeniesEverything(t *testing.T) {
	t.Parallel()

	store := tier.NewStore(context.Background(), failingSource{})
	require.True(t, store.Failed())

	_, err := store.Resolve("FREE")
	assert.ErrorIs(t, err, tier.ErrPolicyUnavailable)
	assert.ErrorIs(t, err, tier.ErrLoadFailed)
}

func TestStore_EmptyTableIsFailed(t *testing.T) {
	t.Parallel()

	store := tier.NewStore(context.Background(), tier.NewInMemSource())
	require.True(t, store.Failed())

	_, err := store.Resolve("FREE")
	assert.ErrorIs(t, err, tier.ErrPolicyUnavailable)
}

func TestStore_InactiveRowsAreIgnored(t *testing.T) {
	t.Parallel()

	store := tier.NewStore(context.Background(), tier.NewInMemSource(
		tier.Definition{TierName: "FREE", MaxBookmarks: 0, Active: true, Region: "global"},
		tier.Definition{TierName: "LEGACY", MaxBookmarks: 10, Active: false, Region: "global"},
	))
	require.False(t, store.Failed())

	_, err := store.Resolve("LEGACY")
	assert.ErrorIs(t, err, tier.ErrPolicyUnavailable)
}

func TestStore_DuplicateActiveRowsLatestWins(t *testing.T) {
	t.Parallel()

	older := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := older.AddDate(0, 3, 0)

	store := tier.NewStore(context.Background(), tier.NewInMemSource(
		tier.Definition{TierName: "PRO", MaxBookmarks: 25, Active: true, Region: "global", UpdatedAt: older},
		tier.Definition{TierName: "PRO", MaxBookmarks: 50, Active: true, Region: "global", UpdatedAt: newer},
	))

	def, err := store.Resolve("PRO")
	require.NoError(t, err)
	assert.Equal(t, 50, def.MaxBookmarks)
}

func TestStore_Definitions(t *testing.T) {
	t.Parallel()

	store := tier.NewStore(context.Background(), tier.NewInMemSource(testDefinitions()...))

	defs := store.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "BUSINESS", defs[0].Name())
	assert.Equal(t, "FREE", defs[1].Name())
	assert.Equal(t, "PRO", defs[2].Name())
}

func TestDefinition_UnlimitedFlags(t *testing.T) {
	t.Parallel()

	def := tier.Definition{MaxBookmarks: tier.Unlimited, MaxSeatmapCalls: 10}
	assert.True(t, def.BookmarksUnlimited())
	assert.False(t, def.SeatmapCallsUnlimited())
}
