// Package tier resolves tier names (FREE, PRO, BUSINESS, ...) to their
// policy definitions: monthly bookmark and seat-map limits, downgrade
// permission, and visibility flags.
//
// The policy table is scanned once at construction and cached in memory for
// the process lifetime; definitions are administered out of band and
// reloaded only on restart. The store is deliberately fail-closed: a failed
// or empty scan leaves it permanently failed and every Resolve call denies.
// A tier table that cannot be read must never be read as "unlimited".
//
//	src := tier.NewMongoSource(db, "global")
//	store := tier.NewStore(ctx, src, tier.WithLogger(log))
//
//	def, err := store.Resolve("pro") // case-insensitive
package tier
