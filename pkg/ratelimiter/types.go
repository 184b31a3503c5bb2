package ratelimiter

import "time"

// Endpoint names one metered surface of the product. Each endpoint carries
// its own burst rule, and every actor (a user ID, or a client IP for
// guests) owns one bucket per endpoint.
type Endpoint string

const (
	EndpointSearch   Endpoint = "search"
	EndpointSeatmap  Endpoint = "seatmap"
	EndpointBookmark Endpoint = "bookmark"
)

// Rule is the token bucket shape for one endpoint: a bucket starts at Burst
// tokens and regains RefillTokens every RefillEvery until full again.
type Rule struct {
	Burst        int
	RefillTokens int
	RefillEvery  time.Duration
}

// fullAgainIn is how long an untouched bucket takes to refill completely.
// Past that horizon stored state carries no information and can be dropped.
func (r Rule) fullAgainIn() time.Duration {
	intervals := r.Burst/r.RefillTokens + 1
	return time.Duration(intervals) * r.RefillEvery
}

// TokenState is a bucket snapshot after a take. Remaining goes negative
// when the take was larger than the bucket held; RefilledAt is when tokens
// were last added.
type TokenState struct {
	Remaining  int
	RefilledAt time.Time
}

// Decision is the outcome of metering one request.
type Decision struct {
	Endpoint  Endpoint
	Limit     int       // Bucket capacity for this endpoint
	Remaining int       // Tokens left; negative means denied
	ResetAt   time.Time // When the next refill lands
}

// Allowed reports whether the request may proceed.
func (d *Decision) Allowed() bool {
	return d.Remaining >= 0
}

// RetryAfter returns how long a denied caller should wait. Zero when the
// request was allowed.
func (d *Decision) RetryAfter() time.Duration {
	if d.Allowed() {
		return 0
	}
	return time.Until(d.ResetAt)
}

// Config carries the burst rules for the metered endpoints. These smooth
// short spikes only; the durable monthly and lifetime caps live in the
// quota services.
type Config struct {
	SearchBurst         int           `env:"RATELIMIT_SEARCH_BURST" envDefault:"30"`          // SearchBurst is the flight search bucket capacity.
	SearchRefillEvery   time.Duration `env:"RATELIMIT_SEARCH_REFILL_EVERY" envDefault:"1s"`   // SearchRefillEvery is the search token refill interval.
	SeatmapBurst        int           `env:"RATELIMIT_SEATMAP_BURST" envDefault:"5"`          // SeatmapBurst is the seat map bucket capacity.
	SeatmapRefillEvery  time.Duration `env:"RATELIMIT_SEATMAP_REFILL_EVERY" envDefault:"2s"`  // SeatmapRefillEvery is the seat map token refill interval.
	BookmarkBurst       int           `env:"RATELIMIT_BOOKMARK_BURST" envDefault:"10"`        // BookmarkBurst is the bookmark bucket capacity.
	BookmarkRefillEvery time.Duration `env:"RATELIMIT_BOOKMARK_REFILL_EVERY" envDefault:"1s"` // BookmarkRefillEvery is the bookmark token refill interval.
}

// Rules expands the config into per-endpoint rules, one token per interval.
func (c Config) Rules() map[Endpoint]Rule {
	return map[Endpoint]Rule{
		EndpointSearch:   {Burst: c.SearchBurst, RefillTokens: 1, RefillEvery: c.SearchRefillEvery},
		EndpointSeatmap:  {Burst: c.SeatmapBurst, RefillTokens: 1, RefillEvery: c.SeatmapRefillEvery},
		EndpointBookmark: {Burst: c.BookmarkBurst, RefillTokens: 1, RefillEvery: c.BookmarkRefillEvery},
	}
}
