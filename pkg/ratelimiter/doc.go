// Package ratelimiter meters request bursts on the product's metered
// endpoints: flight search, seat map fetch, and bookmark creation.
//
// Each endpoint carries a token bucket rule, and each actor (user ID or
// guest client IP) owns one bucket per endpoint. This is distinct from the
// quota services: quotas are durable monthly/lifetime caps in MongoDB,
// while the limiter only smooths spikes over seconds and may lose state on
// restart without correctness impact.
//
// Two stores are provided: MemoryStore for single-instance deployments and
// RedisStore for shared state across replicas. Both apply the same integer
// interval refill arithmetic — the Redis store inside a Lua script so the
// step is atomic under concurrency.
//
// # Usage
//
//	var cfg ratelimiter.Config
//	config.MustLoad(&cfg)
//
//	limiter, err := ratelimiter.New(ratelimiter.NewRedisStore(redisClient), cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	guarded := ratelimiter.Guard(limiter, ratelimiter.EndpointSeatmap, nil)(seatmapHandler)
package ratelimiter
