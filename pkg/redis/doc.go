// Package redis provides Redis connection management for the burst rate
// limiter's distributed store.
//
// Monthly and lifetime quotas are durable and live in MongoDB; Redis only
// holds short-window token-bucket state shared across edge processes, so a
// Redis outage degrades burst smoothing without affecting quota accounting.
//
//	var cfg redis.Config
//	config.MustLoad(&cfg)
//
//	client, err := redis.Connect(ctx, cfg)
package redis
