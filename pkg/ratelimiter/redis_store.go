package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript implements the refill-then-take step atomically server-side,
// so concurrent edge processes sharing one Redis never observe a stale
// token count. The arithmetic mirrors MemoryStore.Take.
//
// KEYS[1] bucket key
// ARGV[1] burst (bucket capacity)
// ARGV[2] refill tokens per interval
// ARGV[3] refill interval (ms)
// ARGV[4] tokens to take
// ARGV[5] now (unix ms)
//
// Returns {remaining, refilled_at_ms}.
var takeScript = redis.NewScript(`
local burst = tonumber(ARGV[1])
local refill = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local take = tonumber(ARGV[4])
local now = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'remaining', 'refilled_at')
local remaining = tonumber(state[1])
local refilled_at = tonumber(state[2])

if remaining == nil then
	remaining = burst
	refilled_at = now
end

local max_intervals = math.floor(burst / refill) + 1
local intervals = math.min(math.floor((now - refilled_at) / interval), max_intervals)

if intervals > 0 then
	remaining = math.min(remaining + intervals * refill, burst)
	refilled_at = now
end

remaining = remaining - take

redis.call('HSET', KEYS[1], 'remaining', remaining, 'refilled_at', refilled_at)
-- Past this horizon an untouched bucket is full again, so the state
-- carries no information.
redis.call('PEXPIRE', KEYS[1], max_intervals * interval)

return {remaining, refilled_at}
`)

// RedisStore implements the Store interface on a shared Redis instance so
// bucket state is consistent across processes.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides the default "ratelimit:" key prefix.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		if prefix != "" {
			rs.keyPrefix = prefix
		}
	}
}

// NewRedisStore creates a Redis-backed store.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client:    client,
		keyPrefix: "ratelimit:",
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Take refills the bucket and consumes tokens in one atomic script call.
func (rs *RedisStore) Take(ctx context.Context, key string, tokens int, rule Rule) (TokenState, error) {
	res, err := takeScript.Run(ctx, rs.client, []string{rs.keyPrefix + key},
		rule.Burst,
		rule.RefillTokens,
		rule.RefillEvery.Milliseconds(),
		tokens,
		time.Now().UnixMilli(),
	).Int64Slice()
	if err != nil {
		return TokenState{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(res) != 2 {
		return TokenState{}, fmt.Errorf("%w: unexpected script result %v", ErrStoreUnavailable, res)
	}

	return TokenState{
		Remaining:  int(res[0]),
		RefilledAt: time.UnixMilli(res[1]),
	}, nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.keyPrefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
