package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements WindowStore and BucketStore on Redis, for deployments
// where several instances must share one rate budget. Sliding windows are
// sorted sets scored by timestamp; buckets are hashes holding the token count
// and last refill instant. All read-modify-write sequences run as Lua scripts
// so concurrent instances cannot interleave.
type RedisStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisStore creates a Redis-backed store. keyPrefix namespaces all keys
// and may be empty.
func NewRedisStore(client redis.UniversalClient, keyPrefix string) (*RedisStore, error) {
	if client == nil {
		return nil, ErrStoreRequired
	}
	if keyPrefix == "" {
		keyPrefix = "ratelimit"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}, nil
}

// addIfAllowedScript prunes entries below the cutoff, then adds the new
// member when the window has capacity. Returns {allowed, count, oldest}.
var addIfAllowedScript = redis.NewScript(`
local cutoff = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])
local member = ARGV[5]

redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', cutoff)
local count = redis.call('ZCARD', KEYS[1])
local allowed = 0
if count < limit then
  redis.call('ZADD', KEYS[1], now, member)
  redis.call('PEXPIRE', KEYS[1], ttl)
  count = count + 1
  allowed = 1
end

local oldest = 0
local first = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
if #first > 0 then
  oldest = tonumber(first[2])
end

return {allowed, count, tostring(oldest)}
`)

// countInWindowScript prunes and returns {count, oldest}.
var countInWindowScript = redis.NewScript(`
local cutoff = tonumber(ARGV[1])

redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', cutoff)
local count = redis.call('ZCARD', KEYS[1])

local oldest = 0
local first = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
if #first > 0 then
  oldest = tonumber(first[2])
end

return {count, tostring(oldest)}
`)

// consumeTokenScript refills the bucket for the elapsed time, capped at
// capacity, then consumes one token when available. Returns {allowed, tokens}.
var consumeTokenScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])
local consume = tonumber(ARGV[5])

local state = redis.call('HMGET', KEYS[1], 'tokens', 'last')
local tokens = capacity
local last = now
if state[1] then
  tokens = tonumber(state[1])
  last = tonumber(state[2])
end

local elapsed = (now - last) / 1000.0
if elapsed > 0 then
  tokens = math.min(capacity, tokens + elapsed * refill)
end

local allowed = 0
if consume == 1 and tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end

redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'last', now)
redis.call('PEXPIRE', KEYS[1], ttl)

return {allowed, tostring(tokens)}
`)

// AddIfAllowed implements WindowStore.
func (s *RedisStore) AddIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int, time.Time, error) {
	res, err := addIfAllowedScript.Run(ctx, s.client, []string{s.windowKey(key)},
		now.Add(-window).UnixMilli(),
		now.UnixMilli(),
		limit,
		window.Milliseconds(),
		uuid.NewString(),
	).Slice()
	if err != nil {
		return false, 0, time.Time{}, fmt.Errorf("ratelimit: sliding window script: %w", err)
	}

	allowed, count, oldest, err := parseWindowReply(res)
	if err != nil {
		return false, 0, time.Time{}, err
	}
	return allowed, count, oldest, nil
}

// CountInWindow implements WindowStore.
func (s *RedisStore) CountInWindow(ctx context.Context, key string, now time.Time, window time.Duration) (int, time.Time, error) {
	res, err := countInWindowScript.Run(ctx, s.client, []string{s.windowKey(key)},
		now.Add(-window).UnixMilli(),
	).Slice()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("ratelimit: window count script: %w", err)
	}
	if len(res) != 2 {
		return 0, time.Time{}, fmt.Errorf("ratelimit: unexpected reply length %d", len(res))
	}

	count, ok := res[0].(int64)
	if !ok {
		return 0, time.Time{}, fmt.Errorf("ratelimit: unexpected count type %T", res[0])
	}
	oldest, err := parseMilliString(res[1])
	if err != nil {
		return 0, time.Time{}, err
	}
	return int(count), oldest, nil
}

// ConsumeToken implements BucketStore.
func (s *RedisStore) ConsumeToken(ctx context.Context, key string, now time.Time, capacity, refillPerSec float64) (bool, float64, error) {
	return s.runBucketScript(ctx, key, now, capacity, refillPerSec, true)
}

// PeekTokens implements BucketStore.
func (s *RedisStore) PeekTokens(ctx context.Context, key string, now time.Time, capacity, refillPerSec float64) (float64, error) {
	_, tokens, err := s.runBucketScript(ctx, key, now, capacity, refillPerSec, false)
	return tokens, err
}

// Remove implements both store interfaces.
func (s *RedisStore) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.windowKey(key), s.bucketKey(key)).Err(); err != nil {
		return fmt.Errorf("ratelimit: delete keys: %w", err)
	}
	return nil
}

func (s *RedisStore) runBucketScript(ctx context.Context, key string, now time.Time, capacity, refillPerSec float64, consume bool) (bool, float64, error) {
	consumeFlag := 0
	if consume {
		consumeFlag = 1
	}

	// Keep idle buckets around long enough to refill fully, then expire.
	ttl := time.Duration(capacity/refillPerSec*2) * time.Second
	if ttl < time.Second {
		ttl = time.Second
	}

	res, err := consumeTokenScript.Run(ctx, s.client, []string{s.bucketKey(key)},
		now.UnixMilli(),
		capacity,
		refillPerSec,
		ttl.Milliseconds(),
		consumeFlag,
	).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit: token bucket script: %w", err)
	}
	if len(res) != 2 {
		return false, 0, fmt.Errorf("ratelimit: unexpected reply length %d", len(res))
	}

	allowed, ok := res[0].(int64)
	if !ok {
		return false, 0, fmt.Errorf("ratelimit: unexpected allowed type %T", res[0])
	}
	tokensStr, ok := res[1].(string)
	if !ok {
		return false, 0, fmt.Errorf("ratelimit: unexpected tokens type %T", res[1])
	}
	tokens, err := strconv.ParseFloat(tokensStr, 64)
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit: parse token count: %w", err)
	}

	return allowed == 1, tokens, nil
}

func (s *RedisStore) windowKey(key string) string {
	return s.keyPrefix + ":window:" + key
}

func (s *RedisStore) bucketKey(key string) string {
	return s.keyPrefix + ":bucket:" + key
}

func parseWindowReply(res []any) (bool, int, time.Time, error) {
	if len(res) != 3 {
		return false, 0, time.Time{}, fmt.Errorf("ratelimit: unexpected reply length %d", len(res))
	}

	allowed, ok := res[0].(int64)
	if !ok {
		return false, 0, time.Time{}, fmt.Errorf("ratelimit: unexpected allowed type %T", res[0])
	}
	count, ok := res[1].(int64)
	if !ok {
		return false, 0, time.Time{}, fmt.Errorf("ratelimit: unexpected count type %T", res[1])
	}
	oldest, err := parseMilliString(res[2])
	if err != nil {
		return false, 0, time.Time{}, err
	}

	return allowed == 1, int(count), oldest, nil
}

func parseMilliString(v any) (time.Time, error) {
	str, ok := v.(string)
	if !ok {
		return time.Time{}, fmt.Errorf("ratelimit: unexpected timestamp type %T", v)
	}
	ms, err := strconv.ParseFloat(str, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("ratelimit: parse timestamp: %w", err)
	}
	if ms == 0 {
		return time.Time{}, nil
	}
	return time.UnixMilli(int64(ms)), nil
}
