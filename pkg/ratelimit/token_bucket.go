package ratelimit

import (
	"context"
	"math"
	"time"
)

// TokenBucket implements a token bucket rate limiter. Tokens accrue
// continuously at limit/window up to a cap of limit, so short bursts up to
// the full capacity are allowed while the average rate stays bounded.
type TokenBucket struct {
	store        BucketStore
	limit        int
	window       time.Duration
	refillPerSec float64
}

// NewTokenBucket creates a new token bucket rate limiter with capacity limit
// refilled over window.
func NewTokenBucket(store BucketStore, limit int, window time.Duration) (*TokenBucket, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	return &TokenBucket{
		store:        store,
		limit:        limit,
		window:       window,
		refillPerSec: float64(limit) / window.Seconds(),
	}, nil
}

// Allow checks if a request is allowed for the given key, consuming one token
// on success.
func (tb *TokenBucket) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now()

	allowed, tokens, err := tb.store.ConsumeToken(ctx, key, now, float64(tb.limit), tb.refillPerSec)
	if err != nil {
		return nil, err
	}

	return tb.result(now, allowed, tokens), nil
}

// Status returns the current rate limit status without consuming tokens.
func (tb *TokenBucket) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now()

	tokens, err := tb.store.PeekTokens(ctx, key, now, float64(tb.limit), tb.refillPerSec)
	if err != nil {
		return nil, err
	}

	return tb.result(now, tokens >= 1, tokens), nil
}

// Reset restores the bucket for the given key to full capacity.
func (tb *TokenBucket) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	return tb.store.Remove(ctx, key)
}

func (tb *TokenBucket) result(now time.Time, allowed bool, tokens float64) *Result {
	resetAt := now
	if tokens < 1 {
		// Time until the bucket refills back to one whole token.
		wait := (1 - tokens) / tb.refillPerSec
		resetAt = now.Add(time.Duration(wait * float64(time.Second)))
	}

	return &Result{
		Allowed:   allowed,
		Limit:     tb.limit,
		Remaining: int(math.Floor(tokens)),
		ResetAt:   resetAt,
	}
}
