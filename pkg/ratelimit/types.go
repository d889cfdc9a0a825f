package ratelimit

import (
	"context"
	"math"
	"time"
)

// Result contains the result of a rate limit check.
type Result struct {
	// Allowed indicates whether the request is allowed.
	Allowed bool

	// Limit is the maximum number of requests allowed in the window.
	Limit int

	// Remaining is the number of requests remaining in the current window.
	Remaining int

	// ResetAt is the time when capacity next becomes available.
	ResetAt time.Time
}

// RetryAfter returns how long to wait before the next request is allowed.
// Returns 0 if the current request was allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed {
		return 0
	}
	return time.Until(r.ResetAt)
}

// RetryAfterSeconds returns RetryAfter rounded up to whole seconds, suitable
// for a Retry-After header. Returns 0 if the request was allowed.
func (r *Result) RetryAfterSeconds() int {
	d := r.RetryAfter()
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Seconds()))
}

// Limiter defines the interface for rate limiting implementations.
// Implementations keep independent state per key; keys are created lazily on
// first use and live until Reset.
type Limiter interface {
	// Allow checks if a request is allowed for the given key.
	// If allowed, it reserves one slot.
	Allow(ctx context.Context, key string) (*Result, error)

	// Status returns the current rate limit status for the given key
	// without reserving anything.
	Status(ctx context.Context, key string) (*Result, error)

	// Reset clears all accumulated state for the given key, restoring
	// initial capacity.
	Reset(ctx context.Context, key string) error
}

// WindowStore persists sliding-window request timestamps per key.
// Every operation prunes entries older than now minus the window before
// acting, so decisions are always made against the current window.
type WindowStore interface {
	// AddIfAllowed records now for the key if fewer than limit entries
	// survive pruning. It returns whether the entry was recorded, the entry
	// count after the call, and the oldest surviving timestamp (zero when
	// the window is empty).
	AddIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (allowed bool, count int, oldest time.Time, err error)

	// CountInWindow prunes and returns the surviving entry count and oldest
	// timestamp without recording anything.
	CountInWindow(ctx context.Context, key string, now time.Time, window time.Duration) (count int, oldest time.Time, err error)

	// Remove deletes all state for the key.
	Remove(ctx context.Context, key string) error
}

// BucketStore persists token-bucket state per key. Tokens accrue
// continuously at refillPerSec up to capacity.
type BucketStore interface {
	// ConsumeToken refills the bucket for the elapsed time and consumes one
	// token when at least one is available. It returns whether a token was
	// consumed and the token count after the call.
	ConsumeToken(ctx context.Context, key string, now time.Time, capacity, refillPerSec float64) (allowed bool, tokens float64, err error)

	// PeekTokens refills for the elapsed time without consuming and returns
	// the current token count.
	PeekTokens(ctx context.Context, key string, now time.Time, capacity, refillPerSec float64) (tokens float64, err error)

	// Remove deletes all state for the key.
	Remove(ctx context.Context, key string) error
}
