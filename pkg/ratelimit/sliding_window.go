package ratelimit

import (
	"context"
	"time"
)

// SlidingWindow implements a sliding window rate limiter that tracks
// individual request timestamps within a moving time window. More accurate
// than token bucket but uses more memory due to timestamp storage.
type SlidingWindow struct {
	store  WindowStore
	limit  int
	window time.Duration
}

// NewSlidingWindow creates a new sliding window rate limiter allowing limit
// requests per window.
func NewSlidingWindow(store WindowStore, limit int, window time.Duration) (*SlidingWindow, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	if window <= 0 {
		return nil, ErrInvalidInterval
	}

	return &SlidingWindow{
		store:  store,
		limit:  limit,
		window: window,
	}, nil
}

// Allow checks if a request is allowed for the given key, reserving one slot
// on success.
func (sw *SlidingWindow) Allow(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now()

	allowed, count, oldest, err := sw.store.AddIfAllowed(ctx, key, now, sw.window, sw.limit)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   allowed,
		Limit:     sw.limit,
		Remaining: max(0, sw.limit-count),
		ResetAt:   sw.resetAt(now, oldest),
	}, nil
}

// Status returns the current rate limit status without reserving a slot.
func (sw *SlidingWindow) Status(ctx context.Context, key string) (*Result, error) {
	if key == "" {
		return nil, ErrKeyRequired
	}

	now := time.Now()

	count, oldest, err := sw.store.CountInWindow(ctx, key, now, sw.window)
	if err != nil {
		return nil, err
	}

	return &Result{
		Allowed:   count < sw.limit,
		Limit:     sw.limit,
		Remaining: max(0, sw.limit-count),
		ResetAt:   sw.resetAt(now, oldest),
	}, nil
}

// Reset clears all recorded timestamps for the given key.
func (sw *SlidingWindow) Reset(ctx context.Context, key string) error {
	if key == "" {
		return ErrKeyRequired
	}

	return sw.store.Remove(ctx, key)
}

// resetAt is when the oldest surviving request leaves the window, i.e. when
// one slot frees up. An empty window resets immediately.
func (sw *SlidingWindow) resetAt(now, oldest time.Time) time.Time {
	if oldest.IsZero() {
		return now
	}
	return oldest.Add(sw.window)
}
