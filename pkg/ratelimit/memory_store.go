package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements WindowStore and BucketStore with in-memory state.
// State is keyed by limiter key, created lazily on first use, and kept for
// the process lifetime; a background loop evicts windows that have drained
// and buckets that have refilled back to capacity.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*windowState
	buckets map[string]*bucketState

	cleanupInterval time.Duration
	initialCapacity int
	stopCleanup     chan struct{}
	cleanupOnce     sync.Once
}

type windowState struct {
	timestamps []time.Time
}

type bucketState struct {
	tokens     float64
	lastRefill time.Time
	fullRefill time.Duration
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often the eviction pass runs.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.cleanupInterval = interval
		}
	}
}

// WithInitialCapacity sets the initial capacity of per-key timestamp slices.
func WithInitialCapacity(capacity int) MemoryStoreOption {
	return func(s *MemoryStore) {
		if capacity > 0 {
			s.initialCapacity = capacity
		}
	}
}

// NewMemoryStore creates a new in-memory store with automatic cleanup.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		windows:         make(map[string]*windowState),
		buckets:         make(map[string]*bucketState),
		cleanupInterval: time.Minute,
		initialCapacity: 16,
		stopCleanup:     make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	go s.cleanupLoop()

	return s
}

// AddIfAllowed prunes expired timestamps, then records now if the window has
// capacity for another request.
func (s *MemoryStore) AddIfAllowed(ctx context.Context, key string, now time.Time, window time.Duration, limit int) (bool, int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.windows[key]
	if !exists {
		w = &windowState{timestamps: make([]time.Time, 0, s.initialCapacity)}
		s.windows[key] = w
	}

	w.prune(now, window)

	if len(w.timestamps) >= limit {
		return false, len(w.timestamps), w.oldest(), nil
	}

	w.timestamps = append(w.timestamps, now)
	return true, len(w.timestamps), w.oldest(), nil
}

// CountInWindow prunes expired timestamps and reports the surviving count.
func (s *MemoryStore) CountInWindow(ctx context.Context, key string, now time.Time, window time.Duration) (int, time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, exists := s.windows[key]
	if !exists {
		return 0, time.Time{}, nil
	}

	w.prune(now, window)
	return len(w.timestamps), w.oldest(), nil
}

// ConsumeToken refills the bucket for the elapsed time, capped at capacity,
// and consumes one token when available. New keys start at full capacity.
func (s *MemoryStore) ConsumeToken(ctx context.Context, key string, now time.Time, capacity, refillPerSec float64) (bool, float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.refillLocked(key, now, capacity, refillPerSec)

	if b.tokens < 1 {
		return false, b.tokens, nil
	}

	b.tokens--
	return true, b.tokens, nil
}

// PeekTokens refills the bucket for the elapsed time without consuming.
func (s *MemoryStore) PeekTokens(ctx context.Context, key string, now time.Time, capacity, refillPerSec float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.refillLocked(key, now, capacity, refillPerSec)
	return b.tokens, nil
}

// Remove deletes all state for the key.
func (s *MemoryStore) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.windows, key)
	delete(s.buckets, key)
	return nil
}

func (s *MemoryStore) refillLocked(key string, now time.Time, capacity, refillPerSec float64) *bucketState {
	fullRefill := time.Duration(capacity / refillPerSec * float64(time.Second))

	b, exists := s.buckets[key]
	if !exists {
		b = &bucketState{tokens: capacity, lastRefill: now, fullRefill: fullRefill}
		s.buckets[key] = b
		return b
	}

	b.fullRefill = fullRefill
	elapsed := now.Sub(b.lastRefill).Seconds()
	if elapsed > 0 {
		b.tokens = min(capacity, b.tokens+elapsed*refillPerSec)
		b.lastRefill = now
	}
	return b
}

func (w *windowState) prune(now time.Time, window time.Duration) {
	cutoff := now.Add(-window)
	valid := w.timestamps[:0]
	for _, ts := range w.timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	w.timestamps = valid
}

func (w *windowState) oldest() time.Time {
	if len(w.timestamps) == 0 {
		return time.Time{}
	}
	return w.timestamps[0]
}

// cleanupLoop runs periodically to evict idle keys.
func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

// cleanup evicts empty windows, and buckets idle long enough to have
// refilled completely. A bucket evicted earlier would be recreated at full
// capacity, handing back tokens it had not yet accrued.
func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()

	for key, w := range s.windows {
		if len(w.timestamps) == 0 {
			delete(s.windows, key)
		}
	}
	for key, b := range s.buckets {
		if now.Sub(b.lastRefill) >= b.fullRefill {
			delete(s.buckets, key)
		}
	}
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.cleanupOnce.Do(func() {
		close(s.stopCleanup)
	})
	return nil
}
