package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namesmith/namesmith/pkg/ratelimit"
)

func TestNewSlidingWindow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		store       ratelimit.WindowStore
		limit       int
		window      time.Duration
		expectError error
	}{
		{
			name:        "nil store",
			store:       nil,
			limit:       10,
			window:      time.Second,
			expectError: ratelimit.ErrStoreRequired,
		},
		{
			name:        "zero limit",
			store:       ratelimit.NewMemoryStore(),
			limit:       0,
			window:      time.Second,
			expectError: ratelimit.ErrInvalidLimit,
		},
		{
			name:        "negative limit",
			store:       ratelimit.NewMemoryStore(),
			limit:       -1,
			window:      time.Second,
			expectError: ratelimit.ErrInvalidLimit,
		},
		{
			name:        "zero window",
			store:       ratelimit.NewMemoryStore(),
			limit:       10,
			window:      0,
			expectError: ratelimit.ErrInvalidInterval,
		},
		{
			name:   "valid configuration",
			store:  ratelimit.NewMemoryStore(),
			limit:  10,
			window: time.Second,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			sw, err := ratelimit.NewSlidingWindow(tt.store, tt.limit, tt.window)
			if tt.expectError != nil {
				assert.ErrorIs(t, err, tt.expectError)
				assert.Nil(t, sw)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, sw)
			}
		})
	}
}

func TestSlidingWindow_Allow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 2, time.Second)
		require.NoError(t, err)

		result, err := sw.Allow(ctx, "")
		assert.ErrorIs(t, err, ratelimit.ErrKeyRequired)
		assert.Nil(t, result)
	})

	t.Run("two allowed then denied within window", func(t *testing.T) {
		t.Parallel()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 2, time.Second)
		require.NoError(t, err)

		for i := 0; i < 2; i++ {
			result, err := sw.Allow(ctx, "key")
			require.NoError(t, err)
			assert.True(t, result.Allowed, "request %d should be allowed", i+1)
			assert.Equal(t, 2, result.Limit)
			assert.Equal(t, 1-i, result.Remaining)
		}

		result, err := sw.Allow(ctx, "key")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, 0, result.Remaining)
		assert.Greater(t, result.RetryAfter(), time.Duration(0))
		assert.GreaterOrEqual(t, result.RetryAfterSeconds(), 1)
	})

	t.Run("window expiration restores capacity", func(t *testing.T) {
		t.Parallel()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 3, 100*time.Millisecond)
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			result, err := sw.Allow(ctx, "key")
			require.NoError(t, err)
			assert.True(t, result.Allowed)
		}

		result, err := sw.Allow(ctx, "key")
		require.NoError(t, err)
		assert.False(t, result.Allowed)

		time.Sleep(110 * time.Millisecond)

		result, err = sw.Allow(ctx, "key")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		t.Parallel()
		sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 1, time.Second)
		require.NoError(t, err)

		result, err := sw.Allow(ctx, "key-a")
		require.NoError(t, err)
		assert.True(t, result.Allowed)

		result, err = sw.Allow(ctx, "key-b")
		require.NoError(t, err)
		assert.True(t, result.Allowed)

		result, err = sw.Allow(ctx, "key-a")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
	})
}

func TestSlidingWindow_Status(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 2, time.Second)
	require.NoError(t, err)

	t.Run("status does not consume", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			result, err := sw.Status(ctx, "peek")
			require.NoError(t, err)
			assert.True(t, result.Allowed)
			assert.Equal(t, 2, result.Remaining)
		}

		result, err := sw.Allow(ctx, "peek")
		require.NoError(t, err)
		assert.True(t, result.Allowed)

		result, err = sw.Status(ctx, "peek")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
		assert.Equal(t, 1, result.Remaining)
	})

	t.Run("status reports denial at limit", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			_, err := sw.Allow(ctx, "full")
			require.NoError(t, err)
		}

		result, err := sw.Status(ctx, "full")
		require.NoError(t, err)
		assert.False(t, result.Allowed)
		assert.Equal(t, 0, result.Remaining)
	})
}

func TestSlidingWindow_Reset(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sw, err := ratelimit.NewSlidingWindow(ratelimit.NewMemoryStore(), 2, time.Hour)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		result, err := sw.Allow(ctx, "key")
		require.NoError(t, err)
		assert.True(t, result.Allowed)
	}

	result, err := sw.Allow(ctx, "key")
	require.NoError(t, err)
	require.False(t, result.Allowed)

	require.NoError(t, sw.Reset(ctx, "key"))

	result, err = sw.Allow(ctx, "key")
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.Remaining)
}
