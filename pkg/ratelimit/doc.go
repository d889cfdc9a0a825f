// Package ratelimit provides client-side rate limiting primitives used to
// respect third-party API quotas.
//
// Two interchangeable algorithms implement the Limiter interface:
//
//   - SlidingWindow counts request timestamps inside a trailing window.
//     Exact, but memory grows with the limit.
//   - TokenBucket accrues capacity continuously at limit/window up to a cap,
//     consuming one token per request. Allows short bursts.
//
// State is keyed by an arbitrary limiter key, created lazily on first use.
// Allow reserves capacity, Status is a side-effect-free peek, and Reset
// restores full capacity for a key.
//
// Backing stores: MemoryStore for single-process deployments (the default)
// and RedisStore when several instances must share one budget.
//
//	store := ratelimit.NewMemoryStore()
//	limiter, err := ratelimit.NewSlidingWindow(store, 10, time.Minute)
//	if err != nil { ... }
//
//	res, err := limiter.Allow(ctx, "rdap")
//	if err != nil { ... }
//	if !res.Allowed {
//		time.Sleep(res.RetryAfter())
//	}
package ratelimit
