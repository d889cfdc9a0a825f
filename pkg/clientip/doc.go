// Package clientip resolves the real client IP behind reverse proxies and
// makes it available through the request context. Used as the key source for
// per-client rate limiting.
package clientip
