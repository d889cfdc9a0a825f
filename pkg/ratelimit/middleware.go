package ratelimit

import (
	"hash/fnv"
	"net/http"
	"strconv"
	"strings"
)

// maxKeyLength caps rate limit keys to keep store keys bounded.
const maxKeyLength = 64

// KeyFunc extracts a rate limit key from the request. An empty key skips
// limiting for that request.
type KeyFunc func(r *http.Request) string

// Composite combines multiple key functions into one. Keys longer than 64
// characters are hashed with FNV-1a.
func Composite(keyFuncs ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(keyFuncs))
		for _, fn := range keyFuncs {
			if key := fn(r); key != "" {
				parts = append(parts, key)
			}
		}
		if len(parts) == 0 {
			return ""
		}
		if len(parts) == 1 && len(parts[0]) <= maxKeyLength {
			return parts[0]
		}

		combined := strings.Join(parts, ":")
		if len(combined) > maxKeyLength {
			h := fnv.New64a()
			h.Write([]byte(combined))
			return strconv.FormatUint(h.Sum64(), 36)
		}
		return combined
	}
}

// Middleware enforces a per-key limit on inbound requests and sets the
// standard X-RateLimit-* headers. Denied requests get 429 with Retry-After.
func Middleware(limiter Limiter, keyFunc KeyFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed {
				if retryAfter := result.RetryAfterSeconds(); retryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				}
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
