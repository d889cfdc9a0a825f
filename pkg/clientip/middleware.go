package clientip

import "net/http"

// Middleware extracts the client IP once per request and stores it in the
// request context for downstream handlers and rate limiting.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), GetIP(r))))
	})
}
