// Package requestid assigns every inbound request an X-Request-ID and makes
// it available through the request context.
package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	// Header is the canonical request ID header name.
	Header      = "X-Request-ID"
	maxIDLength = 128
)

var validIDRegex = regexp.MustCompile("^[a-zA-Z0-9_-]+$")

// Middleware propagates an inbound X-Request-ID or generates a fresh UUID,
// echoes it on the response, and stores it in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if !isValidRequestID(requestID) {
			requestID = uuid.New().String()
		}
		w.Header().Set(Header, requestID)
		next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), requestID)))
	})
}

func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validIDRegex.MatchString(id)
}
