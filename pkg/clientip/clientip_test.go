package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/namesmith/namesmith/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		want       string
	}{
		{
			name:       "remote addr fallback",
			remoteAddr: "192.0.2.10:51234",
			want:       "192.0.2.10",
		},
		{
			name:       "x-forwarded-for single",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7"},
			remoteAddr: "192.0.2.10:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for first valid wins",
			headers:    map[string]string{"X-Forwarded-For": "garbage, 203.0.113.7, 10.0.0.1"},
			remoteAddr: "192.0.2.10:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip",
			headers:    map[string]string{"X-Real-IP": "203.0.113.9"},
			remoteAddr: "192.0.2.10:51234",
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded-for beats real-ip",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "203.0.113.9"},
			remoteAddr: "192.0.2.10:51234",
			want:       "203.0.113.7",
		},
		{
			name:       "invalid headers fall through",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip", "X-Real-IP": "also bad"},
			remoteAddr: "192.0.2.10:51234",
			want:       "192.0.2.10",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:443",
			want:       "2001:db8::1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			assert.Equal(t, tt.want, clientip.GetIP(r))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var seen string
	h := clientip.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = clientip.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:51234"
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.10", seen)
}

func TestFromContext_Absent(t *testing.T) {
	t.Parallel()

	assert.Empty(t, clientip.FromContext(context.Background()))
}
