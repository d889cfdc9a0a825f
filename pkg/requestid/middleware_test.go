package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namesmith/namesmith/pkg/requestid"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("generates an id when absent", func(t *testing.T) {
		t.Parallel()

		var seen string
		h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestid.FromContext(r.Context())
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, rec.Header().Get(requestid.Header))
	})

	t.Run("propagates a valid inbound id", func(t *testing.T) {
		t.Parallel()

		var seen string
		h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestid.FromContext(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "client-trace-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "client-trace-42", seen)
		assert.Equal(t, "client-trace-42", rec.Header().Get(requestid.Header))
	})

	t.Run("replaces malformed inbound ids", func(t *testing.T) {
		t.Parallel()

		tests := []struct {
			name string
			id   string
		}{
			{"spaces", "not a valid id"},
			{"control characters", "bad\nid"},
			{"too long", strings.Repeat("a", 200)},
		}

		for _, tt := range tests {
			tt := tt
			t.Run(tt.name, func(t *testing.T) {
				t.Parallel()

				var seen string
				h := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					seen = requestid.FromContext(r.Context())
				}))

				req := httptest.NewRequest(http.MethodGet, "/", nil)
				req.Header.Set(requestid.Header, tt.id)
				rec := httptest.NewRecorder()
				h.ServeHTTP(rec, req)

				assert.NotEqual(t, tt.id, seen)
				_, err := uuid.Parse(seen)
				assert.NoError(t, err)
			})
		}
	})
}

func TestFromContext(t *testing.T) {
	t.Parallel()

	assert.Empty(t, requestid.FromContext(context.Background()))
	assert.Empty(t, requestid.FromContext(nil)) //nolint:staticcheck

	ctx := requestid.WithContext(context.Background(), "abc")
	assert.Equal(t, "abc", requestid.FromContext(ctx))
}
