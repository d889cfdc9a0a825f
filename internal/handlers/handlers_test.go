package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namesmith/namesmith/internal/availability"
	"github.com/namesmith/namesmith/internal/handlers"
	"github.com/namesmith/namesmith/internal/namegen"
	"github.com/namesmith/namesmith/internal/registry"
	"github.com/namesmith/namesmith/pkg/ratelimit"
)

type stubGenerator struct {
	names []namegen.GeneratedName
	err   error
}

func (g stubGenerator) Generate(ctx context.Context, req namegen.GenerateRequest) ([]namegen.GeneratedName, error) {
	return g.names, g.err
}

type stubRegistry struct {
	status registry.DomainStatus
}

func (c stubRegistry) Lookup(ctx context.Context, domain string) (registry.DomainResult, error) {
	return registry.DomainResult{URL: domain, Status: c.status}, nil
}

func newTestHandler(t *testing.T, gen namegen.Generator, client registry.Client, limit int) http.Handler {
	t.Helper()

	store := ratelimit.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	limiter, err := ratelimit.NewSlidingWindow(store, limit, time.Minute)
	require.NoError(t, err)

	checker, err := availability.New(client, limiter, availability.WithDelay(0))
	require.NoError(t, err)

	names, err := namegen.NewService(gen, checker)
	require.NoError(t, err)

	return handlers.New(names, checker, nil).Routes()
}

func TestGenerateNames(t *testing.T) {
	t.Parallel()

	t.Run("success without domain checks", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{
			names: []namegen.GeneratedName{{Name: "Zenlify", Tagline: "calm at scale"}},
		}, stubRegistry{status: registry.StatusAvailable}, 10)

		req := httptest.NewRequest(http.MethodPost, "/names",
			strings.NewReader(`{"description":"a meditation app","count":1}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

		var result namegen.RunResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Candidates, 1)
		assert.Equal(t, "Zenlify", result.Candidates[0].Name)
		assert.Empty(t, result.Candidates[0].Domains)
	})

	t.Run("success with domain checks", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{
			names: []namegen.GeneratedName{{Name: "Zenlify"}},
		}, stubRegistry{status: registry.StatusAvailable}, 10)

		req := httptest.NewRequest(http.MethodPost, "/names",
			strings.NewReader(`{"description":"a meditation app","count":1,"check_domains":true,"tlds":["com","io"]}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result namegen.RunResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		require.Len(t, result.Candidates, 1)
		require.Len(t, result.Candidates[0].Domains, 2)
		assert.Equal(t, "zenlify.com", result.Candidates[0].Domains[0].URL)
		assert.Equal(t, registry.StatusAvailable, result.Candidates[0].Domains[0].Status)
	})

	t.Run("invalid body", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{}, stubRegistry{}, 10)

		req := httptest.NewRequest(http.MethodPost, "/names", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty description", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{err: namegen.ErrEmptyDescription}, stubRegistry{}, 10)

		req := httptest.NewRequest(http.MethodPost, "/names", strings.NewReader(`{"description":""}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "description is required")
	})

	t.Run("generator rate limited", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{err: namegen.ErrRateLimitExceeded}, stubRegistry{}, 10)

		req := httptest.NewRequest(http.MethodPost, "/names",
			strings.NewReader(`{"description":"a meditation app"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})

	t.Run("generator failure", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{err: namegen.ErrGenerationFailed}, stubRegistry{}, 10)

		req := httptest.NewRequest(http.MethodPost, "/names",
			strings.NewReader(`{"description":"a meditation app"}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestCheckDomains(t *testing.T) {
	t.Parallel()

	t.Run("batch results", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{}, stubRegistry{status: registry.StatusTaken}, 10)

		req := httptest.NewRequest(http.MethodPost, "/domains/check",
			strings.NewReader(`{"domains":["a.com","b.io"]}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Results      []registry.DomainResult `json:"results"`
			RequestCount int                     `json:"request_count"`
			RateLimited  bool                    `json:"rate_limited"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)
		assert.Equal(t, registry.StatusTaken, resp.Results[0].Status)
		assert.Equal(t, 2, resp.RequestCount)
		assert.False(t, resp.RateLimited)
	})

	t.Run("rate limit surfaces as warning", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{}, stubRegistry{status: registry.StatusAvailable}, 1)

		req := httptest.NewRequest(http.MethodPost, "/domains/check",
			strings.NewReader(`{"domains":["a.com","b.com"]}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Results     []registry.DomainResult `json:"results"`
			RateLimited bool                    `json:"rate_limited"`
			Warning     *registry.CheckError    `json:"warning"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Results, 2)
		assert.Equal(t, registry.StatusAvailable, resp.Results[0].Status)
		assert.Equal(t, registry.StatusError, resp.Results[1].Status)
		assert.True(t, resp.RateLimited)
		require.NotNil(t, resp.Warning)
		assert.Equal(t, registry.KindRateLimit, resp.Warning.Kind)
	})

	t.Run("empty domains", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{}, stubRegistry{}, 10)

		req := httptest.NewRequest(http.MethodPost, "/domains/check",
			strings.NewReader(`{"domains":[]}`))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCheckDomain(t *testing.T) {
	t.Parallel()

	t.Run("single lookup", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{}, stubRegistry{status: registry.StatusAvailable}, 10)

		req := httptest.NewRequest(http.MethodGet, "/domains/check?domain=Example.COM", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var result registry.DomainResult
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "example.com", result.URL)
		assert.Equal(t, registry.StatusAvailable, result.Status)
	})

	t.Run("missing domain parameter", func(t *testing.T) {
		t.Parallel()

		h := newTestHandler(t, stubGenerator{}, stubRegistry{}, 10)

		req := httptest.NewRequest(http.MethodGet, "/domains/check", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
