package httpserver_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/namesmith/namesmith/pkg/httpserver"
)

func TestHealthCheckHandler(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("liveness without dependencies", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(ctx, log)(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ALIVE", rec.Body.String())
	})

	t.Run("ready when all dependencies pass", func(t *testing.T) {
		t.Parallel()

		ok := func(context.Context) error { return nil }

		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(ctx, log, ok, ok)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "READY", rec.Body.String())
	})

	t.Run("not ready when a dependency fails", func(t *testing.T) {
		t.Parallel()

		ok := func(context.Context) error { return nil }
		bad := func(context.Context) error { return errors.New("redis down") }

		rec := httptest.NewRecorder()
		httpserver.HealthCheckHandler(ctx, log, ok, bad)(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "NOT_READY", rec.Body.String())
	})
}
