// Package handlers exposes the JSON HTTP API.
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/namesmith/namesmith/internal/availability"
	"github.com/namesmith/namesmith/internal/namegen"
	"github.com/namesmith/namesmith/internal/registry"
	"github.com/namesmith/namesmith/pkg/logger"
)

// Handler wires the application services to HTTP routes.
type Handler struct {
	names   *namegen.Service
	checker *availability.Service
	log     *slog.Logger
}

// New creates the API handler.
func New(names *namegen.Service, checker *availability.Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{names: names, checker: checker, log: log}
}

// Routes mounts the API endpoints on a fresh router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/names", h.generateNames)
	r.Post("/domains/check", h.checkDomains)
	r.Get("/domains/check", h.checkDomain)
	return r
}

func (h *Handler) generateNames(w http.ResponseWriter, r *http.Request) {
	var req namegen.RunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.names.Run(r.Context(), req)
	if err != nil {
		h.log.ErrorContext(r.Context(), "name generation failed", logger.Error(err))
		switch {
		case errors.Is(err, namegen.ErrEmptyDescription):
			respondError(w, http.StatusBadRequest, "description is required")
		case errors.Is(err, namegen.ErrRateLimitExceeded):
			respondError(w, http.StatusTooManyRequests, "generation rate limit exceeded, try again later")
		default:
			respondError(w, http.StatusBadGateway, "name generation failed")
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}

type checkDomainsRequest struct {
	Domains []string `json:"domains"`
}

type checkDomainsResponse struct {
	Results      []registry.DomainResult `json:"results"`
	RequestCount int                     `json:"request_count"`
	RateLimited  bool                    `json:"rate_limited,omitempty"`
	Warning      *registry.CheckError    `json:"warning,omitempty"`
}

func (h *Handler) checkDomains(w http.ResponseWriter, r *http.Request) {
	var req checkDomainsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Domains) == 0 {
		respondError(w, http.StatusBadRequest, "domains are required")
		return
	}

	results := h.checker.CheckDomains(r.Context(), req.Domains)

	resp := checkDomainsResponse{
		Results:      results,
		RequestCount: h.checker.RequestCount(),
	}
	if h.checker.RateLimitReached() {
		resp.RateLimited = true
		resp.Warning = h.checker.LastError()
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *Handler) checkDomain(w http.ResponseWriter, r *http.Request) {
	domain := r.URL.Query().Get("domain")
	if domain == "" {
		respondError(w, http.StatusBadRequest, "domain query parameter is required")
		return
	}

	result := h.checker.CheckDomain(r.Context(), domain)
	respondJSON(w, http.StatusOK, result)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}
