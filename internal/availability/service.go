package availability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/namesmith/namesmith/internal/registry"
	"github.com/namesmith/namesmith/pkg/logger"
	"github.com/namesmith/namesmith/pkg/ratelimit"
)

const (
	defaultBatchCap   = 10
	defaultDelay      = 300 * time.Millisecond
	defaultLimiterKey = "registry"
)

// Service orchestrates batches of registry lookups: it validates input,
// enforces the batch-size ceiling, consults the rate limiter before each
// call, paces requests with a fixed inter-request delay, and aggregates
// results. The limiter state and the last-error slot are shared across all
// callers of one Service instance; both are mutex-guarded.
type Service struct {
	client     registry.Client
	limiter    ratelimit.Limiter
	limiterKey string
	batchCap   int
	delay      time.Duration
	log        *slog.Logger

	mu               sync.Mutex
	lastErr          *registry.CheckError
	requestCount     int
	rateLimitReached bool
}

// Option configures a Service.
type Option func(*Service)

// WithBatchCap sets the maximum number of domains processed per batch.
func WithBatchCap(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchCap = n
		}
	}
}

// WithDelay sets the fixed pause between consecutive lookups in a batch.
// Zero disables pacing (useful in tests).
func WithDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithLimiterKey sets the limiter key under which this service consumes quota.
func WithLimiterKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.limiterKey = key
		}
	}
}

// WithLogger sets the logger for batch diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// New creates a domain availability service around the given registry client
// and rate limiter.
func New(client registry.Client, limiter ratelimit.Limiter, opts ...Option) (*Service, error) {
	if client == nil {
		return nil, ErrClientRequired
	}
	if limiter == nil {
		return nil, ErrLimiterRequired
	}

	s := &Service{
		client:     client,
		limiter:    limiter,
		limiterKey: defaultLimiterKey,
		batchCap:   defaultBatchCap,
		delay:      defaultDelay,
		log:        slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// CheckDomains checks a batch of domains in order and returns one result per
// processed domain. Batches beyond the cap are silently truncated. A rate
// limiter denial aborts the rest of the batch: the denied domain and every
// remaining one resolve to an error status. Invalid domain syntax fails only
// that domain, without a network call or a limiter slot. CheckDomains never
// returns an error to its caller; failure detail is available via LastError.
func (s *Service) CheckDomains(ctx context.Context, domains []string) []registry.DomainResult {
	if len(domains) == 0 {
		return []registry.DomainResult{}
	}

	if len(domains) > s.batchCap {
		s.log.DebugContext(ctx, "batch truncated to cap",
			slog.Int("requested", len(domains)), slog.Int("cap", s.batchCap))
		domains = domains[:s.batchCap]
	}

	results := make([]registry.DomainResult, 0, len(domains))

	for i, raw := range domains {
		domain := Normalize(raw)

		denied, retryAfter, err := s.limiterDenied(ctx)
		if err != nil {
			// Without a working limiter the upstream quota cannot be
			// respected; abort the remainder like a denial.
			s.recordError(&registry.CheckError{
				Kind:    registry.KindAPIError,
				Message: "rate limiter unavailable: " + err.Error(),
			})
			s.log.ErrorContext(ctx, "rate limiter unavailable", logger.Error(err))
			results = s.failRemaining(results, domains[i:])
			break
		}
		if denied {
			s.recordError(&registry.CheckError{
				Kind:    registry.KindRateLimit,
				Message: fmt.Sprintf("rate limit reached, retry in %ds", retryAfter),
			})
			s.setRateLimitReached()
			s.log.WarnContext(ctx, "rate limit reached, aborting batch",
				slog.Int("checked", i), slog.Int("remaining", len(domains)-i))
			results = s.failRemaining(results, domains[i:])
			break
		}

		if !IsValidDomainName(domain) {
			s.recordError(&registry.CheckError{
				Kind:    registry.KindAPIError,
				Message: "invalid domain name: " + domain,
			})
			results = append(results, registry.DomainResult{URL: raw, Status: registry.StatusError})
			continue
		}

		results = append(results, s.lookup(ctx, domain))

		if s.delay > 0 && i < len(domains)-1 {
			select {
			case <-ctx.Done():
			case <-time.After(s.delay):
			}
		}
	}

	return results
}

// CheckDomain checks a single domain. The input is trimmed and lowercased
// before the lookup. It never returns an error: failures resolve to an error
// status and are recorded in the last-error slot.
func (s *Service) CheckDomain(ctx context.Context, domain string) registry.DomainResult {
	return s.lookup(ctx, Normalize(domain))
}

// LastError returns the most recent lookup failure, or nil. The slot is
// overwritten by each new failure and cleared by ResetCounter.
func (s *Service) LastError() *registry.CheckError {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastErr == nil {
		return nil
	}
	errCopy := *s.lastErr
	return &errCopy
}

// RequestCount returns the number of registry lookups performed since the
// last ResetCounter.
func (s *Service) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requestCount
}

// RateLimitReached reports whether any lookup since the last ResetCounter was
// refused for rate-limit reasons, locally or upstream. Callers surface this
// as a non-fatal warning alongside partial results.
func (s *Service) RateLimitReached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rateLimitReached
}

// ResetCounter clears the request counter, the rate-limit flag, and the
// last-error slot. Called once at the start of each generation run to keep
// runs' accounting separate; also used for test isolation. It does not touch
// the limiter's own state.
func (s *Service) ResetCounter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requestCount = 0
	s.rateLimitReached = false
	s.lastErr = nil
}

// lookup reserves a limiter slot and performs one registry call, counting it
// and recording any failure. A denied slot resolves to an error result
// without touching the registry, even when a batch pre-flight peek raced
// another caller for the last slot.
func (s *Service) lookup(ctx context.Context, domain string) registry.DomainResult {
	slot, err := s.limiter.Allow(ctx, s.limiterKey)
	if err != nil {
		s.recordError(&registry.CheckError{
			Kind:    registry.KindAPIError,
			Message: "rate limiter unavailable: " + err.Error(),
		})
		s.log.ErrorContext(ctx, "failed to reserve limiter slot", logger.Error(err))
		return registry.DomainResult{URL: domain, Status: registry.StatusError}
	}
	if !slot.Allowed {
		s.recordError(&registry.CheckError{
			Kind:    registry.KindRateLimit,
			Message: fmt.Sprintf("rate limit reached, retry in %ds", slot.RetryAfterSeconds()),
		})
		s.setRateLimitReached()
		s.log.WarnContext(ctx, "rate limit reached, lookup refused", logger.Domain(domain))
		return registry.DomainResult{URL: domain, Status: registry.StatusError}
	}

	result, err := s.client.Lookup(ctx, domain)

	s.mu.Lock()
	s.requestCount++
	s.mu.Unlock()

	if err != nil {
		var checkErr *registry.CheckError
		if errors.As(err, &checkErr) {
			s.recordError(checkErr)
			if checkErr.Kind == registry.KindRateLimit {
				s.setRateLimitReached()
			}
		} else {
			s.recordError(&registry.CheckError{
				Kind:    registry.KindAPIError,
				Message: err.Error(),
			})
		}
		s.log.WarnContext(ctx, "domain lookup failed", logger.Domain(domain), logger.Error(err))
	}

	return result
}

// failRemaining marks every remaining domain in an aborted batch as an error.
func (s *Service) failRemaining(results []registry.DomainResult, remaining []string) []registry.DomainResult {
	for _, raw := range remaining {
		results = append(results, registry.DomainResult{
			URL:    Normalize(raw),
			Status: registry.StatusError,
		})
	}
	return results
}

// limiterDenied is the side-effect-free pre-flight check; the slot itself is
// reserved in lookup, right before the network call.
func (s *Service) limiterDenied(ctx context.Context) (denied bool, retryAfterSec int, err error) {
	status, err := s.limiter.Status(ctx, s.limiterKey)
	if err != nil {
		return false, 0, err
	}
	if status.Allowed {
		return false, 0, nil
	}
	return true, status.RetryAfterSeconds(), nil
}

func (s *Service) recordError(e *registry.CheckError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = e
}

func (s *Service) setRateLimitReached() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rateLimitReached = true
}
