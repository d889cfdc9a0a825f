// Package registry performs single-domain availability lookups against
// external registry protocols and normalizes their heterogeneous responses
// and failure modes into a small status vocabulary.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"
)

// DomainStatus is the availability status of a domain.
type DomainStatus string

const (
	StatusAvailable DomainStatus = "available"
	StatusTaken     DomainStatus = "taken"
	StatusPremium   DomainStatus = "premium"
	StatusError     DomainStatus = "error"
)

// DomainResult is the outcome of a single lookup. It intentionally carries no
// diagnostic message; failure detail travels separately as a *CheckError.
type DomainResult struct {
	URL    string       `json:"url"`
	Status DomainStatus `json:"status"`
}

// ErrorKind classifies lookup failures for callers deciding whether to retry.
type ErrorKind string

const (
	// KindRateLimit: the local limiter or the upstream registry refused the
	// request. Recoverable by waiting.
	KindRateLimit ErrorKind = "rate_limit"
	// KindAPIError: invalid input, bad credentials, unexpected upstream
	// status, or malformed payload. Not retryable without intervention.
	KindAPIError ErrorKind = "api_error"
	// KindNetworkError: timeout, DNS failure, or other transport fault.
	// Potentially transient.
	KindNetworkError ErrorKind = "network_error"
)

// CheckError describes why a lookup resolved to StatusError.
type CheckError struct {
	Kind    ErrorKind `json:"type"`
	Message string    `json:"message"`
}

func (e *CheckError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Client performs exactly one network lookup per call. Lookup never panics
// and always returns a usable DomainResult: every failure path yields
// StatusError together with a *CheckError describing the cause.
type Client interface {
	Lookup(ctx context.Context, domain string) (DomainResult, error)
}

// userAgent identifies this client to registry operators on every request.
const userAgent = "namesmith/1.0 (+https://github.com/namesmith/namesmith)"

// Provider names accepted by New.
const (
	ProviderRDAP     = "rdap"
	ProviderWhoisXML = "whoisxml"
	ProviderWhois    = "whois"
)

// ErrUnknownProvider is returned by New for an unrecognized provider name.
var ErrUnknownProvider = errors.New("unknown registry provider")

// Config carries the env-provided registry client settings.
type Config struct {
	Provider       string        `env:"REGISTRY_PROVIDER" envDefault:"rdap"`
	Timeout        time.Duration `env:"REGISTRY_TIMEOUT" envDefault:"15s"`
	WhoisXMLAPIKey string        `env:"WHOISXML_API_KEY"`
}

// New selects and constructs the registry client variant named by the config.
func New(cfg Config, log *slog.Logger) (Client, error) {
	switch cfg.Provider {
	case ProviderRDAP, "":
		return NewRDAPClient(RDAPConfig{Timeout: cfg.Timeout, Logger: log}), nil
	case ProviderWhoisXML:
		return NewWhoisXMLClient(WhoisXMLConfig{
			APIKey:  cfg.WhoisXMLAPIKey,
			Timeout: cfg.Timeout,
			Logger:  log,
		})
	case ProviderWhois:
		return NewWhoisClient(WhoisConfig{Timeout: cfg.Timeout, Logger: log}), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}

// errorResult is the shared failure path: a StatusError result plus the
// typed error for the caller's last-error slot.
func errorResult(domain string, kind ErrorKind, message string) (DomainResult, error) {
	return DomainResult{URL: domain, Status: StatusError}, &CheckError{Kind: kind, Message: message}
}

// classifyTransportError folds transport-level failures into the taxonomy:
// timeouts and cancellations report as "request timeout", everything else as
// a generic network error.
func classifyTransportError(domain string, err error) (DomainResult, error) {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return errorResult(domain, KindNetworkError, "request timeout")
	case errors.As(err, &netErr) && netErr.Timeout():
		return errorResult(domain, KindNetworkError, "request timeout")
	default:
		return errorResult(domain, KindNetworkError, "network error: "+err.Error())
	}
}
