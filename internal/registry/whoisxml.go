package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultWhoisXMLBaseURL = "https://www.whoisxmlapi.com/whoisserver/WhoisService"
	defaultWhoisXMLTimeout = 10 * time.Second
)

// ErrAPIKeyRequired is a configuration error: the commercial WHOIS API cannot
// be used without credentials. Distinct from runtime/network errors.
var ErrAPIKeyRequired = errors.New("whoisxml: API key is required")

// WhoisXMLConfig configures the commercial WHOIS API client.
type WhoisXMLConfig struct {
	// APIKey is required for authentication.
	APIKey string

	// Timeout bounds each lookup. Default: 10s.
	Timeout time.Duration

	// HTTPClient allows custom transport configuration.
	HTTPClient *http.Client

	// BaseURL overrides the service endpoint, for tests.
	BaseURL string

	// Logger for lookup diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// WhoisXMLClient is the commercial-API registry client variant. Same output
// contract as the RDAP client, different authentication and response shape.
type WhoisXMLClient struct {
	apiKey  string
	timeout time.Duration
	client  *http.Client
	baseURL string
	log     *slog.Logger
}

// NewWhoisXMLClient creates the commercial WHOIS API client. A missing API
// key is a configuration error and fails construction.
func NewWhoisXMLClient(cfg WhoisXMLConfig) (*WhoisXMLClient, error) {
	if cfg.APIKey == "" {
		return nil, ErrAPIKeyRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWhoisXMLTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultWhoisXMLBaseURL
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &WhoisXMLClient{
		apiKey:  cfg.APIKey,
		timeout: timeout,
		client:  client,
		baseURL: baseURL,
		log:     log,
	}, nil
}

type whoisXMLResponse struct {
	DomainInfo struct {
		DomainAvailability string `json:"domainAvailability"`
	} `json:"DomainInfo"`
}

// Lookup queries the domain-availability endpoint. The service answers 200
// with domainAvailability AVAILABLE or UNAVAILABLE; 401/403 signal a bad key.
func (c *WhoisXMLClient) Lookup(ctx context.Context, domain string) (DomainResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	q := url.Values{}
	q.Set("apiKey", c.apiKey)
	q.Set("domainName", domain)
	q.Set("credits", "DA")
	q.Set("outputFormat", "JSON")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return errorResult(domain, KindAPIError, "failed to build request: "+err.Error())
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransportError(domain, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return errorResult(domain, KindAPIError, "invalid API key")

	case resp.StatusCode == http.StatusTooManyRequests:
		return errorResult(domain, KindRateLimit, "API rate limit exceeded")

	case resp.StatusCode >= http.StatusInternalServerError:
		return errorResult(domain, KindAPIError, fmt.Sprintf("API server error: %d", resp.StatusCode))

	case resp.StatusCode != http.StatusOK:
		return errorResult(domain, KindAPIError, fmt.Sprintf("unexpected API status: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errorResult(domain, KindNetworkError, "failed to read response: "+err.Error())
	}

	var payload whoisXMLResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return errorResult(domain, KindAPIError, "malformed API response: "+err.Error())
	}

	switch payload.DomainInfo.DomainAvailability {
	case "AVAILABLE":
		return DomainResult{URL: domain, Status: StatusAvailable}, nil
	case "UNAVAILABLE":
		return DomainResult{URL: domain, Status: StatusTaken}, nil
	default:
		return errorResult(domain, KindAPIError,
			fmt.Sprintf("unexpected availability value: %q", payload.DomainInfo.DomainAvailability))
	}
}
