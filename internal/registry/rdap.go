package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/namesmith/namesmith/pkg/logger"
)

const defaultRDAPTimeout = 15 * time.Second

// RDAPConfig configures the RDAP client.
type RDAPConfig struct {
	// Timeout bounds each lookup. Default: 15s.
	Timeout time.Duration

	// HTTPClient allows custom transport configuration. Default: plain
	// http.Client; the per-lookup deadline comes from the request context.
	HTTPClient *http.Client

	// Endpoints overrides the TLD to base-URL table. Default: the built-in
	// table of known registry operators.
	Endpoints map[string]string

	// Fallback is the base URL used for TLDs missing from the table.
	// Default: the .com operator.
	Fallback string

	// Logger for lookup diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// RDAPClient looks domains up over the Registration Data Access Protocol,
// the standardized HTTP/JSON successor to WHOIS.
type RDAPClient struct {
	timeout   time.Duration
	client    *http.Client
	endpoints map[string]string
	fallback  string
	log       *slog.Logger
}

// NewRDAPClient creates an RDAP registry client.
func NewRDAPClient(cfg RDAPConfig) *RDAPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRDAPTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	endpoints := cfg.Endpoints
	if endpoints == nil {
		endpoints = rdapEndpoints
	}
	fallback := cfg.Fallback
	if fallback == "" {
		fallback = rdapFallbackEndpoint
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &RDAPClient{
		timeout:   timeout,
		client:    client,
		endpoints: endpoints,
		fallback:  fallback,
		log:       log,
	}
}

// Lookup queries the RDAP endpoint for the domain's TLD and maps the response:
// 404 means the registry has no record (available), 200 means registered.
func (c *RDAPClient) Lookup(ctx context.Context, domain string) (DomainResult, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	base := endpointFor(c.endpoints, c.fallback, domain)
	url := base + "/domain/" + domain

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errorResult(domain, KindAPIError, "failed to build request: "+err.Error())
	}
	req.Header.Set("Accept", "application/rdap+json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return classifyTransportError(domain, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return DomainResult{URL: domain, Status: StatusAvailable}, nil

	case resp.StatusCode == http.StatusOK:
		c.logRegistration(ctx, domain, resp.Body)
		return DomainResult{URL: domain, Status: StatusTaken}, nil

	case resp.StatusCode == http.StatusTooManyRequests:
		return errorResult(domain, KindRateLimit, "registry rate limit exceeded")

	case resp.StatusCode == http.StatusForbidden:
		return errorResult(domain, KindAPIError, "access denied by registry")

	case resp.StatusCode >= http.StatusInternalServerError:
		return errorResult(domain, KindAPIError, fmt.Sprintf("registry server error: %d", resp.StatusCode))

	default:
		return errorResult(domain, KindAPIError, fmt.Sprintf("unexpected registry status: %d", resp.StatusCode))
	}
}

// logRegistration extracts registrar and registration/expiration events from
// a 200 payload for diagnostics. The payload is best-effort: absent or
// malformed fields are simply not logged.
func (c *RDAPClient) logRegistration(ctx context.Context, domain string, body io.Reader) {
	var payload rdapResponse
	if err := json.NewDecoder(body).Decode(&payload); err != nil {
		c.log.DebugContext(ctx, "rdap payload not parseable", logger.Domain(domain), logger.Error(err))
		return
	}

	attrs := []any{logger.Domain(domain)}
	if registrar := payload.registrarName(); registrar != "" {
		attrs = append(attrs, slog.String("registrar", registrar))
	}
	for _, ev := range payload.Events {
		switch ev.EventAction {
		case "registration":
			attrs = append(attrs, slog.Time("registered_at", ev.EventDate))
		case "expiration":
			attrs = append(attrs, slog.Time("expires_at", ev.EventDate))
		}
	}

	c.log.DebugContext(ctx, "domain registered", attrs...)
}

type rdapResponse struct {
	LdhName  string       `json:"ldhName"`
	Events   []rdapEvent  `json:"events"`
	Entities []rdapEntity `json:"entities"`
}

type rdapEvent struct {
	EventAction string    `json:"eventAction"`
	EventDate   time.Time `json:"eventDate"`
}

type rdapEntity struct {
	Roles      []string        `json:"roles"`
	VcardArray json.RawMessage `json:"vcardArray"`
}

// registrarName digs the registrar's display name out of the jCard structure:
// ["vcard", [["fn", {}, "text", "<name>"], ...]] on the entity holding the
// registrar role.
func (r *rdapResponse) registrarName() string {
	for _, entity := range r.Entities {
		if !hasRole(entity.Roles, "registrar") {
			continue
		}

		var vcard []json.RawMessage
		if err := json.Unmarshal(entity.VcardArray, &vcard); err != nil || len(vcard) < 2 {
			continue
		}
		var props [][]any
		if err := json.Unmarshal(vcard[1], &props); err != nil {
			continue
		}
		for _, prop := range props {
			if len(prop) >= 4 {
				if name, ok := prop[0].(string); ok && name == "fn" {
					if value, ok := prop[3].(string); ok {
						return value
					}
				}
			}
		}
	}
	return ""
}

func hasRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
