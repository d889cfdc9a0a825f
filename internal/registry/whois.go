package registry

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/likexian/whois"
)

const defaultWhoisTimeout = 10 * time.Second

// whoisQuerier abstracts the raw WHOIS transport for tests.
type whoisQuerier interface {
	Whois(domain string, servers ...string) (string, error)
}

// WhoisConfig configures the raw WHOIS client.
type WhoisConfig struct {
	// Timeout bounds each lookup. Default: 10s.
	Timeout time.Duration

	// Querier overrides the WHOIS transport, for tests.
	Querier whoisQuerier

	// Logger for lookup diagnostics. Default: slog.Default().
	Logger *slog.Logger
}

// WhoisClient answers availability from raw WHOIS text. WHOIS replies are
// free-form, so classification is pattern-based and conservative: ambiguous
// replies read as taken. This is the only variant that can detect
// premium/reserved names.
type WhoisClient struct {
	querier whoisQuerier
	log     *slog.Logger
}

// NewWhoisClient creates a raw WHOIS registry client.
func NewWhoisClient(cfg WhoisConfig) *WhoisClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultWhoisTimeout
	}
	querier := cfg.Querier
	if querier == nil {
		querier = whois.NewClient().SetTimeout(timeout)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	return &WhoisClient{querier: querier, log: log}
}

// takenPatterns indicate the domain IS registered. Checked first: presence of
// registration data is more reliable than absence phrases.
var takenPatterns = []string{
	"registrar:",
	"registrant:",
	"creation date:",
	"created:",
	"registry expiry date:",
	"expiration date:",
	"name server:",
	"nameserver:",
	"nserver:",
	"registrar iana id:",
	"domain status:",
}

// availablePatterns indicate the registry has no record.
var availablePatterns = []string{
	"no match for",
	"not found",
	"no entries found",
	"domain not found",
	"no data found",
	"status: free",
	"status: available",
	"no object found",
	"object does not exist",
	"is available for registration",
	"domain is available",
	"the queried object does not exist",
	"no such domain",
	"domain name has not been registered",
	"no matching record",
}

// Lookup performs the WHOIS query and classifies the reply text.
func (c *WhoisClient) Lookup(ctx context.Context, domain string) (DomainResult, error) {
	type reply struct {
		text string
		err  error
	}

	// The whois library has its own dial timeout but no context support, so
	// run the query aside and respect ctx here.
	ch := make(chan reply, 1)
	go func() {
		text, err := c.querier.Whois(domain)
		ch <- reply{text: text, err: err}
	}()

	var r reply
	select {
	case <-ctx.Done():
		return classifyTransportError(domain, ctx.Err())
	case r = <-ch:
	}

	if r.err != nil {
		return classifyTransportError(domain, r.err)
	}

	return DomainResult{URL: domain, Status: classifyWhoisReply(r.text)}, nil
}

// classifyWhoisReply maps free-form WHOIS text to a status. Order matters:
// registration data first, then premium/reserved markers, then availability
// phrases; anything unclear is taken.
func classifyWhoisReply(text string) DomainStatus {
	lower := strings.ToLower(text)

	for _, pattern := range takenPatterns {
		if strings.Contains(lower, pattern) {
			return StatusTaken
		}
	}

	if isPremiumReply(lower) {
		return StatusPremium
	}

	for _, pattern := range availablePatterns {
		if strings.Contains(lower, pattern) {
			return StatusAvailable
		}
	}

	return StatusTaken
}

// isPremiumReply detects premium/platinum reserved names offered for purchase
// rather than open registration.
func isPremiumReply(lower string) bool {
	if strings.Contains(lower, "this name is reserved") {
		return true
	}
	if !strings.Contains(lower, "premium") && !strings.Contains(lower, "platinum") {
		return false
	}
	return strings.Contains(lower, "purchase") ||
		strings.Contains(lower, "contact") ||
		strings.Contains(lower, "offer") ||
		strings.Contains(lower, "reserved")
}
