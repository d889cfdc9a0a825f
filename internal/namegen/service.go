package namegen

import (
	"context"
	"log/slog"
	"strings"

	"github.com/namesmith/namesmith/internal/registry"
	"github.com/namesmith/namesmith/pkg/slug"
)

var defaultTLDs = []string{"com", "io", "ai", "co"}

// DomainChecker is the availability surface the orchestrator needs.
type DomainChecker interface {
	CheckDomains(ctx context.Context, domains []string) []registry.DomainResult
	ResetCounter()
	RateLimitReached() bool
	LastError() *registry.CheckError
}

// Candidate is a generated name, optionally annotated with availability of
// its candidate domains.
type Candidate struct {
	Name    string                  `json:"name"`
	Tagline string                  `json:"tagline,omitempty"`
	Domains []registry.DomainResult `json:"domains,omitempty"`
}

// RunRequest describes one full generation run.
type RunRequest struct {
	Description  string   `json:"description"`
	Count        int      `json:"count"`
	Style        string   `json:"style,omitempty"`
	CheckDomains bool     `json:"check_domains"`
	TLDs         []string `json:"tlds,omitempty"`
}

// RunResult is the outcome of a run. Warning carries non-fatal domain-check
// failures (e.g. the rate limit was reached and some domains went unchecked),
// distinct from the fatal generation errors Run returns.
type RunResult struct {
	Candidates  []Candidate          `json:"candidates"`
	RateLimited bool                 `json:"rate_limited,omitempty"`
	Warning     *registry.CheckError `json:"warning,omitempty"`
}

// Service orchestrates a generation run: LLM call, then per-name domain
// availability checks when requested.
type Service struct {
	generator Generator
	checker   DomainChecker
	tlds      []string
	log       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithTLDs sets the default TLDs used to build candidate domains.
func WithTLDs(tlds []string) ServiceOption {
	return func(s *Service) {
		if len(tlds) > 0 {
			s.tlds = tlds
		}
	}
}

// WithLogger sets the logger for run diagnostics.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService creates the generation orchestrator.
func NewService(generator Generator, checker DomainChecker, opts ...ServiceOption) (*Service, error) {
	if generator == nil {
		return nil, ErrGeneratorRequired
	}
	if checker == nil {
		return nil, ErrCheckerRequired
	}

	s := &Service{
		generator: generator,
		checker:   checker,
		tlds:      defaultTLDs,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run generates names and, when requested, checks candidate domains for each.
// Generation failures are fatal and returned. Domain-check failures are not:
// they degrade to per-domain error statuses plus the result's Warning field.
func (s *Service) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	names, err := s.generator.Generate(ctx, GenerateRequest{
		Description: req.Description,
		Count:       req.Count,
		Style:       req.Style,
	})
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(names))

	if !req.CheckDomains {
		for _, n := range names {
			candidates = append(candidates, Candidate{Name: n.Name, Tagline: n.Tagline})
		}
		return &RunResult{Candidates: candidates}, nil
	}

	// Each run starts with fresh accounting so warnings reflect this run only.
	s.checker.ResetCounter()

	tlds := req.TLDs
	if len(tlds) == 0 {
		tlds = s.tlds
	}

	for _, n := range names {
		domains := candidateDomains(n.Name, tlds)
		results := s.checker.CheckDomains(ctx, domains)
		candidates = append(candidates, Candidate{
			Name:    n.Name,
			Tagline: n.Tagline,
			Domains: results,
		})
	}

	result := &RunResult{Candidates: candidates}
	if s.checker.RateLimitReached() {
		result.RateLimited = true
		result.Warning = s.checker.LastError()
		s.log.WarnContext(ctx, "rate limit reached during run, some domains unchecked")
	}
	return result, nil
}

// candidateDomains builds one domain per TLD from a name's label slug.
func candidateDomains(name string, tlds []string) []string {
	label := slug.Label(name)
	if label == "" {
		return nil
	}
	domains := make([]string, 0, len(tlds))
	for _, tld := range tlds {
		domains = append(domains, label+"."+strings.ToLower(tld))
	}
	return domains
}
