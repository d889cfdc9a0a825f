package namegen_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/namesmith/namesmith/internal/namegen"
	"github.com/namesmith/namesmith/internal/registry"
)

type fakeGenerator struct {
	names []namegen.GeneratedName
	err   error
}

func (g fakeGenerator) Generate(ctx context.Context, req namegen.GenerateRequest) ([]namegen.GeneratedName, error) {
	return g.names, g.err
}

type fakeChecker struct {
	batches     [][]string
	resetCalls  int
	rateLimited bool
	lastErr     *registry.CheckError
}

func (c *fakeChecker) CheckDomains(ctx context.Context, domains []string) []registry.DomainResult {
	c.batches = append(c.batches, domains)
	results := make([]registry.DomainResult, 0, len(domains))
	for _, d := range domains {
		results = append(results, registry.DomainResult{URL: d, Status: registry.StatusAvailable})
	}
	return results
}

func (c *fakeChecker) ResetCounter()          { c.resetCalls++ }
func (c *fakeChecker) RateLimitReached() bool { return c.rateLimited }

func (c *fakeChecker) LastError() *registry.CheckError { return c.lastErr }

func TestNewService_Validation(t *testing.T) {
	t.Parallel()

	_, err := namegen.NewService(nil, &fakeChecker{})
	assert.ErrorIs(t, err, namegen.ErrGeneratorRequired)

	_, err = namegen.NewService(fakeGenerator{}, nil)
	assert.ErrorIs(t, err, namegen.ErrCheckerRequired)
}

func TestService_Run_WithoutDomainChecks(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{}
	svc, err := namegen.NewService(fakeGenerator{
		names: []namegen.GeneratedName{
			{Name: "Zenlify", Tagline: "calm at scale"},
			{Name: "Nimbra"},
		},
	}, checker)
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), namegen.RunRequest{
		Description: "a meditation app",
	})
	require.NoError(t, err)

	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "Zenlify", result.Candidates[0].Name)
	assert.Equal(t, "calm at scale", result.Candidates[0].Tagline)
	assert.Empty(t, result.Candidates[0].Domains)
	assert.False(t, result.RateLimited)
	assert.Nil(t, result.Warning)

	assert.Zero(t, checker.resetCalls, "no domain checks were requested")
	assert.Empty(t, checker.batches)
}

func TestService_Run_ChecksCandidateDomains(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{}
	svc, err := namegen.NewService(fakeGenerator{
		names: []namegen.GeneratedName{
			{Name: "Zen Lify"},
			{Name: "Nimbra"},
		},
	}, checker, namegen.WithTLDs([]string{"com", "io"}))
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), namegen.RunRequest{
		Description:  "a meditation app",
		CheckDomains: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, checker.resetCalls, "accounting resets once per run")
	require.Len(t, checker.batches, 2)
	assert.Equal(t, []string{"zenlify.com", "zenlify.io"}, checker.batches[0])
	assert.Equal(t, []string{"nimbra.com", "nimbra.io"}, checker.batches[1])

	require.Len(t, result.Candidates, 2)
	require.Len(t, result.Candidates[0].Domains, 2)
	assert.Equal(t, "zenlify.com", result.Candidates[0].Domains[0].URL)
}

func TestService_Run_RequestTLDsOverrideDefaults(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{}
	svc, err := namegen.NewService(fakeGenerator{
		names: []namegen.GeneratedName{{Name: "Nimbra"}},
	}, checker, namegen.WithTLDs([]string{"com"}))
	require.NoError(t, err)

	_, err = svc.Run(context.Background(), namegen.RunRequest{
		Description:  "a meditation app",
		CheckDomains: true,
		TLDs:         []string{"dev", "AI"},
	})
	require.NoError(t, err)

	require.Len(t, checker.batches, 1)
	assert.Equal(t, []string{"nimbra.dev", "nimbra.ai"}, checker.batches[0])
}

func TestService_Run_GenerationFailureIsFatal(t *testing.T) {
	t.Parallel()

	genErr := errors.New("model unavailable")
	checker := &fakeChecker{}
	svc, err := namegen.NewService(fakeGenerator{err: genErr}, checker)
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), namegen.RunRequest{
		Description:  "a meditation app",
		CheckDomains: true,
	})
	assert.ErrorIs(t, err, genErr)
	assert.Nil(t, result)
	assert.Empty(t, checker.batches, "no domain checks after a failed generation")
}

func TestService_Run_SurfacesRateLimitWarning(t *testing.T) {
	t.Parallel()

	checker := &fakeChecker{
		rateLimited: true,
		lastErr: &registry.CheckError{
			Kind:    registry.KindRateLimit,
			Message: "rate limit reached, retry in 42s",
		},
	}
	svc, err := namegen.NewService(fakeGenerator{
		names: []namegen.GeneratedName{{Name: "Nimbra"}},
	}, checker)
	require.NoError(t, err)

	result, err := svc.Run(context.Background(), namegen.RunRequest{
		Description:  "a meditation app",
		CheckDomains: true,
	})
	require.NoError(t, err, "rate limiting degrades, it does not fail the run")

	assert.True(t, result.RateLimited)
	require.NotNil(t, result.Warning)
	assert.Equal(t, registry.KindRateLimit, result.Warning.Kind)
	require.Len(t, result.Candidates, 1)
}
