package namegen

import (
	"context"
	"strings"

	"github.com/namesmith/namesmith/pkg/randomname"
)

// RandomGenerator is the offline Generator used when no LLM provider is
// configured. It composes names from curated word lists; taglines are empty.
type RandomGenerator struct {
	gen *randomname.Generator
}

// NewRandomGenerator creates the offline generator.
func NewRandomGenerator(opts ...randomname.Option) *RandomGenerator {
	return &RandomGenerator{gen: randomname.New(opts...)}
}

// Generate produces count word-combination names. The description is required
// for contract parity with the LLM generator but does not influence output.
func (g *RandomGenerator) Generate(ctx context.Context, req GenerateRequest) ([]GeneratedName, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, ErrEmptyDescription
	}

	count := req.Count
	if count <= 0 {
		count = defaultCount
	}
	if count > maxCount {
		count = maxCount
	}

	names := make([]GeneratedName, 0, count)
	for i := 0; i < count; i++ {
		names = append(names, GeneratedName{Name: brandCase(g.gen.Words())})
	}
	return names, nil
}

// brandCase joins words TitleCased, e.g. ["swift","falcon"] -> "SwiftFalcon".
func brandCase(words []string) string {
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	return b.String()
}
