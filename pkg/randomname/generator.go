package randomname

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// maxAttempts bounds the uniqueness retry loop; after that duplicates are
// returned rather than spinning forever on an exhausted word space.
const maxAttempts = 100

// Generator produces adjective-noun style names, unique within one Generator.
type Generator struct {
	mu        sync.Mutex
	rnd       *rand.Rand
	pattern   []WordType
	separator string
	used      map[string]struct{}
}

// Option configures a Generator.
type Option func(*Generator)

// WithPattern sets the word types composed into each name.
// Default: [Adjective, Noun].
func WithPattern(pattern ...WordType) Option {
	return func(g *Generator) {
		if len(pattern) > 0 {
			g.pattern = pattern
		}
	}
}

// WithSeparator sets the string joining the words. Default "-".
func WithSeparator(s string) Option {
	return func(g *Generator) {
		g.separator = s
	}
}

// WithSeed fixes the random source, for reproducible output in tests.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rnd = rand.New(rand.NewSource(seed))
	}
}

// New creates a name generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
		pattern:   []WordType{Adjective, Noun},
		separator: "-",
		used:      make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns the next name. Names are unique per Generator until the
// word space is exhausted.
func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var name string
	for i := 0; i < maxAttempts; i++ {
		name = g.compose()
		if _, taken := g.used[name]; !taken {
			break
		}
	}
	g.used[name] = struct{}{}
	return name
}

// Batch returns n generated names.
func (g *Generator) Batch(n int) []string {
	names := make([]string, 0, n)
	for i := 0; i < n; i++ {
		names = append(names, g.Generate())
	}
	return names
}

// Words returns the next name split into its words, in pattern order.
func (g *Generator) Words() []string {
	return strings.Split(g.Generate(), g.separator)
}

func (g *Generator) compose() string {
	parts := make([]string, 0, len(g.pattern))
	for _, wt := range g.pattern {
		list := wordLists[wt]
		parts = append(parts, list[g.rnd.Intn(len(list))])
	}
	return strings.Join(parts, g.separator)
}
