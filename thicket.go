package thicket

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/aretw0/thicket/internal/runtime"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/expander"
	"github.com/aretw0/thicket/pkg/lexicon"
	"github.com/aretw0/thicket/pkg/spec"
)

// Generator is the high-level entry point for the thicket library.
// It wraps the internal tree builder and owns the random source of its builds.
type Generator struct {
	runtime     *runtime.Builder
	expander    *expander.Expander
	lexicon     *lexicon.Lexicon
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	parallelism int

	mu   sync.Mutex
	rand *rand.Rand

	Name string
}

// Option defines a functional option for configuring the Generator.
type Option func(*Generator)

// WithSeed makes every build reproducible: the same seed and levels produce
// the same tree.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.rand = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithRand injects the random source. It takes precedence over WithSeed when
// given after it.
func WithRand(r *rand.Rand) Option {
	return func(g *Generator) {
		g.rand = r
	}
}

// WithLexicon resolves template placeholders against lex instead of the
// built-in English lexicon.
func WithLexicon(lex *lexicon.Lexicon) Option {
	return func(g *Generator) {
		g.lexicon = lex
	}
}

// WithLogger sets a custom structured logger for the generator.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(g *Generator) {
		g.hooks = hooks
	}
}

// WithParallelism builds up to n root subtrees concurrently. Builds stay
// deterministic under a seed, but level callbacks must then be safe for
// concurrent use.
func WithParallelism(n int) Option {
	return func(g *Generator) {
		g.parallelism = n
	}
}

// WithName labels the generator; the name is attached to its log records.
func WithName(name string) Option {
	return func(g *Generator) {
		g.Name = name
	}
}

// New initializes a Generator. Without WithSeed or WithRand every build draws
// from a randomly seeded source.
func New(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		opt(g)
	}

	if g.lexicon == nil {
		g.lexicon = lexicon.Default()
	}
	if g.rand == nil {
		g.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if g.logger == nil {
		g.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if g.Name != "" {
		g.logger = g.logger.With("fixture", g.Name)
	}

	g.expander = expander.New(g.lexicon)
	g.runtime = runtime.NewBuilder(g.expander,
		runtime.WithLogger(g.logger),
		runtime.WithLifecycleHooks(g.hooks),
		runtime.WithParallelism(g.parallelism),
	)
	return g
}

// Generate builds the tree described by levels, shallowest first. Any
// construction, template or shape error aborts the build; no partial tree is
// returned. Consecutive calls continue the generator's random stream.
func (g *Generator) Generate(levels []spec.Level) (*domain.TreeResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.runtime.Build(g.rand, levels)
}

// GenerateMaps is Generate for dynamically typed levels (see spec.FromMap).
func (g *Generator) GenerateMaps(levels []map[string]any) (*domain.TreeResult, error) {
	ls, err := spec.FromMaps(levels)
	if err != nil {
		return nil, err
	}
	return g.Generate(ls)
}

// Expander returns the template expander bound to the generator's lexicon.
func (g *Generator) Expander() *expander.Expander {
	return g.expander
}

// Lexicon returns the lexicon used for template placeholders.
func (g *Generator) Lexicon() *lexicon.Lexicon {
	return g.lexicon
}

// Logger returns the generator's logger.
func (g *Generator) Logger() *slog.Logger {
	return g.logger
}

// GenerateTree is a one-shot convenience for New(opts...).Generate(levels).
func GenerateTree(levels []spec.Level, opts ...Option) (*domain.TreeResult, error) {
	return New(opts...).Generate(levels)
}
