// Package service generates catalog fixtures on request. It is the common
// path behind the HTTP and MCP adapters: resolve the definition, pick a seed,
// consult the cache and serialize the requested layout.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/aretw0/thicket/pkg/ports"
)

// Service generates fixtures from a catalog.
type Service struct {
	Catalog ports.Catalog

	// Cache keeps output of seeded requests. Nil disables caching.
	Cache ports.FixtureCache

	// GeneratorOptions are applied to every generator before the per-request
	// seed and name (e.g. logger, hooks, parallelism).
	GeneratorOptions []thicket.Option

	Logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithCache enables caching of seeded output.
func WithCache(c ports.FixtureCache) Option {
	return func(s *Service) {
		s.Cache = c
	}
}

// WithGeneratorOptions sets the options every generator is created with.
func WithGeneratorOptions(opts ...thicket.Option) Option {
	return func(s *Service) {
		s.GeneratorOptions = append(s.GeneratorOptions, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// New creates a Service over catalog.
func New(catalog ports.Catalog, opts ...Option) *Service {
	s := &Service{
		Catalog: catalog,
		Logger:  slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request selects what to generate. Nil Seed draws a random one; nil HTML
// uses the definition's default.
type Request struct {
	Name   string
	Layout fixture.Layout
	Seed   *uint64
	HTML   *bool
}

// Result is a serialized fixture. NodeCount and Depth are zero for cache hits.
type Result struct {
	Name      string
	Layout    fixture.Layout
	Seed      uint64
	Data      []byte
	Cached    bool
	NodeCount int
	Depth     int
}

// List returns the summaries of every catalog definition.
func (s *Service) List(ctx context.Context) ([]fixture.Summary, error) {
	defs, err := s.Catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]fixture.Summary, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.Summary())
	}
	return out, nil
}

// Generate builds and serializes one fixture. Only requests carrying a seed
// read from or write to the cache; cache failures are logged, not returned.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	layout := req.Layout
	if layout == "" {
		layout = fixture.Extended
	}
	def, err := s.Catalog.Get(ctx, req.Name)
	if err != nil {
		return nil, err
	}
	if !fixture.ValidLayout(def.Layouts(), layout) {
		return nil, fmt.Errorf("%w: fixture %s has no %s layout", domain.ErrInvalidArgument, def.Name, layout)
	}

	seed := rand.Uint64()
	if req.Seed != nil {
		seed = *req.Seed
	}
	html := def.HTML
	if req.HTML != nil {
		html = *req.HTML
	}
	res := &Result{Name: def.Name, Layout: layout, Seed: seed}

	cacheable := req.Seed != nil && s.Cache != nil
	key := ports.CacheKey(def.Name, seed, string(layout), html)
	if cacheable {
		data, err := s.Cache.Get(ctx, key)
		switch {
		case err == nil:
			res.Data, res.Cached = data, true
			return res, nil
		case !errors.Is(err, domain.ErrCacheMiss):
			s.Logger.Warn("cache read failed", "key", key, "err", err)
		}
	}

	opts := append(append([]thicket.Option{}, s.GeneratorOptions...), thicket.WithSeed(seed), thicket.WithName(def.Name))
	f, err := fixture.Assemble(thicket.New(opts...), def, fixture.WithHTML(html))
	if err != nil {
		return nil, err
	}
	data, err := f.Marshal(layout)
	if err != nil {
		return nil, err
	}
	res.Data, res.NodeCount, res.Depth = data, f.Tree.NodeCount, f.Tree.Depth

	if cacheable {
		if err := s.Cache.Set(ctx, key, data); err != nil {
			s.Logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	return res, nil
}

// Invalidate drops the cached output of every catalog fixture, typically
// after the catalog reloaded.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.Cache == nil {
		return nil
	}
	defs, err := s.Catalog.List(ctx)
	if err != nil {
		return err
	}
	var errs []error
	for _, d := range defs {
		if err := s.Cache.Purge(ctx, d.Name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
