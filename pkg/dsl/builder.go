package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/thicket/pkg/expander"
	"github.com/aretw0/thicket/pkg/spec"
)

// Builder collects the levels of a tree, shallowest first.
type Builder struct {
	levels []*LevelBuilder
	exp    *expander.Expander
}

// Option configures a Builder.
type Option func(*Builder)

// WithExpander compiles Text fields against e instead of the default lexicon.
func WithExpander(e *expander.Expander) Option {
	return func(b *Builder) {
		b.exp = e
	}
}

// New creates a new level builder.
func New(opts ...Option) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.exp == nil {
		b.exp = expander.New(nil)
	}
	return b
}

// Level appends a new level below the previously added ones.
func (b *Builder) Level() *LevelBuilder {
	lb := &LevelBuilder{
		index:   len(b.levels),
		builder: b,
	}
	b.levels = append(b.levels, lb)
	return lb
}

// Build returns the levels, or every construction error found while
// declaring them.
func (b *Builder) Build() ([]spec.Level, error) {
	var errs []error
	levels := make([]spec.Level, 0, len(b.levels))
	for _, lb := range b.levels {
		errs = append(errs, lb.errs...)
		levels = append(levels, lb.level)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("failed to build levels: %w", err)
	}

	if err := spec.Validate(levels); err != nil {
		return nil, err
	}
	return levels, nil
}
