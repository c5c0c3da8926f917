package dsl

import (
	"fmt"
	"time"

	"github.com/aretw0/thicket/pkg/randomizer"
	"github.com/aretw0/thicket/pkg/spec"
)

// LevelBuilder provides a fluent API for configuring a level.
type LevelBuilder struct {
	index   int
	level   spec.Level
	errs    []error
	builder *Builder
}

func (l *LevelBuilder) fail(field string, err error) *LevelBuilder {
	l.errs = append(l.errs, fmt.Errorf("level %d: field %q: %w", l.index, field, err))
	return l
}

// Count creates n siblings under every parent.
func (l *LevelBuilder) Count(n int) *LevelBuilder {
	l.level.Count = spec.Fixed(n)
	return l
}

// CountRange draws the number of siblings from [lo, hi] for every parent.
func (l *LevelBuilder) CountRange(lo, hi int) *LevelBuilder {
	rz, err := randomizer.NewRange(lo, hi)
	if err != nil {
		return l.fail(spec.CountKey, err)
	}
	l.level.Count = spec.RandomCount(rz)
	return l
}

// CountFrom draws the number of siblings from rz for every parent.
func (l *LevelBuilder) CountFrom(rz randomizer.Randomizer) *LevelBuilder {
	l.level.Count = spec.RandomCount(rz)
	return l
}

// Field sets a field, picking literal, template or randomizer from v.
func (l *LevelBuilder) Field(name string, v any) *LevelBuilder {
	l.level.Set(name, v)
	return l
}

// Literal sets a field to v verbatim, even when v looks like a template.
func (l *LevelBuilder) Literal(name string, v any) *LevelBuilder {
	l.level.Set(name, spec.Literal(v))
	return l
}

// Random draws a field from rz.
func (l *LevelBuilder) Random(name string, rz randomizer.Randomizer) *LevelBuilder {
	l.level.Set(name, spec.Random(rz))
	return l
}

// Range draws an integer field from [lo, hi].
func (l *LevelBuilder) Range(name string, lo, hi int) *LevelBuilder {
	rz, err := randomizer.NewRange(lo, hi)
	if err != nil {
		return l.fail(name, err)
	}
	return l.Random(name, rz)
}

// Date draws a "YYYY-MM-DD" field between lo and hi.
func (l *LevelBuilder) Date(name string, lo, hi time.Time, opts ...randomizer.Option) *LevelBuilder {
	rz, err := randomizer.NewDateRange(lo, hi, opts...)
	if err != nil {
		return l.fail(name, err)
	}
	return l.Random(name, rz)
}

// Sample draws a field from choices.
func (l *LevelBuilder) Sample(name string, choices []string, opts ...randomizer.Option) *LevelBuilder {
	rz, err := randomizer.NewSample(choices, opts...)
	if err != nil {
		return l.fail(name, err)
	}
	return l.Random(name, rz)
}

// Value sets a field to v with probability p and omits it otherwise.
func (l *LevelBuilder) Value(name string, v any, p float64) *LevelBuilder {
	rz, err := randomizer.NewValue(v, p)
	if err != nil {
		return l.fail(name, err)
	}
	return l.Random(name, rz)
}

// Text expands tmpl for every node. Unlike Field, it accepts a probability
// and reports unknown placeholders from Build.
func (l *LevelBuilder) Text(name, tmpl string, opts ...randomizer.Option) *LevelBuilder {
	rz, err := randomizer.NewText(l.builder.exp, tmpl, opts...)
	if err != nil {
		return l.fail(name, err)
	}
	return l.Random(name, rz)
}

// Fake renders a gofakeit template for every node.
func (l *LevelBuilder) Fake(name, tmpl string, opts ...randomizer.Option) *LevelBuilder {
	rz, err := randomizer.NewFake(tmpl, opts...)
	if err != nil {
		return l.fail(name, err)
	}
	return l.Random(name, rz)
}

// Callback adjusts every node of the level after its fields are resolved.
func (l *LevelBuilder) Callback(cb spec.Callback) *LevelBuilder {
	l.level.Callback = cb
	return l
}

// Build returns the underlying spec.Level.
// This is primarily used by the Builder, but exposed for advanced usage.
func (l *LevelBuilder) Build() spec.Level {
	return l.level
}
