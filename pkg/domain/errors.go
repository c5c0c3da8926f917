package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a randomizer is built with low > high.
var ErrInvalidRange = errors.New("invalid range")

// ErrInvalidArgument is returned when a randomizer is built with unusable arguments
// (e.g. an empty choice list).
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInvalidProbability is returned when a probability is outside [0, 1].
var ErrInvalidProbability = errors.New("probability out of range")

// ErrTemplateResolution is the class of every placeholder expansion failure.
var ErrTemplateResolution = errors.New("template resolution failed")

// ErrUnknownCategory is returned when a placeholder names a category the lexicon lacks.
var ErrUnknownCategory = errors.New("unknown lexicon category")

// ErrUnknownForm is returned when a placeholder asks for a form its category lacks.
var ErrUnknownForm = errors.New("unknown word form")

// ErrUnknownTag is returned when a tag filter leaves no word to draw from.
var ErrUnknownTag = errors.New("unknown word tag")

// ErrSpecShape is returned when a level specification has reserved keys of the wrong type.
var ErrSpecShape = errors.New("invalid level spec")

// ErrFixtureNotFound is returned when a fixture name is not present in a catalog.
var ErrFixtureNotFound = errors.New("fixture not found")

// ErrUnknownCallback is returned when a fixture refers to a callback name no
// registry entry provides.
var ErrUnknownCallback = errors.New("unknown callback")

// ErrCacheMiss is returned by fixture caches when a key is absent.
var ErrCacheMiss = errors.New("cache miss")

// ConstructionError reports invalid randomizer arguments. It is always returned
// by the constructor, never by Generate.
type ConstructionError struct {
	Randomizer string // e.g. "range", "sample"
	Reason     string
	Err        error // sentinel: ErrInvalidRange, ErrInvalidArgument, ErrInvalidProbability, ...
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("%s randomizer: %s", e.Randomizer, e.Reason)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// TemplateError reports a placeholder that cannot be resolved against the lexicon.
type TemplateError struct {
	Template    string
	Placeholder string
	Reason      string
	Err         error // ErrUnknownCategory, ErrUnknownForm, ErrUnknownTag or nil for syntax errors
}

func (e *TemplateError) Error() string {
	if e.Placeholder == "" {
		return fmt.Sprintf("template %q: %s", e.Template, e.Reason)
	}
	return fmt.Sprintf("template %q: placeholder %q: %s", e.Template, e.Placeholder, e.Reason)
}

// Unwrap exposes both the specific cause and the ErrTemplateResolution class.
func (e *TemplateError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrTemplateResolution}
	}
	return []error{ErrTemplateResolution, e.Err}
}

// SpecShapeError reports a level specification whose reserved keys have the wrong type.
type SpecShapeError struct {
	Level  int
	Key    string
	Value  any
	Reason string
}

func (e *SpecShapeError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("level %d: key %q: %s", e.Level, e.Key, e.Reason)
	}
	return fmt.Sprintf("level %d: key %q: %s (got %T)", e.Level, e.Key, e.Reason, e.Value)
}

func (e *SpecShapeError) Unwrap() error { return ErrSpecShape }
