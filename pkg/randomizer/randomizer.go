// Package randomizer provides the value generators used to populate node fields.
//
// A Randomizer produces one value per call, or reports "no value" so the caller
// omits the field. Randomizers hold no mutable state: the random source is
// passed to every call, which makes a single instance reusable across nodes,
// builds and goroutines. Constructors validate their arguments eagerly; once
// built, Generate cannot fail.
package randomizer

import (
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/thicket/pkg/domain"
)

// Randomizer generates field values.
type Randomizer interface {
	// Generate returns a value, or false when the field must be omitted.
	Generate(r *rand.Rand) (any, bool)
}

// Option configures a randomizer.
type Option func(*options)

type options struct {
	probability float64
}

func defaultOptions() options {
	return options{probability: 1}
}

// WithProbability sets the chance that Generate yields a value. With
// probability 1-p it reports "no value" instead. p must be within [0, 1].
func WithProbability(p float64) Option {
	return func(o *options) {
		o.probability = p
	}
}

func buildOptions(kind string, opts []Option) (options, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := checkProbability(kind, o.probability); err != nil {
		return options{}, err
	}
	return o, nil
}

func checkProbability(kind string, p float64) error {
	// NaN fails both comparisons, so it is rejected too.
	if !(p >= 0 && p <= 1) {
		return &domain.ConstructionError{
			Randomizer: kind,
			Reason:     fmt.Sprintf("probability %v is outside [0, 1]", p),
			Err:        domain.ErrInvalidProbability,
		}
	}
	return nil
}

// gate decides whether a draw yields a value.
type gate float64

func (g gate) pass(r *rand.Rand) bool {
	if g >= 1 {
		return true
	}
	return r.Float64() < float64(g)
}

// Probability returns the chance that a randomizer yields a value, or 1 for
// randomizers that always do.
func Probability(rz Randomizer) float64 {
	if p, ok := rz.(interface{ probability() gate }); ok {
		return float64(p.probability())
	}
	return 1
}

// Func adapts an ordinary function to the Randomizer interface.
type Func func(r *rand.Rand) (any, bool)

// Generate calls f(r).
func (f Func) Generate(r *rand.Rand) (any, bool) {
	return f(r)
}

func (f Func) String() string {
	return "func"
}
