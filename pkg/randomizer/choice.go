package randomizer

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/aretw0/thicket/pkg/domain"
)

// Sample draws one string uniformly from a fixed list.
type Sample struct {
	choices []string
	gate    gate
}

// NewSample creates a Sample randomizer. It fails when choices is empty.
func NewSample(choices []string, opts ...Option) (*Sample, error) {
	o, err := buildOptions("sample", opts)
	if err != nil {
		return nil, err
	}
	if len(choices) == 0 {
		return nil, &domain.ConstructionError{
			Randomizer: "sample",
			Reason:     "choices must not be empty",
			Err:        domain.ErrInvalidArgument,
		}
	}
	return &Sample{choices: slices.Clone(choices), gate: gate(o.probability)}, nil
}

// Choices returns a copy of the choice list.
func (s *Sample) Choices() []string {
	return slices.Clone(s.choices)
}

// Generate returns one of the choices, or no value with probability 1-p.
func (s *Sample) Generate(r *rand.Rand) (any, bool) {
	if !s.gate.pass(r) {
		return nil, false
	}
	return s.choices[r.IntN(len(s.choices))], true
}

func (s *Sample) probability() gate { return s.gate }

func (s *Sample) String() string {
	return fmt.Sprintf("sample(%s)%s", strings.Join(s.choices, ", "), suffix(s.gate))
}

// Value yields a fixed value with a given probability. It is used for sparse
// flags such as "expanded".
type Value struct {
	value any
	gate  gate
}

// NewValue creates a Value randomizer.
func NewValue(v any, p float64) (*Value, error) {
	if err := checkProbability("value", p); err != nil {
		return nil, err
	}
	return &Value{value: v, gate: gate(p)}, nil
}

// Generate returns the fixed value, or no value with probability 1-p.
func (v *Value) Generate(r *rand.Rand) (any, bool) {
	if !v.gate.pass(r) {
		return nil, false
	}
	return v.value, true
}

func (v *Value) probability() gate { return v.gate }

func (v *Value) String() string {
	return fmt.Sprintf("value(%v)%s", v.value, suffix(v.gate))
}
