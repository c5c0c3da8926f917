package fixture

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/randomizer"
	"github.com/aretw0/thicket/pkg/registry"
	"github.com/aretw0/thicket/pkg/spec"
	"github.com/mitchellh/mapstructure"
)

// DefaultCallbacks returns a registry holding the built-in callbacks:
//
//	checkboxes  sets <prefix>1..<prefix>N to value with a given probability
func DefaultCallbacks() *registry.Registry {
	r := registry.NewRegistry()
	r.Register("checkboxes", Checkboxes)
	return r
}

// CheckboxParams configures the checkboxes callback.
type CheckboxParams struct {
	Count       int     `mapstructure:"count"`
	Probability float64 `mapstructure:"probability"`
	Prefix      string  `mapstructure:"prefix"`
	Value       any     `mapstructure:"value"`
}

// Checkboxes builds a callback that fills a row of checkbox columns. Keys
// whose draw yields no value are removed from the node.
func Checkboxes(params map[string]any) (spec.Callback, error) {
	p := CheckboxParams{Probability: 0.2, Prefix: "state_", Value: true}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &p,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(params); err != nil {
		return nil, err
	}
	if p.Count < 0 {
		return nil, errors.New("count must not be negative")
	}

	vr, err := randomizer.NewValue(p.Value, p.Probability)
	if err != nil {
		return nil, err
	}

	keys := make([]string, p.Count)
	for i := range keys {
		keys[i] = fmt.Sprintf("%s%d", p.Prefix, i+1)
	}

	return func(r *rand.Rand, fields *domain.Fields) error {
		for _, key := range keys {
			if v, ok := vr.Generate(r); ok {
				fields.Set(key, v)
			} else {
				fields.Delete(key)
			}
		}
		return nil
	}, nil
}
