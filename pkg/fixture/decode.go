package fixture

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/expander"
	"github.com/aretw0/thicket/pkg/randomizer"
	"github.com/aretw0/thicket/pkg/registry"
	"github.com/aretw0/thicket/pkg/spec"
	"github.com/mitchellh/mapstructure"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// TodayKeyword stands for the current date in date_range bounds.
const TodayKeyword = "today"

// Decoder turns YAML fixture documents into Definitions.
type Decoder struct {
	Expander  *expander.Expander
	Callbacks *registry.Registry
	Now       func() time.Time
}

// NewDecoder creates a decoder with the default lexicon, the built-in
// callbacks and the wall clock.
func NewDecoder() *Decoder {
	return &Decoder{
		Expander:  expander.New(nil),
		Callbacks: DefaultCallbacks(),
		Now:       time.Now,
	}
}

// Parse decodes a fixture document with a default decoder.
func Parse(data []byte) (*Definition, error) {
	return NewDecoder().Decode(data)
}

// Load reads and decodes a fixture document from disk.
func (d *Decoder) Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}
	def, err := d.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	def.Source = path
	return def, nil
}

type header struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	HTML        bool   `mapstructure:"add_html"`
}

// Decode decodes one fixture document. Field order inside levels, types and
// columns is kept as written.
func (d *Decoder) Decode(data []byte) (*Definition, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, errors.New("fixture document must be a mapping")
	}
	root := doc.Content[0]

	def := &Definition{}
	head := map[string]any{}
	var levels *yaml.Node

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		switch key.Value {
		case "name", "description", "add_html":
			var v any
			if err := val.Decode(&v); err != nil {
				return nil, lineErr(val, err)
			}
			head[key.Value] = v
		case "types":
			obj, err := toOrdered(val)
			if err != nil {
				return nil, err
			}
			m, ok := obj.(*Object)
			if !ok {
				return nil, lineErr(val, errors.New("types must be a mapping"))
			}
			def.Types = m
		case "columns":
			if val.Kind != yaml.SequenceNode {
				return nil, lineErr(val, errors.New("columns must be a list"))
			}
			for _, item := range val.Content {
				obj, err := toOrdered(item)
				if err != nil {
					return nil, err
				}
				col, ok := obj.(*Object)
				if !ok {
					return nil, lineErr(item, errors.New("column must be a mapping"))
				}
				def.Columns = append(def.Columns, col)
			}
		case "levels":
			levels = val
		default:
			return nil, lineErr(key, fmt.Errorf("unknown key %q", key.Value))
		}
	}

	var h header
	if err := mapstructure.Decode(head, &h); err != nil {
		return nil, fmt.Errorf("invalid fixture header: %w", err)
	}
	if !ValidName(h.Name) {
		return nil, fmt.Errorf("invalid fixture name %q", h.Name)
	}
	def.Name, def.Description, def.HTML = h.Name, h.Description, h.HTML

	if levels == nil || levels.Kind != yaml.SequenceNode {
		return nil, errors.New("fixture needs a levels list")
	}
	for i, ln := range levels.Content {
		l, err := d.decodeLevel(i, ln)
		if err != nil {
			return nil, lineErr(ln, err)
		}
		def.Levels = append(def.Levels, l)
	}
	if err := spec.Validate(def.Levels); err != nil {
		return nil, err
	}
	return def, nil
}

func (d *Decoder) decodeLevel(index int, n *yaml.Node) (spec.Level, error) {
	if n.Kind != yaml.MappingNode {
		return spec.Level{}, &domain.SpecShapeError{Level: index, Reason: "level must be a mapping"}
	}

	var l spec.Level
	var hasCount bool
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, val := n.Content[i], n.Content[i+1]
		switch strings.TrimPrefix(key.Value, ":") {
		case spec.CountKey:
			c, err := d.decodeCount(index, val)
			if err != nil {
				return spec.Level{}, err
			}
			l.Count, hasCount = c, true
		case spec.CallbackKey:
			cb, err := d.decodeCallback(index, val)
			if err != nil {
				return spec.Level{}, err
			}
			l.Callback = cb
		case "fields":
			if val.Kind != yaml.MappingNode {
				return spec.Level{}, &domain.SpecShapeError{Level: index, Key: "fields", Reason: "fields must be a mapping"}
			}
			for j := 0; j+1 < len(val.Content); j += 2 {
				name, fv := val.Content[j].Value, val.Content[j+1]
				fs, err := d.decodeField(index, name, fv)
				if err != nil {
					return spec.Level{}, lineErr(fv, err)
				}
				l.Fields = append(l.Fields, spec.Field{Name: name, Spec: fs})
			}
		default:
			return spec.Level{}, &domain.SpecShapeError{Level: index, Key: key.Value, Reason: "unknown level key"}
		}
	}

	if !hasCount {
		return spec.Level{}, &domain.SpecShapeError{Level: index, Key: spec.CountKey, Reason: "count is required"}
	}
	return l, nil
}

func (d *Decoder) decodeCount(index int, n *yaml.Node) (spec.Count, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		var c int
		if err := n.Decode(&c); err != nil {
			return spec.Count{}, &domain.SpecShapeError{Level: index, Key: spec.CountKey, Value: n.Value, Reason: "count must be an integer or a randomizer"}
		}
		return spec.Fixed(c), nil
	case yaml.MappingNode:
		rz, err := d.decodeRandomizer(index, spec.CountKey, n)
		if err != nil {
			return spec.Count{}, err
		}
		return spec.RandomCount(rz), nil
	}
	return spec.Count{}, &domain.SpecShapeError{Level: index, Key: spec.CountKey, Reason: "count must be an integer or a randomizer"}
}

func (d *Decoder) decodeCallback(index int, n *yaml.Node) (spec.Callback, error) {
	var (
		name   string
		params map[string]any
	)
	switch n.Kind {
	case yaml.ScalarNode:
		name = n.Value
	case yaml.MappingNode:
		if err := n.Decode(&params); err != nil {
			return nil, err
		}
		name, _ = params["name"].(string)
		delete(params, "name")
	}
	if name == "" {
		return nil, &domain.SpecShapeError{Level: index, Key: spec.CallbackKey, Reason: "callback needs a name"}
	}
	if d.Callbacks == nil {
		return nil, fmt.Errorf("level %d: callback %q: no callback registry", index, name)
	}
	cb, err := d.Callbacks.Build(name, params)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", index, err)
	}
	return cb, nil
}

func (d *Decoder) decodeField(index int, name string, n *yaml.Node) (spec.FieldSpec, error) {
	switch n.Kind {
	case yaml.MappingNode:
		rz, err := d.decodeRandomizer(index, name, n)
		if err != nil {
			return spec.FieldSpec{}, err
		}
		return spec.Random(rz), nil
	case yaml.ScalarNode, yaml.SequenceNode:
		v, err := toOrdered(n)
		if err != nil {
			return spec.FieldSpec{}, err
		}
		return spec.Auto(v), nil
	}
	return spec.FieldSpec{}, &domain.SpecShapeError{Level: index, Key: name, Reason: "unsupported field value"}
}

// block is the YAML shape of a randomizer. Exactly one generator key is set.
type block struct {
	Range       []int    `mapstructure:"range"`
	DateRange   []any    `mapstructure:"date_range"`
	Sample      []string `mapstructure:"sample"`
	Value       any      `mapstructure:"value"`
	Text        string   `mapstructure:"text"`
	Fake        string   `mapstructure:"fake"`
	Probability *float64 `mapstructure:"probability"`
}

var generatorKeys = []string{"range", "date_range", "sample", "value", "text", "fake"}

func (d *Decoder) decodeRandomizer(index int, key string, n *yaml.Node) (randomizer.Randomizer, error) {
	raw, err := toOrdered(n)
	if err != nil {
		return nil, err
	}
	obj := raw.(*Object)
	input := make(map[string]any, obj.Len())
	for pair := obj.Oldest(); pair != nil; pair = pair.Next() {
		input[pair.Key] = pair.Value
	}

	var b block
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &b,
		ErrorUnused: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(input); err != nil {
		return nil, &domain.SpecShapeError{Level: index, Key: key, Reason: fmt.Sprintf("invalid randomizer: %v", err)}
	}

	// "value: null" is a valid block, so presence is read from the input keys.
	var kinds []string
	for _, k := range generatorKeys {
		if _, ok := input[k]; ok {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) != 1 {
		return nil, &domain.SpecShapeError{
			Level:  index,
			Key:    key,
			Reason: fmt.Sprintf("randomizer needs exactly one of %s", strings.Join(generatorKeys, ", ")),
		}
	}

	var opts []randomizer.Option
	if b.Probability != nil {
		opts = append(opts, randomizer.WithProbability(*b.Probability))
	}

	switch kinds[0] {
	case "range":
		if len(b.Range) != 2 {
			return nil, &domain.SpecShapeError{Level: index, Key: key, Reason: "range needs [low, high]"}
		}
		if b.Probability != nil {
			rz, err := randomizer.NewRange(b.Range[0], b.Range[1])
			if err != nil {
				return nil, err
			}
			return gated(rz, *b.Probability)
		}
		return randomizer.NewRange(b.Range[0], b.Range[1])
	case "date_range":
		if len(b.DateRange) != 2 {
			return nil, &domain.SpecShapeError{Level: index, Key: key, Reason: "date_range needs [low, high]"}
		}
		lo, err := d.date(b.DateRange[0])
		if err != nil {
			return nil, &domain.SpecShapeError{Level: index, Key: key, Value: b.DateRange[0], Reason: err.Error()}
		}
		hi, err := d.date(b.DateRange[1])
		if err != nil {
			return nil, &domain.SpecShapeError{Level: index, Key: key, Value: b.DateRange[1], Reason: err.Error()}
		}
		return randomizer.NewDateRange(lo, hi, opts...)
	case "sample":
		return randomizer.NewSample(b.Sample, opts...)
	case "value":
		p := 1.0
		if b.Probability != nil {
			p = *b.Probability
		}
		return randomizer.NewValue(b.Value, p)
	case "text":
		return randomizer.NewText(d.Expander, b.Text, opts...)
	default:
		return randomizer.NewFake(b.Fake, opts...)
	}
}

// gated adds a probability to a randomizer that has none of its own.
func gated(rz randomizer.Randomizer, p float64) (randomizer.Randomizer, error) {
	gate, err := randomizer.NewValue(true, p)
	if err != nil {
		return nil, err
	}
	return randomizer.Func(func(r *rand.Rand) (any, bool) {
		if _, ok := gate.Generate(r); !ok {
			return nil, false
		}
		return rz.Generate(r)
	}), nil
}

func (d *Decoder) date(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case string:
		if x == TodayKeyword {
			now := time.Now
			if d.Now != nil {
				now = d.Now
			}
			return now(), nil
		}
		t, err := time.Parse(randomizer.DateLayout, x)
		if err != nil {
			return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD or %q", TodayKeyword)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD or %q", TodayKeyword)
}

// toOrdered converts a YAML node into plain values, decoding mappings as
// ordered objects so their key order survives into JSON.
func toOrdered(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.MappingNode:
		obj := orderedmap.New[string, any]()
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := toOrdered(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			obj.Set(n.Content[i].Value, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		list := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := toOrdered(c)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case yaml.AliasNode:
		return toOrdered(n.Alias)
	}
	var v any
	if err := n.Decode(&v); err != nil {
		return nil, lineErr(n, err)
	}
	return v, nil
}

func lineErr(n *yaml.Node, err error) error {
	return fmt.Errorf("line %d: %w", n.Line, err)
}
