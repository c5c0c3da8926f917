package spec

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/randomizer"
)

// Reserved level keys.
const (
	CountKey    = "count"
	CallbackKey = "callback"
	TypeKey     = "type"
)

// MaxCount is the largest number of siblings a level may create under one
// parent.
const MaxCount = 1 << 24

// Count is the number of siblings a level creates under each parent.
// The zero value is Fixed(0).
type Count struct {
	fixed  int
	random randomizer.Randomizer
}

// Fixed creates the same number of siblings under every parent.
func Fixed(n int) Count {
	return Count{fixed: n}
}

// RandomCount draws the number of siblings from r once per parent.
func RandomCount(r randomizer.Randomizer) Count {
	return Count{random: r}
}

// IsRandom reports whether the count is drawn from a randomizer.
func (c Count) IsRandom() bool {
	return c.random != nil
}

// Randomizer returns the randomizer of a random count.
func (c Count) Randomizer() randomizer.Randomizer {
	return c.random
}

// Resolve returns the sibling count for one parent. A randomizer draw of
// "no value" resolves to 0; a non-integer draw or one above MaxCount is a
// SpecShapeError.
func (c Count) Resolve(r *rand.Rand, level int) (int, error) {
	if c.random == nil {
		if c.fixed > MaxCount {
			return 0, tooMany(level, c.fixed)
		}
		return c.fixed, nil
	}
	v, ok := c.random.Generate(r)
	if !ok {
		return 0, nil
	}
	n, ok := toInt(v)
	if !ok {
		return 0, &domain.SpecShapeError{
			Level:  level,
			Key:    CountKey,
			Value:  v,
			Reason: "count randomizer must produce an integer",
		}
	}
	if n > MaxCount {
		return 0, tooMany(level, n)
	}
	return n, nil
}

func tooMany(level, n int) error {
	return &domain.SpecShapeError{
		Level:  level,
		Key:    CountKey,
		Reason: fmt.Sprintf("count %d exceeds the limit of %d", n, MaxCount),
	}
}

func (c Count) String() string {
	if c.random == nil {
		return fmt.Sprintf("%d", c.fixed)
	}
	return Random(c.random).String()
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) && !math.IsInf(n, 0) {
			return int(n), true
		}
	case float32:
		if f := float64(n); f == math.Trunc(f) && !math.IsInf(f, 0) {
			return int(f), true
		}
	}
	return 0, false
}

// Callback adjusts a node's fields after they are resolved. It may add or
// remove keys. r is the random source of the current build.
type Callback func(r *rand.Rand, fields *domain.Fields) error

// Level describes one depth of the tree.
type Level struct {
	Count    Count
	Fields   []Field
	Callback Callback
}

// NewLevel creates a level with the given count.
func NewLevel(count Count) *Level {
	return &Level{Count: count}
}

// Set adds the field name, picking its variant with Auto. Setting an existing
// name replaces its spec in place.
func (l *Level) Set(name string, v any) *Level {
	fs := Auto(v)
	for i := range l.Fields {
		if l.Fields[i].Name == name {
			l.Fields[i].Spec = fs
			return l
		}
	}
	l.Fields = append(l.Fields, Field{Name: name, Spec: fs})
	return l
}

// Field returns the spec of the named field.
func (l *Level) Field(name string) (FieldSpec, bool) {
	for _, f := range l.Fields {
		if f.Name == name {
			return f.Spec, true
		}
	}
	return FieldSpec{}, false
}

// Validate checks the shape of every level: counts are non-negative, field
// names are unique and not reserved, random fields carry a randomizer and a
// literal "type" is a string.
func Validate(levels []Level) error {
	for i, l := range levels {
		if err := l.validate(i); err != nil {
			return err
		}
	}
	return nil
}

func (l *Level) validate(index int) error {
	if l.Count.random == nil && l.Count.fixed < 0 {
		return &domain.SpecShapeError{Level: index, Key: CountKey, Reason: fmt.Sprintf("count %d is negative", l.Count.fixed)}
	}
	if l.Count.random == nil && l.Count.fixed > MaxCount {
		return tooMany(index, l.Count.fixed)
	}

	seen := make(map[string]bool, len(l.Fields))
	for _, f := range l.Fields {
		switch {
		case f.Name == "":
			return &domain.SpecShapeError{Level: index, Key: f.Name, Reason: "field name is empty"}
		case f.Name == domain.ChildrenKey || f.Name == CountKey || f.Name == CallbackKey:
			return &domain.SpecShapeError{Level: index, Key: f.Name, Reason: "field name is reserved"}
		case seen[f.Name]:
			return &domain.SpecShapeError{Level: index, Key: f.Name, Reason: "field is declared twice"}
		case f.Spec.kind == KindRandom && f.Spec.random == nil:
			return &domain.SpecShapeError{Level: index, Key: f.Name, Reason: "random field has no randomizer"}
		}
		seen[f.Name] = true

		if f.Name == TypeKey && f.Spec.kind == KindLiteral {
			if _, ok := f.Spec.literal.(string); !ok {
				return &domain.SpecShapeError{Level: index, Key: TypeKey, Value: f.Spec.literal, Reason: "type must be a string or a randomizer"}
			}
		}
	}
	return nil
}
