// Package spec describes the levels of a tree: how many nodes each level has
// under every parent, how their fields are populated and an optional callback
// that adjusts each node after its fields are resolved.
package spec

import (
	"fmt"

	"github.com/aretw0/thicket/pkg/expander"
	"github.com/aretw0/thicket/pkg/randomizer"
)

// Kind tags the variant held by a FieldSpec.
type Kind int

const (
	KindLiteral Kind = iota
	KindRandom
	KindTemplate
)

func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "literal"
	case KindRandom:
		return "random"
	case KindTemplate:
		return "template"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// FieldSpec describes how one field is populated.
type FieldSpec struct {
	kind     Kind
	literal  any
	random   randomizer.Randomizer
	template string
}

// Literal copies v verbatim into every node.
func Literal(v any) FieldSpec {
	return FieldSpec{kind: KindLiteral, literal: v}
}

// Random draws the field from r for every node; "no value" omits the field.
func Random(r randomizer.Randomizer) FieldSpec {
	return FieldSpec{kind: KindRandom, random: r}
}

// Template expands the $(Word[:Form]) placeholders of s for every node.
func Template(s string) FieldSpec {
	return FieldSpec{kind: KindTemplate, template: s}
}

// Auto picks the variant from the dynamic type of v: a FieldSpec is kept, a
// Randomizer becomes Random, a string with placeholders becomes Template and
// anything else is a Literal.
func Auto(v any) FieldSpec {
	switch x := v.(type) {
	case FieldSpec:
		return x
	case randomizer.Randomizer:
		return Random(x)
	case string:
		if expander.HasPlaceholders(x) {
			return Template(x)
		}
	}
	return Literal(v)
}

// Kind returns the variant tag.
func (f FieldSpec) Kind() Kind { return f.kind }

// Literal returns the literal value of a KindLiteral spec.
func (f FieldSpec) Literal() any { return f.literal }

// Randomizer returns the randomizer of a KindRandom spec.
func (f FieldSpec) Randomizer() randomizer.Randomizer { return f.random }

// Template returns the template text of a KindTemplate spec.
func (f FieldSpec) Template() string { return f.template }

func (f FieldSpec) String() string {
	switch f.kind {
	case KindRandom:
		if s, ok := f.random.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprintf("%T", f.random)
	case KindTemplate:
		return fmt.Sprintf("template(%q)", f.template)
	}
	return fmt.Sprintf("%v", f.literal)
}

// Field is a named FieldSpec. Fields are resolved in declaration order.
type Field struct {
	Name string
	Spec FieldSpec
}
