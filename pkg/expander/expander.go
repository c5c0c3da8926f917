// Package expander resolves $(Word[:Form]) placeholders against a lexicon.
//
// A placeholder body is a category name optionally followed by colon separated
// modifiers. A modifier starting with '#' filters the category by tag, any other
// modifier selects a word form:
//
//	$(Noun:plural)       capitalized plural noun
//	$(adv:#positive)     adverb tagged "positive"
//	$(NAME:middle)       upper-cased "First M. Last"
//
// The spelling of the category name selects the casing of the result: all
// capitals upper-cases it, a leading capital capitalizes its first letter, and
// lower case keeps the lexicon spelling.
package expander

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/lexicon"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Expander compiles and expands templates against a lexicon.
// It holds no per-call state and is safe for concurrent use.
type Expander struct {
	lex *lexicon.Lexicon
}

// New creates an expander. A nil lexicon selects lexicon.Default().
func New(lex *lexicon.Lexicon) *Expander {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Expander{lex: lex}
}

// Lexicon returns the lexicon placeholders are resolved against.
func (e *Expander) Lexicon() *lexicon.Lexicon {
	return e.lex
}

// Compile parses tmpl and validates every placeholder against the lexicon.
func (e *Expander) Compile(tmpl string) (*Template, error) {
	parts, err := Parse(tmpl)
	if err != nil {
		return nil, err
	}

	t := &Template{source: tmpl, segments: make([]segment, 0, len(parts))}
	for _, p := range parts {
		if !p.IsPlaceholder() {
			t.segments = append(t.segments, segment{literal: p.Literal})
			continue
		}
		sel, err := e.lex.Selector(p.Category, p.Form, p.Tag)
		if err != nil {
			return nil, withTemplate(err, tmpl, p.Raw)
		}
		t.segments = append(t.segments, segment{selector: &sel, casing: p.Casing})
	}
	return t, nil
}

// Expand compiles and executes tmpl in one step.
func (e *Expander) Expand(r *rand.Rand, tmpl string) (string, error) {
	t, err := e.Compile(tmpl)
	if err != nil {
		return "", err
	}
	return t.Execute(r), nil
}

func withTemplate(err error, tmpl, raw string) error {
	if te, ok := err.(*domain.TemplateError); ok {
		return &domain.TemplateError{Template: tmpl, Placeholder: raw, Reason: te.Reason, Err: te.Err}
	}
	return fmt.Errorf("template %q: placeholder %q: %w", tmpl, raw, err)
}

// Template is a compiled, validated template. Execute never fails.
type Template struct {
	source   string
	segments []segment
}

type segment struct {
	literal  string
	selector *lexicon.Selector
	casing   Casing
}

// Source returns the template text.
func (t *Template) Source() string {
	return t.source
}

// Execute expands every placeholder with an independent draw from r.
func (t *Template) Execute(r *rand.Rand) string {
	var b strings.Builder
	for _, s := range t.segments {
		if s.selector == nil {
			b.WriteString(s.literal)
			continue
		}
		b.WriteString(s.casing.Apply(s.selector.Draw(r)))
	}
	return b.String()
}

// Casing is the output casing inferred from a placeholder's spelling.
type Casing int

const (
	// AsIs keeps the lexicon spelling ("noun").
	AsIs Casing = iota
	// Capitalized upper-cases the first letter ("Noun").
	Capitalized
	// Upper upper-cases the whole result ("NOUN").
	Upper
)

var upper = cases.Upper(language.English)

// Apply renders s in the casing.
func (c Casing) Apply(s string) string {
	switch c {
	case Upper:
		return upper.String(s)
	case Capitalized:
		first, size := utf8.DecodeRuneInString(s)
		if first == utf8.RuneError {
			return s
		}
		return string(unicode.ToTitle(first)) + s[size:]
	}
	return s
}

func casingOf(word string) Casing {
	first, _ := utf8.DecodeRuneInString(word)
	switch {
	case utf8.RuneCountInString(word) > 1 && word == strings.ToUpper(word):
		return Upper
	case unicode.IsUpper(first):
		return Capitalized
	}
	return AsIs
}
