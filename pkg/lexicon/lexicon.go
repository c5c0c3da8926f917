package lexicon

import (
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/thicket/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Category names understood by the lexicon.
const (
	Noun      = "noun"
	Verb      = "verb"
	Adjective = "adj"
	Adverb    = "adv"
	Name      = "name"
)

var aliases = map[string]string{
	"adjective": Adjective,
	"adverb":    Adverb,
}

//go:embed default.yaml
var defaultData []byte

// Entry is a single word. Irregular forms override the rule table; empty
// form fields fall back to the regular rules.
type Entry struct {
	Word   string   `yaml:"word"`
	Plural string   `yaml:"plural,omitempty"`
	S      string   `yaml:"s,omitempty"`
	Ing    string   `yaml:"ing,omitempty"`
	Ed     string   `yaml:"ed,omitempty"`
	PP     string   `yaml:"pp,omitempty"`
	Comp   string   `yaml:"comp,omitempty"`
	Super  string   `yaml:"super,omitempty"`
	Tags   []string `yaml:"tags,omitempty"`
}

// HasTag reports whether the entry carries tag.
func (e Entry) HasTag(tag string) bool {
	return slices.Contains(e.Tags, tag)
}

// Document is the on-disk shape of a lexicon.
type Document struct {
	Nouns      []Entry `yaml:"noun"`
	Verbs      []Entry `yaml:"verb"`
	Adjectives []Entry `yaml:"adj"`
	Adverbs    []Entry `yaml:"adv"`
	FirstNames []Entry `yaml:"first_name"`
	LastNames  []Entry `yaml:"last_name"`
}

// formFunc renders an entry in a given form. The random source is only used
// by composite forms (names).
type formFunc func(r *rand.Rand, e Entry) string

type category struct {
	name  string
	words []Entry
	forms map[string]formFunc
}

// Lexicon is an immutable set of word categories. It is safe for concurrent use.
type Lexicon struct {
	categories map[string]*category
}

// New builds a lexicon from a document. Categories without words are omitted.
func New(doc Document) (*Lexicon, error) {
	lex := &Lexicon{categories: make(map[string]*category)}

	add := func(name string, words []Entry, forms map[string]formFunc) error {
		if len(words) == 0 {
			return nil
		}
		for i, w := range words {
			if strings.TrimSpace(w.Word) == "" {
				return fmt.Errorf("lexicon: %s entry %d has no word", name, i)
			}
		}
		lex.categories[name] = &category{name: name, words: words, forms: forms}
		return nil
	}

	if err := add(Noun, doc.Nouns, nounForms); err != nil {
		return nil, err
	}
	if err := add(Verb, doc.Verbs, verbForms); err != nil {
		return nil, err
	}
	if err := add(Adjective, doc.Adjectives, adjectiveForms); err != nil {
		return nil, err
	}
	if err := add(Adverb, doc.Adverbs, adverbForms); err != nil {
		return nil, err
	}

	if len(doc.FirstNames) > 0 || len(doc.LastNames) > 0 {
		if len(doc.FirstNames) == 0 || len(doc.LastNames) == 0 {
			return nil, fmt.Errorf("lexicon: names need both first_name and last_name entries")
		}
		if err := add(Name, doc.FirstNames, nameForms(doc.FirstNames, doc.LastNames)); err != nil {
			return nil, err
		}
	}

	return lex, nil
}

// Parse decodes a YAML lexicon document.
func Parse(data []byte) (*Lexicon, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	return New(doc)
}

// Load reads a YAML lexicon from disk.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon: %w", err)
	}
	return Parse(data)
}

var defaultLexicon = sync.OnceValue(func() *Lexicon {
	lex, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Sprintf("lexicon: embedded default is invalid: %v", err))
	}
	return lex
})

// Default returns the built-in English lexicon.
func Default() *Lexicon {
	return defaultLexicon()
}

// Categories returns the available category names, sorted.
func (l *Lexicon) Categories() []string {
	names := make([]string, 0, len(l.categories))
	for name := range l.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Forms returns the form names of a category, sorted. The base form is "".
func (l *Lexicon) Forms(categoryName string) []string {
	c, ok := l.lookup(categoryName)
	if !ok {
		return nil
	}
	forms := make([]string, 0, len(c.forms))
	for f := range c.forms {
		forms = append(forms, f)
	}
	sort.Strings(forms)
	return forms
}

// Size returns the number of words in a category.
func (l *Lexicon) Size(categoryName string) int {
	c, ok := l.lookup(categoryName)
	if !ok {
		return 0
	}
	return len(c.words)
}

func (l *Lexicon) lookup(name string) (*category, bool) {
	name = strings.ToLower(name)
	if canonical, ok := aliases[name]; ok {
		name = canonical
	}
	c, ok := l.categories[name]
	return c, ok
}

// Selector draws words of one category, form and tag. Obtaining a Selector
// validates the combination, so Draw itself cannot fail.
type Selector struct {
	pool []Entry
	form formFunc
}

// Selector validates a category/form/tag combination and returns a drawer for it.
// The category name is case-insensitive; form and tag are exact. An empty form
// selects the base form, an empty tag selects every word.
func (l *Lexicon) Selector(categoryName, form, tag string) (Selector, error) {
	c, ok := l.lookup(categoryName)
	if !ok {
		return Selector{}, &domain.TemplateError{
			Reason: fmt.Sprintf("category %q is not in the lexicon", categoryName),
			Err:    domain.ErrUnknownCategory,
		}
	}

	fn, ok := c.forms[form]
	if !ok {
		return Selector{}, &domain.TemplateError{
			Reason: fmt.Sprintf("category %q has no form %q", c.name, form),
			Err:    domain.ErrUnknownForm,
		}
	}

	pool := c.words
	if tag != "" {
		pool = nil
		for _, w := range c.words {
			if w.HasTag(tag) {
				pool = append(pool, w)
			}
		}
		if len(pool) == 0 {
			return Selector{}, &domain.TemplateError{
				Reason: fmt.Sprintf("category %q has no word tagged #%s", c.name, tag),
				Err:    domain.ErrUnknownTag,
			}
		}
	}

	return Selector{pool: pool, form: fn}, nil
}

// Draw picks a uniformly random word from the pool and renders it.
func (s Selector) Draw(r *rand.Rand) string {
	e := s.pool[r.IntN(len(s.pool))]
	return s.form(r, e)
}

func base(_ *rand.Rand, e Entry) string { return e.Word }

func irregularOr(pick func(Entry) string, rule func(string) string) formFunc {
	return func(_ *rand.Rand, e Entry) string {
		if v := pick(e); v != "" {
			return v
		}
		return rule(e.Word)
	}
}

var nounForms = map[string]formFunc{
	"":       base,
	"plural": irregularOr(func(e Entry) string { return e.Plural }, Pluralize),
}

var verbForms = map[string]formFunc{
	"":    base,
	"s":   irregularOr(func(e Entry) string { return e.S }, ThirdPerson),
	"ing": irregularOr(func(e Entry) string { return e.Ing }, PresentParticiple),
	"ed":  irregularOr(func(e Entry) string { return e.Ed }, Past),
	"pp": func(_ *rand.Rand, e Entry) string {
		switch {
		case e.PP != "":
			return e.PP
		case e.Ed != "":
			return e.Ed
		}
		return Past(e.Word)
	},
}

var adjectiveForms = map[string]formFunc{
	"":      base,
	"comp":  irregularOr(func(e Entry) string { return e.Comp }, Comparative),
	"super": irregularOr(func(e Entry) string { return e.Super }, Superlative),
}

var adverbForms = map[string]formFunc{
	"": base,
}

func nameForms(first, last []Entry) map[string]formFunc {
	lastName := func(r *rand.Rand) string {
		return last[r.IntN(len(last))].Word
	}
	initial := func(r *rand.Rand) string {
		rn, _ := utf8.DecodeRuneInString(first[r.IntN(len(first))].Word)
		return string(unicode.ToUpper(rn)) + "."
	}
	return map[string]formFunc{
		"": func(r *rand.Rand, e Entry) string {
			return e.Word + " " + lastName(r)
		},
		"first": base,
		"last": func(r *rand.Rand, _ Entry) string {
			return lastName(r)
		},
		"middle": func(r *rand.Rand, e Entry) string {
			return e.Word + " " + initial(r) + " " + lastName(r)
		},
	}
}
