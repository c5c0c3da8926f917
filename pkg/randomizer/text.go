package randomizer

import (
	"fmt"
	mathrand "math/rand"
	"math/rand/v2"
	"regexp"
	"strings"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/expander"
	"github.com/brianvoe/gofakeit/v6"
)

// Text expands a $(Word[:Form]) template on every call.
type Text struct {
	tmpl *expander.Template
	gate gate
}

// NewText compiles tmpl against the expander's lexicon. A nil expander uses the
// default lexicon. Unknown categories and forms are reported here as
// *domain.TemplateError, so Generate cannot fail.
func NewText(exp *expander.Expander, tmpl string, opts ...Option) (*Text, error) {
	o, err := buildOptions("text", opts)
	if err != nil {
		return nil, err
	}
	if exp == nil {
		exp = expander.New(nil)
	}
	t, err := exp.Compile(tmpl)
	if err != nil {
		return nil, err
	}
	return &Text{tmpl: t, gate: gate(o.probability)}, nil
}

// Generate returns the expanded template, or no value with probability 1-p.
func (t *Text) Generate(r *rand.Rand) (any, bool) {
	if !t.gate.pass(r) {
		return nil, false
	}
	return t.tmpl.Execute(r), true
}

func (t *Text) probability() gate { return t.gate }

func (t *Text) String() string {
	return fmt.Sprintf("text(%q)%s", t.tmpl.Source(), suffix(t.gate))
}

var fakeTag = regexp.MustCompile(`\{([^{}:]+)(:[^{}]*)?\}`)

// Fake renders a gofakeit template such as "{firstname} {lastname}" or
// "{number:1,99} units". As in gofakeit, '#' becomes a digit and '?' a letter.
type Fake struct {
	tmpl string
	gate gate
}

// NewFake creates a Fake randomizer. Every {tag} must name a known gofakeit
// function and render with the parameters given to it.
func NewFake(tmpl string, opts ...Option) (*Fake, error) {
	o, err := buildOptions("fake", opts)
	if err != nil {
		return nil, err
	}
	if tmpl == "" {
		return nil, &domain.ConstructionError{
			Randomizer: "fake",
			Reason:     "template must not be empty",
			Err:        domain.ErrInvalidArgument,
		}
	}
	dry := mathrand.New(source{rand.New(rand.NewPCG(1, 1))})
	for _, m := range fakeTag.FindAllStringSubmatch(tmpl, -1) {
		info := gofakeit.GetFuncLookup(m[1])
		if info == nil {
			return nil, &domain.ConstructionError{
				Randomizer: "fake",
				Reason:     fmt.Sprintf("unknown function {%s}", m[1]),
				Err:        domain.ErrInvalidArgument,
			}
		}
		params := strings.TrimPrefix(m[2], ":")
		if _, err := info.Generate(dry, fakeParams(info, params), info); err != nil {
			return nil, &domain.ConstructionError{
				Randomizer: "fake",
				Reason:     fmt.Sprintf("{%s}: %v", strings.Trim(m[0], "{}"), err),
				Err:        domain.ErrInvalidArgument,
			}
		}
	}
	return &Fake{tmpl: tmpl, gate: gate(o.probability)}, nil
}

// Generate renders the template, or no value with probability 1-p.
func (f *Fake) Generate(r *rand.Rand) (any, bool) {
	if !f.gate.pass(r) {
		return nil, false
	}
	return gofakeit.NewCustom(source{r}).Generate(f.tmpl), true
}

func (f *Fake) probability() gate { return f.gate }

func (f *Fake) String() string {
	return fmt.Sprintf("fake(%q)%s", f.tmpl, suffix(f.gate))
}

// fakeParams maps the parameter list of a tag onto the function's declared
// params the same way gofakeit's template renderer does. A nil result means
// the function runs with its defaults.
func fakeParams(info *gofakeit.Info, raw string) *gofakeit.MapParams {
	m := gofakeit.NewMapParams()
	switch {
	case len(info.Params) == 1 && info.Params[0].Type == "string":
		m.Add(info.Params[0].Field, raw)
	case len(info.Params) > 0 && raw != "":
		for i, v := range splitFakeParams(raw) {
			if i >= len(info.Params) {
				break
			}
			if strings.HasPrefix(v, "[") {
				for _, item := range splitFakeParams(strings.TrimRight(strings.TrimLeft(v, "["), "]")) {
					m.Add(info.Params[i].Field, item)
				}
				continue
			}
			m.Add(info.Params[i].Field, v)
		}
	}
	if m.Size() == 0 {
		return nil
	}
	return m
}

// splitFakeParams splits on commas, keeping [..] lists together.
func splitFakeParams(s string) []string {
	var out []string
	for s != "" {
		if strings.HasPrefix(s, "[") {
			end := strings.Index(s, "]")
			if end < 0 {
				end = len(s) - 1
			}
			out = append(out, strings.TrimSpace(s[:end+1]))
			s = strings.TrimPrefix(s[end+1:], ",")
			continue
		}
		head, rest, _ := strings.Cut(s, ",")
		out = append(out, strings.TrimSpace(head))
		s = rest
	}
	return out
}

// source lets gofakeit draw from a math/rand/v2 generator.
type source struct {
	r *rand.Rand
}

func (s source) Int63() int64   { return s.r.Int64() }
func (s source) Uint64() uint64 { return s.r.Uint64() }
func (s source) Seed(int64)     {}
