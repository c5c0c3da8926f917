package expander

import (
	"fmt"
	"strings"

	"github.com/aretw0/thicket/pkg/domain"
)

const (
	openToken  = "$("
	closeToken = ")"
)

// Part is either a literal run of text or a parsed placeholder.
type Part struct {
	Literal string

	Raw      string // placeholder text including $( and )
	Category string // lower-cased category name
	Form     string
	Tag      string
	Casing   Casing
}

// IsPlaceholder reports whether the part is a placeholder.
func (p Part) IsPlaceholder() bool {
	return p.Raw != ""
}

// HasPlaceholders reports whether s contains at least one placeholder opening.
func HasPlaceholders(s string) bool {
	return strings.Contains(s, openToken)
}

// Parse splits tmpl into literal and placeholder parts, left to right.
// It only checks syntax; category, form and tag are validated by Compile.
func Parse(tmpl string) ([]Part, error) {
	var parts []Part
	rest := tmpl

	for {
		start := strings.Index(rest, openToken)
		if start < 0 {
			if rest != "" {
				parts = append(parts, Part{Literal: rest})
			}
			return parts, nil
		}
		if start > 0 {
			parts = append(parts, Part{Literal: rest[:start]})
		}

		end := strings.Index(rest[start:], closeToken)
		if end < 0 {
			return nil, &domain.TemplateError{
				Template:    tmpl,
				Placeholder: rest[start:],
				Reason:      "unterminated placeholder",
			}
		}
		end += start

		raw := rest[start : end+len(closeToken)]
		p, err := parsePlaceholder(raw, rest[start+len(openToken):end])
		if err != nil {
			return nil, &domain.TemplateError{Template: tmpl, Placeholder: raw, Reason: err.Error()}
		}
		parts = append(parts, p)
		rest = rest[end+len(closeToken):]
	}
}

func parsePlaceholder(raw, body string) (Part, error) {
	fields := strings.Split(body, ":")
	word := strings.TrimSpace(fields[0])
	if word == "" {
		return Part{}, fmt.Errorf("missing category")
	}

	p := Part{
		Raw:      raw,
		Category: strings.ToLower(word),
		Casing:   casingOf(word),
	}

	for _, mod := range fields[1:] {
		mod = strings.TrimSpace(mod)
		switch {
		case mod == "" || mod == "#":
			return Part{}, fmt.Errorf("empty modifier")
		case strings.HasPrefix(mod, "#"):
			if p.Tag != "" {
				return Part{}, fmt.Errorf("more than one tag")
			}
			p.Tag = mod[1:]
		default:
			if p.Form != "" {
				return Part{}, fmt.Errorf("more than one form")
			}
			p.Form = mod
		}
	}
	return p, nil
}
