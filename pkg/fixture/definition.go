package fixture

import (
	"regexp"

	"github.com/aretw0/thicket/pkg/spec"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is an insertion-ordered JSON object used for presentation metadata.
type Object = orderedmap.OrderedMap[string, any]

// HTMLKey is the column key whose value is dropped (set to null) when a
// fixture is generated without HTML.
const HTMLKey = "html"

var validName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// Definition is a named fixture: the levels to generate plus the column and
// type dictionaries the consuming widget reads. Types and Columns are opaque
// and passed through unchanged (except for HTMLKey).
type Definition struct {
	Name        string
	Description string

	// HTML is the default for generating column html snippets.
	HTML bool

	Types   *Object
	Columns []*Object
	Levels  []spec.Level

	// Source tells where the definition was loaded from.
	Source string
}

// ColumnsFor returns the columns as emitted for the given HTML setting. With
// html disabled every column carrying an HTMLKey gets a null value instead.
func (d *Definition) ColumnsFor(html bool) []*Object {
	if d.Columns == nil {
		return nil
	}
	out := make([]*Object, 0, len(d.Columns))
	for _, col := range d.Columns {
		if html {
			out = append(out, col)
			continue
		}
		c := orderedmap.New[string, any](col.Len())
		for pair := col.Oldest(); pair != nil; pair = pair.Next() {
			if pair.Key == HTMLKey {
				c.Set(pair.Key, nil)
				continue
			}
			c.Set(pair.Key, pair.Value)
		}
		out = append(out, c)
	}
	return out
}

// Layouts returns the layouts fixtures of this definition can be written in.
func (d *Definition) Layouts() []Layout {
	return layoutsFor(d.Types, len(d.Columns))
}

// Summary describes a definition without generating it.
type Summary struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Levels      int      `json:"levels"`
	Columns     int      `json:"columns"`
	Layouts     []Layout `json:"layouts"`
}

// Summary returns the listing entry of the definition.
func (d *Definition) Summary() Summary {
	return Summary{
		Name:        d.Name,
		Description: d.Description,
		Levels:      len(d.Levels),
		Columns:     len(d.Columns),
		Layouts:     d.Layouts(),
	}
}

// ValidName reports whether name can be used as a fixture name. Names end up
// in file names and glob patterns, so they are restricted to lower case
// letters, digits, '_' and '-'.
func ValidName(name string) bool {
	return validName.MatchString(name)
}
