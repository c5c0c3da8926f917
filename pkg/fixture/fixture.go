package fixture

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"

	"github.com/aretw0/thicket"
	"github.com/aretw0/thicket/pkg/domain"
)

// Layout selects the JSON envelope a fixture is serialized in.
type Layout string

const (
	// Plain is the bare list of root nodes.
	Plain Layout = "plain"
	// Extended wraps the roots as {"children": [...]}.
	Extended Layout = "extended"
	// Columns is {"columns", "children"}.
	Columns Layout = "columns"
	// Types is {"types", "children"}.
	Types Layout = "types"
	// TypesColumns is {"types", "columns", "children"}.
	TypesColumns Layout = "types_columns"
)

// AllLayouts lists every layout in the order files are written.
var AllLayouts = []Layout{Plain, Extended, Columns, Types, TypesColumns}

// Suffix is appended to the base file name of the layout.
func (l Layout) Suffix() string {
	switch l {
	case Plain:
		return "_p"
	case Columns:
		return "_c"
	case Types:
		return "_t"
	case TypesColumns:
		return "_t_c"
	}
	return ""
}

// ParseLayout maps a layout name to a Layout. The empty string means Extended.
func ParseLayout(s string) (Layout, error) {
	if s == "" {
		return Extended, nil
	}
	for _, l := range AllLayouts {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: unknown layout %q", domain.ErrInvalidArgument, s)
}

// Fixture is a generated tree together with its presentation metadata.
type Fixture struct {
	Name    string
	Types   *Object
	Columns []*Object
	Tree    *domain.TreeResult
}

type assembleOptions struct {
	html *bool
}

// AssembleOption configures Assemble.
type AssembleOption func(*assembleOptions)

// WithHTML overrides the definition's add_html default.
func WithHTML(html bool) AssembleOption {
	return func(o *assembleOptions) {
		o.html = &html
	}
}

// Assemble generates the tree of def with gen and attaches the definition's
// types and columns.
func Assemble(gen *thicket.Generator, def *Definition, opts ...AssembleOption) (*Fixture, error) {
	var o assembleOptions
	for _, opt := range opts {
		opt(&o)
	}
	html := def.HTML
	if o.html != nil {
		html = *o.html
	}

	tree, err := gen.Generate(def.Levels)
	if err != nil {
		return nil, fmt.Errorf("fixture %s: %w", def.Name, err)
	}
	return &Fixture{
		Name:    def.Name,
		Types:   def.Types,
		Columns: def.ColumnsFor(html),
		Tree:    tree,
	}, nil
}

// Layouts returns the layouts the fixture can be written in. Column layouts
// need columns and type layouts need a types dictionary.
func (f *Fixture) Layouts() []Layout {
	return layoutsFor(f.Types, len(f.Columns))
}

func layoutsFor(types *Object, columns int) []Layout {
	out := []Layout{Plain, Extended}
	hasTypes := types != nil && types.Len() > 0
	if columns > 0 {
		out = append(out, Columns)
	}
	if hasTypes {
		out = append(out, Types)
		if columns > 0 {
			out = append(out, TypesColumns)
		}
	}
	return out
}

// Has reports whether the layout is available for the fixture.
func (f *Fixture) Has(layout Layout) bool {
	return ValidLayout(f.Layouts(), layout)
}

// ValidLayout reports whether layout is one of available.
func ValidLayout(available []Layout, layout Layout) bool {
	return slices.Contains(available, layout)
}

type extendedDoc struct {
	Children *domain.TreeResult `json:"children"`
}

type columnsDoc struct {
	Columns  []*Object          `json:"columns"`
	Children *domain.TreeResult `json:"children"`
}

type typesDoc struct {
	Types    *Object            `json:"types"`
	Children *domain.TreeResult `json:"children"`
}

type typesColumnsDoc struct {
	Types    *Object            `json:"types"`
	Columns  []*Object          `json:"columns"`
	Children *domain.TreeResult `json:"children"`
}

// Marshal serializes the fixture in the given layout.
func (f *Fixture) Marshal(layout Layout) ([]byte, error) {
	if !f.Has(layout) {
		return nil, fmt.Errorf("%w: fixture %s has no %s layout", domain.ErrInvalidArgument, f.Name, layout)
	}
	switch layout {
	case Plain:
		return json.Marshal(f.Tree)
	case Extended:
		return json.Marshal(extendedDoc{Children: f.Tree})
	case Columns:
		return json.Marshal(columnsDoc{Columns: f.Columns, Children: f.Tree})
	case Types:
		return json.Marshal(typesDoc{Types: f.Types, Children: f.Tree})
	default:
		return json.Marshal(typesColumnsDoc{Types: f.Types, Columns: f.Columns, Children: f.Tree})
	}
}

// ColumnCount is the number of columns, or 1 for a fixture without any.
func (f *Fixture) ColumnCount() int {
	if len(f.Columns) == 0 {
		return 1
	}
	return len(f.Columns)
}

// BaseName is fixture_<name>_<count>_<depth>_<columns>, e.g.
// fixture_store_1.1k_3_7.
func (f *Fixture) BaseName() string {
	return "fixture_" + f.Name + "_" + f.Tree.NodeCountDisp() + "_" +
		strconv.Itoa(f.Tree.Depth) + "_" + strconv.Itoa(f.ColumnCount())
}

// FileName returns the file name the layout is written to.
func (f *Fixture) FileName(layout Layout) string {
	return f.BaseName() + layout.Suffix() + ".json"
}
