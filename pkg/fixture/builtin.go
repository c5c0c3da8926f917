package fixture

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/bmatcuk/doublestar/v4"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// Builtin decodes the fixture definitions shipped with thicket, sorted by
// file name.
func Builtin() ([]*Definition, error) {
	return NewDecoder().LoadAll(builtinFS, "builtin/*.yaml")
}

// LoadFS reads and decodes one definition from fsys.
func (d *Decoder) LoadFS(fsys fs.FS, path string) (*Definition, error) {
	data, err := fs.ReadFile(fsys, path)
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

// LoadAll decodes every file of fsys matching the doublestar pattern. Two
// files declaring the same fixture name are an error.
func (d *Decoder) LoadAll(fsys fs.FS, pattern string) ([]*Definition, error) {
	paths, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	seen := make(map[string]string, len(paths))
	defs := make([]*Definition, 0, len(paths))
	for _, p := range paths {
		def, err := d.LoadFS(fsys, p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[def.Name]; ok {
			return nil, fmt.Errorf("fixture %q is defined in %s and %s", def.Name, prev, p)
		}
		seen[def.Name] = p
		defs = append(defs, def)
	}
	return defs, nil
}
