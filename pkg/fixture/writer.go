package fixture

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
)

// WrittenFile describes one file produced by Writer.Write.
type WrittenFile struct {
	Path   string
	Layout Layout
	Size   int64
}

// Writer stores fixtures as JSON files in Dir.
type Writer struct {
	Dir string
}

// ownFiles matches the files one fixture is written to. Names may contain '_',
// so "store" must not claim the files of "store_big".
func ownFiles(name string) *regexp.Regexp {
	return regexp.MustCompile(`^fixture_` + regexp.QuoteMeta(name) +
		`_[0-9.]+[kMGTPE]?_\d+_\d+(_p|_c|_t|_t_c)?\.json$`)
}

// RemoveStale deletes every previously written file of the named fixture and
// returns the removed paths.
func (w *Writer) RemoveStale(name string) ([]string, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid fixture name %q", name)
	}
	matches, err := doublestar.Glob(os.DirFS(w.Dir), "fixture_"+name+"_*.json", doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}

	own := ownFiles(name)
	removed := make([]string, 0, len(matches))
	for _, m := range matches {
		if !own.MatchString(m) {
			continue
		}
		path := filepath.Join(w.Dir, m)
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}

// Write serializes f in every available layout.
func (w *Writer) Write(f *Fixture) ([]WrittenFile, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var out []WrittenFile
	for _, layout := range f.Layouts() {
		data, err := f.Marshal(layout)
		if err != nil {
			return out, err
		}
		path := filepath.Join(w.Dir, f.FileName(layout))
		if err := writeAtomic(w.Dir, path, data); err != nil {
			return out, err
		}
		out = append(out, WrittenFile{Path: path, Layout: layout, Size: int64(len(data))})
	}
	return out, nil
}

// writeAtomic writes to a temp file in dir and renames it over dest, so a
// reader never sees a partially written fixture.
func writeAtomic(dir, dest string, data []byte) error {
	tmpFile, err := os.CreateTemp(dir, "tmp-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	// Close before rename (cannot rename open file on Windows)
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	return nil
}
