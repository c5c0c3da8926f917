package file

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// Pattern selects the definition files of a catalog directory.
const Pattern = "**/*.{yaml,yml}"

// Catalog implements ports.Catalog and ports.Watchable over a directory of
// YAML fixture definitions. Definitions in the directory override base
// definitions with the same name.
type Catalog struct {
	dir      string
	decoder  *fixture.Decoder
	base     []*fixture.Definition
	logger   *slog.Logger
	debounce time.Duration

	mu   sync.RWMutex
	defs map[string]*fixture.Definition
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithDecoder sets the decoder used for definition files.
func WithDecoder(d *fixture.Decoder) Option {
	return func(c *Catalog) {
		c.decoder = d
	}
}

// WithBase adds definitions that directory entries may override, typically
// fixture.Builtin().
func WithBase(defs ...*fixture.Definition) Option {
	return func(c *Catalog) {
		c.base = append(c.base, defs...)
	}
}

// WithLogger sets the logger used to report reloads.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithDebounce sets how long Watch waits for a burst of file events to settle.
func WithDebounce(d time.Duration) Option {
	return func(c *Catalog) {
		c.debounce = d
	}
}

// New creates a catalog of dir and loads it.
func New(dir string, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		dir:      dir,
		logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
		debounce: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.decoder == nil {
		c.decoder = fixture.NewDecoder()
	}
	if err := c.Reload(); err != nil {
		return nil, err
	}
	return c, nil
}

// Dir returns the catalog directory.
func (c *Catalog) Dir() string {
	return c.dir
}

// Reload re-reads every definition file. On error the previous definitions
// stay in place.
func (c *Catalog) Reload() error {
	defs, err := c.decoder.LoadAll(os.DirFS(c.dir), Pattern)
	if err != nil {
		return fmt.Errorf("failed to load catalog %s: %w", c.dir, err)
	}

	next := make(map[string]*fixture.Definition, len(c.base)+len(defs))
	for _, d := range c.base {
		next[d.Name] = d
	}
	for _, d := range defs {
		d.Source = filepath.Join(c.dir, filepath.FromSlash(d.Source))
		next[d.Name] = d
	}

	c.mu.Lock()
	c.defs = next
	c.mu.Unlock()
	return nil
}

// Get resolves a definition by name.
func (c *Catalog) Get(ctx context.Context, name string) (*fixture.Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	def, ok := c.defs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrFixtureNotFound, name)
	}
	return def, nil
}

// List returns all definitions sorted by name.
func (c *Catalog) List(ctx context.Context) ([]*fixture.Definition, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	defs := make([]*fixture.Definition, 0, len(c.defs))
	for _, d := range c.defs {
		defs = append(defs, d)
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

// Watch implements ports.Watchable. The catalog reloads itself before each
// signal; a failed reload is logged and not signaled.
func (c *Catalog) Watch(ctx context.Context) (<-chan struct{}, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to start watcher: %w", err)
	}
	// fsnotify is not recursive, so every directory is added.
	err = filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", c.dir, err)
	}

	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)
		defer w.Close()

		var timer *time.Timer
		var fire <-chan time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-w.Events:
				if !ok {
					return
				}
				if evt.Has(fsnotify.Create) {
					if info, err := os.Stat(evt.Name); err == nil && info.IsDir() {
						_ = w.Add(evt.Name)
						continue
					}
				}
				if !c.relevant(evt.Name) || evt.Op == fsnotify.Chmod {
					continue
				}
				if timer == nil {
					timer = time.NewTimer(c.debounce)
				} else {
					timer.Reset(c.debounce)
				}
				fire = timer.C
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				c.logger.Warn("catalog watcher error", "dir", c.dir, "err", err)
			case <-fire:
				fire = nil
				if err := c.Reload(); err != nil {
					c.logger.Error("catalog reload failed", "dir", c.dir, "err", err)
					continue
				}
				c.logger.Info("catalog reloaded", "dir", c.dir)
				select {
				case ch <- struct{}{}:
				default: // a signal is already pending
				}
			}
		}
	}()

	return ch, nil
}

func (c *Catalog) relevant(path string) bool {
	rel, err := filepath.Rel(c.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	ok, _ := doublestar.Match(Pattern, filepath.ToSlash(rel))
	return ok
}
