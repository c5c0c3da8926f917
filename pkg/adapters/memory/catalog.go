package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/fixture"
)

// Catalog implements ports.Catalog over a fixed set of definitions.
// Safe for concurrent use.
type Catalog struct {
	mu   sync.RWMutex
	defs map[string]*fixture.Definition
}

// NewCatalog creates a catalog holding defs. A later definition replaces an
// earlier one with the same name.
func NewCatalog(defs ...*fixture.Definition) *Catalog {
	c := &Catalog{defs: make(map[string]*fixture.Definition, len(defs))}
	for _, d := range defs {
		c.defs[d.Name] = d
	}
	return c
}

// NewBuiltinCatalog creates a catalog of the fixtures shipped with thicket.
func NewBuiltinCatalog() (*Catalog, error) {
	defs, err := fixture.Builtin()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in fixtures: %w", err)
	}
	return NewCatalog(defs...), nil
}

// Put adds or replaces a definition.
func (c *Catalog) Put(def *fixture.Definition) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.defs[def.Name] = def
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
