package ports

import (
	"context"

	"github.com/aretw0/thicket/pkg/fixture"
)

// Catalog defines where fixture definitions come from.
type Catalog interface {
	// List returns every definition, sorted by name.
	List(ctx context.Context) ([]*fixture.Definition, error)

	// Get resolves a definition by name.
	// Returns domain.ErrFixtureNotFound if no definition has that name.
	Get(ctx context.Context, name string) (*fixture.Definition, error)
}

// Watchable defines an interface for catalogs that can notify about backend changes.
// This is typically used for hot-reload while serving.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying definitions change.
	// It abstracts away the specific event details, signaling only that a reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
