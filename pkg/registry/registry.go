package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/spec"
)

// CallbackFactory builds a level callback from the parameters written next to
// its name in a fixture definition.
type CallbackFactory func(params map[string]any) (spec.Callback, error)

// Registry manages the callbacks fixture definitions can refer to by name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]CallbackFactory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]CallbackFactory),
	}
}

// Register adds a callback factory to the registry.
// If a factory with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn CallbackFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Build looks up a factory by name and builds a callback with params.
// Returns an error if the name is not registered.
func (r *Registry) Build(name string, params map[string]any) (spec.Callback, error) {
	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownCallback, name)
	}

	cb, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("callback %s: %w", name, err)
	}
	return cb, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
