package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
)

// CatalogContractTest is a reusable test suite that verifies if an adapter complies with ports.Catalog.
// want lists the fixture names the catalog is expected to hold.
func CatalogContractTest(t *testing.T, catalog ports.Catalog, want []string) {
	t.Helper()
	ctx := context.Background()

	// 1. Test Get (Success)
	t.Run("Get_Success", func(t *testing.T) {
		for _, name := range want {
			def, err := catalog.Get(ctx, name)
			if err != nil {
				t.Fatalf("unexpected error getting fixture %s: %v", name, err)
			}
			if def.Name != name {
				t.Errorf("name mismatch: got %q, want %q", def.Name, name)
			}
			if len(def.Levels) == 0 {
				t.Errorf("fixture %s has no levels", name)
			}
		}
	})

	// 2. Test Get (NotFound)
	t.Run("Get_NotFound", func(t *testing.T) {
		_, err := catalog.Get(ctx, "non-existent-fixture")
		if !errors.Is(err, domain.ErrFixtureNotFound) {
			t.Errorf("expected ErrFixtureNotFound, got %v", err)
		}
	})

	// 3. Test List
	t.Run("List", func(t *testing.T) {
		defs, err := catalog.List(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing fixtures: %v", err)
		}

		if len(defs) != len(want) {
			t.Errorf("expected %d fixtures, got %d", len(want), len(defs))
		}

		for i := 1; i < len(defs); i++ {
			if defs[i-1].Name >= defs[i].Name {
				t.Errorf("list is not sorted by name: %q before %q", defs[i-1].Name, defs[i].Name)
			}
		}

		lookup := make(map[string]bool)
		for _, def := range defs {
			lookup[def.Name] = true
		}
		for _, name := range want {
			if !lookup[name] {
				t.Errorf("fixture %s missing from list", name)
			}
		}
	})
}
