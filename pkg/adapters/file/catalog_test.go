package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/thicket/pkg/adapters/file"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/aretw0/thicket/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDef(t *testing.T, path, name, description string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	doc := "name: " + name + "\ndescription: " + description + "\nlevels:\n  - count: 2\n    fields: {title: $(Noun)}\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))
}

func TestCatalog_Contract(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, filepath.Join(dir, "alpha.yaml"), "alpha", "first")
	writeDef(t, filepath.Join(dir, "nested", "beta.yml"), "beta", "second")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# not a fixture"), 0644))

	c, err := file.New(dir)
	require.NoError(t, err)
	tests.CatalogContractTest(t, c, []string{"alpha", "beta"})

	def, err := c.Get(context.Background(), "beta")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "nested", "beta.yml"), def.Source)
}

func TestCatalog_OverridesBase(t *testing.T) {
	builtin, err := fixture.Builtin()
	require.NoError(t, err)

	dir := t.TempDir()
	writeDef(t, filepath.Join(dir, "store.yaml"), "store", "local store")

	c, err := file.New(dir, file.WithBase(builtin...))
	require.NoError(t, err)
	tests.CatalogContractTest(t, c, []string{"department", "store"})

	def, err := c.Get(context.Background(), "store")
	require.NoError(t, err)
	assert.Equal(t, "local store", def.Description)
}

func TestCatalog_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("name: bad\nlevels: [{fields: {}}]"), 0644))

	_, err := file.New(dir)
	assert.ErrorContains(t, err, "bad.yaml")
}

func TestCatalog_Watch(t *testing.T) {
	dir := t.TempDir()
	writeDef(t, filepath.Join(dir, "alpha.yaml"), "alpha", "first")

	c, err := file.New(dir, file.WithDebounce(20*time.Millisecond))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := c.Watch(ctx)
	require.NoError(t, err)

	writeDef(t, filepath.Join(dir, "gamma.yaml"), "gamma", "added")

	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload signal")
	}

	def, err := c.Get(ctx, "gamma")
	require.NoError(t, err)
	assert.Equal(t, "added", def.Description)

	cancel()
	select {
	case _, ok := <-ch:
		for ok {
			_, ok = <-ch
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}
