package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/thicket/pkg/adapters/memory"
	"github.com/aretw0/thicket/pkg/fixture"
	"github.com/aretw0/thicket/pkg/ports"
	"github.com/aretw0/thicket/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Contract(t *testing.T) {
	ports.RunFixtureCacheContract(t, memory.NewCache())
}

func TestCache_Isolation(t *testing.T) {
	ctx := context.Background()
	c := memory.NewCache()

	data := []byte("[1]")
	require.NoError(t, c.Set(ctx, "a/1/plain", data))
	data[1] = '2'

	got, err := c.Get(ctx, "a/1/plain")
	require.NoError(t, err)
	assert.Equal(t, "[1]", string(got))
	assert.Equal(t, 1, c.Len())
}

func TestBuiltinCatalog_Contract(t *testing.T) {
	c, err := memory.NewBuiltinCatalog()
	require.NoError(t, err)
	tests.CatalogContractTest(t, c, []string{"department", "store"})
}

func TestCatalog_Put(t *testing.T) {
	def, err := fixture.Parse([]byte("name: tiny\nlevels: [{count: 1}]"))
	require.NoError(t, err)

	c := memory.NewCatalog()
	c.Put(def)
	tests.CatalogContractTest(t, c, []string{"tiny"})
}
