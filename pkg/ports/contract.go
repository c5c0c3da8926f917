package ports

import (
	"context"
	"testing"

	"github.com/aretw0/thicket/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunFixtureCacheContract runs a suite of tests to verify that a FixtureCache implementation
// adheres to the defined interface contract. The cache must start empty.
func RunFixtureCacheContract(t *testing.T, cache FixtureCache) {
	ctx := context.Background()
	key := CacheKey("contract", 42, "extended", false)

	t.Run("Set and Get", func(t *testing.T) {
		data := []byte(`{"children":[]}`)
		require.NoError(t, cache.Set(ctx, key, data), "Set should not return error")

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, data, loaded)

		// Overwrite
		require.NoError(t, cache.Set(ctx, key, []byte(`[]`)))
		loaded, err = cache.Get(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), loaded)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, CacheKey("contract", 7, "plain", false))
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, cache.Set(ctx, key, []byte(`[]`)))
		require.NoError(t, cache.Delete(ctx, key), "Delete should not return error")

		_, err := cache.Get(ctx, key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss, "Get after Delete should return ErrCacheMiss")

		assert.NoError(t, cache.Delete(ctx, key), "deleting a missing key is not an error")
	})

	t.Run("Purge", func(t *testing.T) {
		a := CacheKey("contract", 1, "plain", false)
		b := CacheKey("contract", 2, "types", true)
		other := CacheKey("contract-other", 1, "plain", false)
		for _, k := range []string{a, b, other} {
			require.NoError(t, cache.Set(ctx, k, []byte(k)))
		}
		defer func() { _ = cache.Delete(ctx, other) }()

		require.NoError(t, cache.Purge(ctx, "contract"))

		_, err := cache.Get(ctx, a)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		_, err = cache.Get(ctx, b)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)

		loaded, err := cache.Get(ctx, other)
		require.NoError(t, err, "Purge only removes entries of the named fixture")
		assert.Equal(t, []byte(other), loaded)
	})
}
