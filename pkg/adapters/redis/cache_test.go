package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/thicket/pkg/adapters/redis"
	"github.com/aretw0/thicket/pkg/domain"
	"github.com/aretw0/thicket/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisCache_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunFixtureCacheContract(t, redis.NewFromClient(client))
}

func TestRedisCache_TTL(t *testing.T) {
	mr, client := setup(t)
	ctx := context.Background()

	cache := redis.NewFromClient(client, redis.WithTTL(time.Minute), redis.WithPrefix("test:"))
	require.NoError(t, cache.Ping(ctx))
	require.NoError(t, cache.Set(ctx, "store/1/plain", []byte("[]")))

	assert.True(t, mr.Exists("test:store/1/plain"))
	assert.Equal(t, time.Minute, mr.TTL("test:store/1/plain"))

	mr.FastForward(2 * time.Minute)
	_, err := cache.Get(ctx, "store/1/plain")
	assert.ErrorIs(t, err, domain.ErrCacheMiss)
}
