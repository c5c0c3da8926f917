package ports_test

import (
	"testing"

	"github.com/aretw0/thicket/pkg/ports"
	"github.com/stretchr/testify/assert"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "store/42/plain", ports.CacheKey("store", 42, "plain", false))
	assert.Equal(t, "store/42/types/html", ports.CacheKey("store", 42, "types", true))
	assert.Equal(t, "store", ports.FixtureOf("store/42/types/html"))
	assert.Equal(t, "store", ports.FixtureOf("store"))
}
