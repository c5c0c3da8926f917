package ports

import (
	"context"
	"strconv"
	"strings"
)

// FixtureCache stores serialized fixtures. Output is only cacheable when it was
// generated from an explicit seed, so keys always carry one (see CacheKey).
type FixtureCache interface {
	// Get returns the cached bytes for key.
	// Returns domain.ErrCacheMiss if the key is not cached.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under key, replacing any previous entry.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes one entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Purge removes every entry of the named fixture.
	Purge(ctx context.Context, name string) error
}

// CacheKey builds the key of one generated layout: name/seed/layout, with a
// trailing /html when column snippets are included.
func CacheKey(name string, seed uint64, layout string, html bool) string {
	key := name + "/" + strconv.FormatUint(seed, 10) + "/" + layout
	if html {
		key += "/html"
	}
	return key
}

// FixtureOf returns the fixture name a cache key belongs to.
func FixtureOf(key string) string {
	name, _, _ := strings.Cut(key, "/")
	return name
}
