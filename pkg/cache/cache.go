// Package cache stores rendered graph artifacts.
//
// Rendering a session graph through Graphviz is far slower than building its
// DOT source, so rendered output is cached under a key derived from the DOT
// text and the output format ([ArtifactKey]). Identical graphs share an entry
// no matter which session produced them.
//
// Backends:
//   - [FileCache]: hashed files under the XDG cache dir, used by the CLI
//   - [RedisCache]: shared cache for server instances
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value cache with per-entry expiry.
type Cache interface {
	// Get returns the cached data and true on a hit. Expired entries are
	// reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NullCache misses on every lookup and drops every write. The CLI uses it
// for `render --no-cache` and when render.cache is off.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() NullCache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }

var _ Cache = NullCache{}
