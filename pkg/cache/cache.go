// Package cache stores solve results so that repeated runs over the same
// graph return instantly.
//
// Results are keyed by a content hash of the graph plus the solver options
// that influence the outcome, so a cached entry is only ever returned for a
// byte-equivalent problem. Backends:
//   - [FileCache]: directory of JSON entries, for CLI usage
//   - [RedisCache]: shared cache for server deployments
//   - [NullCache]: disabled caching, for tests and --no-cache
package cache

import (
	"context"
	"time"
)

// DefaultTTL is how long solve results stay cached. Solve results never go
// stale (the algorithm is deterministic), so this mostly bounds disk usage.
const DefaultTTL = 30 * 24 * time.Hour

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// SolveKey builds the cache key for a solve result: a prefix plus the
// hash of the graph's canonical form and the options that affect the
// outcome. The timeout is deliberately excluded - a complete result is
// valid regardless of the budget that produced it.
func SolveKey(graphHash string) string {
	return "solve:" + graphHash
}

// NullCache never stores a result, so every solve runs the search. Selected
// by --no-cache and by backend "none" in dagmin.toml; also the fallback when
// a real backend fails to initialize.
type NullCache struct{}

// NewNullCache creates a null cache.
func NewNullCache() Cache {
	return &NullCache{}
}

// Get always misses.
func (c *NullCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Set discards the result.
func (c *NullCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return nil
}

// Delete does nothing.
func (c *NullCache) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (c *NullCache) Close() error {
	return nil
}

// Ensure NullCache implements Cache.
var _ Cache = (*NullCache)(nil)
