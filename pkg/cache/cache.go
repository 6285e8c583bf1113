// Package cache provides pluggable byte caches for pipeline results.
//
// Built components and exported artifacts are stored under
// content-derived keys (see [Keyer]) so that identical build requests
// are answered without rebuilding. Four backends are available:
// [FileCache] for CLI runs, [MemoryCache] for tests and one-shot tools,
// [RedisCache] for shared deployments, and [NullCache] to disable
// caching entirely.
package cache

import (
	"context"
	"time"
)

// TTLs per cached object kind. Built components go stale when cell
// generators change, so they expire daily; artifacts are pure functions
// of a build hash and can live longer.
const (
	TTLBuild    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache stores raw bytes under string keys with per-entry TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
