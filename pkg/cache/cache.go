// Package cache provides byte-oriented key/value caches used for HTTP
// response caching and as pluggable backends for the map data store.
//
// Implementations:
//   - [FileCache]: JSON entries with expiry in hashed subdirectories (CLI default)
//   - [RedisCache]: a shared Redis instance (go-redis)
//   - [MongoCache]: a MongoDB collection (mongo-driver)
//   - [NullCache]: never stores anything
//
// Keys are namespaced with [NewPrefixed] so one backend can hold geocoder
// responses and map bundles side by side.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry TTL.
// A ttl of zero means the entry never expires.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// Expired or undecodable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Lister is implemented by caches that can enumerate their keys.
type Lister interface {
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// TTLs used by callers.
const (
	// TTLGeocode is how long geocoder answers are reused.
	TTLGeocode = 30 * 24 * time.Hour

	// TTLForever stores an entry without expiry. Map bundles use it.
	TTLForever time.Duration = 0
)
