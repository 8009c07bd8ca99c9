// Package cache defines the cache interface backing the session service.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value cache with per-key TTLs. A missing key
// is not an error: Get returns nil for it.
type Cache interface {
	// Get retrieves the value stored under key, or nil when absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key. A zero ttl means the default TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key, reporting whether it existed.
	Delete(ctx context.Context, key string) (bool, error)

	// Ping checks the cache connection.
	Ping(ctx context.Context) error

	// Close releases the cache connection.
	Close() error
}
