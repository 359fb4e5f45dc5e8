// Package cache provides byte-level caching with pluggable backends,
// plus the replay store the CLI uses to repeat its last draw.
//
// The Cache interface is deliberately small: opaque bytes under string
// keys with optional expiration. FileCache persists entries under a
// directory for CLI usage; NullCache disables caching entirely.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
