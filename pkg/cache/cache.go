// Package cache stores the outputs of external tools.
//
// Alignments and tree inference are the slow part of a run and are pure
// functions of their input, so their results are cached by a hash of the
// tool command and its input. Three backends implement [Cache]:
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for teams running many models
//   - [NullCache]: stores nothing, for tests or --no-cache
//
// Keys come from a [Keyer]; [NewScopedKeyer] prefixes them to keep
// unrelated projects apart in a shared backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes a key; deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Keyer derives cache keys.
type Keyer interface {
	// ToolKey returns the key for running tool with command on input.
	ToolKey(tool, command string, input []byte) string
}
