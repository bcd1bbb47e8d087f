// Package cache memoizes computed schedules for the HTTP API. Entries are
// disposable: a miss only means the engine runs again.
package cache

import (
	"context"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Cache stores encoded results by key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte) error
}

// Key derives a cache key from the canonical encoding of a request.
func Key(namespace string, canonical []byte) string {
	return namespace + ":" + strconv.FormatUint(xxhash.Sum64(canonical), 16)
}

// Nop is a Cache that never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, bool) { return nil, false }

// Set discards the value.
func (Nop) Set(context.Context, string, []byte) error { return nil }
