// Package localcache provides the local fallback cache used as a
// crash-recovery hedge and as the source for the one-time migration into
// the remote store. The cache is a disposable mirror: once remote data
// exists it is never authoritative.
package localcache

import (
	"context"
	"errors"
)

// ErrNoEntry reports an absent key.
var ErrNoEntry = errors.New("no cache entry")

// Cache is the narrow capability the sync layer depends on. Implementations
// must be safe for concurrent use.
type Cache interface {
	// Get returns the value stored under key, or ErrNoEntry.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
