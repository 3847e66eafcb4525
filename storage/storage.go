// Package storage provides the bridge's key-value store abstraction.
// Supported providers: memory, file, sqlite, redis.
package storage

import "context"

// Adapter defines the primitive operations every storage backend
// implements. Values are strings; callers serialize structured data
// before storing it (see Store for JSON helpers).
type Adapter interface {
	// SetItem stores a value under key, overwriting any previous value.
	SetItem(ctx context.Context, key, value string) error

	// GetItem returns the value for key. A missing key is not an
	// error: it returns ("", false, nil).
	GetItem(ctx context.Context, key string) (string, bool, error)

	// RemoveItem deletes the key. Removing a missing key is a no-op.
	RemoveItem(ctx context.Context, key string) error

	// Keys returns every key in the backend, unordered unless the
	// backend documents otherwise.
	Keys(ctx context.Context) ([]string, error)

	// Clear removes every key in the backend.
	Clear(ctx context.Context) error

	// Close releases backend resources. Safe to call multiple times.
	Close() error
}
