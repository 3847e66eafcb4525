// Package memory provides an in-process storage backend. It is the
// default provider and the natural choice for tests and for server
// renders where nothing should persist.
package memory

import (
	"context"
	"sync"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage"
	"github.com/faithfulcoronel/stewardtrack-sub004/util"
)

func init() {
	storage.RegisterFactory(storage.ProviderMemory, func(_ storage.Config, _ any, _ *logger.Logger) (storage.Adapter, error) {
		return NewAdapter(), nil
	})
}

// Adapter implements storage.Adapter over an in-process map.
// Safe for concurrent use.
type Adapter struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewAdapter creates an empty in-memory adapter.
func NewAdapter() *Adapter {
	return &Adapter{items: make(map[string]string)}
}

// SetItem stores the value under key.
func (a *Adapter) SetItem(_ context.Context, key, value string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items[key] = value
	return nil
}

// GetItem returns the value for key, or ("", false, nil) when absent.
func (a *Adapter) GetItem(_ context.Context, key string) (string, bool, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	v, ok := a.items[key]
	return v, ok, nil
}

// RemoveItem deletes key. Removing a missing key is a no-op.
func (a *Adapter) RemoveItem(_ context.Context, key string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.items, key)
	return nil
}

// Keys returns every stored key.
func (a *Adapter) Keys(_ context.Context) ([]string, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return util.Keys(a.items), nil
}

// Clear removes every stored key.
func (a *Adapter) Clear(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.items = make(map[string]string)
	return nil
}

// Close is a no-op for the in-memory adapter.
func (a *Adapter) Close() error {
	return nil
}
