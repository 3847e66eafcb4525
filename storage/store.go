package storage

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "github.com/faithfulcoronel/stewardtrack-sub004/errors"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
)

// Store wraps an Adapter with key namespacing and JSON helpers. Every
// key passing through the Store is prefixed with the configured
// namespace; the backend only ever sees full keys.
type Store struct {
	adapter   Adapter
	namespace string
	log       *logger.Logger
}

// NewStore creates a Store over the given adapter. An empty namespace
// falls back to DefaultNamespace.
func NewStore(adapter Adapter, namespace string, log *logger.Logger) *Store {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Store{
		adapter:   adapter,
		namespace: namespace,
		log:       log,
	}
}

// Namespace returns the key prefix applied by this store.
func (s *Store) Namespace() string {
	return s.namespace
}

// Adapter returns the underlying adapter. Used for migrations and for
// callers that need raw key access.
func (s *Store) Adapter() Adapter {
	return s.adapter
}

// SetItem stores a value under the namespaced key.
func (s *Store) SetItem(ctx context.Context, key, value string) error {
	return s.adapter.SetItem(ctx, s.namespace+key, value)
}

// GetItem returns the value for the namespaced key.
// Missing keys return ("", false, nil).
func (s *Store) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.adapter.GetItem(ctx, s.namespace+key)
}

// RemoveItem deletes the namespaced key. Removing a missing key is a
// no-op.
func (s *Store) RemoveItem(ctx context.Context, key string) error {
	return s.adapter.RemoveItem(ctx, s.namespace+key)
}

// Keys returns all keys in this store's namespace, stripped of the
// namespace prefix.
func (s *Store) Keys(ctx context.Context) ([]string, error) {
	all, err := s.adapter.Keys(ctx)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(all))
	for _, k := range all {
		if strings.HasPrefix(k, s.namespace) {
			keys = append(keys, strings.TrimPrefix(k, s.namespace))
		}
	}
	return keys, nil
}

// Clear removes every key in this store's namespace. Keys outside the
// namespace are untouched.
func (s *Store) Clear(ctx context.Context) error {
	all, err := s.adapter.Keys(ctx)
	if err != nil {
		return err
	}

	for _, k := range all {
		if !strings.HasPrefix(k, s.namespace) {
			continue
		}
		if err := s.adapter.RemoveItem(ctx, k); err != nil {
			return err
		}
	}
	return nil
}

// SetJSON marshals v and stores it under the namespaced key.
func (s *Store) SetJSON(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.Serialization(key, err)
	}
	return s.SetItem(ctx, key, string(data))
}

// GetJSON reads the namespaced key and unmarshals it into dest.
// A missing key returns (false, nil). Malformed stored JSON is treated
// as absent: it is logged and reported as (false, nil) so one corrupt
// record never wedges a caller.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	raw, ok, err := s.GetItem(ctx, key)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		s.log.Warn("Discarding malformed stored JSON", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		return false, nil
	}
	return true, nil
}

// Close closes the underlying adapter.
func (s *Store) Close() error {
	return s.adapter.Close()
}
