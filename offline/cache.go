package offline

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	apperrors "github.com/faithfulcoronel/stewardtrack-sub004/errors"
	"github.com/faithfulcoronel/stewardtrack-sub004/observability"
)

func cacheKey(entity, key string) string {
	return cachePrefix + entity + "_" + key
}

// CacheData caches data under (entity, key) with the configured
// default expiration.
func (m *Manager) CacheData(ctx context.Context, entity, key string, data any) error {
	cfg := m.config(ctx)
	return m.CacheDataFor(ctx, entity, key, data, time.Duration(cfg.CacheExpiration)*time.Millisecond)
}

// CacheDataFor caches data under (entity, key) with an explicit TTL.
// A TTL of zero or less produces an entry that is already expired;
// use CacheData for the configured default.
func (m *Manager) CacheDataFor(ctx context.Context, entity, key string, data any, ttl time.Duration) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return apperrors.Serialization(cacheKey(entity, key), err)
	}

	now := m.now()
	entry := CacheEntry{
		Data:      raw,
		Timestamp: now.UnixMilli(),
		Version:   1,
		ExpiresAt: now.Add(ttl).UnixMilli(),
	}
	if err := m.store.SetJSON(ctx, cacheKey(entity, key), entry); err != nil {
		return err
	}
	m.metrics.RecordCacheWrite(ctx, entity)
	return nil
}

// GetCachedData reads the cached value for (entity, key) into dest.
// Absent entries return (false, nil). An expired entry is deleted as a
// side effect of the read (lazy eviction) and reported as absent.
func (m *Manager) GetCachedData(ctx context.Context, entity, key string, dest any) (bool, error) {
	sk := cacheKey(entity, key)

	var entry CacheEntry
	ok, err := m.store.GetJSON(ctx, sk, &entry)
	if err != nil {
		return false, err
	}
	if !ok {
		m.metrics.RecordCacheMiss(ctx, entity, "absent")
		return false, nil
	}

	if entry.expired(m.now()) {
		if err := m.store.RemoveItem(ctx, sk); err != nil {
			return false, err
		}
		m.metrics.RecordCacheMiss(ctx, entity, "expired")
		return false, nil
	}

	if dest != nil {
		if err := json.Unmarshal(entry.Data, dest); err != nil {
			return false, apperrors.Serialization(sk, err)
		}
	}
	m.metrics.RecordCacheHit(ctx, entity)
	return true, nil
}

// GetAllCachedData returns the payloads of every live entry for the
// entity. Expired entries found during enumeration are skipped but not
// deleted; only point reads evict.
func (m *Manager) GetAllCachedData(ctx context.Context, entity string) ([]json.RawMessage, error) {
	keys, err := m.store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	prefix := cachePrefix + entity + "_"
	now := m.now()

	var out []json.RawMessage
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		var entry CacheEntry
		ok, err := m.store.GetJSON(ctx, k, &entry)
		if err != nil {
			return nil, err
		}
		if !ok || entry.expired(now) {
			continue
		}
		out = append(out, entry.Data)
	}
	return out, nil
}

// ClearCache removes every cache entry for the entity, or every cache
// entry for all entities when entity is empty. The queue, config and
// last-sync records are untouched.
func (m *Manager) ClearCache(ctx context.Context, entity string) error {
	keys, err := m.store.Keys(ctx)
	if err != nil {
		return err
	}

	prefix := cachePrefix
	if entity != "" {
		prefix = cachePrefix + entity + "_"
	}

	removed := 0
	for _, k := range keys {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		if err := m.store.RemoveItem(ctx, k); err != nil {
			return err
		}
		removed++
	}
	m.log.Debug("Cleared cache", map[string]interface{}{
		"entity":  entity,
		"removed": removed,
	})
	return nil
}

// IsDataStale reports whether the entry for (entity, key) is absent or
// older than the configured cache expiration. Staleness is measured
// against the entry's write timestamp and the configured default, not
// the entry's own expiry, so an entry cached with a custom TTL can be
// stale while still readable, and vice versa.
func (m *Manager) IsDataStale(ctx context.Context, entity, key string) (bool, error) {
	cfg := m.config(ctx)

	var entry CacheEntry
	ok, err := m.store.GetJSON(ctx, cacheKey(entity, key), &entry)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return m.now().UnixMilli()-entry.Timestamp > cfg.CacheExpiration, nil
}

// Cached reads the cached value for (entity, key) as a T. It returns
// (nil, nil) when the entry is absent or expired.
func Cached[T any](ctx context.Context, m *Manager, entity, key string) (*T, error) {
	var v T
	ok, err := m.GetCachedData(ctx, entity, key, &v)
	if err != nil || !ok {
		return nil, err
	}
	return &v, nil
}

// AllCached returns every live cached value for the entity as a []T.
func AllCached[T any](ctx context.Context, m *Manager, entity string) ([]T, error) {
	raws, err := m.GetAllCachedData(ctx, entity)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, apperrors.Serialization(cachePrefix+entity, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// Prefetch fetches the entity's records while online and caches each
// one under the key derived by keyFn, returning how many were cached.
// Prefetch is best effort: offline it returns 0 without calling fetch,
// and every failure is logged and swallowed rather than surfaced.
func Prefetch[T any](ctx context.Context, m *Manager, entity string, fetch func(context.Context) ([]T, error), keyFn func(T) string) int {
	if !m.IsOnline() {
		m.log.Debug("Skipping prefetch while offline", map[string]interface{}{
			"entity": entity,
		})
		return 0
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanCachePrefetch)
	defer span.End()
	observability.SetSpanAttribute(ctx, observability.AttrEntity, entity)

	items, err := fetch(ctx)
	if err != nil {
		observability.SetSpanError(ctx, err)
		m.log.Warn("Prefetch fetch failed", map[string]interface{}{
			"entity": entity,
			"error":  err.Error(),
		})
		return 0
	}

	cached := 0
	for _, item := range items {
		if err := m.CacheData(ctx, entity, keyFn(item), item); err != nil {
			m.log.Warn("Prefetch cache write failed", map[string]interface{}{
				"entity": entity,
				"error":  err.Error(),
			})
			continue
		}
		cached++
	}
	m.log.Info("Prefetched entity for offline use", map[string]interface{}{
		"entity": entity,
		"cached": cached,
	})
	return cached
}
