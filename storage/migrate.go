package storage

import (
	"context"

	apperrors "github.com/faithfulcoronel/stewardtrack-sub004/errors"
	"github.com/faithfulcoronel/stewardtrack-sub004/observability"
)

// Migrate copies a single value from a legacy adapter into this store
// and removes it from the legacy adapter on success. The source key is
// read raw (legacy stores predate namespacing); the target key is
// written through the store and therefore namespaced.
//
// Returns true only when a value was found, copied, and deleted from
// the source. A nil legacy adapter or a missing source key returns
// (false, nil). If the copy succeeds but the legacy delete fails the
// migration reports failure; re-running it is safe because the write
// is idempotent.
func (s *Store) Migrate(ctx context.Context, legacy Adapter, sourceKey, targetKey string) (moved bool, err error) {
	if legacy == nil {
		return false, nil
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanStorageMigrate)
	defer func() {
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		span.End()
	}()
	observability.SetSpanAttribute(ctx, observability.AttrStorageKey, sourceKey)

	value, ok, err := legacy.GetItem(ctx, sourceKey)
	if err != nil {
		return false, apperrors.MigrationFailed(sourceKey, err)
	}
	if !ok {
		return false, nil
	}

	if err := s.SetItem(ctx, targetKey, value); err != nil {
		return false, apperrors.MigrationFailed(sourceKey, err)
	}

	if err := legacy.RemoveItem(ctx, sourceKey); err != nil {
		return false, apperrors.MigrationFailed(sourceKey, err)
	}

	s.log.Info("Migrated legacy value", map[string]interface{}{
		"source": sourceKey,
		"target": targetKey,
	})
	return true, nil
}
