package offline

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/observability"
)

// defaultHandler is used when neither the call nor the manager carries
// a handler. It fails every mutation so nothing is dropped
// destructively before a real handler is wired; mutations simply burn
// a retry per pass.
func defaultHandler(context.Context, QueuedMutation) (bool, error) {
	return false, nil
}

// traceMutations wraps a handler so every pushed mutation gets its own
// span under the sync run.
func traceMutations(h SyncHandler) SyncHandler {
	return func(ctx context.Context, mut QueuedMutation) (bool, error) {
		ctx, span := observability.StartSpan(ctx, observability.SpanSyncPush)
		defer span.End()
		observability.SetSpanAttribute(ctx, observability.AttrMutationID, mut.ID)
		observability.SetSpanAttribute(ctx, observability.AttrMutationType, string(mut.Type))
		observability.SetSpanAttribute(ctx, observability.AttrEntity, mut.Entity)

		accepted, err := h(ctx, mut)
		if err != nil {
			observability.SetSpanError(ctx, err)
		}
		return accepted, err
	}
}

// SyncPendingMutations drains the queue through the given handler.
// When handler is nil the manager's configured handler is used, and
// when none is configured a handler that fails everything.
//
// Offline, the pass returns a failed result without touching the queue
// or invoking the handler. Online, mutations are processed in FIFO
// order: an accepted mutation leaves the queue, a rejected one burns a
// retry and is either requeued or, once its budget is exhausted,
// dropped as a permanent failure recorded in Errors. The surviving
// queue and the last-sync timestamp are persisted after the pass; the
// timestamp records the last attempt, not the last success.
//
// The returned error is non-nil only for storage failures. Handler
// failures are reported through the SyncResult alone.
func (m *Manager) SyncPendingMutations(ctx context.Context, handler SyncHandler) (SyncResult, error) {
	if !m.IsOnline() {
		return SyncResult{Errors: []string{"device is offline"}}, nil
	}

	h := handler
	if h == nil {
		h = m.handler
	}
	if h == nil {
		h = defaultHandler
	}
	h = traceMutations(h)

	oc := observability.NewOperationContext("offline", "sync", m.metrics)
	ctx, span := oc.StartSpanForOperation(ctx, observability.SpanSyncRun)

	start := m.now()
	result := SyncResult{Errors: []string{}}

	m.queueMu.Lock()
	defer m.queueMu.Unlock()

	queue, err := m.readQueue(ctx)
	if err != nil {
		oc.EndOperation(ctx, span, "failed", err)
		return SyncResult{}, err
	}

	remaining := make([]QueuedMutation, 0, len(queue))
	for _, mut := range queue {
		accepted, herr := h(ctx, mut)
		if accepted && herr == nil {
			result.Synced++
			m.metrics.RecordMutationSynced(ctx, mut.Entity)
			continue
		}

		mut.RetryCount++
		if mut.RetryCount < mut.MaxRetries {
			remaining = append(remaining, mut)
			m.metrics.RecordMutationFailed(ctx, mut.Entity, false)
			continue
		}

		reason := "max retries exceeded"
		if herr != nil {
			reason = herr.Error()
		}
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("mutation %s (%s %s) dropped: %s", mut.ID, mut.Type, mut.Entity, reason))
		m.metrics.RecordMutationFailed(ctx, mut.Entity, true)
		m.log.Error("Dropping mutation after exhausting retries", map[string]interface{}{
			"id":      mut.ID,
			"type":    string(mut.Type),
			"entity":  mut.Entity,
			"retries": mut.RetryCount,
			"reason":  reason,
		})
	}

	if err := m.writeQueue(ctx, remaining); err != nil {
		oc.EndOperation(ctx, span, "failed", err)
		return result, err
	}

	// Last attempted sync, recorded even when every mutation failed.
	if err := m.store.SetItem(ctx, lastSyncKey, strconv.FormatInt(m.now().UnixMilli(), 10)); err != nil {
		m.log.Warn("Failed to record last sync time", map[string]interface{}{
			"error": err.Error(),
		})
	}

	result.Success = result.Failed == 0
	status := "ok"
	if !result.Success {
		status = "failed"
	}
	m.metrics.RecordQueueDepth(ctx, len(remaining))
	m.metrics.RecordSyncRun(ctx, status, m.now().Sub(start))
	observability.SetSpanAttribute(ctx, "sync.synced", result.Synced)
	observability.SetSpanAttribute(ctx, "sync.failed", result.Failed)
	oc.EndOperation(ctx, span, status, nil)

	fields := logger.DurationFields("sync", m.now().Sub(start))
	fields[logger.FieldStatus] = status
	fields["synced"] = result.Synced
	fields["failed"] = result.Failed
	fields["remaining"] = len(remaining)
	m.log.Info("Sync pass completed", fields)
	return result, nil
}

// LastSyncTime returns when the last sync pass ran. It reports false
// when no pass has ever completed. An unparseable record is treated as
// absent.
func (m *Manager) LastSyncTime(ctx context.Context) (time.Time, bool, error) {
	raw, ok, err := m.store.GetItem(ctx, lastSyncKey)
	if err != nil {
		return time.Time{}, false, err
	}
	if !ok {
		return time.Time{}, false, nil
	}

	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		m.log.Warn("Discarding malformed last sync record", map[string]interface{}{
			"value": raw,
		})
		return time.Time{}, false, nil
	}
	return time.UnixMilli(ms), true, nil
}
