package offline

import (
	"context"

	"github.com/faithfulcoronel/stewardtrack-sub004/validation"
)

// readQueue returns the persisted queue, or an empty queue when none
// exists. Callers must hold queueMu.
func (m *Manager) readQueue(ctx context.Context) ([]QueuedMutation, error) {
	var q []QueuedMutation
	if _, err := m.store.GetJSON(ctx, queueKey, &q); err != nil {
		return nil, err
	}
	return q, nil
}

// writeQueue persists the queue. Callers must hold queueMu.
func (m *Manager) writeQueue(ctx context.Context, q []QueuedMutation) error {
	return m.store.SetJSON(ctx, queueKey, q)
}

// QueueMutation appends a pending write to the durable queue and
// returns its id. The mutation carries the configured retry budget at
// the time it was queued.
func (m *Manager) QueueMutation(ctx context.Context, typ MutationType, entity string, payload map[string]any) (string, error) {
	v := validation.New().
		Custom(typ.Valid(), "type", "must be create, update or delete").
		Required("entity", entity)
	if appErr := v.Validate(); appErr != nil {
		return "", appErr
	}

	cfg := m.config(ctx)

	m.queueMu.Lock()
	defer m.queueMu.Unlock()

	q, err := m.readQueue(ctx)
	if err != nil {
		return "", err
	}

	mut := QueuedMutation{
		ID:         m.newID(),
		Type:       typ,
		Entity:     entity,
		Payload:    payload,
		Timestamp:  m.now().UnixMilli(),
		RetryCount: 0,
		MaxRetries: cfg.MaxRetries,
	}
	q = append(q, mut)

	if err := m.writeQueue(ctx, q); err != nil {
		return "", err
	}

	m.metrics.RecordMutationQueued(ctx, string(typ), entity)
	m.metrics.RecordQueueDepth(ctx, len(q))
	m.log.Debug("Queued mutation", map[string]interface{}{
		"id":     mut.ID,
		"type":   string(typ),
		"entity": entity,
		"depth":  len(q),
	})
	return mut.ID, nil
}

// Queue returns the pending mutations in insertion order.
func (m *Manager) Queue(ctx context.Context) ([]QueuedMutation, error) {
	m.queueMu.Lock()
	defer m.queueMu.Unlock()
	q, err := m.readQueue(ctx)
	if err != nil {
		return nil, err
	}
	if q == nil {
		q = []QueuedMutation{}
	}
	return q, nil
}

// PendingCount returns the number of pending mutations.
func (m *Manager) PendingCount(ctx context.Context) (int, error) {
	q, err := m.Queue(ctx)
	if err != nil {
		return 0, err
	}
	return len(q), nil
}

// RemoveMutation removes the mutation with the given id, reporting
// whether it was present. Used for user-initiated cancel.
func (m *Manager) RemoveMutation(ctx context.Context, id string) (bool, error) {
	m.queueMu.Lock()
	defer m.queueMu.Unlock()

	q, err := m.readQueue(ctx)
	if err != nil {
		return false, err
	}

	kept := q[:0]
	for _, mut := range q {
		if mut.ID != id {
			kept = append(kept, mut)
		}
	}
	if len(kept) == len(q) {
		return false, nil
	}

	if err := m.writeQueue(ctx, kept); err != nil {
		return false, err
	}
	m.metrics.RecordQueueDepth(ctx, len(kept))
	m.log.Debug("Removed mutation", map[string]interface{}{"id": id})
	return true, nil
}
