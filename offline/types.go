package offline

import (
	"context"
	"encoding/json"
	"time"
)

// Storage keys, relative to the store's namespace. With the default
// "st_" namespace the full keys are st_cache_<entity>_<key>,
// st_offline_queue, st_offline_config and st_last_sync, matching the
// layout the web client writes.
const (
	cachePrefix = "cache_"
	queueKey    = "offline_queue"
	configKey   = "offline_config"
	lastSyncKey = "last_sync"
)

// MutationType classifies a queued write operation.
type MutationType string

const (
	MutationCreate MutationType = "create"
	MutationUpdate MutationType = "update"
	MutationDelete MutationType = "delete"
)

// Valid reports whether t is a known mutation type.
func (t MutationType) Valid() bool {
	switch t {
	case MutationCreate, MutationUpdate, MutationDelete:
		return true
	}
	return false
}

// CacheEntry is the persisted envelope for one cached value. Version
// is always written as 1; the field is reserved and carries no
// concurrency semantics.
type CacheEntry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
	Version   int             `json:"version"`
	ExpiresAt int64           `json:"expiresAt,omitempty"`
}

// expired reports whether the entry is no longer visible at the given
// time. An entry with no expiry never expires; an entry whose expiry
// equals now is already expired, so a zero TTL expires immediately
// even under a frozen test clock.
func (e CacheEntry) expired(now time.Time) bool {
	if e.ExpiresAt == 0 {
		return false
	}
	return now.UnixMilli() >= e.ExpiresAt
}

// QueuedMutation is one pending write operation awaiting sync.
type QueuedMutation struct {
	ID         string         `json:"id"`
	Type       MutationType   `json:"type"`
	Entity     string         `json:"entity"`
	Payload    map[string]any `json:"payload"`
	Timestamp  int64          `json:"timestamp"`
	RetryCount int            `json:"retryCount"`
	MaxRetries int            `json:"maxRetries"`
}

// SyncHandler performs the actual network write for one mutation. It
// returns true only on confirmed server acceptance; false requests a
// retry without an error message, and a non-nil error requests a retry
// carrying the error text.
type SyncHandler func(ctx context.Context, mutation QueuedMutation) (bool, error)

// SyncResult summarizes one sync pass.
type SyncResult struct {
	Success   bool     `json:"success"`
	Synced    int      `json:"synced"`
	Failed    int      `json:"failed"`
	Conflicts int      `json:"conflicts"`
	Errors    []string `json:"errors"`
}
