package offline

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/observability"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage"
)

// Manager owns the offline state: the entity cache, the mutation
// queue, connectivity, and the sync engine. All state is instance
// state; hosts that need isolation (tests, multi-tenant servers)
// construct separate managers over separate stores.
//
// Queue operations serialize through an internal mutex, so two
// concurrent QueueMutation calls can never lose an append, and a
// mutation queued during an in-flight sync pass waits for the pass
// and is picked up by the next one.
type Manager struct {
	store   *storage.Store
	log     *logger.Logger
	metrics *observability.BridgeMetrics
	handler SyncHandler

	queueMu sync.Mutex

	connMu    sync.RWMutex
	online    bool
	listeners []connListener
	nextID    int

	nowFunc func() time.Time
	newID   func() string
}

type connListener struct {
	id int
	fn func(online bool)
}

// Option configures a Manager.
type Option func(*Manager)

// WithMetrics wires a metrics recorder. A nil recorder is valid and
// records nothing.
func WithMetrics(m *observability.BridgeMetrics) Option {
	return func(mgr *Manager) { mgr.metrics = m }
}

// WithSyncHandler sets the handler used when SyncPendingMutations is
// called without one, including the automatic sync after reconnect.
func WithSyncHandler(h SyncHandler) Option {
	return func(mgr *Manager) { mgr.handler = h }
}

// WithOnline sets the initial connectivity state. The default is
// online.
func WithOnline(online bool) Option {
	return func(mgr *Manager) { mgr.online = online }
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(mgr *Manager) { mgr.nowFunc = now }
}

// WithIDGenerator replaces the mutation id generator, for tests.
func WithIDGenerator(fn func() string) Option {
	return func(mgr *Manager) { mgr.newID = fn }
}

// NewManager creates a Manager over the given store.
func NewManager(store *storage.Store, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		log:     log.WithComponent("offline"),
		online:  true,
		nowFunc: time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize validates and persists the offline configuration under
// the offline_config key, overwriting any previous configuration.
func (m *Manager) Initialize(ctx context.Context, cfg Config) error {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := m.store.SetJSON(ctx, configKey, cfg); err != nil {
		return err
	}
	m.log.Info("Offline manager initialized", map[string]interface{}{
		"cacheExpirationMs": cfg.CacheExpiration,
		"maxRetries":        cfg.MaxRetries,
		"conflictStrategy":  cfg.ConflictStrategy,
	})
	return nil
}

// config loads the persisted configuration, falling back to defaults
// when it is absent or unreadable. Operations needing a default must
// not fail because the config record is bad.
func (m *Manager) config(ctx context.Context) Config {
	var cfg Config
	ok, err := m.store.GetJSON(ctx, configKey, &cfg)
	if err != nil {
		m.log.Warn("Falling back to default offline config", map[string]interface{}{
			"error": err.Error(),
		})
		return DefaultConfig()
	}
	if !ok {
		return DefaultConfig()
	}
	cfg.ApplyDefaults()
	return cfg
}

func (m *Manager) now() time.Time {
	return m.nowFunc()
}
