package bridge

import (
	"context"

	"github.com/faithfulcoronel/stewardtrack-sub004/component"
	"github.com/faithfulcoronel/stewardtrack-sub004/httpclient"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/observability"
	"github.com/faithfulcoronel/stewardtrack-sub004/offline"
	"github.com/faithfulcoronel/stewardtrack-sub004/platform"
	"github.com/faithfulcoronel/stewardtrack-sub004/push"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage"
	"github.com/faithfulcoronel/stewardtrack-sub004/synchttp"
	"github.com/faithfulcoronel/stewardtrack-sub004/util"
	"github.com/faithfulcoronel/stewardtrack-sub004/version"

	// Default backend. Hosts wanting file, sqlite or redis import the
	// matching package themselves.
	_ "github.com/faithfulcoronel/stewardtrack-sub004/storage/memory"
)

// Bridge assembles the offline core and its sibling bridges behind one
// facade: storage, the offline manager, push, and platform detection.
// Construction opens storage and wires everything eagerly, so the
// accessors work immediately; Start and Stop drive the component
// lifecycle (offline configuration, connectivity monitor, push
// registration).
type Bridge struct {
	cfg      Config
	log      *logger.Logger
	registry *component.Registry

	detector *platform.Detector
	store    *storage.Store
	manager  *offline.Manager
	push     *push.Bridge
}

// Option configures optional collaborators.
type Option func(*options)

type options struct {
	log          *logger.Logger
	hostBridge   platform.HostBridge
	pushProvider push.Provider
	pushHost     push.Host
	syncHandler  offline.SyncHandler
	monitor      offline.Monitor
	metrics      *observability.BridgeMetrics
}

// WithLogger uses an existing logger instead of building one from the
// logging configuration.
func WithLogger(log *logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithHostBridge wires the native host into platform detection and
// capability reporting.
func WithHostBridge(hb platform.HostBridge) Option {
	return func(o *options) { o.hostBridge = hb }
}

// WithPushProvider sets the push provider. Without one, push reports
// unsupported and registration is a logged no-op.
func WithPushProvider(p push.Provider) Option {
	return func(o *options) { o.pushProvider = p }
}

// WithPushHost wraps a push host in a HostProvider using the bridge's
// logger. WithPushProvider takes precedence when both are given.
func WithPushHost(h push.Host) Option {
	return func(o *options) { o.pushHost = h }
}

// WithSyncHandler installs the sync handler on the offline manager,
// overriding the configured REST handler.
func WithSyncHandler(h offline.SyncHandler) Option {
	return func(o *options) { o.syncHandler = h }
}

// WithMonitor replaces the configured connectivity monitor.
func WithMonitor(m offline.Monitor) Option {
	return func(o *options) { o.monitor = m }
}

// WithMetrics wires an instrument set into the offline manager.
func WithMetrics(m *observability.BridgeMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// New assembles a Bridge: logger, platform detector, storage store,
// offline manager, and push bridge, with each lifecycle component
// registered for Start/Stop/Health.
func New(cfg Config, opts ...Option) (*Bridge, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	log := o.log
	if log == nil {
		log = logger.New(&cfg.Logging, cfg.Name)
	}

	var detOpts []platform.Option
	if cfg.Platform.Override != "" {
		p, _ := platform.Parse(cfg.Platform.Override)
		detOpts = append(detOpts, platform.WithOverride(p))
	}
	if o.hostBridge != nil {
		detOpts = append(detOpts, platform.WithHostBridge(o.hostBridge))
	}
	detector := platform.Detect(detOpts...)

	// Storage opens during assembly, not at Start, so the store and
	// manager accessors are usable as soon as New returns.
	adapter, err := storage.New(cfg.Storage.Config, cfg.Storage.providerConfig(), log)
	if err != nil {
		return nil, err
	}
	store := storage.NewStore(adapter, cfg.Storage.Namespace, log)

	syncHandler := o.syncHandler
	var syncClient *httpclient.Adapter
	if syncHandler == nil && cfg.Sync.Enabled {
		h, err := synchttp.New(cfg.Sync.Config, log)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		syncHandler = h.SyncHandler()
		syncClient = h.Client()
	}

	var mgrOpts []offline.Option
	if syncHandler != nil {
		mgrOpts = append(mgrOpts, offline.WithSyncHandler(syncHandler))
	}
	if o.metrics != nil {
		mgrOpts = append(mgrOpts, offline.WithMetrics(o.metrics))
	}
	manager := offline.NewManager(store, log, mgrOpts...)

	provider := o.pushProvider
	if provider == nil && o.pushHost != nil {
		provider = push.NewHostProvider(o.pushHost, log)
	}
	pushBridge := push.NewBridge(provider, log)

	monitor := o.monitor
	if monitor == nil {
		monitor = cfg.Connectivity.monitor(cfg.Sync.BaseURL)
	}

	b := &Bridge{
		cfg:      cfg,
		log:      log.WithComponent("bridge"),
		registry: component.NewRegistry(),
		detector: detector,
		store:    store,
		manager:  manager,
		push:     pushBridge,
	}

	// Registration order is start order; stop runs in reverse, so the
	// store closes last.
	components := []component.Component{
		storage.NewStoreComponent(store, cfg.Storage.Config, log),
		offline.NewComponent(manager, cfg.Offline, monitor),
		push.NewComponent(pushBridge, cfg.Push),
	}
	if syncClient != nil {
		// Surfaces the sync transport's circuit state in health
		// reports alongside the components that depend on it.
		components = append(components, httpclient.NewAdapterComponent("sync-api", syncClient))
	}
	for _, c := range components {
		if err := b.registry.Register(c); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	b.log.Info("Bridge assembled", map[string]interface{}{
		"platform":    string(detector.Platform()),
		"storage":     cfg.Storage.Provider,
		"syncEnabled": cfg.Sync.Enabled || o.syncHandler != nil,
		"components": util.Map(b.registry.All(), func(c component.Component) string {
			return c.Name()
		}),
	})
	return b, nil
}

// Start brings up every component in registration order and logs the
// startup summary.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.registry.StartAll(ctx); err != nil {
		return err
	}
	for _, d := range b.registry.DescribeAll() {
		b.log.Info("component online", map[string]interface{}{
			"name":    d.Name,
			"type":    d.Type,
			"details": d.Details,
		})
	}
	return nil
}

// Stop shuts the components down in reverse order.
func (b *Bridge) Stop(ctx context.Context) error {
	return b.registry.StopAll(ctx)
}

// Health aggregates every component's health into one report, with the
// overall status rolled up to the worst component.
func (b *Bridge) Health(ctx context.Context) *observability.ServiceHealth {
	sh := observability.NewServiceHealth(version.Product, version.Short())
	for _, h := range b.registry.HealthAll(ctx) {
		sh.AddComponent(observability.Health{
			Name:    h.Name,
			Status:  serviceStatus(h.Status),
			Message: h.Message,
		})
	}
	return sh
}

func serviceStatus(s component.HealthStatus) observability.HealthStatus {
	switch s {
	case component.StatusHealthy:
		return observability.HealthStatusUp
	case component.StatusDegraded:
		return observability.HealthStatusDegraded
	default:
		return observability.HealthStatusDown
	}
}

// Offline returns the offline manager: cache, queue, sync, and
// connectivity.
func (b *Bridge) Offline() *offline.Manager {
	return b.manager
}

// Storage returns the namespaced store shared by every component.
func (b *Bridge) Storage() *storage.Store {
	return b.store
}

// Push returns the push notification bridge.
func (b *Bridge) Push() *push.Bridge {
	return b.push
}

// Platform returns the platform detector.
func (b *Bridge) Platform() *platform.Detector {
	return b.detector
}

// Components returns the lifecycle registry, for hosts embedding the
// bridge in a larger component tree.
func (b *Bridge) Components() *component.Registry {
	return b.registry
}
