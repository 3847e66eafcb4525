package bridge

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/faithfulcoronel/stewardtrack-sub004/component"
	"github.com/faithfulcoronel/stewardtrack-sub004/config"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/observability"
	"github.com/faithfulcoronel/stewardtrack-sub004/offline"
	"github.com/faithfulcoronel/stewardtrack-sub004/platform"
	"github.com/faithfulcoronel/stewardtrack-sub004/push"
	"github.com/faithfulcoronel/stewardtrack-sub004/synchttp"
	"github.com/faithfulcoronel/stewardtrack-sub004/version"
)

func testConfig() Config {
	return Config{
		ServiceConfig: config.ServiceConfig{Name: "bridge-test"},
	}
}

func newTestBridge(t *testing.T, cfg Config, opts ...Option) *Bridge {
	t.Helper()
	opts = append([]Option{WithLogger(logger.NewDefault("test"))}, opts...)
	b, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

// fakePushProvider records lifecycle calls and exposes the wired
// events for dispatching.
type fakePushProvider struct {
	mu           sync.Mutex
	status       push.PermissionStatus
	registered   int
	unregistered int
	events       push.Events
}

func (f *fakePushProvider) RequestPermissions(context.Context) (push.PermissionStatus, error) {
	return f.status, nil
}

func (f *fakePushProvider) CheckPermissions(context.Context) (push.PermissionStatus, error) {
	return f.status, nil
}

func (f *fakePushProvider) Register(_ context.Context, events push.Events) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registered++
	f.events = events
	return nil
}

func (f *fakePushProvider) Unregister(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unregistered++
	return nil
}

func (f *fakePushProvider) fireToken(token string) {
	f.mu.Lock()
	events := f.events
	f.mu.Unlock()
	if events.Token != nil {
		events.Token(token)
	}
}

func TestNew_Defaults(t *testing.T) {
	b := newTestBridge(t, Config{})

	if b.Offline() == nil || b.Storage() == nil || b.Push() == nil || b.Platform() == nil {
		t.Fatal("expected all facade accessors to be non-nil")
	}

	// Memory storage is usable before Start.
	ctx := context.Background()
	if err := b.Storage().SetItem(ctx, "probe", "1"); err != nil {
		t.Fatalf("SetItem: %v", err)
	}
	got, found, err := b.Storage().GetItem(ctx, "probe")
	if err != nil || !found || got != "1" {
		t.Fatalf("GetItem = %q, %t, %v; want 1, true, nil", got, found, err)
	}
}

func TestNew_ValidatesConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown platform override", func(c *Config) { c.Platform.Override = "windows" }},
		{"unknown storage provider", func(c *Config) { c.Storage.Provider = "dynamo" }},
		{"unknown connectivity mode", func(c *Config) { c.Connectivity.Mode = "carrier-pigeon" }},
		{"sync enabled without base url", func(c *Config) { c.Sync.Enabled = true }},
		{"probe mode without url", func(c *Config) { c.Connectivity.Mode = MonitorProbe }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			if _, err := New(cfg, WithLogger(logger.NewDefault("test"))); err == nil {
				t.Fatal("expected config error")
			}
		})
	}
}

func TestBridge_Lifecycle(t *testing.T) {
	cfg := testConfig()
	cfg.Connectivity = MonitorConfig{Mode: MonitorStatic, Online: false}
	b := newTestBridge(t, cfg)

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Start persists the offline configuration.
	var offCfg offline.Config
	found, err := b.Storage().GetJSON(ctx, "offline_config", &offCfg)
	if err != nil || !found {
		t.Fatalf("offline config not persisted: found=%t err=%v", found, err)
	}
	if offCfg.MaxRetries != offline.DefaultMaxRetries {
		t.Errorf("MaxRetries = %d, want %d", offCfg.MaxRetries, offline.DefaultMaxRetries)
	}

	// The static monitor pushes the configured state.
	deadline := time.Now().Add(2 * time.Second)
	for b.Offline().IsOnline() {
		if time.Now().After(deadline) {
			t.Fatal("static monitor never pushed offline state")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if err := b.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := b.Stop(ctx); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}

func TestBridge_PlatformOverride(t *testing.T) {
	cfg := testConfig()
	cfg.Platform.Override = "ios"
	b := newTestBridge(t, cfg)

	if got := b.Platform().Platform(); got != platform.IOS {
		t.Errorf("Platform() = %q, want ios", got)
	}
	if !b.Platform().IsNative() {
		t.Error("expected native platform")
	}
}

func TestBridge_SyncEnabledDrainsQueue(t *testing.T) {
	var mu sync.Mutex
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		paths = append(paths, r.Method+" "+r.URL.Path)
		mu.Unlock()
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Sync = SyncConfig{Enabled: true, Config: synchttp.Config{BaseURL: srv.URL}}
	b := newTestBridge(t, cfg)

	ctx := context.Background()
	if _, err := b.Offline().QueueMutation(ctx, offline.MutationCreate, "members",
		map[string]any{"firstName": "Ada"}); err != nil {
		t.Fatalf("QueueMutation: %v", err)
	}

	result, err := b.Offline().SyncPendingMutations(ctx, nil)
	if err != nil {
		t.Fatalf("SyncPendingMutations: %v", err)
	}
	if !result.Success || result.Synced != 1 {
		t.Fatalf("result = %+v, want one synced mutation", result)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(paths) != 1 || paths[0] != "POST /members" {
		t.Errorf("server saw %v, want [POST /members]", paths)
	}
}

func TestBridge_SyncHandlerOptionWins(t *testing.T) {
	cfg := testConfig()
	// Configured REST endpoint is unreachable; the option handler
	// must take precedence so it is never contacted.
	cfg.Sync = SyncConfig{Enabled: true, Config: synchttp.Config{BaseURL: "http://127.0.0.1:1"}}

	var handled int
	b := newTestBridge(t, cfg, WithSyncHandler(func(context.Context, offline.QueuedMutation) (bool, error) {
		handled++
		return true, nil
	}))

	ctx := context.Background()
	if _, err := b.Offline().QueueMutation(ctx, offline.MutationDelete, "members",
		map[string]any{"id": "m-1"}); err != nil {
		t.Fatalf("QueueMutation: %v", err)
	}

	result, err := b.Offline().SyncPendingMutations(ctx, nil)
	if err != nil {
		t.Fatalf("SyncPendingMutations: %v", err)
	}
	if !result.Success || handled != 1 {
		t.Errorf("result = %+v handled = %d, want success through the option handler", result, handled)
	}
}

func TestBridge_PushAutoRegister(t *testing.T) {
	provider := &fakePushProvider{status: push.PermissionStatus{Granted: true}}

	cfg := testConfig()
	cfg.Push.AutoRegister = true
	b := newTestBridge(t, cfg, WithPushProvider(provider))

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if !b.Push().Registered() {
		t.Fatal("expected push to be registered after Start")
	}

	var tokens []string
	b.Push().AddTokenListener(func(token string) { tokens = append(tokens, token) })
	provider.fireToken("device-token-1")
	if len(tokens) != 1 || tokens[0] != "device-token-1" {
		t.Errorf("tokens = %v, want [device-token-1]", tokens)
	}

	if err := b.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if provider.unregistered != 1 {
		t.Errorf("unregistered = %d, want 1", provider.unregistered)
	}
}

func TestBridge_HealthReportsAllComponents(t *testing.T) {
	b := newTestBridge(t, testConfig())

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Stop(ctx)

	health := b.Health(ctx)
	if health.Service != version.Product {
		t.Errorf("Service = %q, want %q", health.Service, version.Product)
	}
	if health.Status != observability.HealthStatusUp {
		t.Errorf("Status = %s, want up", health.Status)
	}
	if len(health.Components) != 3 {
		t.Fatalf("got %d health reports, want 3", len(health.Components))
	}
	byName := make(map[string]observability.Health, len(health.Components))
	for _, h := range health.Components {
		byName[h.Name] = h
	}
	for _, name := range []string{"storage", "offline", "push"} {
		h, ok := byName[name]
		if !ok {
			t.Errorf("missing health report for %s", name)
			continue
		}
		if h.Status != observability.HealthStatusUp {
			t.Errorf("%s status = %s (%s), want up", name, h.Status, h.Message)
		}
	}
}

func TestBridge_SyncTransportReportsHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testConfig()
	cfg.Sync = SyncConfig{Enabled: true, Config: synchttp.Config{BaseURL: srv.URL}}
	b := newTestBridge(t, cfg)

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Stop(ctx)

	health := b.Health(ctx)
	if len(health.Components) != 4 {
		t.Fatalf("got %d health reports, want 4 with sync enabled", len(health.Components))
	}
	var found bool
	for _, h := range health.Components {
		if h.Name == "sync-api" {
			found = true
			if h.Status != observability.HealthStatusUp {
				t.Errorf("sync-api status = %s (%s), want up", h.Status, h.Message)
			}
		}
	}
	if !found {
		t.Error("no health report for sync-api")
	}
}

func TestBridge_HealthRollsUpWorstComponent(t *testing.T) {
	b := newTestBridge(t, testConfig())

	ctx := context.Background()
	if err := b.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer b.Stop(ctx)

	if err := b.Components().Register(&downComponent{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	health := b.Health(ctx)
	if health.Status != observability.HealthStatusDown {
		t.Errorf("Status = %s, want down with a failed component", health.Status)
	}
}

// downComponent always reports unhealthy.
type downComponent struct{}

func (*downComponent) Name() string                { return "flaky" }
func (*downComponent) Start(context.Context) error { return nil }
func (*downComponent) Stop(context.Context) error  { return nil }
func (*downComponent) Health(context.Context) component.Health {
	return component.Health{Name: "flaky", Status: component.StatusUnhealthy, Message: "backend gone"}
}

func TestBridge_ComponentsRegistry(t *testing.T) {
	b := newTestBridge(t, testConfig())

	if got := len(b.Components().All()); got != 3 {
		t.Errorf("registered components = %d, want 3", got)
	}
	if b.Components().Get("offline") == nil {
		t.Error("offline component not registered")
	}
}
