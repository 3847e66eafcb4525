package testutil

import (
	"context"
	"fmt"

	"github.com/faithfulcoronel/stewardtrack-sub004/component"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage"
)

// TestComponent extends component.Component with the lifecycle tests
// need: wiping state between cases and capturing state to come back to.
// A TestComponent still works as a regular component, so the same
// implementation can serve the registry in production-shaped tests.
type TestComponent interface {
	component.Component

	// Reset returns the component to its initial state, isolating
	// test cases from one another.
	Reset(ctx context.Context) error

	// Snapshot captures the current state. The returned value is
	// accepted by Restore.
	Snapshot(ctx context.Context) (interface{}, error)

	// Restore reinstates a state previously captured by Snapshot.
	Restore(ctx context.Context, snapshot interface{}) error
}

// StoreComponent provisions a bridge store for tests. Start opens the
// configured backend, Reset clears every key, and Snapshot/Restore
// capture and reinstate the full key set, so a test can seed data once
// and roll back between cases.
type StoreComponent struct {
	cfg         storage.Config
	providerCfg any
	log         *logger.Logger
	store       *storage.Store
}

var _ TestComponent = (*StoreComponent)(nil)
var _ component.Describable = (*StoreComponent)(nil)

// NewStoreComponent creates a store component for the given backend.
// providerCfg carries the backend settings (*file.Config, *sqlite.Config,
// *redis.Config) and may be nil for the memory provider.
func NewStoreComponent(cfg storage.Config, providerCfg any) *StoreComponent {
	return &StoreComponent{
		cfg:         cfg,
		providerCfg: providerCfg,
		log:         logger.NewDefault("test"),
	}
}

// Name returns the component name.
func (c *StoreComponent) Name() string {
	return "test-store"
}

// Store returns the open store. It is nil before Start and after Stop.
func (c *StoreComponent) Store() *storage.Store {
	return c.store
}

// Start opens the backend and wraps it in a namespaced store.
func (c *StoreComponent) Start(_ context.Context) error {
	if c.store != nil {
		return nil
	}
	c.cfg.ApplyDefaults()
	adapter, err := storage.New(c.cfg, c.providerCfg, c.log)
	if err != nil {
		return fmt.Errorf("testutil: open %s store: %w", c.cfg.Provider, err)
	}
	c.store = storage.NewStore(adapter, c.cfg.Namespace, c.log)
	return nil
}

// Stop closes the backend. It is safe to call before Start.
func (c *StoreComponent) Stop(context.Context) error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// Health probes the store with a point read.
func (c *StoreComponent) Health(ctx context.Context) component.Health {
	if c.store == nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: "store not started"}
	}
	if _, _, err := c.store.GetItem(ctx, "health_probe"); err != nil {
		return component.Health{Name: c.Name(), Status: component.StatusUnhealthy, Message: err.Error()}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns summary information for startup diagnostics.
func (c *StoreComponent) Describe() component.Description {
	return component.Description{
		Name:    "Test store",
		Type:    "storage",
		Details: fmt.Sprintf("%s namespace=%s", c.cfg.Provider, c.cfg.Namespace),
	}
}

// Reset removes every key in the store's namespace.
func (c *StoreComponent) Reset(ctx context.Context) error {
	if c.store == nil {
		return fmt.Errorf("testutil: reset before Start")
	}
	return c.store.Clear(ctx)
}

// Snapshot reads the full key set into a map.
func (c *StoreComponent) Snapshot(ctx context.Context) (interface{}, error) {
	if c.store == nil {
		return nil, fmt.Errorf("testutil: snapshot before Start")
	}
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	state := make(map[string]string, len(keys))
	for _, key := range keys {
		value, ok, err := c.store.GetItem(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			state[key] = value
		}
	}
	return state, nil
}

// Restore replaces the store contents with a captured key set.
func (c *StoreComponent) Restore(ctx context.Context, snapshot interface{}) error {
	if c.store == nil {
		return fmt.Errorf("testutil: restore before Start")
	}
	state, ok := snapshot.(map[string]string)
	if !ok {
		return fmt.Errorf("testutil: snapshot is %T, want map[string]string", snapshot)
	}
	if err := c.store.Clear(ctx); err != nil {
		return err
	}
	for key, value := range state {
		if err := c.store.SetItem(ctx, key, value); err != nil {
			return err
		}
	}
	return nil
}
