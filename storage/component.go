package storage

import (
	"context"
	"fmt"

	"github.com/faithfulcoronel/stewardtrack-sub004/component"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
)

// Component wraps a Store and implements component.Component for
// lifecycle management.
type Component struct {
	store       *Store
	cfg         Config
	providerCfg any
	log         *logger.Logger
}

// NewComponent creates a storage component for use with the component
// registry. The backend is not opened until Start.
func NewComponent(cfg Config, providerCfg any, log *logger.Logger) *Component {
	return &Component{
		cfg:         cfg,
		providerCfg: providerCfg,
		log:         log.WithComponent("storage"),
	}
}

// NewStoreComponent wraps an already-open store. Start becomes a
// no-op, so callers that open storage during assembly keep lifecycle
// and health reporting in the registry.
func NewStoreComponent(store *Store, cfg Config, log *logger.Logger) *Component {
	return &Component{
		store: store,
		cfg:   cfg,
		log:   log.WithComponent("storage"),
	}
}

// Store returns the underlying Store, or nil if not started.
func (c *Component) Store() *Store {
	return c.store
}

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start opens the storage backend. It is a no-op when the component
// wraps a store that is already open.
func (c *Component) Start(_ context.Context) error {
	if c.store != nil {
		return nil
	}
	adapter, err := New(c.cfg, c.providerCfg, c.log)
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.store = NewStore(adapter, c.cfg.Namespace, c.log)
	return nil
}

// Stop closes the storage backend.
func (c *Component) Stop(_ context.Context) error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// Health probes the backend with a point read.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.store == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "storage not initialized",
		}
	}

	if _, _, err := c.store.GetItem(ctx, ".health"); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("health probe failed: %v", err),
		}
	}

	return component.Health{
		Name:   c.Name(),
		Status: component.StatusHealthy,
	}
}

// Describe returns infrastructure summary info.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("provider=%s namespace=%s", c.cfg.Provider, c.cfg.Namespace)
	if c.cfg.EncryptionKey != "" {
		details += " encrypted=true"
	}
	return component.Description{
		Name:    "Storage",
		Type:    "storage",
		Details: details,
	}
}
