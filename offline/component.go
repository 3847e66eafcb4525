package offline

import (
	"context"
	"fmt"

	"github.com/faithfulcoronel/stewardtrack-sub004/component"
)

// Component wraps a Manager and implements component.Component.
// Start persists the configuration and launches the connectivity
// monitor; Stop cancels the monitor.
type Component struct {
	manager *Manager
	cfg     Config
	monitor Monitor
	cancel  context.CancelFunc
}

// NewComponent creates the offline lifecycle component. monitor may be
// nil when the host pushes connectivity itself via SetOnline.
func NewComponent(manager *Manager, cfg Config, monitor Monitor) *Component {
	cfg.ApplyDefaults()
	return &Component{
		manager: manager,
		cfg:     cfg,
		monitor: monitor,
	}
}

// Manager returns the wrapped manager.
func (c *Component) Manager() *Manager {
	return c.manager
}

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "offline" }

// Start persists the offline configuration and starts the monitor.
func (c *Component) Start(ctx context.Context) error {
	if err := c.manager.Initialize(ctx, c.cfg); err != nil {
		return fmt.Errorf("offline start: %w", err)
	}
	if c.monitor != nil {
		runCtx, cancel := context.WithCancel(context.Background())
		c.cancel = cancel
		go c.monitor.Run(runCtx, c.manager.SetOnline)
	}
	return nil
}

// Stop cancels the connectivity monitor. Queue and cache state is
// durable and needs no teardown.
func (c *Component) Stop(_ context.Context) error {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	return nil
}

// Health probes the queue through storage. Being offline is a valid
// state, not a failure; only a broken store is unhealthy.
func (c *Component) Health(ctx context.Context) component.Health {
	pending, err := c.manager.PendingCount(ctx)
	if err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("queue unavailable: %v", err),
		}
	}

	state := "offline"
	if c.manager.IsOnline() {
		state = "online"
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: fmt.Sprintf("%s, %d pending", state, pending),
	}
}

// Describe returns infrastructure summary info.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("conflictStrategy=%s", c.cfg.ConflictStrategy)
	if c.monitor != nil {
		details += fmt.Sprintf(" monitor=%T", c.monitor)
	}
	return component.Description{
		Name:    "Offline Sync",
		Type:    "offline",
		Details: details,
	}
}
