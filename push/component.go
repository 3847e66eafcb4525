package push

import (
	"context"
	"fmt"

	"github.com/faithfulcoronel/stewardtrack-sub004/component"
)

// Config controls push startup behavior.
type Config struct {
	// AutoRegister registers for push delivery during component
	// start. Safe to enable everywhere; environments without push
	// skip registration.
	AutoRegister bool `yaml:"auto_register" mapstructure:"auto_register"`
}

// Component wraps a Bridge and implements component.Component.
type Component struct {
	bridge *Bridge
	cfg    Config
}

// NewComponent creates the push lifecycle component.
func NewComponent(bridge *Bridge, cfg Config) *Component {
	return &Component{bridge: bridge, cfg: cfg}
}

// Bridge returns the wrapped bridge.
func (c *Component) Bridge() *Bridge {
	return c.bridge
}

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "push" }

// Start registers for push delivery when configured to.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.AutoRegister {
		return nil
	}
	if err := c.bridge.Register(ctx); err != nil {
		return fmt.Errorf("push start: %w", err)
	}
	return nil
}

// Stop unregisters from push delivery.
func (c *Component) Stop(ctx context.Context) error {
	if !c.bridge.Registered() {
		return nil
	}
	return c.bridge.Unregister(ctx)
}

// Health probes the provider's permission surface. An environment
// without push is healthy; only a failing provider is not.
func (c *Component) Health(ctx context.Context) component.Health {
	status, err := c.bridge.CheckPermissions(ctx)
	if err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("provider unavailable: %v", err),
		}
	}

	state := "unsupported"
	switch {
	case status.Granted:
		state = "granted"
	case status.Denied:
		state = "denied"
	case status.Prompt:
		state = "prompt"
	}
	msg := fmt.Sprintf("permission %s", state)
	if c.bridge.Registered() {
		msg += ", registered"
	}
	return component.Health{
		Name:    c.Name(),
		Status:  component.StatusHealthy,
		Message: msg,
	}
}

// Describe returns infrastructure summary info.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Push Notifications",
		Type:    "push",
		Details: fmt.Sprintf("provider=%T autoRegister=%t", c.bridge.Provider(), c.cfg.AutoRegister),
	}
}
