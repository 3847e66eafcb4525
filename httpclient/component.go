package httpclient

import (
	"context"

	"github.com/faithfulcoronel/stewardtrack-sub004/component"
)

// Component runs an Adapter inside a component registry, so the
// transport's circuit state shows up in lifecycle health reports.
// It either owns its adapter (built from config in Start) or wraps
// one built elsewhere.
type Component struct {
	name    string
	adapter *Adapter
	config  Config
	opts    []Option
	build   bool
}

var _ component.Component = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a component that builds its adapter from cfg
// in Start, so a bad config surfaces there rather than at
// construction.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts, build: true}
}

// NewAdapterComponent wraps an adapter built elsewhere. Start is a
// no-op; the component only contributes health and shutdown.
func NewAdapterComponent(name string, a *Adapter) *Component {
	return &Component{name: name, adapter: a}
}

// Name returns the component name: the explicit name, the configured
// client name, or "http".
func (c *Component) Name() string {
	switch {
	case c.name != "":
		return c.name
	case c.config.Name != "":
		return c.config.Name
	default:
		return "http"
	}
}

// Start builds the adapter when the component owns it.
func (c *Component) Start(_ context.Context) error {
	if !c.build {
		return nil
	}
	a, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.adapter = a
	return nil
}

// Stop releases pooled connections.
func (c *Component) Stop(ctx context.Context) error {
	if c.adapter == nil {
		return nil
	}
	return c.adapter.Close(ctx)
}

// Health reports unhealthy while the circuit breaker is open or
// before Start.
func (c *Component) Health(ctx context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.adapter == nil:
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	case !c.adapter.IsAvailable(ctx):
		h.Status = component.StatusUnhealthy
		h.Message = "circuit open"
	}
	return h
}

// Describe identifies the client in component summaries.
func (c *Component) Describe() component.Description {
	base := c.config.BaseURL
	if c.adapter != nil {
		base = c.adapter.config.BaseURL
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: base,
	}
}

// Adapter returns the underlying client. Nil before Start when the
// component builds its own.
func (c *Component) Adapter() *Adapter {
	return c.adapter
}
