package component

import "context"

// HealthStatus classifies how a component is doing at probe time.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// Health is one component's answer to a health probe.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is the lifecycle contract the Registry manages. The bridge
// wraps each of its long-lived concerns (storage backend, connectivity
// monitor, push provider, sync transport) in one of these.
type Component interface {
	// Name identifies the component within a Registry. Names must be
	// unique per registry.
	Name() string

	// Start brings the component up. A component that fails to start
	// must leave nothing running behind it.
	Start(ctx context.Context) error

	// Stop shuts the component down and releases what Start acquired.
	// The registry bounds ctx, so Stop must honor cancellation.
	Stop(ctx context.Context) error

	// Health probes the component. It is called on running and
	// not-yet-started components alike.
	Health(ctx context.Context) Health
}

// Description summarizes a component for startup diagnostics.
type Description struct {
	// Name is the display name, e.g. "Secure Storage". Empty means
	// fall back to the component's Name().
	Name string
	// Type categorizes the component: "storage", "monitor", "push".
	Type string
	// Details is a one-line summary of the live configuration,
	// e.g. "sqlite /data/bridge.db" or "redis localhost:6379 db=0".
	Details string
}

// Describable lets a component self-report a Description. Components
// that skip it still show up in DescribeAll with a name-only entry.
type Describable interface {
	Describe() Description
}
