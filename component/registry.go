package component

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
)

// stopTimeout bounds each component's Stop call so one hung shutdown
// cannot stall the rest of the teardown.
const stopTimeout = 10 * time.Second

// registration pairs a component with its lifecycle state.
type registration struct {
	c       Component
	running bool
}

// Registry owns component lifecycle with deterministic ordering:
// StartAll runs in registration order, StopAll in reverse, so
// dependencies registered first outlive their dependents.
type Registry struct {
	mu     sync.RWMutex
	order  []*registration
	byName map[string]*registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*registration)}
}

// Register adds a component. Register dependencies first; their order
// here is their start order. Names must be unique.
func (r *Registry) Register(c Component) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, dup := r.byName[name]; dup {
		return fmt.Errorf("component %s already registered", name)
	}

	reg := &registration{c: c}
	r.order = append(r.order, reg)
	r.byName[name] = reg

	logger.Debug("component registered", logger.Fields("component", name))
	return nil
}

// StartAll starts every component in registration order, stopping at
// the first failure. Components started before the failure stay
// running; StopAll tears them down.
func (r *Registry) StartAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	logger.Info("starting components", logger.Fields("count", len(r.order)))
	for _, reg := range r.order {
		name := reg.c.Name()
		if err := reg.c.Start(ctx); err != nil {
			logger.Error("component start failed", logger.Fields("component", name, "error", err.Error()))
			return fmt.Errorf("start %s: %w", name, err)
		}
		reg.running = true
		logger.Debug("component started", logger.Fields("component", name))
	}
	return nil
}

// StopAll stops every running component in reverse registration
// order. Each Stop gets its own timeout; failures are collected so a
// broken component cannot block the teardown of the others.
func (r *Registry) StopAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.order) - 1; i >= 0; i-- {
		reg := r.order[i]
		if !reg.running {
			continue
		}
		name := reg.c.Name()

		stopCtx, cancel := context.WithTimeout(ctx, stopTimeout)
		err := reg.c.Stop(stopCtx)
		cancel()
		reg.running = false

		if err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", name, err))
			logger.Error("component stop failed", logger.Fields("component", name, "error", err.Error()))
			continue
		}
		logger.Debug("component stopped", logger.Fields("component", name))
	}
	return errors.Join(errs...)
}

// HealthAll reports every component's health in registration order.
func (r *Registry) HealthAll(ctx context.Context) []Health {
	r.mu.RLock()
	defer r.mu.RUnlock()

	health := make([]Health, 0, len(r.order))
	for _, reg := range r.order {
		health = append(health, reg.c.Health(ctx))
	}
	return health
}

// DescribeAll collects startup descriptions in registration order.
// Components without Describable get a name-only entry.
func (r *Registry) DescribeAll() []Description {
	r.mu.RLock()
	defer r.mu.RUnlock()

	descs := make([]Description, 0, len(r.order))
	for _, reg := range r.order {
		if d, ok := reg.c.(Describable); ok {
			desc := d.Describe()
			if desc.Name == "" {
				desc.Name = reg.c.Name()
			}
			descs = append(descs, desc)
			continue
		}
		descs = append(descs, Description{Name: reg.c.Name()})
	}
	return descs
}

// Get returns the component registered under name, or nil.
func (r *Registry) Get(name string) Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if reg, ok := r.byName[name]; ok {
		return reg.c
	}
	return nil
}

// All returns the components in registration order.
func (r *Registry) All() []Component {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Component, 0, len(r.order))
	for _, reg := range r.order {
		all = append(all, reg.c)
	}
	return all
}
