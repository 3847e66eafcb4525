package testutil

import (
	"context"
	"testing"
)

// CleanupFunc stops a started component.
type CleanupFunc func() error

// Setup starts a component and returns the function that stops it,
// for use with defer in tests that manage cleanup themselves.
func Setup(c TestComponent) (CleanupFunc, error) {
	return SetupWithContext(context.Background(), c)
}

// SetupWithContext is Setup with a caller-supplied context.
func SetupWithContext(ctx context.Context, c TestComponent) (CleanupFunc, error) {
	if err := c.Start(ctx); err != nil {
		return nil, err
	}
	return func() error {
		return c.Stop(ctx)
	}, nil
}

// Teardown stops a component. The inverse of Setup.
func Teardown(c TestComponent) error {
	return c.Stop(context.Background())
}

// THelper binds test components to a testing.T, failing the test on
// lifecycle errors and registering cleanup automatically.
type THelper struct {
	t   *testing.T
	ctx context.Context
}

// T wraps a testing.T.
//
//	func TestSyncQueue(t *testing.T) {
//	    store := testutil.NewStoreComponent(storage.Config{}, nil)
//	    testutil.T(t).Setup(store)
//	    // store stops when the test ends
//	}
func T(t *testing.T) *THelper {
	return &THelper{
		t:   t,
		ctx: context.Background(),
	}
}

// WithContext replaces the context used for lifecycle calls.
func (h *THelper) WithContext(ctx context.Context) *THelper {
	h.ctx = ctx
	return h
}

// Setup starts the component and stops it when the test ends.
func (h *THelper) Setup(c TestComponent) {
	h.t.Helper()
	if err := c.Start(h.ctx); err != nil {
		h.t.Fatalf("start %s: %v", c.Name(), err)
	}
	h.t.Cleanup(func() {
		if err := c.Stop(h.ctx); err != nil {
			h.t.Errorf("stop %s: %v", c.Name(), err)
		}
	})
}

// Reset returns the component to its initial state.
func (h *THelper) Reset(c TestComponent) {
	h.t.Helper()
	if err := c.Reset(h.ctx); err != nil {
		h.t.Fatalf("reset %s: %v", c.Name(), err)
	}
}

// Snapshot captures the component's current state.
func (h *THelper) Snapshot(c TestComponent) interface{} {
	h.t.Helper()
	snapshot, err := c.Snapshot(h.ctx)
	if err != nil {
		h.t.Fatalf("snapshot %s: %v", c.Name(), err)
	}
	return snapshot
}

// Restore reinstates a state captured by Snapshot.
func (h *THelper) Restore(c TestComponent, snapshot interface{}) {
	h.t.Helper()
	if err := c.Restore(h.ctx, snapshot); err != nil {
		h.t.Fatalf("restore %s: %v", c.Name(), err)
	}
}
