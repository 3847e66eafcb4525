// Package storagetest provides a shared conformance suite for
// storage.Adapter implementations. Each backend's own tests call
// TestAdapter so every provider honors the same contract.
//
// Usage:
//
//	func TestAdapterContract(t *testing.T) {
//	    storagetest.TestAdapter(t, func(t *testing.T) storage.Adapter {
//	        return memory.NewAdapter()
//	    })
//	}
package storagetest

import (
	"context"
	"sort"
	"testing"

	"github.com/faithfulcoronel/stewardtrack-sub004/storage"
)

// TestAdapter runs the storage.Adapter contract against fresh adapters
// produced by newAdapter. The factory is called once per subtest, so
// state never leaks between cases; cleanup belongs in the factory via
// t.Cleanup.
func TestAdapter(t *testing.T, newAdapter func(t *testing.T) storage.Adapter) {
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		a := newAdapter(t)
		if err := a.SetItem(ctx, "st_cache_members_all", `{"data":[]}`); err != nil {
			t.Fatalf("SetItem() error = %v", err)
		}
		got, ok, err := a.GetItem(ctx, "st_cache_members_all")
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		if !ok {
			t.Fatal("GetItem() ok = false, want true")
		}
		if got != `{"data":[]}` {
			t.Errorf("GetItem() = %q, want %q", got, `{"data":[]}`)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		a := newAdapter(t)
		got, ok, err := a.GetItem(ctx, "st_never_written")
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		if ok {
			t.Error("GetItem() ok = true for missing key, want false")
		}
		if got != "" {
			t.Errorf("GetItem() = %q for missing key, want empty", got)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		a := newAdapter(t)
		if err := a.SetItem(ctx, "st_last_sync", "1700000000000"); err != nil {
			t.Fatalf("SetItem() error = %v", err)
		}
		if err := a.SetItem(ctx, "st_last_sync", "1700000001000"); err != nil {
			t.Fatalf("SetItem() overwrite error = %v", err)
		}
		got, _, err := a.GetItem(ctx, "st_last_sync")
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		if got != "1700000001000" {
			t.Errorf("GetItem() = %q after overwrite, want %q", got, "1700000001000")
		}
	})

	t.Run("EmptyValueIsNotMissing", func(t *testing.T) {
		a := newAdapter(t)
		if err := a.SetItem(ctx, "st_empty", ""); err != nil {
			t.Fatalf("SetItem() error = %v", err)
		}
		got, ok, err := a.GetItem(ctx, "st_empty")
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		if !ok {
			t.Fatal("GetItem() ok = false for empty value, want true")
		}
		if got != "" {
			t.Errorf("GetItem() = %q, want empty string", got)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		a := newAdapter(t)
		if err := a.SetItem(ctx, "st_offline_queue", "[]"); err != nil {
			t.Fatalf("SetItem() error = %v", err)
		}
		if err := a.RemoveItem(ctx, "st_offline_queue"); err != nil {
			t.Fatalf("RemoveItem() error = %v", err)
		}
		_, ok, err := a.GetItem(ctx, "st_offline_queue")
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		if ok {
			t.Error("GetItem() ok = true after remove, want false")
		}
	})

	t.Run("RemoveMissingIsNoop", func(t *testing.T) {
		a := newAdapter(t)
		if err := a.RemoveItem(ctx, "st_never_written"); err != nil {
			t.Errorf("RemoveItem() error = %v for missing key, want nil", err)
		}
	})

	t.Run("Keys", func(t *testing.T) {
		a := newAdapter(t)
		want := []string{
			"st_cache_members_all",
			"st_cache_donations_recent",
			"st_offline_config",
		}
		for _, k := range want {
			if err := a.SetItem(ctx, k, "{}"); err != nil {
				t.Fatalf("SetItem(%q) error = %v", k, err)
			}
		}
		got, err := a.Keys(ctx)
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		sort.Strings(got)
		sort.Strings(want)
		if len(got) != len(want) {
			t.Fatalf("Keys() returned %d keys, want %d: %v", len(got), len(want), got)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("Keys()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("Clear", func(t *testing.T) {
		a := newAdapter(t)
		for _, k := range []string{"st_a", "st_b"} {
			if err := a.SetItem(ctx, k, "x"); err != nil {
				t.Fatalf("SetItem(%q) error = %v", k, err)
			}
		}
		if err := a.Clear(ctx); err != nil {
			t.Fatalf("Clear() error = %v", err)
		}
		keys, err := a.Keys(ctx)
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		if len(keys) != 0 {
			t.Errorf("Keys() = %v after Clear, want empty", keys)
		}
	})

	t.Run("HostileKeyRoundTrips", func(t *testing.T) {
		a := newAdapter(t)
		key := `st_cache_members_tenant/4f2:"grace church"`
		if err := a.SetItem(ctx, key, "v1"); err != nil {
			t.Fatalf("SetItem() error = %v", err)
		}
		got, ok, err := a.GetItem(ctx, key)
		if err != nil {
			t.Fatalf("GetItem() error = %v", err)
		}
		if !ok || got != "v1" {
			t.Fatalf("GetItem() = (%q, %v), want (%q, true)", got, ok, "v1")
		}
		keys, err := a.Keys(ctx)
		if err != nil {
			t.Fatalf("Keys() error = %v", err)
		}
		found := false
		for _, k := range keys {
			if k == key {
				found = true
			}
		}
		if !found {
			t.Errorf("Keys() = %v, want to contain %q", keys, key)
		}
	})
}
