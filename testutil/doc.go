// Package testutil provides lifecycle helpers for testing against
// bridge components.
//
// The TestComponent interface extends component.Component with Reset,
// Snapshot and Restore, giving tests state isolation on top of the
// regular start/stop lifecycle. StoreComponent implements it over the
// storage layer, so a test can provision any configured backend, seed
// it, and roll it back between cases:
//
//	store := testutil.NewStoreComponent(storage.Config{Provider: "file"}, &file.Config{
//	    BasePath: t.TempDir(),
//	})
//	testutil.T(t).Setup(store)
//
//	store.Store().SetItem(ctx, "member_count", "42")
//	snap := testutil.T(t).Snapshot(store)
//	// mutate freely, then:
//	testutil.T(t).Restore(store, snap)
//
// Suites that span several backends group them under a Manager, which
// starts components in registration order and stops them in reverse:
//
//	m := testutil.NewManager(ctx)
//	m.Add(sqliteStore)
//	m.Add(redisStore)
//	m.StartAll()
//	defer m.Cleanup()
//
// Manager operations are safe for concurrent use; individual
// components guard their own state.
package testutil
