// Package offline implements the offline synchronization core: an
// entity cache with expiration, a durable FIFO mutation queue, and the
// sync engine that drains the queue through a host-supplied handler.
//
// A Manager owns all state and persists through a storage.Store, so
// cache entries and queued mutations survive restarts and remain
// readable by the web client that shares the same storage layout.
// Connectivity is pushed in by the host (SetOnline) or detected by a
// Monitor; on reconnect the manager automatically runs a sync pass.
//
// Typical use:
//
//	mgr := offline.NewManager(store, log,
//	    offline.WithSyncHandler(handler),
//	)
//	if err := mgr.Initialize(ctx, offline.Config{}); err != nil { ... }
//
//	id, _ := mgr.QueueMutation(ctx, offline.MutationCreate, "members",
//	    map[string]any{"firstName": "Jane"})
//	result, _ := mgr.SyncPendingMutations(ctx, nil)
//
// Reads use the generic helpers:
//
//	member, err := offline.Cached[Member](ctx, mgr, "members", "m-1")
//	all, err := offline.AllCached[Member](ctx, mgr, "members")
package offline
