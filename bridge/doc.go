// Package bridge is the composition root: it assembles storage, the
// offline manager, the push bridge, and platform detection into one
// facade with a component lifecycle.
//
// Typical use:
//
//	cfg := bridge.Config{}
//	if err := config.LoadConfig("bridge", &cfg); err != nil { ... }
//
//	b, err := bridge.New(cfg,
//	    bridge.WithHostBridge(host),     // native container
//	    bridge.WithPushHost(pushHost),
//	)
//	if err != nil { ... }
//	if err := b.Start(ctx); err != nil { ... }
//	defer b.Stop(ctx)
//
//	b.Offline().QueueMutation(ctx, offline.MutationCreate, "members", payload)
//	b.Push().AddTokenListener(func(token string) { ... })
//
// Only the in-memory storage backend is linked by default; hosts
// select file, sqlite, or redis by importing the backend package for
// its factory registration.
package bridge
