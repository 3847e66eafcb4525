// Package push bridges native push notifications to application
// listeners.
//
// A native container implements Host against its OS push APIs and the
// app wires it through a Bridge:
//
//	provider := push.NewHostProvider(container, log)
//	bridge := push.NewBridge(provider, log)
//
//	remove := bridge.AddTokenListener(func(token string) {
//		// send token to the server
//	})
//	defer remove()
//
//	if err := bridge.Register(ctx); err != nil {
//		return err
//	}
//
// Environments without an OS push service can fall back to
// NewStreamProvider, which reads the server's notification feed over
// server-sent events and reconnects when the stream drops.
//
// Server processes and browsers without a notification API use
// push.Unsupported(), under which permissions report all false and
// Register is a no-op. Register is not idempotent; call it once per
// process.
package push
