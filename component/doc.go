// Package component defines the core interfaces for lifecycle-managed
// parts of the bridge.
//
// Components represent services that require startup, shutdown, and
// health monitoring: storage backends, connectivity monitors, push
// providers. They are registered with a Registry which starts them in
// registration order and stops them in reverse.
//
// # Interfaces
//
//   - Component: Core lifecycle interface (Start/Stop/Health)
//   - Describable: Optional startup summary descriptions
package component
