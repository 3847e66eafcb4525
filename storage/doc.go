// Package storage provides a key-value persistence abstraction with
// pluggable backends for the bridge.
//
// It defines the Adapter interface for raw key-value operations and
// the Store wrapper that adds key namespacing, JSON helpers, and
// legacy migration. Backends register themselves through
// RegisterFactory and are selected by Config.Provider. Values can be
// transparently encrypted at rest by setting Config.EncryptionKey.
//
// # Backends
//
//   - storage/memory: In-process map, the default for tests and servers
//   - storage/file: One JSON file per key under a base directory
//   - storage/sqlite: Single-table SQLite database
//   - storage/redis: Redis hash, for multi-process deployments
//
// # Configuration
//
// Backend selection and settings are provided via Config:
//
//	storage:
//	  provider: "sqlite"
//	  namespace: "st_"
//	  encryption_key: "${BRIDGE_ENCRYPTION_KEY}"
package storage
