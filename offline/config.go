package offline

import "fmt"

// Conflict strategies. The engine plumbs the configured strategy
// through to sync handlers and never consults it itself; resolution
// lives in the handler.
const (
	ConflictServerWins = "server-wins"
	ConflictClientWins = "client-wins"
	ConflictManual     = "manual"
)

// Default configuration values.
const (
	DefaultCacheExpiration = int64(24 * 60 * 60 * 1000)
	DefaultMaxRetries      = 3
)

// DefaultCachedEntities lists the entities prefetched for offline use
// when the host does not configure its own set.
var DefaultCachedEntities = []string{"members", "events", "donations", "groups"}

// Config is the runtime offline configuration, persisted under the
// offline_config storage key in the same JSON shape the web client
// writes. It is overwritten by each Initialize call and read back by
// every operation that needs a default.
type Config struct {
	// CacheExpiration is the default cache TTL in milliseconds.
	CacheExpiration int64 `json:"cacheExpiration" yaml:"cache_expiration" mapstructure:"cache_expiration"`

	// MaxRetries is how many sync attempts a mutation gets before it
	// is dropped as a permanent failure.
	MaxRetries int `json:"maxRetries" yaml:"max_retries" mapstructure:"max_retries"`

	// CachedEntities names the entities eligible for prefetch.
	CachedEntities []string `json:"cachedEntities" yaml:"cached_entities" mapstructure:"cached_entities"`

	// ConflictStrategy is carried for sync handlers; the engine never
	// consults it.
	ConflictStrategy string `json:"conflictStrategy" yaml:"conflict_strategy" mapstructure:"conflict_strategy"`
}

// DefaultConfig returns the configuration used when none has been
// persisted.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.CacheExpiration <= 0 {
		c.CacheExpiration = DefaultCacheExpiration
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if len(c.CachedEntities) == 0 {
		c.CachedEntities = append([]string(nil), DefaultCachedEntities...)
	}
	if c.ConflictStrategy == "" {
		c.ConflictStrategy = ConflictServerWins
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.ConflictStrategy {
	case ConflictServerWins, ConflictClientWins, ConflictManual:
	default:
		return fmt.Errorf("offline: unsupported conflict strategy %q", c.ConflictStrategy)
	}
	return nil
}
