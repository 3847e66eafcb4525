package storage

import (
	"fmt"

	"github.com/faithfulcoronel/stewardtrack-sub004/encryption"
)

// Provider constants for supported storage backends.
const (
	ProviderMemory = "memory"
	ProviderFile   = "file"
	ProviderSQLite = "sqlite"
	ProviderRedis  = "redis"
)

// Default configuration values.
const (
	DefaultProvider  = ProviderMemory
	DefaultNamespace = "st_"
)

// Config holds storage configuration shared by all backends.
// Backend-specific settings travel separately as provider configs
// (e.g. *sqlite.Config, *redis.Config).
type Config struct {
	// Provider selects the storage backend: "memory", "file",
	// "sqlite", or "redis".
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Namespace prefixes every key written through the Store wrapper.
	Namespace string `yaml:"namespace" mapstructure:"namespace"`

	// EncryptionKey, when set, wraps the backend so values are
	// encrypted at rest. Key material is derived via SHA-256.
	EncryptionKey string `yaml:"encryption_key" mapstructure:"encryption_key"`

	// PreviousEncryptionKeys lists passphrases retired by rotation.
	// Records sealed under them still decrypt; new writes always use
	// EncryptionKey. Ignored when EncryptionKey is empty.
	PreviousEncryptionKeys []string `yaml:"previous_encryption_keys" mapstructure:"previous_encryption_keys"`

	// EncryptionAlgorithm selects the cipher when EncryptionKey is
	// set: "aes-256-gcm" (default) or "chacha20-poly1305".
	EncryptionAlgorithm string `yaml:"encryption_algorithm" mapstructure:"encryption_algorithm"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.Namespace == "" {
		c.Namespace = DefaultNamespace
	}
	if c.EncryptionAlgorithm == "" {
		c.EncryptionAlgorithm = string(encryption.AlgorithmAESGCM)
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderMemory, ProviderFile, ProviderSQLite, ProviderRedis:
	default:
		return fmt.Errorf("storage: unsupported provider %q", c.Provider)
	}

	switch encryption.Algorithm(c.EncryptionAlgorithm) {
	case encryption.AlgorithmAESGCM, encryption.AlgorithmChaCha20:
	default:
		return fmt.Errorf("storage: unsupported encryption algorithm %q", c.EncryptionAlgorithm)
	}

	return nil
}
