package storage

import (
	"fmt"

	"github.com/faithfulcoronel/stewardtrack-sub004/encryption"
	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
)

// Factory creates an Adapter from core config and provider-specific
// configuration. Each provider type-asserts providerCfg to its own
// config type.
type Factory func(cfg Config, providerCfg any, log *logger.Logger) (Adapter, error)

var factories = make(map[string]Factory)

// RegisterFactory registers a storage backend factory for the given
// provider name. Implementation packages call this (typically in an
// init function) to make themselves available to the New constructor.
func RegisterFactory(name string, f Factory) {
	factories[name] = f
}

// New creates an Adapter based on the given Config. The provider field
// determines which backend is used, and providerCfg carries its
// settings (e.g. *sqlite.Config, *redis.Config). Ensure the desired
// provider package has been imported (e.g.
// _ "github.com/faithfulcoronel/stewardtrack-sub004/storage/memory")
// so its factory is registered.
//
// When cfg.EncryptionKey is set, the returned adapter transparently
// encrypts values at rest.
func New(cfg Config, providerCfg any, log *logger.Logger) (Adapter, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	f, ok := factories[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("storage: unsupported provider %q (not registered)", cfg.Provider)
	}

	log.Info("Initializing storage", map[string]interface{}{
		"provider":  cfg.Provider,
		"namespace": cfg.Namespace,
		"encrypted": cfg.EncryptionKey != "",
	})

	adapter, err := f(cfg, providerCfg, log)
	if err != nil {
		return nil, err
	}

	if cfg.EncryptionKey != "" {
		enc, err := encryption.New(cfg.EncryptionKey,
			encryption.WithAlgorithm(encryption.Algorithm(cfg.EncryptionAlgorithm)),
			encryption.WithPreviousKeys(cfg.PreviousEncryptionKeys...))
		if err != nil {
			_ = adapter.Close()
			return nil, fmt.Errorf("storage: init encryption: %w", err)
		}
		adapter = WithEncryption(adapter, enc)
	}

	return adapter, nil
}
