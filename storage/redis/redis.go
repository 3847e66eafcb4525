// Package redis provides a Redis storage backend built on go-redis.
// All bridge keys live in a single Redis hash, so Keys returns exactly
// the bridge's keys without SCAN and a Clear never touches neighboring
// applications' data.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderRedis, func(_ storage.Config, providerCfg any, log *logger.Logger) (storage.Adapter, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("redis: expected *redis.Config, got %T", providerCfg)
			}
			c = pc
		}
		c.ApplyDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return NewAdapter(context.Background(), c, log)
	})
}

// Adapter implements storage.Adapter over a Redis hash.
type Adapter struct {
	rdb     *goredis.Client
	hashKey string
	log     *logger.Logger
	mu      sync.Mutex
	closed  bool
}

// NewAdapter connects to Redis and verifies the connection with a
// ping so a bad address fails at startup, not on first use.
func NewAdapter(ctx context.Context, cfg *Config, log *logger.Logger) (*Adapter, error) {
	dialTimeout, _ := time.ParseDuration(cfg.DialTimeout)
	readTimeout, _ := time.ParseDuration(cfg.ReadTimeout)
	writeTimeout, _ := time.ParseDuration(cfg.WriteTimeout)

	opts := &goredis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  dialTimeout,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	if cfg.MinRetryBackoff != "" {
		if d, err := time.ParseDuration(cfg.MinRetryBackoff); err == nil {
			opts.MinRetryBackoff = d
		}
	}
	if cfg.MaxRetryBackoff != "" {
		if d, err := time.ParseDuration(cfg.MaxRetryBackoff); err == nil {
			opts.MaxRetryBackoff = d
		}
	}

	if cfg.TLS != nil {
		tlsCfg, err := cfg.TLS.Build()
		if err != nil {
			return nil, fmt.Errorf("redis: build tls config: %w", err)
		}
		opts.TLSConfig = tlsCfg
	}

	rdb := goredis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}

	log.Info("Redis storage connected", map[string]interface{}{
		"addr":     cfg.Addr,
		"db":       cfg.DB,
		"hash_key": cfg.HashKey,
	})

	return &Adapter{rdb: rdb, hashKey: cfg.HashKey, log: log}, nil
}

// SetItem sets the hash field for key.
func (a *Adapter) SetItem(ctx context.Context, key, value string) error {
	if err := a.rdb.HSet(ctx, a.hashKey, key, value).Err(); err != nil {
		return fmt.Errorf("storage: hset: %w", err)
	}
	return nil
}

// GetItem returns the hash field for key, or ("", false, nil) when
// absent.
func (a *Adapter) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, err := a.rdb.HGet(ctx, a.hashKey, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: hget: %w", err)
	}
	return value, true, nil
}

// RemoveItem deletes the hash field for key. Removing a missing key is
// a no-op.
func (a *Adapter) RemoveItem(ctx context.Context, key string) error {
	if err := a.rdb.HDel(ctx, a.hashKey, key).Err(); err != nil {
		return fmt.Errorf("storage: hdel: %w", err)
	}
	return nil
}

// Keys returns every field name in the hash.
func (a *Adapter) Keys(ctx context.Context) ([]string, error) {
	keys, err := a.rdb.HKeys(ctx, a.hashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: hkeys: %w", err)
	}
	return keys, nil
}

// Clear deletes the entire hash.
func (a *Adapter) Clear(ctx context.Context) error {
	if err := a.rdb.Del(ctx, a.hashKey).Err(); err != nil {
		return fmt.Errorf("storage: del hash: %w", err)
	}
	return nil
}

// Close closes the Redis connection. Safe to call multiple times.
func (a *Adapter) Close() error {
	if a == nil {
		return nil
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}
	a.log.Info("Closing Redis storage connection")
	a.closed = true
	return a.rdb.Close()
}
