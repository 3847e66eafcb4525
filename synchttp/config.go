package synchttp

import (
	"fmt"
	"net/url"
	"time"

	"github.com/faithfulcoronel/stewardtrack-sub004/resilience"
	"github.com/faithfulcoronel/stewardtrack-sub004/security"
)

const defaultTimeout = 30 * time.Second

// Config configures the REST sync handler.
type Config struct {
	// BaseURL is the sync API root, e.g. https://api.example.com/v1.
	// Entity paths are appended to it.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds one mutation's network call. The sync engine
	// imposes no timeout of its own. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// BearerToken authenticates requests when set.
	BearerToken string `yaml:"bearer_token" mapstructure:"bearer_token"`

	// Headers are applied to every request.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// TLS configures transport security.
	TLS *security.TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Retry configures per-request retry inside one sync attempt.
	// This is independent of the queue's own retry budget, which
	// counts whole sync passes. Nil disables it.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// CircuitBreaker protects the sync API. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`

	// RateLimiter throttles outbound sync calls. Nil disables it.
	RateLimiter *resilience.RateLimiterConfig `yaml:"-" mapstructure:"-"`

	// Bulkhead caps concurrent mutation calls when one handler is
	// shared by several tenants' managers. Nil disables it.
	Bulkhead *resilience.BulkheadConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("synchttp: base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("synchttp: base_url %q is not an absolute URL", c.BaseURL)
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}
