package httpclient

import (
	"fmt"
	"net/url"
	"time"

	"github.com/faithfulcoronel/stewardtrack-sub004/resilience"
	"github.com/faithfulcoronel/stewardtrack-sub004/security"
)

const defaultTimeout = 30 * time.Second

// TLSConfig is an alias for the shared security TLS configuration.
// See security.TLSConfig for the field documentation.
type TLSConfig = security.TLSConfig

// Config describes one upstream API. The yaml-tagged fields load from
// configuration files; Auth and the resilience configs carry function
// values or are owned by code, so they are wired programmatically.
type Config struct {
	// Name identifies this client in logs and component summaries.
	// Defaults to "http".
	Name string `yaml:"name" mapstructure:"name"`

	// BaseURL is prepended to relative request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds each buffered request. Defaults to 30s. Streaming
	// requests ignore it and run on their context.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth is the default authentication, overridable per request.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// TLS configures the transport. Nil uses the system defaults.
	TLS *TLSConfig `yaml:"tls" mapstructure:"tls"`

	// Headers apply to every request; request headers win on conflict.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry re-runs retryable failures. Nil disables retry.
	Retry *resilience.RetryConfig `yaml:"-" mapstructure:"-"`

	// CircuitBreaker sheds load after repeated failures. Nil disables it.
	CircuitBreaker *resilience.CircuitBreakerConfig `yaml:"-" mapstructure:"-"`

	// RateLimiter throttles outbound requests. Nil disables it.
	RateLimiter *resilience.RateLimiterConfig `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks that the configuration is valid. BaseURL may be
// empty, in which case every request must use an absolute path.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return fmt.Errorf("httpclient: base_url %q is not an absolute URL", c.BaseURL)
		}
	}
	if c.TLS != nil {
		if err := c.TLS.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// DefaultRetryConfig returns the retry policy suited to this client:
// the shared defaults with RetryIf wired to IsRetryable, so auth and
// validation failures fail fast while transport and 5xx failures
// retry.
func DefaultRetryConfig() *resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.RetryIf = IsRetryable
	return &cfg
}

// DefaultCircuitBreakerConfig returns the shared circuit breaker
// defaults under the given name.
func DefaultCircuitBreakerConfig(name string) *resilience.CircuitBreakerConfig {
	cfg := resilience.DefaultCircuitBreakerConfig(name)
	return &cfg
}

// DefaultRateLimiterConfig returns the shared rate limiter defaults
// under the given name.
func DefaultRateLimiterConfig(name string) *resilience.RateLimiterConfig {
	cfg := resilience.DefaultRateLimiterConfig(name)
	return &cfg
}
