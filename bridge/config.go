package bridge

import (
	"fmt"
	"time"

	"github.com/faithfulcoronel/stewardtrack-sub004/config"
	"github.com/faithfulcoronel/stewardtrack-sub004/offline"
	"github.com/faithfulcoronel/stewardtrack-sub004/platform"
	"github.com/faithfulcoronel/stewardtrack-sub004/push"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage/file"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage/redis"
	"github.com/faithfulcoronel/stewardtrack-sub004/storage/sqlite"
	"github.com/faithfulcoronel/stewardtrack-sub004/synchttp"
	"github.com/faithfulcoronel/stewardtrack-sub004/util"
	"github.com/faithfulcoronel/stewardtrack-sub004/version"
)

// Connectivity modes.
const (
	// MonitorHost relies on the host calling SetOnline. Default.
	MonitorHost = "host"
	// MonitorStatic pushes a fixed state once at start.
	MonitorStatic = "static"
	// MonitorProbe polls a URL with HEAD requests.
	MonitorProbe = "probe"
)

// Config is the root configuration for assembling a Bridge. It is
// shaped for config.LoadConfig: each section maps onto a YAML block
// with environment overrides in the loader's conventions.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Platform     PlatformConfig `yaml:"platform" mapstructure:"platform"`
	Storage      StorageConfig  `yaml:"storage" mapstructure:"storage"`
	Offline      offline.Config `yaml:"offline" mapstructure:"offline"`
	Connectivity MonitorConfig  `yaml:"connectivity" mapstructure:"connectivity"`
	Push         push.Config    `yaml:"push" mapstructure:"push"`
	Sync         SyncConfig     `yaml:"sync" mapstructure:"sync"`
}

// PlatformConfig overrides platform detection.
type PlatformConfig struct {
	// Override pins the platform instead of detecting it: "web",
	// "ios", or "android". Empty runs detection.
	Override string `yaml:"override" mapstructure:"override"`
}

// Validate checks the platform override.
func (c *PlatformConfig) Validate() error {
	if c.Override == "" {
		return nil
	}
	if _, ok := platform.Parse(c.Override); !ok {
		return fmt.Errorf("bridge: unknown platform override %q", c.Override)
	}
	return nil
}

// StorageConfig extends the core storage configuration with one block
// per backend. Only the block matching Provider is consulted.
type StorageConfig struct {
	storage.Config `yaml:",inline" mapstructure:",squash"`

	File   file.Config   `yaml:"file" mapstructure:"file"`
	SQLite sqlite.Config `yaml:"sqlite" mapstructure:"sqlite"`
	Redis  redis.Config  `yaml:"redis" mapstructure:"redis"`
}

// providerConfig returns the backend block matching the provider.
func (c *StorageConfig) providerConfig() any {
	switch c.Provider {
	case storage.ProviderFile:
		return &c.File
	case storage.ProviderSQLite:
		return &c.SQLite
	case storage.ProviderRedis:
		return &c.Redis
	}
	return nil
}

// MonitorConfig selects how connectivity transitions reach the
// offline manager.
type MonitorConfig struct {
	// Mode is "host", "static", or "probe".
	Mode string `yaml:"mode" mapstructure:"mode"`

	// Online is the fixed state pushed in static mode.
	Online bool `yaml:"online" mapstructure:"online"`

	// URL is the probe target. Defaults to the sync base URL.
	URL string `yaml:"url" mapstructure:"url"`

	// Interval between probes. Defaults to 30s.
	Interval time.Duration `yaml:"interval" mapstructure:"interval"`

	// Timeout for a single probe. Defaults to 5s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *MonitorConfig) ApplyDefaults() {
	if c.Mode == "" {
		c.Mode = MonitorHost
	}
}

// Validate checks the connectivity configuration. probeFallback is the
// URL used when none is configured.
func (c *MonitorConfig) Validate(probeFallback string) error {
	switch c.Mode {
	case MonitorHost, MonitorStatic:
		return nil
	case MonitorProbe:
		if c.URL == "" && probeFallback == "" {
			return fmt.Errorf("bridge: connectivity.url is required in probe mode")
		}
		return nil
	}
	return fmt.Errorf("bridge: unknown connectivity mode %q", c.Mode)
}

// monitor builds the configured Monitor. Host mode returns nil; the
// host pushes connectivity itself.
func (c *MonitorConfig) monitor(probeFallback string) offline.Monitor {
	switch c.Mode {
	case MonitorStatic:
		return offline.StaticMonitor{Online: c.Online}
	case MonitorProbe:
		url := util.Coalesce(c.URL, probeFallback)
		return offline.ProbeMonitor{URL: url, Interval: c.Interval, Timeout: c.Timeout}
	}
	return nil
}

// SyncConfig wires the built-in REST sync handler.
type SyncConfig struct {
	// Enabled builds a synchttp handler from the settings below and
	// installs it on the offline manager. Off, the host supplies a
	// handler through WithSyncHandler or per sync call.
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	synchttp.Config `yaml:",inline" mapstructure:",squash"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = version.Product
	}
	c.ServiceConfig.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Offline.ApplyDefaults()
	c.Connectivity.ApplyDefaults()
	if c.Sync.Enabled {
		c.Sync.Config.ApplyDefaults()
	}
}

// Validate checks the whole configuration.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Platform.Validate(); err != nil {
		return err
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Offline.Validate(); err != nil {
		return err
	}
	if err := c.Connectivity.Validate(c.Sync.BaseURL); err != nil {
		return err
	}
	if c.Sync.Enabled {
		if err := c.Sync.Config.Validate(); err != nil {
			return err
		}
	}
	return nil
}
