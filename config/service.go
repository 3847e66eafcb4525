package config

import (
	"fmt"

	"github.com/faithfulcoronel/stewardtrack-sub004/logger"
	"github.com/faithfulcoronel/stewardtrack-sub004/util"
)

// environments the bridge recognizes; anything else fails validation.
var environments = []string{"development", "staging", "production"}

// ServiceConfig carries the identity and logging settings every
// embedding host needs. Hosts embed it in their own config structs:
//
//	type HostConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Storage storage.Config `yaml:"storage" mapstructure:"storage"`
//	}
type ServiceConfig struct {
	Name        string        `yaml:"name" mapstructure:"name"`
	Environment string        `yaml:"environment" mapstructure:"environment"`
	Version     string        `yaml:"version" mapstructure:"version"`
	Debug       bool          `yaml:"debug" mapstructure:"debug"`
	Logging     logger.Config `yaml:"logging" mapstructure:"logging"`
}

// ApplyDefaults fills unset fields. The environment defaults to
// development, and development always runs with Debug on. Debug lowers
// the log level unless one was configured explicitly. Embedding
// structs override this and call it first.
func (c *ServiceConfig) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
}

// Validate checks the base fields. Embedding structs override this
// and call it first.
func (c *ServiceConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("config.name is required")
	}
	if !util.Contains(environments, c.Environment) {
		return fmt.Errorf("config.environment must be one of %v (got %q)", environments, c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}
