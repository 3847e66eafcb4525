package file

import "fmt"

// DefaultBasePath is the default root directory for file storage.
const DefaultBasePath = "/tmp/stewardtrack-bridge"

// Config holds file storage configuration.
type Config struct {
	// BasePath is the directory where key files are written.
	BasePath string `yaml:"base_path" mapstructure:"base_path"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.BasePath == "" {
		c.BasePath = DefaultBasePath
	}
}

// Validate checks that the file configuration is valid.
func (c *Config) Validate() error {
	if c.BasePath == "" {
		return fmt.Errorf("file: base_path is required")
	}
	return nil
}
