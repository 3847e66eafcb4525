package sqlite

import "fmt"

// Default configuration values.
const (
	DefaultPath  = "/tmp/stewardtrack-bridge/bridge.db"
	DefaultTable = "bridge_kv"
)

// Config holds SQLite storage configuration.
type Config struct {
	// Path is the database file location. The parent directory is
	// created if missing.
	Path string `yaml:"path" mapstructure:"path"`

	// Table is the key-value table name.
	Table string `yaml:"table" mapstructure:"table"`
}

// ApplyDefaults fills in zero-valued fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Path == "" {
		c.Path = DefaultPath
	}
	if c.Table == "" {
		c.Table = DefaultTable
	}
}

// Validate checks that the SQLite configuration is valid. The table
// name is interpolated into SQL and must stay a plain identifier.
func (c *Config) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("sqlite: path is required")
	}
	if c.Table == "" {
		return fmt.Errorf("sqlite: table is required")
	}
	for _, r := range c.Table {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		default:
			return fmt.Errorf("sqlite: invalid table name %q", c.Table)
		}
	}
	return nil
}
