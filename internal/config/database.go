package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvDatabaseURI            = "MONGO_URI"
	EnvDatabaseName           = "DB_NAME"
	EnvDatabaseConnectTimeout = "DB_CONNECT_TIMEOUT"
	EnvDatabaseOpTimeout      = "DB_OP_TIMEOUT"
)

// DatabaseConfig contains MongoDB connection settings.
type DatabaseConfig struct {
	URI            string `toml:"uri"`
	Name           string `toml:"name"`
	ConnectTimeout string `toml:"connect_timeout"`
	OpTimeout      string `toml:"op_timeout"`
}

// ConnectTimeoutDuration parses the connect timeout as a time.Duration.
func (c *DatabaseConfig) ConnectTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ConnectTimeout)
	return d
}

// OpTimeoutDuration parses the per-request operation timeout as a time.Duration.
func (c *DatabaseConfig) OpTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.OpTimeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the database configuration.
func (c *DatabaseConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *DatabaseConfig) Merge(overlay *DatabaseConfig) {
	if overlay.URI != "" {
		c.URI = overlay.URI
	}
	if overlay.Name != "" {
		c.Name = overlay.Name
	}
	if overlay.ConnectTimeout != "" {
		c.ConnectTimeout = overlay.ConnectTimeout
	}
	if overlay.OpTimeout != "" {
		c.OpTimeout = overlay.OpTimeout
	}
}

func (c *DatabaseConfig) loadDefaults() {
	if c.ConnectTimeout == "" {
		c.ConnectTimeout = "10s"
	}
	if c.OpTimeout == "" {
		c.OpTimeout = "5s"
	}
}

func (c *DatabaseConfig) loadEnv() {
	if v := os.Getenv(EnvDatabaseURI); v != "" {
		c.URI = v
	}
	if v := os.Getenv(EnvDatabaseName); v != "" {
		c.Name = v
	}
	if v := os.Getenv(EnvDatabaseConnectTimeout); v != "" {
		c.ConnectTimeout = v
	}
	if v := os.Getenv(EnvDatabaseOpTimeout); v != "" {
		c.OpTimeout = v
	}
}

func (c *DatabaseConfig) validate() error {
	if c.URI == "" {
		return fmt.Errorf("uri required (set %s)", EnvDatabaseURI)
	}
	if c.Name == "" {
		return fmt.Errorf("name required (set %s)", EnvDatabaseName)
	}
	if _, err := time.ParseDuration(c.ConnectTimeout); err != nil {
		return fmt.Errorf("invalid connect_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.OpTimeout); err != nil {
		return fmt.Errorf("invalid op_timeout: %w", err)
	}
	return nil
}
