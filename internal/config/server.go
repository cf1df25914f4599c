package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvServerPort            = "PORT"
	EnvServerShutdownTimeout = "SERVER_SHUTDOWN_TIMEOUT"
	EnvServerGinMode         = "GIN_MODE"
)

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Port            string `toml:"port"`
	ShutdownTimeout string `toml:"shutdown_timeout"`
	GinMode         string `toml:"gin_mode"`
}

// Addr returns the listen address for the configured port.
func (c *ServerConfig) Addr() string {
	return ":" + c.Port
}

// ShutdownTimeoutDuration parses the shutdown timeout as a time.Duration.
func (c *ServerConfig) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Finalize applies defaults, loads environment overrides, and validates the server configuration.
func (c *ServerConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies values from overlay configuration that differ from zero values.
func (c *ServerConfig) Merge(overlay *ServerConfig) {
	if overlay.Port != "" {
		c.Port = overlay.Port
	}
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.GinMode != "" {
		c.GinMode = overlay.GinMode
	}
}

func (c *ServerConfig) loadDefaults() {
	if c.Port == "" {
		c.Port = "8080"
	}
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "15s"
	}
	if c.GinMode == "" {
		c.GinMode = "release"
	}
}

func (c *ServerConfig) loadEnv() {
	if v := os.Getenv(EnvServerPort); v != "" {
		c.Port = v
	}
	if v := os.Getenv(EnvServerShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvServerGinMode); v != "" {
		c.GinMode = v
	}
}

func (c *ServerConfig) validate() error {
	if _, err := strconv.ParseUint(c.Port, 10, 16); err != nil {
		return fmt.Errorf("invalid port %q", c.Port)
	}
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	switch c.GinMode {
	case "debug", "release", "test":
		return nil
	default:
		return fmt.Errorf("invalid gin_mode %q", c.GinMode)
	}
}
