package config

import (
	"os"

	"restohub/backend/internal/logging"
)

const (
	EnvLoggingLevel  = "LOG_LEVEL"
	EnvLoggingFormat = "LOG_FORMAT"
)

// LoggingConfig holds logging configuration settings.
type LoggingConfig struct {
	Level  logging.Level  `toml:"level"`
	Format logging.Format `toml:"format"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *LoggingConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	if err := c.Level.Validate(); err != nil {
		return err
	}
	return c.Format.Validate()
}

// Merge applies non-zero values from the overlay configuration.
func (c *LoggingConfig) Merge(overlay *LoggingConfig) {
	if overlay.Level != "" {
		c.Level = overlay.Level
	}
	if overlay.Format != "" {
		c.Format = overlay.Format
	}
}

func (c *LoggingConfig) loadDefaults() {
	if c.Level == "" {
		c.Level = logging.LevelInfo
	}
	if c.Format == "" {
		c.Format = logging.FormatText
	}
}

func (c *LoggingConfig) loadEnv() {
	if v := os.Getenv(EnvLoggingLevel); v != "" {
		c.Level = logging.Level(v)
	}
	if v := os.Getenv(EnvLoggingFormat); v != "" {
		c.Format = logging.Format(v)
	}
}
