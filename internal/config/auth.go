package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvAuthEnabled = "AUTH_ENABLED"
	EnvAuthKeyData = "KEY_DATA"
)

// AuthConfig controls Firebase ID token verification.
type AuthConfig struct {
	Enabled bool   `toml:"enabled"`
	KeyData string `toml:"key_data"`
}

// Finalize loads environment overrides and validates the auth configuration.
func (c *AuthConfig) Finalize() error {
	c.loadEnv()
	return c.validate()
}

// Merge applies overlay values. The enabled flag always follows the overlay.
func (c *AuthConfig) Merge(overlay *AuthConfig) {
	c.Enabled = overlay.Enabled
	if overlay.KeyData != "" {
		c.KeyData = overlay.KeyData
	}
}

func (c *AuthConfig) loadEnv() {
	if v := os.Getenv(EnvAuthEnabled); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v := os.Getenv(EnvAuthKeyData); v != "" {
		c.KeyData = v
	}
}

func (c *AuthConfig) validate() error {
	if c.Enabled && c.KeyData == "" {
		return fmt.Errorf("auth enabled but %s not set", EnvAuthKeyData)
	}
	return nil
}
