// Package pagination provides page request parsing and result metadata
// shared by the list and search endpoints.
package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names for pagination configuration.
const (
	EnvPaginationListPageSize   = "PAGINATION_LIST_PAGE_SIZE"
	EnvPaginationSearchPageSize = "PAGINATION_SEARCH_PAGE_SIZE"
	EnvPaginationMaxPageSize    = "PAGINATION_MAX_PAGE_SIZE"
)

// Config holds the default page sizes for list and search requests and the
// hard cap applied to any requested limit.
type Config struct {
	ListPageSize   int `toml:"list_page_size"`
	SearchPageSize int `toml:"search_page_size"`
	MaxPageSize    int `toml:"max_page_size"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.ListPageSize != 0 {
		c.ListPageSize = overlay.ListPageSize
	}
	if overlay.SearchPageSize != 0 {
		c.SearchPageSize = overlay.SearchPageSize
	}
	if overlay.MaxPageSize != 0 {
		c.MaxPageSize = overlay.MaxPageSize
	}
}

func (c *Config) loadDefaults() {
	if c.ListPageSize <= 0 {
		c.ListPageSize = 50
	}
	if c.SearchPageSize <= 0 {
		c.SearchPageSize = 10
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 100
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvPaginationListPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ListPageSize = n
		}
	}
	if v := os.Getenv(EnvPaginationSearchPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.SearchPageSize = n
		}
	}
	if v := os.Getenv(EnvPaginationMaxPageSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxPageSize = n
		}
	}
}

func (c *Config) validate() error {
	if c.ListPageSize < 1 || c.SearchPageSize < 1 {
		return fmt.Errorf("page sizes must be positive")
	}
	if c.MaxPageSize < 1 {
		return fmt.Errorf("max_page_size must be positive")
	}
	if c.ListPageSize > c.MaxPageSize || c.SearchPageSize > c.MaxPageSize {
		return fmt.Errorf("default page sizes cannot exceed max_page_size")
	}
	return nil
}
