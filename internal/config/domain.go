package config

import (
	"fmt"
	"os"
	"strconv"
)

const (
	EnvRestaurantsListSortByScore    = "RESTAURANTS_LIST_SORT_BY_SCORE"
	EnvRestaurantsSearchScorePrimary = "RESTAURANTS_SEARCH_SCORE_PRIMARY"
	EnvUsersRoles                    = "USER_ROLES"
)

// RestaurantsConfig selects the ordering policy of list and search results.
// Both flags default to true when unset.
type RestaurantsConfig struct {
	ListSortByScore    *bool `toml:"list_sort_by_score"`
	SearchScorePrimary *bool `toml:"search_score_primary"`
}

// SortListByScore reports whether the list endpoint orders by searchScore descending.
func (c *RestaurantsConfig) SortListByScore() bool {
	return c.ListSortByScore == nil || *c.ListSortByScore
}

// ScorePrimaryInSearch reports whether search results use searchScore as the primary sort key.
func (c *RestaurantsConfig) ScorePrimaryInSearch() bool {
	return c.SearchScorePrimary == nil || *c.SearchScorePrimary
}

// Finalize loads environment overrides.
func (c *RestaurantsConfig) Finalize() error {
	if v := os.Getenv(EnvRestaurantsListSortByScore); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRestaurantsListSortByScore, err)
		}
		c.ListSortByScore = &b
	}
	if v := os.Getenv(EnvRestaurantsSearchScorePrimary); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRestaurantsSearchScorePrimary, err)
		}
		c.SearchScorePrimary = &b
	}
	return nil
}

// Merge applies flags explicitly set in the overlay.
func (c *RestaurantsConfig) Merge(overlay *RestaurantsConfig) {
	if overlay.ListSortByScore != nil {
		c.ListSortByScore = overlay.ListSortByScore
	}
	if overlay.SearchScorePrimary != nil {
		c.SearchScorePrimary = overlay.SearchScorePrimary
	}
}

// UsersConfig holds the recognized user role enumeration.
type UsersConfig struct {
	Roles []string `toml:"roles"`
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *UsersConfig) Finalize() error {
	if len(c.Roles) == 0 {
		c.Roles = []string{"user", "restaurantOwner"}
	}
	if v := os.Getenv(EnvUsersRoles); v != "" {
		c.Roles = splitList(v)
	}
	if len(c.Roles) == 0 {
		return fmt.Errorf("at least one role required")
	}
	return nil
}

// Merge replaces the role list when the overlay defines one.
func (c *UsersConfig) Merge(overlay *UsersConfig) {
	if overlay.Roles != nil {
		c.Roles = overlay.Roles
	}
}
