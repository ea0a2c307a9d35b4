// Package config loads CLI and service configuration from environment
// variables (prefix BLOG_) and initialises the process-wide logger.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds everything needed to construct a store client.
// Environment variables are parsed from the BLOG_ prefix, e.g. BLOG_OWNER.
type Config struct {
	// Repository coordinates
	Owner  string `envconfig:"OWNER"`
	Repo   string `envconfig:"REPO"`
	Branch string `envconfig:"BRANCH" default:"main"`

	// Token is the API credential. Empty restricts the client to public
	// read paths.
	Token string `envconfig:"TOKEN"`

	// APIURL overrides the API base, e.g. for an enterprise host.
	APIURL string `envconfig:"API_URL" default:""`

	// Collection layout
	ThoughtsRoot string `envconfig:"THOUGHTS_ROOT" default:"src/data/thoughts"`
	CheckinRoot  string `envconfig:"CHECKIN_ROOT" default:"src/app/checkin"`

	// Read and flush tuning
	ProbeMonths int           `envconfig:"PROBE_MONTHS" default:"12"`
	FlushDelay  time.Duration `envconfig:"FLUSH_DELAY" default:"1s"`

	// CachePath points at the local SQLite fallback cache. Empty disables
	// the cache and with it the one-time migration.
	CachePath string `envconfig:"CACHE_PATH" default:""`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load populates Config from environment variables (prefix BLOG_).
func Load() (*Config, error) {
	var c Config
	if err := envconfig.Process("BLOG", &c); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &c, nil
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("BLOG_OWNER is required")
	}
	if c.Repo == "" {
		return fmt.Errorf("BLOG_REPO is required")
	}
	if c.ProbeMonths <= 0 {
		return fmt.Errorf("BLOG_PROBE_MONTHS must be > 0")
	}
	if c.FlushDelay <= 0 {
		return fmt.Errorf("BLOG_FLUSH_DELAY must be > 0")
	}
	return nil
}
