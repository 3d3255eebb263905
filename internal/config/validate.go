package config

import (
	"fmt"
	"os"
	"strings"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.Server.LogLevel] {
		errs = append(errs, fmt.Sprintf("server.log_level: must be one of debug, info, warn, error; got %q", c.Server.LogLevel))
	}
	if c.Database.Path == "" {
		errs = append(errs, "database.path: required")
	}
	if c.Libraries.Series.QualityProfile < 0 {
		errs = append(errs, fmt.Sprintf("libraries.series.quality_profile: must be positive, got %d", c.Libraries.Series.QualityProfile))
	}
	if c.TVDB.APIKey == "" {
		errs = append(errs, "tvdb.api_key: required")
	}

	return errs
}

// Warnings returns non-fatal problems worth logging at startup.
func (c *Config) Warnings() []string {
	var warns []string

	if root := c.Libraries.Series.Root; root != "" {
		if _, err := os.Stat(root); os.IsNotExist(err) {
			warns = append(warns, fmt.Sprintf("libraries.series.root: directory %q does not exist", root))
		}
	}
	if u := c.TVDB.BaseURL; u != "" && !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		warns = append(warns, fmt.Sprintf("tvdb.base_url: %q is not an http(s) URL", u))
	}

	return warns
}
