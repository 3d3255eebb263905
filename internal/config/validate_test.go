package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	cfg := &Config{
		Libraries: LibrariesConfig{Series: SeriesLibraryConfig{Root: "/tmp"}},
		TVDB:      TVDBConfig{APIKey: "test-key"},
	}
	cfg.applyDefaults()
	return cfg
}

func TestValidate_MinimalValid(t *testing.T) {
	assert.Empty(t, validConfig().Validate())
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Server.LogLevel = "verbose"

	errs := cfg.Validate()
	assert.True(t, containsError(errs, "server.log_level"), "expected log_level error, got %v", errs)
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.TVDB.APIKey = ""

	errs := cfg.Validate()
	assert.True(t, containsError(errs, "tvdb.api_key"), "expected api_key error, got %v", errs)
}

func TestValidate_NegativeQualityProfile(t *testing.T) {
	cfg := validConfig()
	cfg.Libraries.Series.QualityProfile = -1

	errs := cfg.Validate()
	assert.True(t, containsError(errs, "quality_profile"), "expected quality_profile error, got %v", errs)
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := &Config{Server: ServerConfig{LogLevel: "loud"}}

	errs := cfg.Validate()
	assert.Len(t, errs, 3)
}

func TestWarnings(t *testing.T) {
	cfg := validConfig()
	cfg.Libraries.Series.Root = "/nonexistent/tvkeep/tv"
	cfg.TVDB.BaseURL = "api.example.com"

	warns := cfg.Warnings()
	assert.Len(t, warns, 2)
	assert.True(t, containsError(warns, "does not exist"), "got %v", warns)
	assert.True(t, containsError(warns, "tvdb.base_url"), "got %v", warns)
}

func TestWarnings_None(t *testing.T) {
	cfg := validConfig()
	cfg.Libraries.Series.Root = t.TempDir()
	cfg.TVDB.BaseURL = "https://api4.thetvdb.com/v4"
	assert.Empty(t, cfg.Warnings())

	cfg.Libraries.Series.Root = ""
	assert.Empty(t, cfg.Warnings())
}

func containsError(errs []string, substr string) bool {
	for _, e := range errs {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
