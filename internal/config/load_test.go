package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
[server]
log_level = "debug"

[database]
path = "/var/lib/tvkeep/tvkeep.db"

[libraries.series]
root = "/srv/tv"
season_folder = false
quality_profile = 3

[tvdb]
api_key = "abc"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, "/var/lib/tvkeep/tvkeep.db", cfg.Database.Path)
	assert.Equal(t, "/srv/tv", cfg.Libraries.Series.Root)
	assert.False(t, cfg.UseSeasonFolder())
	assert.Equal(t, int64(3), cfg.Libraries.Series.QualityProfile)
	assert.Equal(t, "abc", cfg.TVDB.APIKey)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[tvdb]
api_key = "abc"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, cfg.Server.LogLevel)
	assert.Equal(t, DefaultDatabasePath, cfg.Database.Path)
	assert.True(t, cfg.UseSeasonFolder())
	assert.Equal(t, int64(DefaultQualityProfile), cfg.Libraries.Series.QualityProfile)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	path := writeConfig(t, `
[tvdb]
api_key = "${TVKEEP_TEST_MISSING_KEY_98765}"
`)

	_, err := Load(path)
	require.Error(t, err)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"TVKEEP_TEST_MISSING_KEY_98765"}, cfgErr.Missing)
	assert.Equal(t, path, cfgErr.Path)
}

func TestLoad_ValidationError(t *testing.T) {
	path := writeConfig(t, `
[server]
log_level = "chatty"
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.log_level")
	assert.Contains(t, err.Error(), "tvdb.api_key")
}

func TestLoad_ParseError(t *testing.T) {
	path := writeConfig(t, `[server`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoad_FileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCheck_ReportsWithoutFailing(t *testing.T) {
	t.Setenv("TVKEEP_TEST_KEY", "")
	path := writeConfig(t, `
[server]
log_level = "chatty"

[tvdb]
api_key = "${TVKEEP_TEST_KEY:?set TVKEEP_TEST_KEY}"
`)

	cfg, problems, err := Check(path)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "chatty", cfg.Server.LogLevel)
	assert.True(t, problems.HasErrors())
	assert.Equal(t, []string{"TVKEEP_TEST_KEY: set TVKEEP_TEST_KEY"}, problems.Missing)
	assert.Contains(t, problems.Errors[0], "server.log_level")
}

func TestCheck_Clean(t *testing.T) {
	path := writeConfig(t, `
[tvdb]
api_key = "abc"
`)

	_, problems, err := Check(path)
	require.NoError(t, err)
	assert.False(t, problems.HasErrors())
	assert.Empty(t, problems.Problems())
}

func TestCheck_ParseError(t *testing.T) {
	_, problems, err := Check(writeConfig(t, `[server`))
	require.Error(t, err)
	assert.Nil(t, problems)
}

func TestLoad_EnvVarDefault(t *testing.T) {
	t.Setenv("TVKEEP_TEST_ROOT", "")
	path := writeConfig(t, `
[libraries.series]
root = "${TVKEEP_TEST_ROOT:-/media/tv}"

[tvdb]
api_key = "abc"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/media/tv", cfg.Libraries.Series.Root)
}
