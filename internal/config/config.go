// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// Defaults applied by Load.
const (
	DefaultLogLevel       = "info"
	DefaultDatabasePath   = "./data/tvkeep.db"
	DefaultQualityProfile = 1
)

// Config is the root configuration structure.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Libraries LibrariesConfig `toml:"libraries"`
	TVDB      TVDBConfig      `toml:"tvdb"`
}

type ServerConfig struct {
	LogLevel string `toml:"log_level"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

type LibrariesConfig struct {
	Series SeriesLibraryConfig `toml:"series"`
}

// SeriesLibraryConfig describes where series live and how new ones are added.
type SeriesLibraryConfig struct {
	Root           string `toml:"root"`
	SeasonFolder   *bool  `toml:"season_folder"` // nil means true
	QualityProfile int64  `toml:"quality_profile"`
}

type TVDBConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"` // Optional; defaults to the public v4 API
}

// UseSeasonFolder reports whether new series are organized into season folders.
func (c *Config) UseSeasonFolder() bool {
	if c == nil || c.Libraries.Series.SeasonFolder == nil {
		return true
	}
	return *c.Libraries.Series.SeasonFolder
}

// Load reads, substitutes, parses and validates the configuration file.
// Unresolved variables and validation failures are returned together as a
// *ConfigError.
func Load(path string) (*Config, error) {
	cfg, problems, err := Check(path)
	if err != nil {
		return nil, err
	}
	if problems.HasErrors() {
		return nil, problems
	}
	return cfg, nil
}

// Check parses the configuration file and applies defaults, returning the
// config together with every unresolved variable and validation failure.
// err is set only when the file cannot be read or parsed; problems is never nil.
func Check(path string) (*Config, *ConfigError, error) {
	cfg, missing, err := load(path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}, nil
}

func load(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, missing, nil
}

func (c *Config) applyDefaults() {
	if c.Server.LogLevel == "" {
		c.Server.LogLevel = DefaultLogLevel
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath
	}
	if c.Libraries.Series.SeasonFolder == nil {
		enabled := true
		c.Libraries.Series.SeasonFolder = &enabled
	}
	if c.Libraries.Series.QualityProfile == 0 {
		c.Libraries.Series.QualityProfile = DefaultQualityProfile
	}
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces ${VAR} references with environment values.
// Unresolvable references are left in place and reported in missing;
// a ${VAR:?message} reference is reported as "VAR: message".
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	out := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		parts := envVarPattern.FindStringSubmatch(match)
		name, op, arg := parts[1], parts[2], parts[3]

		value, ok := os.LookupEnv(name)
		switch op {
		case ":-":
			if !ok || value == "" {
				return arg
			}
			return value
		case ":?":
			if !ok || value == "" {
				missing = append(missing, name+": "+arg)
				return match
			}
			return value
		}
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})
	return out, missing
}
