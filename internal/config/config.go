// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Defaults applied to fields left empty in the file.
const (
	DefaultLogLevel    = "info"
	DefaultTMDBBaseURL = "https://api.themoviedb.org"
	DefaultTVDBBaseURL = "https://api4.thetvdb.com/v4"
	DefaultLanguage    = "en-US"
	DefaultCacheTTL    = 24 * time.Hour
	DefaultAction      = "link"
	DefaultRerunPolicy = "inode"

	// TokenEnv supplies the TMDB token when the file does not.
	TokenEnv = "TMDB_API_TOKEN"
	// TVDBKeyEnv supplies the TVDB API key when the file does not.
	TVDBKeyEnv = "TVDB_API_KEY"
)

// Config is the root configuration structure.
type Config struct {
	LogLevel string         `toml:"log_level"`
	TMDB     TMDBConfig     `toml:"tmdb"`
	TVDB     TVDBConfig     `toml:"tvdb"`
	Library  LibraryConfig  `toml:"library"`
	Database DatabaseConfig `toml:"database"`
}

type TMDBConfig struct {
	APIToken string        `toml:"api_token"`
	BaseURL  string        `toml:"base_url"`
	Language string        `toml:"language"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// TVDBConfig enables the TVDB series provider (--tvdb-id).
type TVDBConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

type LibraryConfig struct {
	Root           string `toml:"root"`
	Action         string `toml:"action"`
	RerunPolicy    string `toml:"rerun_policy"`
	MovieTemplate  string `toml:"movie_template"`
	SeriesTemplate string `toml:"series_template"`
}

type DatabaseConfig struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads, substitutes, parses and validates the configuration file.
func Load(path string) (*Config, error) {
	cfg, err := LoadWithoutValidation(path)
	if err != nil {
		return nil, err
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, &ConfigError{Path: path, Errors: errs}
	}
	return cfg, nil
}

// LoadWithoutValidation reads and parses the configuration file and applies
// defaults. Unresolved environment variables are still an error.
func LoadWithoutValidation(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))
	if len(missing) > 0 {
		return nil, &ConfigError{Path: path, Missing: missing}
	}

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.TMDB.APIToken == "" {
		c.TMDB.APIToken = os.Getenv(TokenEnv)
	}
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = DefaultTMDBBaseURL
	}
	if c.TMDB.Language == "" {
		c.TMDB.Language = DefaultLanguage
	}
	if c.TMDB.CacheTTL == 0 {
		c.TMDB.CacheTTL = DefaultCacheTTL
	}
	if c.TVDB.APIKey == "" {
		c.TVDB.APIKey = os.Getenv(TVDBKeyEnv)
	}
	if c.TVDB.BaseURL == "" {
		c.TVDB.BaseURL = DefaultTVDBBaseURL
	}
	if c.Library.Action == "" {
		c.Library.Action = DefaultAction
	}
	if c.Library.RerunPolicy == "" {
		c.Library.RerunPolicy = DefaultRerunPolicy
	}
	if c.Database.Path == "" {
		c.Database.Path = DefaultDatabasePath()
	}
}

// DefaultDatabasePath returns the XDG data location of the SQLite database.
func DefaultDatabasePath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./mediar.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "mediar", "mediar.db")
}

// envVarPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?:(:-|:\?)([^}]*))?\}`)

// substituteEnvVars replaces environment references. Unresolved references
// are left in place and reported in missing; ${VAR:?msg} reports "VAR: msg".
// An empty value counts as unset for the :- and :? forms. Comment lines are
// copied through untouched.
func substituteEnvVars(content string) (string, []string) {
	var missing []string
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		lines[i] = substituteLine(line, &missing)
	}
	return strings.Join(lines, "\n"), missing
}

func substituteLine(line string, missing *[]string) string {
	return envVarPattern.ReplaceAllStringFunc(line, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		name, op, arg := m[1], m[2], m[3]
		value, ok := os.LookupEnv(name)

		switch op {
		case ":-":
			if value == "" {
				return arg
			}
			return value
		case ":?":
			if value == "" {
				*missing = append(*missing, name+": "+arg)
				return match
			}
			return value
		default:
			if !ok {
				*missing = append(*missing, name)
				return match
			}
			return value
		}
	})
}
