// internal/config/load_test.go
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

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
	root := t.TempDir()
	cfgPath := writeConfig(t, `
log_level = "debug"

[tmdb]
api_token = "secret"
language = "de-DE"
cache_ttl = "2h"

[library]
root = "`+root+`"
action = "copy"
rerun_policy = "size_mtime"

[database]
path = "/var/lib/mediar/mediar.db"
`)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "secret", cfg.TMDB.APIToken)
	assert.Equal(t, "de-DE", cfg.TMDB.Language)
	assert.Equal(t, 2*time.Hour, cfg.TMDB.CacheTTL)
	assert.Equal(t, root, cfg.Library.Root)
	assert.Equal(t, "copy", cfg.Library.Action)
	assert.Equal(t, "size_mtime", cfg.Library.RerunPolicy)
	assert.Equal(t, "/var/lib/mediar/mediar.db", cfg.Database.Path)
}

func TestLoad_AppliesDefaults(t *testing.T) {
	t.Setenv(TokenEnv, "from-env")
	t.Setenv(TVDBKeyEnv, "tvdb-env")
	t.Setenv("XDG_DATA_HOME", "/data")

	cfg, err := Load(writeConfig(t, "[library]\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
	assert.Equal(t, "from-env", cfg.TMDB.APIToken)
	assert.Equal(t, DefaultTMDBBaseURL, cfg.TMDB.BaseURL)
	assert.Equal(t, DefaultLanguage, cfg.TMDB.Language)
	assert.Equal(t, DefaultCacheTTL, cfg.TMDB.CacheTTL)
	assert.Equal(t, "tvdb-env", cfg.TVDB.APIKey)
	assert.Equal(t, DefaultTVDBBaseURL, cfg.TVDB.BaseURL)
	assert.Equal(t, DefaultAction, cfg.Library.Action)
	assert.Equal(t, DefaultRerunPolicy, cfg.Library.RerunPolicy)
	assert.Equal(t, "/data/mediar/mediar.db", cfg.Database.Path)
}

func TestLoad_MissingEnvVar(t *testing.T) {
	os.Unsetenv("MEDIAR_MISSING_TOKEN")
	cfgPath := writeConfig(t, `
[tmdb]
api_token = "${MEDIAR_MISSING_TOKEN}"
`)

	_, err := Load(cfgPath)
	require.Error(t, err, "expected error for missing env var")

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, []string{"MEDIAR_MISSING_TOKEN"}, cfgErr.Missing)
	assert.Equal(t, cfgPath, cfgErr.Path)
}

func TestLoad_ValidationError(t *testing.T) {
	cfgPath := writeConfig(t, `
[library]
action = "symlink"
`)

	_, err := Load(cfgPath)
	require.Error(t, err, "expected error for invalid action")
	assert.True(t, strings.Contains(err.Error(), "library.action"), "expected library.action in error, got %v", err)
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(writeConfig(t, "log_level = \n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestLoadWithoutValidation(t *testing.T) {
	cfg, err := LoadWithoutValidation(writeConfig(t, `
[library]
rerun_policy = "checksum"
`))
	require.NoError(t, err)
	assert.Equal(t, "checksum", cfg.Library.RerunPolicy)
}

func TestLoad_EnvVarDefault(t *testing.T) {
	os.Unsetenv("OPTIONAL_LANGUAGE")
	cfg, err := Load(writeConfig(t, `
[tmdb]
language = "${OPTIONAL_LANGUAGE:-fr-FR}"
`))
	require.NoError(t, err)
	assert.Equal(t, "fr-FR", cfg.TMDB.Language)
}

func TestResolve(t *testing.T) {
	t.Run("explicit path", func(t *testing.T) {
		cfgPath := writeConfig(t, "log_level = \"warn\"\n")
		cfg, path, err := Resolve(cfgPath)
		require.NoError(t, err)
		assert.Equal(t, cfgPath, path)
		assert.Equal(t, "warn", cfg.LogLevel)
	})

	t.Run("explicit path missing", func(t *testing.T) {
		_, _, err := Resolve(filepath.Join(t.TempDir(), "nope.toml"))
		assert.Error(t, err)
	})

	t.Run("nothing discovered", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv(ConfigEnv, "")
		t.Setenv("XDG_CONFIG_HOME", "/nonexistent/xdg")
		t.Setenv(TokenEnv, "env-token")

		cfg, path, err := Resolve("")
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, "env-token", cfg.TMDB.APIToken)
		assert.Equal(t, DefaultAction, cfg.Library.Action)
	})
}

func TestDefault(t *testing.T) {
	t.Setenv(TokenEnv, "")
	cfg := Default()
	assert.Empty(t, cfg.TMDB.APIToken)
	assert.Empty(t, cfg.Library.Root)
	assert.Empty(t, cfg.Validate())
}
