// internal/config/discover.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigEnv names an explicit config file.
const ConfigEnv = "MEDIAR_CONFIG"

// ErrNotFound indicates no config file exists in any search location.
var ErrNotFound = errors.New("config not found")

// DefaultPath is where "mediar config init" writes when no path is given.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "mediar", "config.toml")
}

// SearchPaths lists the implicit config locations, highest priority first.
func SearchPaths() []string {
	return []string{"./config.toml", DefaultPath(), "/etc/mediar/config.toml"}
}

// Discover returns MEDIAR_CONFIG when set (it must exist), else the first
// regular file among SearchPaths.
func Discover() (string, error) {
	if envPath := os.Getenv(ConfigEnv); envPath != "" {
		if err := checkFile(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", ConfigEnv, envPath, err)
		}
		return envPath, nil
	}

	paths := SearchPaths()
	for _, p := range paths {
		if checkFile(p) == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}

// Resolve loads the file at path, or the discovered one when path is empty.
// mediar runs without a config file: when nothing is discovered it falls
// back to Default, and the returned path is empty.
func Resolve(path string) (*Config, string, error) {
	if path == "" {
		found, err := Discover()
		if errors.Is(err, ErrNotFound) {
			return Default(), "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return nil
}
