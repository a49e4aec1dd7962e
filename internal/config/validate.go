// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"golang.org/x/sys/unix"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true, "": true,
}

var validActions = map[string]bool{
	"link": true, "copy": true, "move": true,
}

var validRerunPolicies = map[string]bool{
	"inode": true, "size_mtime": true, "strict": true,
}

// field is a named config value checked by Validate.
type field struct{ name, value string }

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Sprintf("log_level: must be one of debug, info, warn, error; got %q", c.LogLevel))
	}

	// Provider validation
	for _, f := range []field{
		{"tmdb.base_url", c.TMDB.BaseURL},
		{"tvdb.base_url", c.TVDB.BaseURL},
	} {
		if f.value == "" {
			continue
		}
		u, err := url.Parse(f.value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("%s: must be an http(s) URL, got %q", f.name, f.value))
		}
	}
	if c.TMDB.CacheTTL < 0 {
		errs = append(errs, fmt.Sprintf("tmdb.cache_ttl: must not be negative, got %s", c.TMDB.CacheTTL))
	}

	// Library validation
	if c.Library.Action != "" && !validActions[c.Library.Action] {
		errs = append(errs, fmt.Sprintf("library.action: must be one of link, copy, move; got %q", c.Library.Action))
	}
	if c.Library.RerunPolicy != "" && !validRerunPolicies[c.Library.RerunPolicy] {
		errs = append(errs, fmt.Sprintf("library.rerun_policy: must be one of inode, size_mtime, strict; got %q", c.Library.RerunPolicy))
	}
	for _, f := range []field{
		{"library.movie_template", c.Library.MovieTemplate},
		{"library.series_template", c.Library.SeriesTemplate},
	} {
		if f.value != "" && !strings.HasSuffix(f.value, ".{ext}") {
			errs = append(errs, fmt.Sprintf("%s: must end with \".{ext}\", got %q", f.name, f.value))
		}
	}
	if msg := checkWritableDir(c.Library.Root); msg != "" {
		errs = append(errs, "library.root: "+msg)
	}

	return errs
}

// checkWritableDir reports a problem with an existing root. A root that does
// not exist yet is fine; it is created on first use.
func checkWritableDir(path string) string {
	if path == "" {
		return ""
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return ""
	}
	if err != nil {
		return err.Error()
	}
	if !info.IsDir() {
		return fmt.Sprintf("%q is not a directory", path)
	}
	if err := unix.Access(path, unix.W_OK); err != nil {
		return fmt.Sprintf("%q is not writable: %v", path, err)
	}
	return ""
}
