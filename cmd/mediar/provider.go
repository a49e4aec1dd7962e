package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vmunix/mediar/internal/config"
	"github.com/vmunix/mediar/internal/metadata"
	"github.com/vmunix/mediar/internal/tmdb"
	"github.com/vmunix/mediar/internal/tvdb"
)

// Metadata sources. The name doubles as the cache key prefix.
const (
	sourceTMDB = "tmdb"
	sourceTVDB = "tvdb"
)

var metadataSources = []string{sourceTMDB, sourceTVDB}

// providerFactory builds the named metadata provider for a command.
// db may be nil, which disables the persistent cache.
type providerFactory func(source string, cfg *config.Config, db *sql.DB, log *slog.Logger) (metadata.Provider, error)

var (
	errNoToken   = errors.New("no TMDB API token: set tmdb.api_token in the config or " + config.TokenEnv)
	errNoTVDBKey = errors.New("no TVDB API key: set tvdb.api_key in the config or " + config.TVDBKeyEnv)
)

func newProvider(source string, cfg *config.Config, db *sql.DB, log *slog.Logger) (metadata.Provider, error) {
	var p metadata.Provider
	switch source {
	case sourceTMDB:
		if cfg.TMDB.APIToken == "" {
			return nil, errNoToken
		}
		p = tmdb.NewProvider(tmdb.NewClient(cfg.TMDB.APIToken,
			tmdb.WithBaseURL(cfg.TMDB.BaseURL),
			tmdb.WithLanguage(cfg.TMDB.Language),
			tmdb.WithCacheTTL(cfg.TMDB.CacheTTL),
			tmdb.WithLogger(log),
		))
	case sourceTVDB:
		if cfg.TVDB.APIKey == "" {
			return nil, errNoTVDBKey
		}
		p = tvdb.NewProvider(tvdb.New(cfg.TVDB.APIKey,
			tvdb.WithBaseURL(cfg.TVDB.BaseURL),
			tvdb.WithLogger(log),
		))
	default:
		return nil, fmt.Errorf("unknown metadata source %q (want tmdb or tvdb)", source)
	}

	if db != nil {
		p = metadata.NewCachedProvider(source, p, metadata.NewCache(db), log)
	}
	return p, nil
}
