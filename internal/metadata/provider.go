package metadata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

const (
	showTTL   = 7 * 24 * time.Hour
	movieTTL  = 7 * 24 * time.Hour
	searchTTL = time.Hour
)

// CachedProvider puts a Cache in front of another Provider.
// Cache failures are logged and never fail a lookup.
type CachedProvider struct {
	next   Provider
	cache  *Cache
	prefix string
	log    *slog.Logger
}

// NewCachedProvider wraps next. Keys are namespaced by name ("tmdb").
func NewCachedProvider(name string, next Provider, cache *Cache, log *slog.Logger) *CachedProvider {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CachedProvider{
		next:   next,
		cache:  cache,
		prefix: name + ":",
		log:    log.With("component", "metadata-cache", "provider", name),
	}
}

// Search returns cached results for the case-folded query when present.
func (p *CachedProvider) Search(ctx context.Context, query string) ([]SearchResult, error) {
	key := p.prefix + "search:" + strings.ToLower(strings.TrimSpace(query))
	results, err := fetchCached(ctx, p, key, searchTTL, func(ctx context.Context) ([]SearchResult, error) {
		return p.next.Search(ctx, query)
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return results, nil
}

// GetShow returns a show with its full episode list.
func (p *CachedProvider) GetShow(ctx context.Context, id int64) (*Show, error) {
	show, err := fetchCached(ctx, p, p.showKey(id), showTTL, func(ctx context.Context) (*Show, error) {
		return p.next.GetShow(ctx, id)
	}, func(s *Show) bool { return s == nil })
	if err != nil {
		return nil, fmt.Errorf("get show %d: %w", id, err)
	}
	return show, nil
}

// GetMovie returns a movie.
func (p *CachedProvider) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	movie, err := fetchCached(ctx, p, p.movieKey(id), movieTTL, func(ctx context.Context) (*Movie, error) {
		return p.next.GetMovie(ctx, id)
	}, func(m *Movie) bool { return m == nil })
	if err != nil {
		return nil, fmt.Errorf("get movie %d: %w", id, err)
	}
	return movie, nil
}

// Invalidate drops the cached record for id. Search results are left alone.
func (p *CachedProvider) Invalidate(ctx context.Context, kind Kind, id int64) error {
	key := p.movieKey(id)
	if kind == KindTV {
		key = p.showKey(id)
	}
	if err := p.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("invalidate %s %d: %w", kind, id, err)
	}
	p.log.Debug("invalidated", "kind", kind, "id", id)
	return nil
}

func (p *CachedProvider) showKey(id int64) string  { return fmt.Sprintf("%sshow:%d", p.prefix, id) }
func (p *CachedProvider) movieKey(id int64) string { return fmt.Sprintf("%smovie:%d", p.prefix, id) }

// fetchCached serves key from the cache or fetches and stores it. When empty
// is set, a value it rejects is never stored or returned: a fetched one fails
// with ErrEmptyRecord and a cached one is refetched.
func fetchCached[T any](ctx context.Context, p *CachedProvider, key string, ttl time.Duration,
	fetch func(context.Context) (T, error), empty func(T) bool) (T, error) {
	var zero T
	if data, ok := p.cache.Get(ctx, key); ok {
		var v T
		if err := json.Unmarshal(data, &v); err == nil && (empty == nil || !empty(v)) {
			p.log.Debug("cache hit", "key", key)
			return v, nil
		}
		// Unreadable entries are refetched and overwritten.
		p.log.Warn("failed to decode cached entry", "key", key)
	}

	p.log.Debug("cache miss", "key", key)
	v, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	if empty != nil && empty(v) {
		return zero, ErrEmptyRecord
	}

	data, err := json.Marshal(v)
	if err != nil {
		p.log.Warn("failed to encode entry for cache", "key", key, "error", err)
		return v, nil
	}
	if err := p.cache.Set(ctx, key, data, ttl); err != nil {
		p.log.Warn("failed to store cache entry", "key", key, "error", err)
	}
	return v, nil
}
