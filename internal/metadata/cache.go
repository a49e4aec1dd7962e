package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Cache is a SQLite-backed TTL store for provider responses.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithClock replaces time.Now (for tests).
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache wraps a database that already has the metadata_cache table.
func NewCache(db *sql.DB, opts ...CacheOption) *Cache {
	c := &Cache{db: db, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the value stored under key.
// An expired or missing entry reports false.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	var value []byte
	var expiresAt int64

	err := c.db.QueryRowContext(ctx,
		"SELECT value, expires_at FROM metadata_cache WHERE key = ?", key,
	).Scan(&value, &expiresAt)
	if err != nil || c.now().UnixMilli() >= expiresAt {
		return nil, false
	}
	if value == nil {
		value = []byte{}
	}
	return value, true
}

// Set stores value under key until ttl elapses, replacing any prior entry.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if value == nil {
		value = []byte{}
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO metadata_cache (key, value, expires_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, expires_at = excluded.expires_at`,
		key, value, c.now().Add(ttl).UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM metadata_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// DeletePrefix removes every key starting with prefix and reports how many went.
func (c *Cache) DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		"DELETE FROM metadata_cache WHERE substr(key, 1, ?) = ?", len(prefix), prefix,
	)
	if err != nil {
		return 0, fmt.Errorf("cache delete prefix %s: %w", prefix, err)
	}
	return res.RowsAffected()
}

// Prune drops expired entries and reports how many were removed.
func (c *Cache) Prune(ctx context.Context) (int64, error) {
	res, err := c.db.ExecContext(ctx,
		"DELETE FROM metadata_cache WHERE expires_at <= ?", c.now().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("cache prune: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports live and expired entry counts.
func (c *Cache) Stats(ctx context.Context) (live, expired int64, err error) {
	err = c.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN expires_at > ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN expires_at <= ? THEN 1 ELSE 0 END), 0)
		 FROM metadata_cache`,
		c.now().UnixMilli(), c.now().UnixMilli(),
	).Scan(&live, &expired)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("cache stats: %w", err)
	}
	return live, expired, nil
}
