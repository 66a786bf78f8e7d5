// Package store provides a SQLite-backed cache for remote forecast responses.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// timeLayout sorts lexically, so fetched_at comparisons work in SQL.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Cache provides SQLite-backed forecast caching.
type Cache struct {
	db  *sql.DB
	now func() time.Time
}

// Entry is one cached forecast response.
type Entry struct {
	Hash      string
	Response  []byte
	FetchedAt time.Time
}

// Dir returns the platform-appropriate cache directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "runway")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "runway")
}

// DefaultPath returns the full path to the cache database.
func DefaultPath() string {
	return filepath.Join(Dir(), "cache.db")
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db, now: time.Now}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached response for hash if it is younger than maxAge.
// A maxAge of zero or less accepts any age.
func (c *Cache) Get(hash string, maxAge time.Duration) (Entry, bool, error) {
	var e Entry
	var fetched string
	err := c.db.QueryRow(
		"SELECT request_hash, response, fetched_at FROM forecasts WHERE request_hash = ?", hash,
	).Scan(&e.Hash, &e.Response, &fetched)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading forecast %s: %w", hash, err)
	}

	e.FetchedAt, err = time.Parse(timeLayout, fetched)
	if err != nil {
		return Entry{}, false, fmt.Errorf("parsing fetched_at: %w", err)
	}
	if maxAge > 0 && c.now().Sub(e.FetchedAt) > maxAge {
		return Entry{}, false, nil
	}
	return e, true, nil
}

// Put stores or replaces the response for hash.
func (c *Cache) Put(hash string, response []byte) error {
	now := c.now().UTC().Format(timeLayout)
	_, err := c.db.Exec(`INSERT INTO forecasts (request_hash, response, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(request_hash) DO UPDATE SET response = excluded.response, fetched_at = excluded.fetched_at`,
		hash, response, now)
	if err != nil {
		return fmt.Errorf("writing forecast %s: %w", hash, err)
	}
	return nil
}

// Prune deletes entries fetched more than olderThan ago and returns how many were removed.
func (c *Cache) Prune(olderThan time.Duration) (int64, error) {
	cutoff := c.now().Add(-olderThan).UTC().Format(timeLayout)
	res, err := c.db.Exec("DELETE FROM forecasts WHERE fetched_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning forecasts: %w", err)
	}
	return res.RowsAffected()
}

// Delete removes a single entry.
func (c *Cache) Delete(hash string) error {
	_, err := c.db.Exec("DELETE FROM forecasts WHERE request_hash = ?", hash)
	return err
}

// Count returns the number of cached forecasts.
func (c *Cache) Count() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM forecasts").Scan(&count)
	return count, err
}
