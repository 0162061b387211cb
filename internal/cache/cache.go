// Package cache is the local query cache behind the list views. Fetched
// collections are stored as JSON payloads keyed by tag; Invalidate marks
// a tag stale so the next read goes back to the remote service.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const cacheFile = ".nobat/cache.db"

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	tag        TEXT PRIMARY KEY,
	payload    BLOB NOT NULL,
	fetched_at INTEGER NOT NULL,
	stale      INTEGER NOT NULL DEFAULT 0
);
`

// Tags used across the tool. Detail tags are per-record.
const (
	TagCategoryList = "category/list"
	TagDoctorList   = "doctor/list"
	TagRequestList  = "request/list"
)

// DetailTag returns the cache tag for one record of a table.
func DetailTag(table, id string) string {
	return table + "/detail/" + id
}

// Cache wraps the sqlite-backed store.
type Cache struct {
	conn *sql.DB
}

// Open opens (or creates) the cache database under baseDir.
func Open(baseDir string) (*Cache, error) {
	path := filepath.Join(baseDir, cacheFile)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}

	// WAL keeps reads cheap while a refresh writes.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA busy_timeout=500"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}

	return &Cache{conn: conn}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// Put stores a payload under tag and marks it fresh.
func (c *Cache) Put(tag string, payload []byte) error {
	_, err := c.conn.Exec(`
		INSERT INTO entries (tag, payload, fetched_at, stale) VALUES (?, ?, ?, 0)
		ON CONFLICT(tag) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at, stale = 0`,
		tag, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("cache put %s: %w", tag, err)
	}
	return nil
}

// Get returns the payload stored under tag and whether it is still
// fresh: present, not invalidated, and younger than ttl. A missing tag
// returns a nil payload.
func (c *Cache) Get(tag string, ttl time.Duration) ([]byte, bool, error) {
	var payload []byte
	var fetchedAt int64
	var stale int
	err := c.conn.QueryRow(
		"SELECT payload, fetched_at, stale FROM entries WHERE tag = ?", tag,
	).Scan(&payload, &fetchedAt, &stale)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get %s: %w", tag, err)
	}

	fresh := stale == 0 && time.Since(time.Unix(fetchedAt, 0)) < ttl
	return payload, fresh, nil
}

// Invalidate marks the tag stale. Unknown tags are a no-op.
func (c *Cache) Invalidate(tag string) error {
	if _, err := c.conn.Exec("UPDATE entries SET stale = 1 WHERE tag = ?", tag); err != nil {
		return fmt.Errorf("cache invalidate %s: %w", tag, err)
	}
	return nil
}

// Clear drops every entry.
func (c *Cache) Clear() error {
	if _, err := c.conn.Exec("DELETE FROM entries"); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}
