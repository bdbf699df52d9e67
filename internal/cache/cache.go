// internal/cache/cache.go
// TTL cache for upstream API responses, keyed by request URL.
package cache

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
    url TEXT PRIMARY KEY,
    body BLOB NOT NULL,
    fetched_at TIMESTAMP NOT NULL
);
`

type entry struct {
	body      []byte
	fetchedAt time.Time
}

// Cache stores raw response bodies with their fetch time. Staleness is
// decided per read: the same entry can satisfy a reader with a one-hour
// budget and miss for a reader with a sixty-second budget.
//
// The SQLite file is purely a warm-start layer for the in-memory map; if it
// cannot be opened the cache runs memory-only. It never stores normalized
// content, only response bytes.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	db      *sql.DB
	logger  *log.Logger
}

// New opens or creates the cache database at dbPath. An empty dbPath, or any
// open error, yields a memory-only cache.
func New(dbPath string, logger *log.Logger) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		logger:  logger,
	}

	if dbPath == "" {
		return c
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		logger.Printf("Response cache: cannot open %s, running memory-only: %v", dbPath, err)
		return c
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		logger.Printf("Response cache: cannot connect to %s, running memory-only: %v", dbPath, err)
		db.Close()
		return c
	}

	if _, err := db.Exec(schema); err != nil {
		logger.Printf("Response cache: cannot create schema, running memory-only: %v", err)
		db.Close()
		return c
	}

	c.db = db
	return c
}

// Get returns the cached body for url if it was fetched within maxAge.
// A memory miss falls through to the database; a database hit repopulates
// memory so later reads stay cheap.
func (c *Cache) Get(url string, maxAge time.Duration) ([]byte, bool) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[url]
	c.mu.RUnlock()

	if ok {
		if now.Sub(e.fetchedAt) <= maxAge {
			return e.body, true
		}
		return nil, false
	}

	if c.db == nil {
		return nil, false
	}

	var body []byte
	var fetchedAt time.Time
	err := c.db.QueryRow(
		"SELECT body, fetched_at FROM responses WHERE url = ?", url,
	).Scan(&body, &fetchedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			c.logger.Printf("Response cache: read error for %s: %v", url, err)
		}
		return nil, false
	}

	c.mu.Lock()
	c.entries[url] = entry{body: body, fetchedAt: fetchedAt}
	c.mu.Unlock()

	if now.Sub(fetchedAt) <= maxAge {
		return body, true
	}
	return nil, false
}

// Set records a freshly fetched body for url.
func (c *Cache) Set(url string, body []byte) {
	now := time.Now()

	c.mu.Lock()
	c.entries[url] = entry{body: body, fetchedAt: now}
	c.mu.Unlock()

	if c.db == nil {
		return
	}

	_, err := c.db.Exec(`
        INSERT INTO responses (url, body, fetched_at) VALUES (?, ?, ?)
        ON CONFLICT(url) DO UPDATE SET
            body = excluded.body,
            fetched_at = excluded.fetched_at
    `, url, body, now.UTC())
	if err != nil {
		c.logger.Printf("Response cache: write error for %s: %v", url, err)
	}
}

// Purge drops entries older than maxAge from both layers.
func (c *Cache) Purge(maxAge time.Duration) {
	cutoff := time.Now().Add(-maxAge)

	c.mu.Lock()
	for url, e := range c.entries {
		if e.fetchedAt.Before(cutoff) {
			delete(c.entries, url)
		}
	}
	c.mu.Unlock()

	if c.db == nil {
		return
	}

	if _, err := c.db.Exec("DELETE FROM responses WHERE fetched_at < ?", cutoff.UTC()); err != nil {
		c.logger.Printf("Response cache: purge error: %v", err)
	}
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}
