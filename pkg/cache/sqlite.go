package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key       TEXT PRIMARY KEY,
	data      BLOB NOT NULL,
	stored_at INTEGER NOT NULL,
	ttl       INTEGER NOT NULL
)`

// DurableCache keeps payloads in a SQLite database file so they survive
// process restarts. All access goes through one connection guarded by a mutex.
type DurableCache struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewDurable opens (or creates) the SQLite cache at path and drops entries
// that expired while the process was not running.
func NewDurable(ctx context.Context, path string, opts ...Option) (*DurableCache, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite cache path is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite cache %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite cache schema: %w", err)
	}

	d := &DurableCache{db: db, path: path, now: o.now}
	if _, err := d.Purge(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Path returns the database file location.
func (d *DurableCache) Path() string {
	return d.path
}

// Get returns the payload stored under key, deleting it if it has expired.
func (d *DurableCache) Get(ctx context.Context, key string) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var (
		data     []byte
		storedAt int64
		ttl      int64
	)
	err := d.db.QueryRowContext(ctx,
		`SELECT data, stored_at, ttl FROM cache_entries WHERE key = ?`, key,
	).Scan(&data, &storedAt, &ttl)
	if errors.Is(err, sql.ErrNoRows) {
		CacheMisses.WithLabelValues("sqlite").Inc()
		return nil, ErrCacheMiss
	}
	if err != nil {
		CacheErrors.WithLabelValues("sqlite", "get").Inc()
		return nil, fmt.Errorf("sqlite get: %w", err)
	}

	entry := Entry{Data: data, StoredAt: time.Unix(0, storedAt), TTL: time.Duration(ttl)}
	if entry.IsExpired(d.now()) {
		if _, err := d.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, key); err != nil {
			CacheErrors.WithLabelValues("sqlite", "delete").Inc()
			return nil, fmt.Errorf("sqlite delete expired: %w", err)
		}
		CacheMisses.WithLabelValues("sqlite").Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("sqlite").Inc()
	return entry.Data, nil
}

// Put stores data under key, replacing any previous entry.
func (d *DurableCache) Put(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if data == nil {
		data = []byte{}
	}

	_, err := d.db.ExecContext(ctx, `
		INSERT INTO cache_entries (key, data, stored_at, ttl) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data = excluded.data,
			stored_at = excluded.stored_at,
			ttl = excluded.ttl`,
		key, data, d.now().UnixNano(), int64(ttl),
	)
	if err != nil {
		CacheErrors.WithLabelValues("sqlite", "put").Inc()
		return fmt.Errorf("sqlite put: %w", err)
	}

	CacheStoredBytes.WithLabelValues("sqlite").Add(float64(len(data)))
	return nil
}

// Clear removes every entry.
func (d *DurableCache) Clear(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, err := d.db.ExecContext(ctx, `DELETE FROM cache_entries`); err != nil {
		CacheErrors.WithLabelValues("sqlite", "clear").Inc()
		return fmt.Errorf("sqlite clear: %w", err)
	}
	return nil
}

// Purge removes expired entries and returns how many were dropped.
func (d *DurableCache) Purge(ctx context.Context) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	res, err := d.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE ttl > 0 AND ? - stored_at > ttl`,
		d.now().UnixNano(),
	)
	if err != nil {
		CacheErrors.WithLabelValues("sqlite", "purge").Inc()
		return 0, fmt.Errorf("sqlite purge: %w", err)
	}
	return res.RowsAffected()
}

// Close closes the database.
func (d *DurableCache) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.db.Close()
}
