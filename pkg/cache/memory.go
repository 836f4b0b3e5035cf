package cache

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// MemoryCache keeps payloads in a process-local map.
// Expired entries are dropped on lookup and, if a sweep interval is set,
// by a background janitor.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]*Entry
	now     func() time.Time
	closed  bool

	stop chan struct{}
	done chan struct{}
}

// NewMemory creates an empty in-memory cache.
func NewMemory(opts ...Option) *MemoryCache {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	m := &MemoryCache{
		entries: make(map[string]*Entry),
		now:     o.now,
	}

	if o.sweepInterval > 0 {
		m.stop = make(chan struct{})
		m.done = make(chan struct{})
		go m.janitor(o.sweepInterval)
	}

	return m
}

// Get returns a copy of the payload stored under key.
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}

	entry, ok := m.entries[key]
	if !ok {
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrCacheMiss
	}
	if entry.IsExpired(m.now()) {
		delete(m.entries, key)
		CacheMisses.WithLabelValues("memory").Inc()
		return nil, ErrCacheMiss
	}

	CacheHits.WithLabelValues("memory").Inc()
	return bytes.Clone(entry.Data), nil
}

// Put stores a copy of data under key.
func (m *MemoryCache) Put(_ context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	m.entries[key] = &Entry{
		Data:     bytes.Clone(data),
		StoredAt: m.now(),
		TTL:      ttl,
	}
	CacheStoredBytes.WithLabelValues("memory").Add(float64(len(data)))
	return nil
}

// Clear removes every entry.
func (m *MemoryCache) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.entries = make(map[string]*Entry)
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryCache) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Purge removes expired entries and returns how many were dropped.
func (m *MemoryCache) Purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, entry := range m.entries {
		if entry.IsExpired(now) {
			delete(m.entries, key)
			removed++
		}
	}
	return removed
}

// Close stops the janitor and drops all entries.
func (m *MemoryCache) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.entries = nil
	m.mu.Unlock()

	if m.stop != nil {
		close(m.stop)
		<-m.done
	}
	return nil
}

func (m *MemoryCache) janitor(interval time.Duration) {
	defer close(m.done)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if n := m.Purge(); n > 0 {
				log.Debug().
					Str("component", "cache").
					Int("removed", n).
					Msg("Purged expired memory cache entries")
			}
		}
	}
}
