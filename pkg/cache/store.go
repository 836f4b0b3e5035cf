package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrCacheMiss indicates the requested key was not found in cache or has expired
	ErrCacheMiss = errors.New("cache miss")

	// ErrClosed is returned by operations on a store after Close
	ErrClosed = errors.New("cache closed")
)

// DefaultTTL is the time-to-live applied when a cache URI does not specify one.
const DefaultTTL = time.Hour

// Store is a keyed payload cache with per-entry expiry.
type Store interface {
	// Get returns the payload stored under key.
	// Returns ErrCacheMiss if the key doesn't exist or the entry is expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores data under key for ttl. A ttl of zero or less never expires.
	Put(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Option configures a Store.
type Option func(*options)

type options struct {
	now           func() time.Time
	sweepInterval time.Duration
	prefix        string
}

func defaultOptions() options {
	return options{
		now:    time.Now,
		prefix: "bgg:cache:",
	}
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithSweepInterval enables periodic removal of expired entries.
// Only MemoryCache honours it.
func WithSweepInterval(d time.Duration) Option {
	return func(o *options) {
		o.sweepInterval = d
	}
}

// WithPrefix sets the key namespace. Only RedisCache honours it.
func WithPrefix(prefix string) Option {
	return func(o *options) {
		o.prefix = prefix
	}
}

// NoCache is a Store that never holds anything.
type NoCache struct{}

// Get always misses.
func (NoCache) Get(context.Context, string) ([]byte, error) {
	CacheMisses.WithLabelValues("none").Inc()
	return nil, ErrCacheMiss
}

// Put discards the payload.
func (NoCache) Put(context.Context, string, []byte, time.Duration) error { return nil }

// Clear is a no-op.
func (NoCache) Clear(context.Context) error { return nil }

// Close is a no-op.
func (NoCache) Close() error { return nil }
