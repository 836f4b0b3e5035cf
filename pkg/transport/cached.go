package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Sternrassler/bgg-client/pkg/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

var bggSharedFetchesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bgg_shared_fetches_total",
	Help: "Total number of callers whose fetch result was shared with concurrent callers",
})

// ResponseCache fronts a Sender with a Store. Only successful payloads are
// stored, and concurrent misses for the same key share one network fetch.
type ResponseCache struct {
	sender Sender
	store  cache.Store
	ttl    time.Duration
	group  singleflight.Group
	logger zerolog.Logger
}

// NewResponseCache wraps sender with store, keeping payloads for ttl.
func NewResponseCache(sender Sender, store cache.Store, ttl time.Duration, logger zerolog.Logger) *ResponseCache {
	if store == nil {
		store = cache.NoCache{}
	}
	return &ResponseCache{
		sender: sender,
		store:  store,
		ttl:    ttl,
		logger: logger,
	}
}

// Store returns the backing store.
func (c *ResponseCache) Store() cache.Store {
	return c.store
}

// Fetch returns the cached payload for req or sends it and stores the result.
// Backend failures are returned as *CacheError.
//
// Concurrent misses for one key share a single send. The shared send does
// not end when the caller that started it gives up; each caller stops
// waiting when its own ctx ends.
func (c *ResponseCache) Fetch(ctx context.Context, req Request) ([]byte, error) {
	key := req.CacheKey()

	data, err := c.lookup(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}

	shareCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		return c.fill(shareCtx, key, req)
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", ErrContextCancelled, ctx.Err())
	case res := <-ch:
		if res.Shared {
			bggSharedFetchesTotal.Inc()
		}
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

// fill sends req and stores the payload under key.
func (c *ResponseCache) fill(ctx context.Context, key string, req Request) ([]byte, error) {
	// A concurrent fetch may have filled the entry between our miss and now.
	if data, err := c.lookup(ctx, key); err == nil {
		return data, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}

	data, err := c.sender.Send(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := c.store.Put(ctx, key, data, c.ttl); err != nil {
		c.logger.Error().Err(err).Str("key", key).Msg("Failed to store response")
		return nil, &CacheError{Op: "put", Key: key, Err: err}
	}
	c.logger.Debug().
		Str("key", key).
		Dur("ttl", c.ttl).
		Int("bytes", len(data)).
		Msg("Cached response")
	return data, nil
}

// Clear empties the backing store.
func (c *ResponseCache) Clear(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return &CacheError{Op: "clear", Err: err}
	}
	return nil
}

func (c *ResponseCache) lookup(ctx context.Context, key string) ([]byte, error) {
	data, err := c.store.Get(ctx, key)
	if err == nil {
		c.logger.Debug().Str("key", key).Msg("Cache hit")
		return data, nil
	}
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, err
	}
	c.logger.Error().Err(err).Str("key", key).Msg("Cache lookup failed")
	return nil, &CacheError{Op: "get", Key: key, Err: err}
}
