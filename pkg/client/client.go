// Package client provides the BoardGameGeek XML API v2 client with rate
// limiting, caching, retries and typed errors.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Sternrassler/bgg-client/pkg/cache"
	"github.com/Sternrassler/bgg-client/pkg/pagination"
	"github.com/Sternrassler/bgg-client/pkg/ratelimit"
	"github.com/Sternrassler/bgg-client/pkg/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Client is the main BGG client.
type Client struct {
	transport *transport.Transport
	responses *transport.ResponseCache
	store     cache.Store
	ownsStore bool
	limiter   ratelimit.Limiter
	config    Config
	logger    zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// BaseURL of the XML API. Tests point this at a mock server.
	BaseURL string

	// User-Agent header sent with every request.
	UserAgent string

	// Caching
	// Cache takes precedence over CacheURI and is not closed by Client.Close.
	// With neither set, responses are not cached.
	Cache    cache.Store
	CacheURI string        // e.g. "memory:///?ttl=3600", "sqlite:///var/cache/bgg.db"
	CacheTTL time.Duration // Used when CacheURI carries no ttl. Zero means cache.DefaultTTL.

	// Rate Limiting
	// Limiter takes precedence over RequestsPerMinute.
	Limiter           ratelimit.Limiter
	RequestsPerMinute int // Zero disables limiting

	// Retry
	MaxRetries int
	RetryDelay time.Duration // Fixed pause between attempts
	Timeout    time.Duration // Per attempt

	// InsecureSkipVerify disables TLS certificate verification. Insecure, opt-in only.
	InsecureSkipVerify bool

	// HTTPClient overrides the default HTTP client (for testing).
	HTTPClient *http.Client

	// Concurrency
	MaxConcurrency int // Max parallel page or chunk fetches

	// Logger for client diagnostics. Nil falls back to the global logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:           transport.DefaultBaseURL,
		UserAgent:         "bgg-client/1.0",
		CacheURI:          "memory:///?ttl=3600",
		RequestsPerMinute: 30,
		MaxRetries:        3,
		RetryDelay:        5 * time.Second,
		Timeout:           15 * time.Second,
		MaxConcurrency:    pagination.DefaultConfig().MaxConcurrency,
	}
}

// New creates a new BGG client.
func New(cfg Config) (*Client, error) {
	if cfg.RequestsPerMinute < 0 {
		return nil, fmt.Errorf("requests per minute must be >= 0 (got %d)", cfg.RequestsPerMinute)
	}
	if cfg.CacheTTL < 0 {
		return nil, fmt.Errorf("cache ttl must be >= 0 (got %s)", cfg.CacheTTL)
	}
	if cfg.MaxConcurrency < 0 {
		return nil, fmt.Errorf("max concurrency must be >= 0 (got %d)", cfg.MaxConcurrency)
	}
	if cfg.MaxConcurrency == 0 {
		cfg.MaxConcurrency = pagination.DefaultConfig().MaxConcurrency
	}

	logger := log.With().Str("component", "bgg-client").Logger()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "bgg-client").Logger()
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.NewSlidingWindow(cfg.RequestsPerMinute, ratelimit.WithLogger(logger))
	}

	tr, err := transport.New(transport.Config{
		BaseURL:   cfg.BaseURL,
		UserAgent: cfg.UserAgent,
		Limiter:   limiter,
		Retry: transport.RetryPolicy{
			MaxRetries: cfg.MaxRetries,
			Delay:      cfg.RetryDelay,
		},
		Timeout:            cfg.Timeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
		HTTPClient:         cfg.HTTPClient,
		Logger:             cfg.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create transport: %w", err)
	}

	store, ttl, owned, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Str("base_url", cfg.BaseURL).
		Int("requests_per_minute", cfg.RequestsPerMinute).
		Dur("cache_ttl", ttl).
		Msg("Client created")

	return &Client{
		transport: tr,
		responses: transport.NewResponseCache(tr, store, ttl, logger),
		store:     store,
		ownsStore: owned,
		limiter:   limiter,
		config:    cfg,
		logger:    logger,
	}, nil
}

// openStore resolves the configured cache. The TTL comes from the URI,
// then Config.CacheTTL, then cache.DefaultTTL.
func openStore(cfg Config) (cache.Store, time.Duration, bool, error) {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = cache.DefaultTTL
	}

	if cfg.Cache != nil {
		return cfg.Cache, ttl, false, nil
	}

	store, uriTTL, err := cache.Open(context.Background(), cfg.CacheURI)
	if err != nil {
		return nil, 0, false, fmt.Errorf("open cache: %w", err)
	}
	if uriTTL > 0 {
		ttl = uriTTL
	}
	return store, ttl, true, nil
}

// fetch returns the payload for req from the cache or the network.
func (c *Client) fetch(ctx context.Context, req transport.Request) ([]byte, error) {
	data, err := c.responses.Fetch(ctx, req)
	if err != nil {
		c.logger.Debug().
			Err(err).
			Str("endpoint", req.Endpoint()).
			Str("cache_key", req.CacheKey()).
			Msg("Fetch failed")
		return nil, err
	}
	return data, nil
}

// ClearCache removes every cached response.
func (c *Client) ClearCache(ctx context.Context) error {
	return c.responses.Clear(ctx)
}

// Close releases the cache if the client opened it.
func (c *Client) Close() error {
	if !c.ownsStore {
		return nil
	}
	return c.store.Close()
}

// Limiter returns the rate limiter gating network attempts.
func (c *Client) Limiter() ratelimit.Limiter {
	return c.limiter
}
