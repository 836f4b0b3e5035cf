package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Sternrassler/bgg-client/pkg/logging"
	"github.com/Sternrassler/bgg-client/pkg/ratelimit"
	"github.com/Sternrassler/bgg-client/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, "{}\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, transport.DefaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.API.Timeout)
	assert.Equal(t, "memory:///?ttl=3600", cfg.Cache.URI)
	assert.Equal(t, 30, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, StrategyWindow, cfg.RateLimit.Strategy)
	assert.Equal(t, ratelimit.DefaultRedisKey, cfg.RateLimit.RedisKey)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.Retry.Delay)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "auto", cfg.Logging.Format)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
api:
  user_agent: "shelf-sync/2.0 (me@example.com)"
  timeout: 30s
cache:
  uri: "sqlite:///tmp/bgg.db?ttl=600"
rate_limit:
  requests_per_minute: 12
  strategy: bucket
retry:
  max_retries: 5
  delay: 2s
logging:
  level: debug
  format: json
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "shelf-sync/2.0 (me@example.com)", cfg.API.UserAgent)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "sqlite:///tmp/bgg.db?ttl=600", cfg.Cache.URI)
	assert.Equal(t, 12, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, StrategyBucket, cfg.RateLimit.Strategy)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.Retry.Delay)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "rate_limit:\n  requests_per_minute: 12\n")
	t.Setenv("BGG_RATE_LIMIT_REQUESTS_PER_MINUTE", "6")
	t.Setenv("BGG_RETRY_DELAY", "750ms")
	t.Setenv("BGG_CACHE_URI", "none://")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 750*time.Millisecond, cfg.Retry.Delay)
	assert.Equal(t, "none://", cfg.Cache.URI)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, "rate_limit:\n  strategy: leaky\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate_limit.strategy")
}

func validConfig() Config {
	return Config{
		API: APIConfig{
			BaseURL:        transport.DefaultBaseURL,
			UserAgent:      "test/1.0",
			Timeout:        time.Second,
			MaxConcurrency: 2,
		},
		Cache:     CacheConfig{URI: "memory://"},
		RateLimit: RateLimitConfig{RequestsPerMinute: 30, Strategy: StrategyWindow},
		Retry:     RetryConfig{MaxRetries: 3, Delay: time.Second},
		Logging:   LoggingConfig{Level: "info", Format: "auto"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"relative base url", func(c *Config) { c.API.BaseURL = "/xmlapi2" }, "api.base_url"},
		{"ftp base url", func(c *Config) { c.API.BaseURL = "ftp://bgg" }, "api.base_url"},
		{"empty user agent", func(c *Config) { c.API.UserAgent = " " }, "api.user_agent"},
		{"negative timeout", func(c *Config) { c.API.Timeout = -time.Second }, "api.timeout"},
		{"zero concurrency", func(c *Config) { c.API.MaxConcurrency = 0 }, "api.max_concurrency"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "cache.ttl"},
		{"negative rpm", func(c *Config) { c.RateLimit.RequestsPerMinute = -1 }, "requests_per_minute"},
		{"redis without url", func(c *Config) { c.RateLimit.Strategy = StrategyRedis }, "redis_url"},
		{"negative retries", func(c *Config) { c.Retry.MaxRetries = -1 }, "retry.max_retries"},
		{"negative delay", func(c *Config) { c.Retry.Delay = -time.Second }, "retry.delay"},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "logging level"},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, "logging format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClientConfig(t *testing.T) {
	ctx := context.Background()

	t.Run("window", func(t *testing.T) {
		cfg := validConfig()
		cc, cleanup, err := cfg.ClientConfig(ctx)
		require.NoError(t, err)
		defer cleanup()

		assert.IsType(t, &ratelimit.SlidingWindow{}, cc.Limiter)
		assert.Equal(t, cfg.API.UserAgent, cc.UserAgent)
		assert.Equal(t, cfg.Cache.URI, cc.CacheURI)
		assert.Equal(t, 3, cc.MaxRetries)
		assert.Equal(t, time.Second, cc.RetryDelay)
		assert.Equal(t, 2, cc.MaxConcurrency)
	})

	t.Run("bucket", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateLimit.Strategy = StrategyBucket
		cc, cleanup, err := cfg.ClientConfig(ctx)
		require.NoError(t, err)
		defer cleanup()

		assert.IsType(t, &ratelimit.TokenBucket{}, cc.Limiter)
	})

	t.Run("redis bad url", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateLimit.Strategy = StrategyRedis
		cfg.RateLimit.RedisURL = "http://not-redis"
		_, cleanup, err := cfg.ClientConfig(ctx)
		require.Error(t, err)
		assert.NoError(t, cleanup())
	})
}

func TestLoggerConfig(t *testing.T) {
	console := LoggingConfig{Level: "debug", Format: "console"}.LoggerConfig()
	assert.Equal(t, logging.LevelDebug, console.Level)
	assert.True(t, console.Pretty)

	jsonCfg := LoggingConfig{Level: "warning", Format: "json"}.LoggerConfig()
	assert.Equal(t, logging.LevelWarn, jsonCfg.Level)
	assert.False(t, jsonCfg.Pretty)
}
