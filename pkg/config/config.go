// Package config loads CLI configuration from YAML files, BGG_* environment
// variables and flags, and turns it into a client.Config.
package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/client"
	"github.com/Sternrassler/bgg-client/pkg/logging"
	"github.com/Sternrassler/bgg-client/pkg/ratelimit"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to environment overrides, e.g. BGG_RETRY_MAX_RETRIES.
const EnvPrefix = "BGG"

// Rate limit strategies.
const (
	StrategyWindow = "window"
	StrategyBucket = "bucket"
	StrategyRedis  = "redis"
)

var (
	strategies = []string{StrategyWindow, StrategyBucket, StrategyRedis}
	formats    = []string{"auto", "console", "json"}
)

// NewViper returns a viper instance with defaults and environment binding.
// Callers may bind flags to it before passing it to LoadViper.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load loads the configuration from file
func Load(configPath string) (*Config, error) {
	return LoadViper(NewViper(), configPath)
}

// LoadViper reads configPath into v, or looks for config.yaml in the
// standard locations when configPath is empty. A missing file in the
// standard locations is not an error.
func LoadViper(v *viper.Viper, configPath string) (*Config, error) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".bgg-client"))
		}

		v.AddConfigPath("/etc/bgg-client/")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults mirrors client.DefaultConfig.
func setDefaults(v *viper.Viper) {
	defaults := client.DefaultConfig()

	v.SetDefault("api.base_url", defaults.BaseURL)
	v.SetDefault("api.user_agent", defaults.UserAgent)
	v.SetDefault("api.timeout", defaults.Timeout)
	v.SetDefault("api.insecure_skip_verify", false)
	v.SetDefault("api.max_concurrency", defaults.MaxConcurrency)

	v.SetDefault("cache.uri", defaults.CacheURI)
	v.SetDefault("cache.ttl", 0)

	v.SetDefault("rate_limit.requests_per_minute", defaults.RequestsPerMinute)
	v.SetDefault("rate_limit.strategy", StrategyWindow)
	v.SetDefault("rate_limit.redis_url", "")
	v.SetDefault("rate_limit.redis_key", ratelimit.DefaultRedisKey)

	v.SetDefault("retry.max_retries", defaults.MaxRetries)
	v.SetDefault("retry.delay", defaults.RetryDelay)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "auto")
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url must be an http(s) URL: %q", cfg.API.BaseURL)
	}
	if strings.TrimSpace(cfg.API.UserAgent) == "" {
		return fmt.Errorf("api.user_agent is required")
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be >= 0 (got %s)", cfg.API.Timeout)
	}
	if cfg.API.MaxConcurrency < 1 {
		return fmt.Errorf("api.max_concurrency must be >= 1 (got %d)", cfg.API.MaxConcurrency)
	}

	if cfg.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be >= 0 (got %s)", cfg.Cache.TTL)
	}

	if cfg.RateLimit.RequestsPerMinute < 0 {
		return fmt.Errorf("rate_limit.requests_per_minute must be >= 0 (got %d)", cfg.RateLimit.RequestsPerMinute)
	}
	if !slices.Contains(strategies, cfg.RateLimit.Strategy) {
		return fmt.Errorf("invalid rate_limit.strategy: %s (must be one of %s)",
			cfg.RateLimit.Strategy, strings.Join(strategies, ", "))
	}
	if cfg.RateLimit.Strategy == StrategyRedis && cfg.RateLimit.RedisURL == "" {
		return fmt.Errorf("rate_limit.redis_url is required for the redis strategy")
	}

	if cfg.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must be >= 0 (got %d)", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.Delay < 0 {
		return fmt.Errorf("retry.delay must be >= 0 (got %s)", cfg.Retry.Delay)
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}
	if !slices.Contains(formats, cfg.Logging.Format) {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}

// ClientConfig converts cfg into a client.Config. The returned cleanup
// releases resources opened for the rate limiter and must be called after
// the client is closed.
func (cfg *Config) ClientConfig(ctx context.Context) (client.Config, func() error, error) {
	cleanup := func() error { return nil }

	limiter, closer, err := cfg.limiter(ctx)
	if err != nil {
		return client.Config{}, cleanup, err
	}
	if closer != nil {
		cleanup = closer
	}

	return client.Config{
		BaseURL:            cfg.API.BaseURL,
		UserAgent:          cfg.API.UserAgent,
		CacheURI:           cfg.Cache.URI,
		CacheTTL:           cfg.Cache.TTL,
		Limiter:            limiter,
		RequestsPerMinute:  cfg.RateLimit.RequestsPerMinute,
		MaxRetries:         cfg.Retry.MaxRetries,
		RetryDelay:         cfg.Retry.Delay,
		Timeout:            cfg.API.Timeout,
		InsecureSkipVerify: cfg.API.InsecureSkipVerify,
		MaxConcurrency:     cfg.API.MaxConcurrency,
	}, cleanup, nil
}

func (cfg *Config) limiter(ctx context.Context) (ratelimit.Limiter, func() error, error) {
	rpm := cfg.RateLimit.RequestsPerMinute

	switch cfg.RateLimit.Strategy {
	case StrategyBucket:
		return ratelimit.NewTokenBucket(rpm), nil, nil

	case StrategyRedis:
		opts, err := redis.ParseURL(cfg.RateLimit.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse rate_limit.redis_url: %w", err)
		}
		rdb := redis.NewClient(opts)
		if err := rdb.Ping(ctx).Err(); err != nil {
			rdb.Close()
			return nil, nil, fmt.Errorf("connect rate limit redis: %w", err)
		}
		return ratelimit.NewRedisWindow(rdb, cfg.RateLimit.RedisKey, rpm), rdb.Close, nil

	default:
		return ratelimit.NewSlidingWindow(rpm), nil, nil
	}
}

// LoggerConfig converts the logging section into a logging.Config.
func (l LoggingConfig) LoggerConfig() logging.Config {
	out := logging.DefaultConfig()
	// Level was validated by Load.
	out.Level, _ = logging.ParseLevel(l.Level)

	switch l.Format {
	case "console":
		out.Pretty = true
	case "json":
		out.Pretty = false
	}
	return out
}
