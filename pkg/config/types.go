package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Cache     CacheConfig     `mapstructure:"cache"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Retry     RetryConfig     `mapstructure:"retry"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig holds XML API connection details
type APIConfig struct {
	BaseURL            string        `mapstructure:"base_url"`
	UserAgent          string        `mapstructure:"user_agent"`
	Timeout            time.Duration `mapstructure:"timeout"`
	InsecureSkipVerify bool          `mapstructure:"insecure_skip_verify"`
	MaxConcurrency     int           `mapstructure:"max_concurrency"`
}

// CacheConfig selects the response cache
type CacheConfig struct {
	// URI is "none://", "memory://", "sqlite:///path.db" or "redis://host:6379/0",
	// optionally with ?ttl=<seconds>.
	URI string        `mapstructure:"uri"`
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig contains request pacing settings
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute"`

	// Strategy is "window", "bucket" or "redis".
	Strategy string `mapstructure:"strategy"`

	// RedisURL and RedisKey configure the shared "redis" strategy.
	RedisURL string `mapstructure:"redis_url"`
	RedisKey string `mapstructure:"redis_key"`
}

// RetryConfig contains the fixed-delay retry schedule
type RetryConfig struct {
	MaxRetries int           `mapstructure:"max_retries"`
	Delay      time.Duration `mapstructure:"delay"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`

	// Format is "auto", "console" or "json". Auto picks console on a terminal.
	Format string `mapstructure:"format"`
}
