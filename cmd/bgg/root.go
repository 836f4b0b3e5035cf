package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/Sternrassler/bgg-client/pkg/client"
	"github.com/Sternrassler/bgg-client/pkg/config"
	"github.com/Sternrassler/bgg-client/pkg/logging"
	"github.com/Sternrassler/bgg-client/pkg/metrics"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app holds the state shared by all subcommands of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer

	v            *viper.Viper
	cfgFile      string
	outputFormat string
	dumpMetrics  bool

	logger  zerolog.Logger
	client  *client.Client
	cleanup func() error
}

// execute runs the CLI with args and releases the client afterwards,
// whether or not the command succeeded.
func execute(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{out: out, errOut: errOut, v: config.NewViper()}

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)

	err := root.ExecuteContext(ctx)
	return errors.Join(err, a.close())
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bgg",
		Short: "Query the BoardGameGeek XML API",
		Long: `bgg fetches games, collections, guilds, users, plays and hot lists from
the BoardGameGeek XML API v2 and prints them as JSON or YAML.

Responses are cached and requests are paced to stay within BGG's rate
limit. Configuration is read from config.yaml (current directory,
~/.bgg-client or /etc/bgg-client), BGG_* environment variables and flags.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.initialize,
	}

	defaults := client.DefaultConfig()

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./config.yaml)")
	flags.StringVarP(&a.outputFormat, "output", "o", "json", "output format: json or yaml")
	flags.BoolVar(&a.dumpMetrics, "metrics", false, "print client metrics to stderr on exit")

	flags.String("base-url", defaults.BaseURL, "XML API base URL")
	flags.String("user-agent", defaults.UserAgent, "User-Agent header sent to BGG")
	flags.Duration("timeout", defaults.Timeout, "per-request timeout")
	flags.Bool("insecure", false, "skip TLS certificate verification")
	flags.Int("concurrency", defaults.MaxConcurrency, "maximum parallel requests for batches and pages")
	flags.String("cache", defaults.CacheURI, "cache URI (none://, memory://, sqlite:///path.db, redis://host:6379/0)")
	flags.Duration("cache-ttl", 0, "cache entry lifetime when the cache URI has no ttl")
	flags.Int("rpm", defaults.RequestsPerMinute, "requests per minute (0 disables pacing)")
	flags.String("rate-limit", config.StrategyWindow, "rate limit strategy: window, bucket or redis")
	flags.String("rate-limit-redis", "", "Redis URL for the redis rate limit strategy")
	flags.Int("retries", defaults.MaxRetries, "retries after a retryable failure")
	flags.Duration("retry-delay", defaults.RetryDelay, "wait between attempts")
	flags.String("log-level", "info", "log level: debug, info, warn, error or disabled")
	flags.String("log-format", "auto", "log format: auto, console or json")

	bindings := map[string]string{
		"api.base_url":                   "base-url",
		"api.user_agent":                 "user-agent",
		"api.timeout":                    "timeout",
		"api.insecure_skip_verify":       "insecure",
		"api.max_concurrency":            "concurrency",
		"cache.uri":                      "cache",
		"cache.ttl":                      "cache-ttl",
		"rate_limit.requests_per_minute": "rpm",
		"rate_limit.strategy":            "rate-limit",
		"rate_limit.redis_url":           "rate-limit-redis",
		"retry.max_retries":              "retries",
		"retry.delay":                    "retry-delay",
		"logging.level":                  "log-level",
		"logging.format":                 "log-format",
	}
	for key, name := range bindings {
		// Lookup cannot fail for flags registered above.
		_ = a.v.BindPFlag(key, flags.Lookup(name))
	}

	root.AddCommand(
		a.gameCmd(),
		a.gamesCmd(),
		a.searchCmd(),
		a.hotCmd(),
		a.collectionCmd(),
		a.guildCmd(),
		a.userCmd(),
		a.playsCmd(),
		a.cacheCmd(),
	)

	return root
}

// initialize loads the configuration and builds the client.
func (a *app) initialize(cmd *cobra.Command, _ []string) error {
	if !slices.Contains(outputFormats, a.outputFormat) {
		return fmt.Errorf("unknown output format %q (must be json or yaml)", a.outputFormat)
	}

	cfg, err := config.LoadViper(a.v, a.cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := cfg.Logging.LoggerConfig()
	logCfg.Output = a.errOut
	base := logging.Setup(logCfg)
	a.logger = logging.NewLogger("cli")

	clientCfg, cleanup, err := cfg.ClientConfig(cmd.Context())
	a.cleanup = cleanup
	if err != nil {
		return fmt.Errorf("failed to configure client: %w", err)
	}
	clientCfg.Logger = &base

	a.client, err = client.New(clientCfg)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}

	a.logger.Debug().
		Str("base_url", cfg.API.BaseURL).
		Str("cache", cfg.Cache.URI).
		Str("rate_limit", cfg.RateLimit.Strategy).
		Int("rpm", cfg.RateLimit.RequestsPerMinute).
		Msg("Client ready")
	return nil
}

// close releases the client and the rate limiter backend, then dumps
// metrics when requested.
func (a *app) close() error {
	var errs []error
	if a.client != nil {
		errs = append(errs, a.client.Close())
	}
	if a.cleanup != nil {
		errs = append(errs, a.cleanup())
	}
	if a.dumpMetrics {
		errs = append(errs, metrics.WriteText(a.errOut, metrics.Gatherer, metrics.Prefix))
	}
	return errors.Join(errs...)
}

// progress logs page progress of paginated commands.
func (a *app) progress(what string) client.PageOption {
	return client.WithProgress(func(fetched, total int) {
		a.logger.Debug().
			Str("resource", what).
			Int("fetched", fetched).
			Int("total", total).
			Msg("Fetched page")
	})
}
