package ratelimit

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultWindow is the length of the trailing window requests are counted in.
const DefaultWindow = time.Minute

// Prometheus metrics for request pacing.
var (
	rateLimitWaitsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bgg_rate_limit_waits_total",
		Help: "Total number of requests that had to wait for a rate limit slot",
	}, []string{"limiter"})

	rateLimitWaitSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bgg_rate_limit_wait_seconds",
		Help:    "Time spent waiting for a rate limit slot",
		Buckets: []float64{0.01, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"limiter"})
)

// Limiter gates requests before they are sent.
type Limiter interface {
	// Acquire blocks until the caller may send one request.
	// It returns ctx's error when ctx ends first. Limiters backed by a
	// shared store also fail when that store cannot be reached.
	Acquire(ctx context.Context) error
}

// Unlimited admits every request immediately.
type Unlimited struct{}

// Acquire returns at once unless ctx is already done.
func (Unlimited) Acquire(ctx context.Context) error {
	return ctx.Err()
}

// Option configures a limiter.
type Option func(*options)

type options struct {
	window time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

func defaultOptions() options {
	return options{
		window: DefaultWindow,
		now:    time.Now,
		logger: log.With().Str("component", "ratelimit").Logger(),
	}
}

// WithWindow changes the window length. Non-positive values are ignored.
func WithWindow(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.window = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger used for wait diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// sleep waits for d or until ctx ends.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
