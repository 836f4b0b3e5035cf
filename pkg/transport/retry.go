package transport

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for retry operations.
var (
	bggRetriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bgg_retries_total",
		Help: "Total number of retry attempts by error kind",
	}, []string{"kind"})

	bggRetryExhaustedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bgg_retry_exhausted_total",
		Help: "Total number of times retry attempts were exhausted by error kind",
	}, []string{"kind"})
)

// RetryPolicy is a fixed-delay retry schedule.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first one.
	MaxRetries int

	// Delay is the pause between attempts.
	Delay time.Duration
}

// retryFixed runs fn until it succeeds, fails with a non-retryable error,
// or MaxRetries+1 attempts have failed. fn receives the 1-based attempt number.
func retryFixed(ctx context.Context, policy RetryPolicy, endpoint string, logger zerolog.Logger, fn func(attempt int) error) error {
	var lastErr *Error

	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		if err == nil {
			if attempt > 1 {
				logger.Info().
					Str("endpoint", endpoint).
					Int("attempt", attempt).
					Msg("Request succeeded after retry")
			}
			return nil
		}

		var terr *Error
		if !errors.As(err, &terr) || !terr.Kind.Retryable() {
			return err
		}
		lastErr = terr

		if attempt > policy.MaxRetries {
			break
		}

		bggRetriesTotal.WithLabelValues(string(terr.Kind)).Inc()
		logger.Debug().
			Str("endpoint", endpoint).
			Str("kind", string(terr.Kind)).
			Int("attempt", attempt).
			Dur("delay", policy.Delay).
			Msg("Retrying request after delay")

		timer := time.NewTimer(policy.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Warn().
				Str("endpoint", endpoint).
				Int("attempt", attempt).
				Msg("Context cancelled during retry delay")
			return fmt.Errorf("%w: %w", ErrContextCancelled, ctx.Err())
		case <-timer.C:
		}
	}

	attempts := policy.MaxRetries + 1
	bggRetryExhaustedTotal.WithLabelValues(string(lastErr.Kind)).Inc()
	logger.Warn().
		Str("endpoint", endpoint).
		Str("kind", string(lastErr.Kind)).
		Int("attempts", attempts).
		Msg("Retry attempts exhausted")

	return &Error{
		Kind:       KindExhausted,
		Endpoint:   endpoint,
		StatusCode: lastErr.StatusCode,
		Attempts:   attempts,
		Err:        lastErr,
	}
}
