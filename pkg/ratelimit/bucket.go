package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// TokenBucket spaces requests evenly: one token every window/limit,
// with a burst of one. Unlike SlidingWindow it never lets a full window's
// worth of requests through back to back.
type TokenBucket struct {
	limiter *rate.Limiter
}

// NewTokenBucket creates a limiter issuing requestsPerWindow tokens per window.
// Zero or less disables limiting.
func NewTokenBucket(requestsPerWindow int, opts ...Option) *TokenBucket {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if requestsPerWindow <= 0 {
		return &TokenBucket{limiter: rate.NewLimiter(rate.Inf, 1)}
	}

	interval := o.window / time.Duration(requestsPerWindow)
	return &TokenBucket{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Acquire waits for a token.
func (b *TokenBucket) Acquire(ctx context.Context) error {
	if b.limiter.Limit() == rate.Inf {
		return ctx.Err()
	}

	if b.limiter.Allow() {
		return nil
	}

	rateLimitWaitsTotal.WithLabelValues("bucket").Inc()
	started := time.Now()
	if err := b.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return err
	}
	rateLimitWaitSeconds.WithLabelValues("bucket").Observe(time.Since(started).Seconds())
	return nil
}
