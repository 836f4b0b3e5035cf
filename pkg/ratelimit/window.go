package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SlidingWindow admits at most limit requests in any trailing window.
// It is safe for concurrent use; waiters are not served in strict FIFO order.
type SlidingWindow struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	granted []time.Time
	now     func() time.Time
	logger  zerolog.Logger
}

// NewSlidingWindow creates a limiter allowing requestsPerWindow grants per
// window (one minute unless WithWindow is given). Zero or less disables limiting.
func NewSlidingWindow(requestsPerWindow int, opts ...Option) *SlidingWindow {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	capacity := requestsPerWindow
	if capacity < 0 {
		capacity = 0
	}

	return &SlidingWindow{
		limit:   requestsPerWindow,
		window:  o.window,
		granted: make([]time.Time, 0, capacity),
		now:     o.now,
		logger:  o.logger,
	}
}

// Acquire blocks until a slot is free in the trailing window.
func (w *SlidingWindow) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.limit <= 0 {
		return nil
	}

	var started time.Time
	for {
		wait := w.tryAcquire()
		if wait <= 0 {
			if !started.IsZero() {
				rateLimitWaitSeconds.WithLabelValues("window").Observe(time.Since(started).Seconds())
			}
			return nil
		}

		if started.IsZero() {
			started = time.Now()
			rateLimitWaitsTotal.WithLabelValues("window").Inc()
			w.logger.Debug().
				Int("limit", w.limit).
				Dur("wait", wait).
				Msg("Rate limit reached, waiting for slot")
		}

		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// tryAcquire records a grant if a slot is free and returns 0,
// otherwise it returns how long until the oldest grant leaves the window.
func (w *SlidingWindow) tryAcquire() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.now()
	w.evict(now)

	if len(w.granted) < w.limit {
		w.granted = append(w.granted, now)
		return 0
	}
	return w.granted[0].Add(w.window).Sub(now)
}

// evict drops grants that are at least one window old.
func (w *SlidingWindow) evict(now time.Time) {
	i := 0
	for i < len(w.granted) && now.Sub(w.granted[i]) >= w.window {
		i++
	}
	if i > 0 {
		w.granted = append(w.granted[:0], w.granted[i:]...)
	}
}

// State returns a snapshot of the window.
func (w *SlidingWindow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := State{Limit: w.limit}
	if w.limit <= 0 {
		return s
	}

	now := w.now()
	w.evict(now)

	s.InWindow = len(w.granted)
	if len(w.granted) > 0 {
		s.OldestAt = w.granted[0]
	}
	if len(w.granted) >= w.limit {
		s.NextSlotIn = w.granted[0].Add(w.window).Sub(now)
	}
	return s
}
