// Package transport sends rate-limited, retried requests to the
// BoardGameGeek XML API and classifies failures.
package transport

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/Sternrassler/bgg-client/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for outgoing requests.
var (
	bggRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bgg_requests_total",
		Help: "Total BGG requests by endpoint and status",
	}, []string{"endpoint", "status"})

	bggRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bgg_request_duration_seconds",
		Help:    "BGG request duration in seconds by endpoint, retries included",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	}, []string{"endpoint"})

	bggErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bgg_errors_total",
		Help: "Total BGG request failures by kind",
	}, []string{"kind"})
)

// DefaultBaseURL is the public XML API v2 root.
const DefaultBaseURL = "https://boardgamegeek.com/xmlapi2"

// Sender sends a request and returns the raw response body.
type Sender interface {
	Send(ctx context.Context, req Request) ([]byte, error)
}

// Config holds the transport configuration.
type Config struct {
	// BaseURL is prepended to every endpoint.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// Limiter is consulted before every attempt, retries included.
	// Nil means no pacing.
	Limiter ratelimit.Limiter

	// Retry schedule for timeouts and service-unavailable responses.
	Retry RetryPolicy

	// Timeout bounds a single attempt. Zero means no per-attempt timeout.
	Timeout time.Duration

	// InsecureSkipVerify disables TLS certificate checks.
	InsecureSkipVerify bool

	// HTTPClient overrides the default client. InsecureSkipVerify is ignored when set.
	HTTPClient *http.Client

	// Logger for request diagnostics. Nil falls back to the global logger.
	Logger *zerolog.Logger
}

// DefaultConfig returns the transport defaults.
func DefaultConfig() Config {
	return Config{
		BaseURL:   DefaultBaseURL,
		UserAgent: "bgg-client/1.0",
		Retry: RetryPolicy{
			MaxRetries: 3,
			Delay:      5 * time.Second,
		},
		Timeout: 15 * time.Second,
	}
}

// Transport is the retrying, rate-limited network layer.
type Transport struct {
	httpClient *http.Client
	limiter    ratelimit.Limiter
	config     Config
	logger     zerolog.Logger
}

// New creates a transport.
func New(cfg Config) (*Transport, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Retry.MaxRetries < 0 {
		return nil, fmt.Errorf("max retries must be >= 0 (got %d)", cfg.Retry.MaxRetries)
	}
	if cfg.Retry.Delay < 0 {
		return nil, fmt.Errorf("retry delay must be >= 0 (got %s)", cfg.Retry.Delay)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("timeout must be >= 0 (got %s)", cfg.Timeout)
	}

	logger := log.With().Str("component", "bgg-transport").Logger()
	if cfg.Logger != nil {
		logger = cfg.Logger.With().Str("component", "bgg-transport").Logger()
	}

	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		base := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.InsecureSkipVerify {
			logger.Warn().Msg("TLS certificate verification disabled")
			base.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in
		}
		httpClient = &http.Client{Transport: base}
	}

	return &Transport{
		httpClient: httpClient,
		limiter:    limiter,
		config:     cfg,
		logger:     logger,
	}, nil
}

// Send performs req, retrying timeouts and service-unavailable answers with
// a fixed delay. It returns the body of the first successful response.
func (t *Transport) Send(ctx context.Context, req Request) ([]byte, error) {
	startTime := time.Now()
	defer func() {
		bggRequestDuration.WithLabelValues(req.Endpoint()).Observe(time.Since(startTime).Seconds())
	}()

	var body []byte
	err := retryFixed(ctx, t.config.Retry, req.Endpoint(), t.logger, func(attempt int) error {
		var err error
		body, err = t.attempt(ctx, req, attempt)
		return err
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}

// attempt performs one rate-limited round trip.
func (t *Transport) attempt(ctx context.Context, req Request, attempt int) ([]byte, error) {
	if err := t.limiter.Acquire(ctx); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
		t.logger.Error().Err(err).Str("endpoint", req.Endpoint()).Msg("Rate limiter unavailable")
		return nil, &CacheError{Op: "ratelimit", Err: err}
	}

	attemptCtx := ctx
	if t.config.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, t.config.Timeout)
		defer cancel()
	}

	target := req.URL(t.config.BaseURL)
	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method(), target, nil)
	if err != nil {
		return nil, &Error{Kind: KindInvalidRequest, Endpoint: req.Endpoint(), Err: err}
	}
	httpReq.Header.Set("User-Agent", t.config.UserAgent)
	httpReq.Header.Set("Accept", "application/xml")

	t.logger.Debug().
		Str("endpoint", req.Endpoint()).
		Str("url", target).
		Int("attempt", attempt).
		Msg("Executing BGG request")

	resp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, t.networkError(ctx, req, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, t.networkError(ctx, req, err)
	}

	kind := classifyStatus(resp.StatusCode)
	bggRequestsTotal.WithLabelValues(req.Endpoint(), strconv.Itoa(resp.StatusCode)).Inc()
	if kind == "" {
		return body, nil
	}

	bggErrorsTotal.WithLabelValues(string(kind)).Inc()
	t.logger.Warn().
		Str("endpoint", req.Endpoint()).
		Int("status", resp.StatusCode).
		Str("kind", string(kind)).
		Int("attempt", attempt).
		Msg("BGG request error")

	return nil, &Error{
		Kind:       kind,
		Endpoint:   req.Endpoint(),
		StatusCode: resp.StatusCode,
		Err:        errors.New(resp.Status),
	}
}

// networkError classifies a failure that produced no usable response.
// Cancellation of the caller's context is returned as-is and never retried.
func (t *Transport) networkError(ctx context.Context, req Request, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	kind := KindServiceUnavailable
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}

	bggErrorsTotal.WithLabelValues(string(kind)).Inc()
	bggRequestsTotal.WithLabelValues(req.Endpoint(), string(kind)).Inc()
	t.logger.Warn().
		Err(err).
		Str("endpoint", req.Endpoint()).
		Str("kind", string(kind)).
		Msg("BGG request failed")

	return &Error{Kind: kind, Endpoint: req.Endpoint(), Err: err}
}
