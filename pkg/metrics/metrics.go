// Package metrics provides centralized Prometheus metrics registry for the BGG client.
// All metrics are defined in their respective packages (transport, cache, ratelimit)
// to maintain modularity and avoid circular dependencies.
//
// This package provides documentation, reference and a text dump of the
// client's metrics for processes that do not run a /metrics endpoint.
package metrics

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// Prefix is shared by every metric the client registers.
const Prefix = "bgg_"

// Registry is the default Prometheus registry used by the BGG client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Gatherer reads back the metrics registered in Registry.
var Gatherer = prometheus.DefaultGatherer

// WriteText writes every metric family from g whose name starts with prefix
// in the Prometheus text exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer, prefix string) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), prefix) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

// Metrics Documentation
//
// Rate Limit Metrics (pkg/ratelimit):
//   - bgg_rate_limit_waits_total{limiter} (Counter): Acquisitions that had to wait for a slot
//   - bgg_rate_limit_wait_seconds{limiter} (Histogram): Time spent waiting for a slot
//
// Cache Metrics (pkg/cache):
//   - bgg_cache_hits_total{backend} (Counter): Cache hits by backend (memory, sqlite, redis)
//   - bgg_cache_misses_total{backend} (Counter): Cache misses, expired entries included
//   - bgg_cache_stored_bytes_total{backend} (Counter): Payload bytes written
//   - bgg_cache_errors_total{backend, operation} (Counter): Backend failures
//
// Request Metrics (pkg/transport):
//   - bgg_requests_total{endpoint, status} (Counter): Attempts by endpoint and HTTP status or failure kind
//   - bgg_request_duration_seconds{endpoint} (Histogram): Send duration, retries included
//   - bgg_errors_total{kind} (Counter): Failed attempts by kind (timeout, service_unavailable, ...)
//   - bgg_shared_fetches_total (Counter): Callers served by another caller's in-flight fetch
//
// Retry Metrics (pkg/transport):
//   - bgg_retries_total{kind} (Counter): Retry attempts by error kind
//   - bgg_retry_exhausted_total{kind} (Counter): Requests that exhausted max retries
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(bgg_cache_hits_total[5m])) /
//   (sum(rate(bgg_cache_hits_total[5m])) + sum(rate(bgg_cache_misses_total[5m])))
//
//   # Collection exports still processing
//   rate(bgg_requests_total{endpoint="collection", status="202"}[5m])
//
//   # Time lost to the rate limiter
//   rate(bgg_rate_limit_wait_seconds_sum[5m])
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(bgg_request_duration_seconds_bucket[5m]))
