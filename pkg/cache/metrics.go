package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by backend (memory, sqlite, redis)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgg_cache_hits_total",
			Help: "Total number of BGG response cache hits",
		},
		[]string{"backend"},
	)

	// CacheMisses tracks cache misses by backend, including expired entries
	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgg_cache_misses_total",
			Help: "Total number of BGG response cache misses",
		},
		[]string{"backend"},
	)

	// CacheStoredBytes tracks payload bytes written per backend
	CacheStoredBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgg_cache_stored_bytes_total",
			Help: "Total number of payload bytes written to the BGG response cache",
		},
		[]string{"backend"},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bgg_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"backend", "operation"}, // "get", "put", "clear"
	)
)
