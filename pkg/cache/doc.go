// Package cache stores raw BoardGameGeek response payloads keyed by request.
//
// Every backend implements Store and keeps opaque bytes with a per-entry
// time-to-live. An entry older than its TTL is never returned.
//
// Backends:
//
//   - NoCache: every lookup misses, every store is discarded
//   - MemoryCache: process-local map, optional background janitor
//   - DurableCache: SQLite file, survives restarts
//   - RedisCache: shared between processes, TTL enforced by Redis
//
// # Basic Usage
//
//	store, ttl, err := cache.Open(ctx, "sqlite:///var/lib/bgg/cache.db?ttl=3600")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//
//	key := cache.CacheKey{
//		Endpoint: "thing",
//		Params:   url.Values{"id": []string{"31260"}},
//	}
//
//	data, err := store.Get(ctx, key.String())
//	if errors.Is(err, cache.ErrCacheMiss) {
//		// fetch from the API, then
//		_ = store.Put(ctx, key.String(), payload, ttl)
//	}
//
// # Metrics
//
//   - bgg_cache_hits_total{backend}
//   - bgg_cache_misses_total{backend}
//   - bgg_cache_errors_total{backend,operation}
//   - bgg_cache_stored_bytes_total{backend}
package cache
