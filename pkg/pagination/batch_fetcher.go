package pagination

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Config holds batch fetcher configuration
type Config struct {
	// MaxConcurrency is the maximum number of pages fetched at once.
	// The client's rate limiter still paces the actual requests.
	MaxConcurrency int

	// Progress, if set, is called after each page with pages fetched so far and the total.
	// Calls never overlap and fetched strictly increases, so the callback
	// needs no locking of its own. It must not block for long.
	Progress func(fetched, total int)
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 4,
	}
}

// PageFetcher fetches a single page and reports how many pages exist in total.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, page int) (data T, totalPages int, err error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, page int) (T, int, error)

// FetchPage calls f.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, page int) (T, int, error) {
	return f(ctx, page)
}

// BatchFetcher handles concurrent fetching of numbered pages
type BatchFetcher[T any] struct {
	fetcher PageFetcher[T]
	config  Config
}

// NewBatchFetcher creates a new batch fetcher
func NewBatchFetcher[T any](fetcher PageFetcher[T], config Config) *BatchFetcher[T] {
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = DefaultConfig().MaxConcurrency
	}

	return &BatchFetcher[T]{
		fetcher: fetcher,
		config:  config,
	}
}

// FetchAllPages returns every page in page order. Any page failure aborts
// the batch and is returned; partial results are discarded.
func (bf *BatchFetcher[T]) FetchAllPages(ctx context.Context) ([]T, error) {
	start := time.Now()

	first, totalPages, err := bf.fetcher.FetchPage(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("fetch page 1: %w", err)
	}
	if totalPages < 1 {
		totalPages = 1
	}

	results := make([]T, totalPages)
	results[0] = first
	bf.report(1, totalPages)

	if totalPages == 1 {
		return results, nil
	}

	log.Debug().
		Int("total_pages", totalPages).
		Int("workers", bf.config.MaxConcurrency).
		Msg("Starting concurrent page fetch")

	var (
		mu      sync.Mutex
		fetched = 1
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bf.config.MaxConcurrency)

	for page := 2; page <= totalPages; page++ {
		g.Go(func() error {
			data, _, err := bf.fetcher.FetchPage(gctx, page)
			if err != nil {
				return fmt.Errorf("fetch page %d: %w", page, err)
			}

			mu.Lock()
			defer mu.Unlock()
			results[page-1] = data
			fetched++
			bf.report(fetched, totalPages)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.Warn().
			Err(err).
			Int("total_pages", totalPages).
			Msg("Page fetch failed")
		return nil, err
	}

	log.Debug().
		Int("pages", totalPages).
		Dur("duration", time.Since(start)).
		Msg("Page fetch complete")

	return results, nil
}

func (bf *BatchFetcher[T]) report(fetched, total int) {
	if bf.config.Progress != nil {
		bf.config.Progress(fetched, total)
	}
}

// TotalPages returns how many pages hold totalItems at perPage items each.
// An empty listing still has one page.
func TotalPages(totalItems, perPage int) int {
	if perPage <= 0 || totalItems <= perPage {
		return 1
	}
	return (totalItems + perPage - 1) / perPage
}
