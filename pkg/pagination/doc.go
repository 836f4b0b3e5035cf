// Package pagination fetches every page of a numbered-page BGG listing
// (guild members, user buddies and guilds, plays) with bounded concurrency.
//
// Example usage:
//
//	fetcher := pagination.NewBatchFetcher[*model.Guild](pageFunc, pagination.DefaultConfig())
//	pages, err := fetcher.FetchAllPages(ctx)
//
// The batch fetcher:
//   - Fetches page 1 to learn the total page count
//   - Fetches pages 2..N on an errgroup limited to MaxConcurrency workers
//   - Returns pages in order, or the first error (which cancels the rest)
//   - Reports progress through an optional callback
package pagination
