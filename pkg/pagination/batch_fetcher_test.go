package pagination

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		items, perPage, want int
	}{
		{0, 25, 1},
		{1, 25, 1},
		{25, 25, 1},
		{26, 25, 2},
		{100, 25, 4},
		{101, 100, 2},
		{10, 0, 1},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.items, tt.perPage); got != tt.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", tt.items, tt.perPage, got, tt.want)
		}
	}
}

func TestFetchAllPages_Ordered(t *testing.T) {
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) (int, int, error) {
		// Later pages finish first.
		time.Sleep(time.Duration(10-page) * time.Millisecond)
		return page * 10, 6, nil
	})

	var (
		mu       sync.Mutex
		progress []int
	)
	bf := NewBatchFetcher[int](fetcher, Config{
		MaxConcurrency: 3,
		Progress: func(fetched, total int) {
			mu.Lock()
			defer mu.Unlock()
			if total != 6 {
				t.Errorf("progress total = %d, want 6", total)
			}
			progress = append(progress, fetched)
		},
	})

	pages, err := bf.FetchAllPages(context.Background())
	if err != nil {
		t.Fatalf("FetchAllPages failed: %v", err)
	}

	want := []int{10, 20, 30, 40, 50, 60}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("pages[%d] = %d, want %d", i, pages[i], want[i])
		}
	}
	if len(progress) != 6 || progress[len(progress)-1] != 6 {
		t.Errorf("progress calls = %v", progress)
	}
}

func TestFetchAllPages_SinglePage(t *testing.T) {
	var calls atomic.Int32
	fetcher := PageFetcherFunc[string](func(ctx context.Context, page int) (string, int, error) {
		calls.Add(1)
		return "only", 1, nil
	})

	pages, err := NewBatchFetcher[string](fetcher, DefaultConfig()).FetchAllPages(context.Background())
	if err != nil {
		t.Fatalf("FetchAllPages failed: %v", err)
	}
	if len(pages) != 1 || pages[0] != "only" {
		t.Errorf("pages = %v", pages)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetchAllPages_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) (int, int, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		return page, 20, nil
	})

	if _, err := NewBatchFetcher[int](fetcher, Config{MaxConcurrency: 2}).FetchAllPages(context.Background()); err != nil {
		t.Fatalf("FetchAllPages failed: %v", err)
	}
	if peak.Load() > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak.Load())
	}
}

func TestFetchAllPages_Error(t *testing.T) {
	boom := errors.New("boom")
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) (int, int, error) {
		if page == 3 {
			return 0, 0, boom
		}
		return page, 5, nil
	})

	_, err := NewBatchFetcher[int](fetcher, DefaultConfig()).FetchAllPages(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestFetchAllPages_FirstPageError(t *testing.T) {
	boom := errors.New("boom")
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) (int, int, error) {
		return 0, 0, boom
	})

	_, err := NewBatchFetcher[int](fetcher, DefaultConfig()).FetchAllPages(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
}

func TestFetchAllPages_ProgressSerialized(t *testing.T) {
	const total = 20
	fetcher := PageFetcherFunc[int](func(ctx context.Context, page int) (int, int, error) {
		time.Sleep(time.Duration(page%3) * time.Millisecond)
		return page, total, nil
	})

	// Deliberately unsynchronized: the fetcher must serialize calls.
	var seen []int
	var inCall atomic.Int32
	bf := NewBatchFetcher[int](fetcher, Config{
		MaxConcurrency: 8,
		Progress: func(fetched, _ int) {
			if inCall.Add(1) != 1 {
				t.Error("progress callback called concurrently")
			}
			seen = append(seen, fetched)
			inCall.Add(-1)
		},
	})

	if _, err := bf.FetchAllPages(context.Background()); err != nil {
		t.Fatalf("FetchAllPages failed: %v", err)
	}

	if len(seen) != total {
		t.Fatalf("progress called %d times, want %d", len(seen), total)
	}
	for i, n := range seen {
		if n != i+1 {
			t.Fatalf("progress[%d] = %d, want %d (calls %v)", i, n, i+1, seen)
		}
	}
}
