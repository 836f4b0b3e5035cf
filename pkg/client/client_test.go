package client

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/Sternrassler/bgg-client/internal/testutil"
	"github.com/Sternrassler/bgg-client/pkg/cache"
	"github.com/Sternrassler/bgg-client/pkg/ratelimit"
	"github.com/Sternrassler/bgg-client/pkg/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRetryDelay = 20 * time.Millisecond

// newTestClient creates a client against mock with fast retries and a memory cache.
func newTestClient(t *testing.T, mock *testutil.MockBGG, mutate func(*Config)) *Client {
	t.Helper()

	cfg := DefaultConfig()
	cfg.BaseURL = mock.URL()
	cfg.UserAgent = "bgg-client-test/1.0"
	cfg.RequestsPerMinute = 0
	cfg.MaxRetries = 2
	cfg.RetryDelay = testRetryDelay
	cfg.Timeout = time.Second
	if mutate != nil {
		mutate(&cfg)
	}

	c, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, transport.DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "memory:///?ttl=3600", cfg.CacheURI)
	assert.Equal(t, 30, cfg.RequestsPerMinute)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 5*time.Second, cfg.RetryDelay)
	assert.Equal(t, 15*time.Second, cfg.Timeout)
	assert.False(t, cfg.InsecureSkipVerify)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		errorMsg string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:     "negative requests per minute",
			mutate:   func(c *Config) { c.RequestsPerMinute = -1 },
			errorMsg: "requests per minute",
		},
		{
			name:     "negative cache ttl",
			mutate:   func(c *Config) { c.CacheTTL = -time.Second },
			errorMsg: "cache ttl",
		},
		{
			name:     "empty user agent",
			mutate:   func(c *Config) { c.UserAgent = "" },
			errorMsg: "user-agent is required",
		},
		{
			name:     "negative retries",
			mutate:   func(c *Config) { c.MaxRetries = -1 },
			errorMsg: "max retries",
		},
		{
			name:     "unknown cache scheme",
			mutate:   func(c *Config) { c.CacheURI = "ftp://cache" },
			errorMsg: "unsupported cache scheme",
		},
		{
			name:     "bad cache ttl",
			mutate:   func(c *Config) { c.CacheURI = "memory:///?ttl=soon" },
			errorMsg: "invalid cache ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)

			c, err := New(cfg)
			if tt.errorMsg == "" {
				require.NoError(t, err)
				c.Close()
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorMsg)
		})
	}
}

func TestNew_CacheTTLPrecedence(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		cacheTTL time.Duration
		want     time.Duration
	}{
		{"uri ttl wins", "memory:///?ttl=60", 5 * time.Minute, time.Minute},
		{"config ttl without uri ttl", "memory://", 5 * time.Minute, 5 * time.Minute},
		{"default", "memory://", 0, cache.DefaultTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ttl, owned, err := openStore(Config{CacheURI: tt.uri, CacheTTL: tt.cacheTTL})
			require.NoError(t, err)
			assert.True(t, owned)
			assert.Equal(t, tt.want, ttl)
		})
	}
}

// Scenario A: a second fetch of the same game is served from cache.
func TestGame_CachedAfterFirstFetch(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("thing", testutil.NewXMLResponse(testutil.ThingItems(42)))

	c := newTestClient(t, mock, nil)
	ctx := context.Background()

	first, err := c.Game(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, first.ID)
	assert.Equal(t, "Game 42", first.Name)

	second, err := c.Game(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, mock.EndpointCount("thing"))

	query := mock.LastQuery()
	assert.Equal(t, "42", query.Get("id"))
	assert.Equal(t, "1", query.Get("stats"))
	assert.Equal(t, "bgg-client-test/1.0", mock.LastHeader().Get("User-Agent"))
}

// Scenario B: a queued collection export is polled until it is ready.
func TestCollection_PollsWhileProcessing(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetSequence("collection",
		testutil.NewAcceptedResponse(),
		testutil.NewAcceptedResponse(),
		testutil.NewXMLResponse(testutil.CollectionAlice),
	)

	c := newTestClient(t, mock, nil)

	start := time.Now()
	coll, err := c.Collection(context.Background(), "alice", CollectionOptions{})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "alice", coll.Owner)
	assert.Len(t, coll.Items, 2)
	assert.Equal(t, 3, mock.EndpointCount("collection"))
	assert.GreaterOrEqual(t, elapsed, 2*testRetryDelay)
}

// Scenario C: an unknown game fails fast with ErrNotFound.
func TestGame_NotFoundIsNotRetried(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("thing", testutil.NewStatusResponse(http.StatusNotFound))

	c := newTestClient(t, mock, nil)

	_, err := c.Game(context.Background(), 999999)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, mock.EndpointCount("thing"))
}

func TestGame_EmptyItemsIsNotFound(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("thing", testutil.NewXMLResponse(testutil.ThingEmpty))

	c := newTestClient(t, mock, nil)

	_, err := c.Game(context.Background(), 999999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGame_Exhausted(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("thing", testutil.NewStatusResponse(http.StatusServiceUnavailable))

	c := newTestClient(t, mock, nil)

	start := time.Now()
	_, err := c.Game(context.Background(), 42)
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExhausted)
	assert.ErrorIs(t, err, ErrServiceUnavailable)
	assert.Equal(t, 3, mock.EndpointCount("thing"))
	assert.GreaterOrEqual(t, elapsed, 2*testRetryDelay)

	var terr *transport.Error
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, 3, terr.Attempts)
}

func TestGame_FailuresAreNotCached(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetSequence("thing",
		testutil.NewStatusResponse(http.StatusBadRequest),
		testutil.NewXMLResponse(testutil.ThingItems(42)),
	)

	c := newTestClient(t, mock, nil)
	ctx := context.Background()

	_, err := c.Game(ctx, 42)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	game, err := c.Game(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, 42, game.ID)
	assert.Equal(t, 2, mock.EndpointCount("thing"))
}

func TestGame_ParseError(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("thing", testutil.NewXMLResponse(`<items><item id="42"`))

	c := newTestClient(t, mock, nil)

	_, err := c.Game(context.Background(), 42)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "thing", string(perr.Operation))
	assert.Equal(t, `<items><item id="42"`, string(perr.Payload))
	assert.Equal(t, 1, mock.EndpointCount("thing"))
}

func TestInvalidArguments_NoNetwork(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()

	c := newTestClient(t, mock, nil)
	ctx := context.Background()

	calls := map[string]func() error{
		"game id":         func() error { _, err := c.Game(ctx, 0); return err },
		"game name":       func() error { _, err := c.GameByName(ctx, "  "); return err },
		"game list empty": func() error { _, err := c.GameList(ctx, nil); return err },
		"game list id":    func() error { _, err := c.GameList(ctx, []int{1, -2}); return err },
		"collection user": func() error { _, err := c.Collection(ctx, "", CollectionOptions{}); return err },
		"collection type": func() error { _, err := c.Collection(ctx, "alice", CollectionOptions{Subtype: "meeple"}); return err },
		"guild id":        func() error { _, err := c.Guild(ctx, -1, true); return err },
		"hot type":        func() error { _, err := c.HotItems(ctx, "boardgamefamily"); return err },
		"plays empty":     func() error { _, err := c.Plays(ctx, PlaysQuery{}); return err },
		"plays date":      func() error { _, err := c.Plays(ctx, PlaysQuery{Username: "alice", MinDate: "2024/01/01"}); return err },
		"search query":    func() error { _, err := c.Search(ctx, "", SearchOptions{}); return err },
		"search type": func() error {
			_, err := c.Search(ctx, "x", SearchOptions{Types: []string{"boardgamefamily"}})
			return err
		},
		"user name": func() error { _, err := c.User(ctx, "", UserOptions{}); return err },
		"plays date order": func() error {
			_, err := c.Plays(ctx, PlaysQuery{GameID: 1, MinDate: "2024-02-01", MaxDate: "2024-01-01"})
			return err
		},
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), ErrInvalidArgument)
		})
	}
	assert.Equal(t, 0, mock.RequestCount())
}

func TestClearCache(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("hot", testutil.NewXMLResponse(testutil.HotBoardgames))

	c := newTestClient(t, mock, nil)
	ctx := context.Background()

	_, err := c.HotItems(ctx, "")
	require.NoError(t, err)
	_, err = c.HotItems(ctx, "boardgame")
	require.NoError(t, err)
	assert.Equal(t, 1, mock.EndpointCount("hot"))

	require.NoError(t, c.ClearCache(ctx))

	_, err = c.HotItems(ctx, "boardgame")
	require.NoError(t, err)
	assert.Equal(t, 2, mock.EndpointCount("hot"))
}

func TestNoCache(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("hot", testutil.NewXMLResponse(testutil.HotBoardgames))

	c := newTestClient(t, mock, func(cfg *Config) { cfg.CacheURI = "" })
	ctx := context.Background()

	for range 3 {
		_, err := c.HotItems(ctx, "boardgame")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, mock.EndpointCount("hot"))
}

type failingStore struct{}

var errDisk = errors.New("disk full")

func (failingStore) Get(context.Context, string) ([]byte, error) { return nil, errDisk }
func (failingStore) Put(context.Context, string, []byte, time.Duration) error {
	return errDisk
}
func (failingStore) Clear(context.Context) error { return errDisk }
func (failingStore) Close() error                { return nil }

func TestCacheBackendFailureSurfaces(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("hot", testutil.NewXMLResponse(testutil.HotBoardgames))

	c := newTestClient(t, mock, func(cfg *Config) { cfg.Cache = failingStore{} })
	ctx := context.Background()

	_, err := c.HotItems(ctx, "boardgame")
	var cerr *CacheError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, "get", cerr.Op)
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, 0, mock.RequestCount())

	assert.ErrorIs(t, c.ClearCache(ctx), errDisk)
}

type closeTrackingStore struct {
	cache.NoCache
	closed bool
}

func (s *closeTrackingStore) Close() error {
	s.closed = true
	return nil
}

func TestClose_LeavesSharedStoreOpen(t *testing.T) {
	store := &closeTrackingStore{}

	c, err := New(Config{
		BaseURL:   "http://localhost",
		UserAgent: "test",
		Cache:     store,
	})
	require.NoError(t, err)
	require.NoError(t, c.Close())
	assert.False(t, store.closed)
}

func TestSharedStoreAcrossClients(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("thing", testutil.NewXMLResponse(testutil.ThingItems(7)))

	store := cache.NewMemory()
	defer store.Close()

	a := newTestClient(t, mock, func(cfg *Config) { cfg.Cache = store })
	b := newTestClient(t, mock, func(cfg *Config) { cfg.Cache = store })

	_, err := a.Game(context.Background(), 7)
	require.NoError(t, err)
	_, err = b.Game(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, 1, mock.EndpointCount("thing"))
}

func TestRateLimitCountsNetworkAttemptsOnly(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("thing", testutil.NewXMLResponse(testutil.ThingItems(7)))

	limiter := ratelimit.NewSlidingWindow(2, ratelimit.WithWindow(time.Hour))
	c := newTestClient(t, mock, func(cfg *Config) { cfg.Limiter = limiter })
	ctx := context.Background()

	for range 5 {
		_, err := c.Game(ctx, 7)
		require.NoError(t, err)
	}

	assert.Same(t, limiter, c.Limiter())
	assert.Equal(t, 1, limiter.State().InWindow)
	assert.Equal(t, 1, mock.EndpointCount("thing"))
}
