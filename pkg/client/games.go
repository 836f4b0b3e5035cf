package client

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/model"
	"github.com/Sternrassler/bgg-client/pkg/transport"
	"github.com/Sternrassler/bgg-client/pkg/xmlapi"
	"golang.org/x/sync/errgroup"
)

// MaxIDsPerRequest is how many ids a single thing request carries.
const MaxIDsPerRequest = 20

// SearchTypes are the item types accepted by Search.
var SearchTypes = []string{"rpgitem", "videogame", "boardgame", "boardgameexpansion", "boardgameaccessory"}

// HotItemTypes are the list types accepted by HotItems.
var HotItemTypes = []string{
	"boardgame", "rpg", "videogame",
	"boardgameperson", "rpgperson",
	"boardgamecompany", "rpgcompany", "videogamecompany",
}

// GameOption adds optional sections to a thing request.
type GameOption func(url.Values)

// WithVersions includes published versions of the game.
func WithVersions() GameOption {
	return func(v url.Values) { v.Set("versions", "1") }
}

// WithVideos includes linked videos.
func WithVideos() GameOption {
	return func(v url.Values) { v.Set("videos", "1") }
}

// SearchOptions narrows a search.
type SearchOptions struct {
	// Types restricts hits to these item types. Empty means all types.
	Types []string

	// Exact only returns exact name matches.
	Exact bool
}

// Game fetches one game with statistics.
func (c *Client) Game(ctx context.Context, id int, opts ...GameOption) (*model.Game, error) {
	if id <= 0 {
		return nil, invalidArgument("game id must be positive (got %d)", id)
	}

	games, err := c.things(ctx, []int{id}, opts)
	if err != nil {
		return nil, err
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("game %d: %w", id, ErrNotFound)
	}
	return &games[0], nil
}

// GameByName resolves name with an exact board game search, then fetches
// the first hit.
func (c *Client) GameByName(ctx context.Context, name string, opts ...GameOption) (*model.Game, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidArgument("game name is required")
	}

	hits, err := c.Search(ctx, name, SearchOptions{Types: []string{"boardgame"}, Exact: true})
	if err != nil {
		return nil, err
	}

	for _, hit := range hits {
		if hit.Type == "boardgame" {
			c.logger.Debug().
				Str("name", name).
				Int("id", hit.ID).
				Msg("Resolved game name")
			return c.Game(ctx, hit.ID, opts...)
		}
	}
	return nil, fmt.Errorf("game %q: %w", name, ErrNotFound)
}

// GameList fetches several games. Ids are requested in chunks of
// MaxIDsPerRequest, concurrently. Unknown ids are left out of the result,
// which follows the order of ids.
func (c *Client) GameList(ctx context.Context, ids []int, opts ...GameOption) ([]model.Game, error) {
	if len(ids) == 0 {
		return nil, invalidArgument("at least one game id is required")
	}
	for _, id := range ids {
		if id <= 0 {
			return nil, invalidArgument("game id must be positive (got %d)", id)
		}
	}

	chunks := slices.Collect(slices.Chunk(ids, MaxIDsPerRequest))
	results := make([][]model.Game, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.config.MaxConcurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			games, err := c.things(gctx, chunk, opts)
			if err != nil {
				return err
			}
			results[i] = games
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[int]model.Game, len(ids))
	for _, games := range results {
		for _, game := range games {
			byID[game.ID] = game
		}
	}

	games := make([]model.Game, 0, len(byID))
	seen := make(map[int]bool, len(ids))
	for _, id := range ids {
		game, ok := byID[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		games = append(games, game)
	}
	return games, nil
}

// things performs one thing request for ids.
func (c *Client) things(ctx context.Context, ids []int, opts []GameOption) ([]model.Game, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}

	params := url.Values{}
	params.Set("id", strings.Join(parts, ","))
	params.Set("stats", "1")
	for _, opt := range opts {
		opt(params)
	}

	data, err := c.fetch(ctx, transport.NewRequest(string(xmlapi.OpThing), params))
	if err != nil {
		return nil, err
	}
	return parse(xmlapi.OpThing, data, xmlapi.ParseGames)
}

// Search looks up items by name. No hits is an empty result, not an error.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]model.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, invalidArgument("search query is required")
	}
	for _, t := range opts.Types {
		if !slices.Contains(SearchTypes, t) {
			return nil, invalidArgument("unknown search type %q", t)
		}
	}

	params := url.Values{}
	params.Set("query", query)
	if len(opts.Types) > 0 {
		params.Set("type", strings.Join(opts.Types, ","))
	}
	if opts.Exact {
		params.Set("exact", "1")
	}

	data, err := c.fetch(ctx, transport.NewRequest(string(xmlapi.OpSearch), params))
	if err != nil {
		return nil, err
	}
	return parse(xmlapi.OpSearch, data, xmlapi.ParseSearch)
}

// HotItems returns the current hot list for itemType. Empty means boardgame.
func (c *Client) HotItems(ctx context.Context, itemType string) ([]model.HotItem, error) {
	if itemType == "" {
		itemType = "boardgame"
	}
	if !slices.Contains(HotItemTypes, itemType) {
		return nil, invalidArgument("unknown hot item type %q", itemType)
	}

	params := url.Values{}
	params.Set("type", itemType)

	data, err := c.fetch(ctx, transport.NewRequest(string(xmlapi.OpHot), params))
	if err != nil {
		return nil, err
	}
	return parse(xmlapi.OpHot, data, xmlapi.ParseHotItems)
}
