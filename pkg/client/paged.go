package client

import (
	"context"
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/bgg-client/pkg/model"
	"github.com/Sternrassler/bgg-client/pkg/pagination"
	"github.com/Sternrassler/bgg-client/pkg/transport"
	"github.com/Sternrassler/bgg-client/pkg/xmlapi"
)

// Page sizes used by the API for listings.
const (
	GuildMembersPerPage = 25
	UserRefsPerPage     = 100
	PlaysPerPage        = 100
)

// PlaySubtypes are the values accepted for PlaysQuery.Subtype.
var PlaySubtypes = []string{"boardgame", "boardgameexpansion", "boardgameaccessory", "rpgitem", "videogame"}

// PageOption configures a paginated fetch.
type PageOption func(*pagination.Config)

// WithProgress reports pages fetched against the total page count.
// fn is called from one goroutine at a time with an increasing count.
func WithProgress(fn func(fetched, total int)) PageOption {
	return func(cfg *pagination.Config) { cfg.Progress = fn }
}

// UserOptions selects the lists fetched with a user.
type UserOptions struct {
	Buddies bool
	Guilds  bool
}

// PlaysQuery selects logged plays. Username, GameID or both must be set.
type PlaysQuery struct {
	Username string
	GameID   int

	// MinDate and MaxDate bound the play date, formatted YYYY-MM-DD.
	MinDate string
	MaxDate string

	Subtype string
}

func (q PlaysQuery) validate() error {
	if strings.TrimSpace(q.Username) == "" && q.GameID == 0 {
		return invalidArgument("plays query needs a username or a game id")
	}
	if q.GameID < 0 {
		return invalidArgument("game id must be positive (got %d)", q.GameID)
	}
	for _, d := range []string{q.MinDate, q.MaxDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, d); err != nil {
			return invalidArgument("date %q is not YYYY-MM-DD", d)
		}
	}
	if q.MinDate != "" && q.MaxDate != "" && q.MinDate > q.MaxDate {
		return invalidArgument("mindate %s is after maxdate %s", q.MinDate, q.MaxDate)
	}
	if q.Subtype != "" && !slices.Contains(PlaySubtypes, q.Subtype) {
		return invalidArgument("unknown plays subtype %q", q.Subtype)
	}
	return nil
}

// Guild fetches a guild. With members set, every member page is fetched
// and merged.
func (c *Client) Guild(ctx context.Context, id int, members bool, opts ...PageOption) (*model.Guild, error) {
	if id <= 0 {
		return nil, invalidArgument("guild id must be positive (got %d)", id)
	}

	params := url.Values{}
	params.Set("id", strconv.Itoa(id))

	if !members {
		return c.guildPage(ctx, params)
	}

	params.Set("members", "1")
	pages, err := fetchPages(ctx, c, opts, func(ctx context.Context, page int) (*model.Guild, int, error) {
		g, err := c.guildPage(ctx, withPage(params, page))
		if err != nil {
			return nil, 0, err
		}
		return g, pagination.TotalPages(g.MemberCount, GuildMembersPerPage), nil
	})
	if err != nil {
		return nil, err
	}

	guild := pages[0]
	for _, p := range pages[1:] {
		guild.Members = append(guild.Members, p.Members...)
	}
	return guild, nil
}

func (c *Client) guildPage(ctx context.Context, params url.Values) (*model.Guild, error) {
	data, err := c.fetch(ctx, transport.NewRequest(string(xmlapi.OpGuild), params))
	if err != nil {
		return nil, err
	}
	return parse(xmlapi.OpGuild, data, xmlapi.ParseGuild)
}

// User fetches a user profile, with every page of buddies and guilds when
// requested.
func (c *Client) User(ctx context.Context, name string, opts UserOptions, pageOpts ...PageOption) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidArgument("user name is required")
	}

	params := url.Values{}
	params.Set("name", name)

	if !opts.Buddies && !opts.Guilds {
		return c.userPage(ctx, params)
	}

	if opts.Buddies {
		params.Set("buddies", "1")
	}
	if opts.Guilds {
		params.Set("guilds", "1")
	}

	pages, err := fetchPages(ctx, c, pageOpts, func(ctx context.Context, page int) (*model.User, int, error) {
		u, err := c.userPage(ctx, withPage(params, page))
		if err != nil {
			return nil, 0, err
		}
		return u, pagination.TotalPages(max(u.TotalBuddies, u.TotalGuilds), UserRefsPerPage), nil
	})
	if err != nil {
		return nil, err
	}

	user := pages[0]
	for _, p := range pages[1:] {
		user.Buddies = append(user.Buddies, p.Buddies...)
		user.Guilds = append(user.Guilds, p.Guilds...)
	}
	return user, nil
}

func (c *Client) userPage(ctx context.Context, params url.Values) (*model.User, error) {
	data, err := c.fetch(ctx, transport.NewRequest(string(xmlapi.OpUser), params))
	if err != nil {
		return nil, err
	}
	return parse(xmlapi.OpUser, data, xmlapi.ParseUser)
}

// Plays fetches every page of plays matching q.
func (c *Client) Plays(ctx context.Context, q PlaysQuery, opts ...PageOption) (*model.Plays, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	if u := strings.TrimSpace(q.Username); u != "" {
		params.Set("username", u)
	}
	if q.GameID > 0 {
		params.Set("id", strconv.Itoa(q.GameID))
	}
	if q.MinDate != "" {
		params.Set("mindate", q.MinDate)
	}
	if q.MaxDate != "" {
		params.Set("maxdate", q.MaxDate)
	}
	if q.Subtype != "" {
		params.Set("subtype", q.Subtype)
	}

	pages, err := fetchPages(ctx, c, opts, func(ctx context.Context, page int) (*model.Plays, int, error) {
		data, err := c.fetch(ctx, transport.NewRequest(string(xmlapi.OpPlays), withPage(params, page)))
		if err != nil {
			return nil, 0, err
		}
		p, err := parse(xmlapi.OpPlays, data, xmlapi.ParsePlays)
		if err != nil {
			return nil, 0, err
		}
		return p, pagination.TotalPages(p.Total, PlaysPerPage), nil
	})
	if err != nil {
		return nil, err
	}

	plays := pages[0]
	plays.GameID = q.GameID
	for _, p := range pages[1:] {
		plays.Plays = append(plays.Plays, p.Plays...)
	}
	return plays, nil
}

// fetchPages runs fn over every page with the client's concurrency limit.
func fetchPages[T any](ctx context.Context, c *Client, opts []PageOption, fn func(ctx context.Context, page int) (T, int, error)) ([]T, error) {
	cfg := pagination.Config{MaxConcurrency: c.config.MaxConcurrency}
	for _, opt := range opts {
		opt(&cfg)
	}
	return pagination.NewBatchFetcher[T](pagination.PageFetcherFunc[T](fn), cfg).FetchAllPages(ctx)
}

// withPage returns a copy of params for the given page.
func withPage(params url.Values, page int) url.Values {
	out := maps.Clone(params)
	out.Set("page", strconv.Itoa(page))
	return out
}
