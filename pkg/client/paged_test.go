package client

import (
	"context"
	"sync"
	"testing"

	"github.com/Sternrassler/bgg-client/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuild_AllMemberPages(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetPaged("guild",
		testutil.GuildPage(1229, 60, 1),
		testutil.GuildPage(1229, 60, 2),
		testutil.GuildPage(1229, 60, 3),
	)

	c := newTestClient(t, mock, nil)

	var (
		mu       sync.Mutex
		progress [][2]int
	)
	guild, err := c.Guild(context.Background(), 1229, true, WithProgress(func(fetched, total int) {
		mu.Lock()
		defer mu.Unlock()
		progress = append(progress, [2]int{fetched, total})
	}))
	require.NoError(t, err)

	assert.Equal(t, "Geek Tools", guild.Name)
	assert.Equal(t, "Tools & more", guild.Description)
	assert.Equal(t, 60, guild.MemberCount)
	require.Len(t, guild.Members, 60)
	assert.Equal(t, "member001", guild.Members[0])
	assert.Equal(t, "member026", guild.Members[25])
	assert.Equal(t, "member060", guild.Members[59])
	assert.Equal(t, 3, mock.EndpointCount("guild"))

	require.Len(t, progress, 3)
	assert.Contains(t, progress, [2]int{3, 3})
}

func TestGuild_WithoutMembers(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("guild", testutil.NewXMLResponse(testutil.GuildPage(1229, 0, 1)))

	c := newTestClient(t, mock, nil)

	guild, err := c.Guild(context.Background(), 1229, false)
	require.NoError(t, err)
	assert.Equal(t, 1229, guild.ID)
	assert.Empty(t, mock.LastQuery().Get("members"))
	assert.Empty(t, mock.LastQuery().Get("page"))
}

func TestGuild_NotFound(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("guild", testutil.NewXMLResponse(testutil.GuildNotFound))

	c := newTestClient(t, mock, nil)

	_, err := c.Guild(context.Background(), 1, true)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, mock.EndpointCount("guild"))
}

func TestUser_BuddiesAndGuilds(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetPaged("user",
		testutil.UserPage("alice", 150, 30, 1),
		testutil.UserPage("alice", 150, 30, 2),
	)

	c := newTestClient(t, mock, nil)

	user, err := c.User(context.Background(), "alice", UserOptions{Buddies: true, Guilds: true})
	require.NoError(t, err)

	assert.Equal(t, 818216, user.ID)
	assert.Empty(t, user.AvatarLink)
	assert.Equal(t, 150, user.TotalBuddies)
	assert.Len(t, user.Buddies, 150)
	assert.Equal(t, "buddy150", user.Buddies[149].Name)
	assert.Len(t, user.Guilds, 30)
	assert.Equal(t, 1001, user.Guilds[0].ID)
	assert.Equal(t, 2, mock.EndpointCount("user"))
}

func TestUser_ProfileOnly(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("user", testutil.NewXMLResponse(testutil.UserPage("alice", 0, 0, 1)))

	c := newTestClient(t, mock, nil)

	user, err := c.User(context.Background(), "alice", UserOptions{})
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Name)
	assert.Equal(t, "Alice", user.FirstName)

	query := mock.LastQuery()
	assert.Empty(t, query.Get("buddies"))
	assert.Empty(t, query.Get("guilds"))
}

func TestUser_NotFound(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("user", testutil.NewXMLResponse(testutil.UserNotFound))

	c := newTestClient(t, mock, nil)

	_, err := c.User(context.Background(), "ghost", UserOptions{Buddies: true})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlays_AllPages(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetPaged("plays",
		testutil.PlaysPage("alice", 250, 1),
		testutil.PlaysPage("alice", 250, 2),
		testutil.PlaysPage("alice", 250, 3),
	)

	c := newTestClient(t, mock, func(cfg *Config) { cfg.MaxConcurrency = 1 })

	plays, err := c.Plays(context.Background(), PlaysQuery{
		Username: "alice",
		MinDate:  "2024-01-01",
		MaxDate:  "2024-12-31",
		Subtype:  "boardgame",
	})
	require.NoError(t, err)

	assert.Equal(t, "alice", plays.Username)
	assert.Equal(t, 250, plays.Total)
	require.Len(t, plays.Plays, 250)
	assert.Equal(t, 5001, plays.Plays[0].ID)
	assert.Equal(t, 5250, plays.Plays[249].ID)
	assert.Len(t, plays.Plays[0].Players, 2)
	assert.Equal(t, 3, mock.EndpointCount("plays"))

	query := mock.LastQuery()
	assert.Equal(t, "2024-01-01", query.Get("mindate"))
	assert.Equal(t, "2024-12-31", query.Get("maxdate"))
	assert.Equal(t, "boardgame", query.Get("subtype"))
}

func TestPlays_ByGame(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("plays", testutil.NewXMLResponse(testutil.PlaysPage("", 3, 1)))

	c := newTestClient(t, mock, nil)

	plays, err := c.Plays(context.Background(), PlaysQuery{GameID: 31260})
	require.NoError(t, err)
	assert.Equal(t, 31260, plays.GameID)
	assert.Len(t, plays.Plays, 3)
	assert.Equal(t, "31260", mock.LastQuery().Get("id"))
	assert.Equal(t, "1", mock.LastQuery().Get("page"))
}

func TestPlays_Invalid(t *testing.T) {
	mock := testutil.NewMockBGG()
	defer mock.Close()
	mock.SetResponse("plays", testutil.NewXMLResponse(testutil.PlaysInvalid))

	c := newTestClient(t, mock, nil)

	_, err := c.Plays(context.Background(), PlaysQuery{Username: "ghost"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlaysQuery_Validate(t *testing.T) {
	assert.NoError(t, PlaysQuery{Username: "alice"}.validate())
	assert.NoError(t, PlaysQuery{GameID: 1, MinDate: "2024-01-01", MaxDate: "2024-01-01"}.validate())
	assert.ErrorIs(t, PlaysQuery{GameID: -1}.validate(), ErrInvalidArgument)
	assert.ErrorIs(t, PlaysQuery{Username: "alice", Subtype: "meeple"}.validate(), ErrInvalidArgument)
	assert.ErrorIs(t, PlaysQuery{Username: "alice", MaxDate: "31.12.2024"}.validate(), ErrInvalidArgument)
}
