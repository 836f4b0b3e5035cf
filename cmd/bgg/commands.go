package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/client"
	"github.com/Sternrassler/bgg-client/pkg/filter"
	"github.com/spf13/cobra"
)

func gameOptions(versions, videos bool) []client.GameOption {
	var opts []client.GameOption
	if versions {
		opts = append(opts, client.WithVersions())
	}
	if videos {
		opts = append(opts, client.WithVideos())
	}
	return opts
}

func (a *app) gameCmd() *cobra.Command {
	var versions, videos bool

	cmd := &cobra.Command{
		Use:   "game <id|name>",
		Short: "Show one game with statistics",
		Long: `Show one game with statistics. A numeric argument is a BGG id; anything
else is resolved with an exact board game search.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := gameOptions(versions, videos)

			if id, err := strconv.Atoi(args[0]); err == nil {
				game, err := a.client.Game(cmd.Context(), id, opts...)
				if err != nil {
					return err
				}
				return a.print(game)
			}

			game, err := a.client.GameByName(cmd.Context(), args[0], opts...)
			if err != nil {
				return err
			}
			return a.print(game)
		},
	}

	cmd.Flags().BoolVar(&versions, "versions", false, "include published versions")
	cmd.Flags().BoolVar(&videos, "videos", false, "include linked videos")
	return cmd
}

func (a *app) gamesCmd() *cobra.Command {
	var versions, videos bool

	cmd := &cobra.Command{
		Use:   "games <id>...",
		Short: "Show several games by id",
		Long: fmt.Sprintf(`Show several games by id. Ids are requested %d per call, in parallel.
Unknown ids are left out.`, client.MaxIDsPerRequest),
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, len(args))
			for i, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid game id %q", arg)
				}
				ids[i] = id
			}

			games, err := a.client.GameList(cmd.Context(), ids, gameOptions(versions, videos)...)
			if err != nil {
				return err
			}
			return a.print(games)
		},
	}

	cmd.Flags().BoolVar(&versions, "versions", false, "include published versions")
	cmd.Flags().BoolVar(&videos, "videos", false, "include linked videos")
	return cmd
}

func (a *app) searchCmd() *cobra.Command {
	var opts client.SearchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search items by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hits, err := a.client.Search(cmd.Context(), strings.Join(args, " "), opts)
			if err != nil {
				return err
			}
			return a.print(hits)
		},
	}

	cmd.Flags().StringSliceVar(&opts.Types, "type", nil, "item types: "+strings.Join(client.SearchTypes, ", "))
	cmd.Flags().BoolVar(&opts.Exact, "exact", false, "only exact name matches")
	return cmd
}

func (a *app) hotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hot [type]",
		Short: "Show the current hot list",
		Long:  "Show the current hot list. Types: " + strings.Join(client.HotItemTypes, ", ") + ".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var itemType string
			if len(args) == 1 {
				itemType = args[0]
			}

			items, err := a.client.HotItems(cmd.Context(), itemType)
			if err != nil {
				return err
			}
			return a.print(items)
		},
	}
}

func (a *app) collectionCmd() *cobra.Command {
	var (
		opts       client.CollectionOptions
		filterExpr string
	)

	cmd := &cobra.Command{
		Use:   "collection <username>",
		Short: "Show a user's collection",
		Long: `Show a user's collection with statistics.

BGG prepares large collections in the background and answers 202 until the
export is ready; bgg keeps polling within the retry budget. Use --retries
and --retry-delay to wait longer.

--filter narrows the items locally with an expression, for example:

  bgg collection alice --filter 'own && rating >= 8'
  bgg collection alice --filter 'plays == 0 && supports(4)'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var f *filter.Filter
			if filterExpr != "" {
				var err error
				if f, err = filter.Compile(filterExpr); err != nil {
					return err
				}
			}

			coll, err := a.client.Collection(cmd.Context(), args[0], opts)
			if err != nil {
				return err
			}

			if f != nil {
				items, err := f.Apply(coll.Items)
				if err != nil {
					return err
				}
				a.logger.Debug().
					Str("filter", f.String()).
					Int("matched", len(items)).
					Int("total", len(coll.Items)).
					Msg("Filtered collection")
				coll.Items = items
			}
			return a.print(coll)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Subtype, "subtype", "", "only this subtype: "+strings.Join(client.CollectionSubtypes, ", "))
	flags.StringVar(&opts.ExcludeSubtype, "exclude-subtype", "", "leave out this subtype")
	flags.BoolVar(&opts.Own, "own", false, "only owned items")
	flags.BoolVar(&opts.Rated, "rated", false, "only rated items")
	flags.BoolVar(&opts.Played, "played", false, "only played items")
	flags.BoolVar(&opts.Wishlist, "wishlist", false, "only wishlisted items")
	flags.BoolVar(&opts.WantToPlay, "want-to-play", false, "only items marked want to play")
	flags.BoolVar(&opts.ForTrade, "trade", false, "only items for trade")
	flags.BoolVar(&opts.Preordered, "preordered", false, "only preordered items")
	flags.BoolVar(&opts.Versions, "versions", false, "include the owned version")
	flags.StringVarP(&filterExpr, "filter", "f", "", "filter expression applied to the items")
	return cmd
}

func (a *app) guildCmd() *cobra.Command {
	var members bool

	cmd := &cobra.Command{
		Use:   "guild <id>",
		Short: "Show a guild",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid guild id %q", args[0])
			}

			guild, err := a.client.Guild(cmd.Context(), id, members, a.progress("guild"))
			if err != nil {
				return err
			}
			return a.print(guild)
		},
	}

	cmd.Flags().BoolVar(&members, "members", false, "fetch every member page")
	return cmd
}

func (a *app) userCmd() *cobra.Command {
	var opts client.UserOptions

	cmd := &cobra.Command{
		Use:   "user <name>",
		Short: "Show a user profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := a.client.User(cmd.Context(), args[0], opts, a.progress("user"))
			if err != nil {
				return err
			}
			return a.print(user)
		},
	}

	cmd.Flags().BoolVar(&opts.Buddies, "buddies", false, "fetch every buddy page")
	cmd.Flags().BoolVar(&opts.Guilds, "guilds", false, "fetch every guild page")
	return cmd
}

func (a *app) playsCmd() *cobra.Command {
	var q client.PlaysQuery

	cmd := &cobra.Command{
		Use:   "plays",
		Short: "Show logged plays of a user or a game",
		Example: `  bgg plays --user alice
  bgg plays --game 31260 --min-date 2024-01-01 --max-date 2024-03-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plays, err := a.client.Plays(cmd.Context(), q, a.progress("plays"))
			if err != nil {
				return err
			}
			return a.print(plays)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&q.Username, "user", "", "plays logged by this user")
	flags.IntVar(&q.GameID, "game", 0, "plays of this game id")
	flags.StringVar(&q.MinDate, "min-date", "", "earliest play date (YYYY-MM-DD)")
	flags.StringVar(&q.MaxDate, "max-date", "", "latest play date (YYYY-MM-DD)")
	flags.StringVar(&q.Subtype, "subtype", "", "item subtype: "+strings.Join(client.PlaySubtypes, ", "))
	return cmd
}

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the response cache",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.client.ClearCache(cmd.Context()); err != nil {
				return err
			}
			a.logger.Info().Msg("Cache cleared")
			return nil
		},
	})
	return cmd
}
