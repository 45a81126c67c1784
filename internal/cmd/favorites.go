package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/urlparse"
)

func newFavoritesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav", "likes"},
		Short:   "List and change favorite statuses",
	}

	cmd.AddCommand(newFavoritesListCmd())
	cmd.AddCommand(favoritesChangeCmd("add <id|url>...", "Favorite statuses", "Favorited", func(ctx context.Context, c *api.Client, id int64) error {
		_, err := c.Favorites().Create(ctx, id)
		return err
	}))
	cmd.AddCommand(favoritesChangeCmd("remove <id|url>...", "Unfavorite statuses", "Unfavorited", func(ctx context.Context, c *api.Client, id int64) error {
		_, err := c.Favorites().Destroy(ctx, id)
		return err
	}))

	return cmd
}

func newFavoritesListCmd() *cobra.Command {
	var page int
	return NewListCommand(ListConfig[api.Status]{
		Use:          "list [user]",
		Aliases:      []string{"ls"},
		Short:        "Favorites of a user (default: you)",
		Args:         cobra.MaximumNArgs(1),
		Headers:      statusHeaders,
		RowFunc:      statusRow,
		EmptyMessage: "No favorites",
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().IntVar(&page, "page", 0, "Page number")
		},
		Fetch: func(ctx context.Context, c *api.Client, args []string) ([]api.Status, error) {
			if len(args) == 0 {
				return c.Favorites().List(ctx, page)
			}
			name, err := urlparse.ScreenName(args[0])
			if err != nil {
				return nil, err
			}
			return c.Favorites().ListOf(ctx, name, page)
		},
	})
}

func favoritesChangeCmd(use, short, verb string, op func(context.Context, *api.Client, int64) error) *cobra.Command {
	var concurrency int64
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, a := range args {
				id, err := parseStatusID(a)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			results := runBulkOperation(cmd.Context(), ids, concurrency, func(ctx context.Context, id int64) error {
				return op(ctx, client, id)
			})
			if len(results) == 1 && !results[0].Success {
				return results[0].err
			}
			return writeBulk(cmd, verb, results)
		}),
	}
	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests for several ids")
	return cmd
}
