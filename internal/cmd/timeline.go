package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
)

func newTimelineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"tl"},
		Short:   "Read timelines",
	}

	cmd.AddCommand(newTimelinePublicCmd())
	cmd.AddCommand(pagedTimelineCmd("home", "The authenticated user's home timeline", func(ctx context.Context, c *api.Client, p api.Paging) ([]api.Status, error) {
		return c.Timelines().Home(ctx, p)
	}))
	cmd.AddCommand(pagedTimelineCmd("friends", "Statuses from the users the authenticated user follows", func(ctx context.Context, c *api.Client, p api.Paging) ([]api.Status, error) {
		return c.Timelines().Friends(ctx, p)
	}))
	cmd.AddCommand(pagedTimelineCmd("mentions", "Statuses that mention the authenticated user", func(ctx context.Context, c *api.Client, p api.Paging) ([]api.Status, error) {
		return c.Timelines().Mentions(ctx, p)
	}))
	cmd.AddCommand(pagedTimelineCmd("retweets-of-me", "The authenticated user's statuses that others retweeted", func(ctx context.Context, c *api.Client, p api.Paging) ([]api.Status, error) {
		return c.Timelines().RetweetsOfMe(ctx, p)
	}))
	cmd.AddCommand(pagedTimelineCmd("retweeted-by-me", "Retweets posted by the authenticated user", func(ctx context.Context, c *api.Client, p api.Paging) ([]api.Status, error) {
		return c.Timelines().RetweetedByMe(ctx, p)
	}))
	cmd.AddCommand(pagedTimelineCmd("retweeted-to-me", "Retweets posted by the users the authenticated user follows", func(ctx context.Context, c *api.Client, p api.Paging) ([]api.Status, error) {
		return c.Timelines().RetweetedToMe(ctx, p)
	}))
	cmd.AddCommand(newTimelineUserCmd())

	return cmd
}

func newTimelinePublicCmd() *cobra.Command {
	return NewListCommand(ListConfig[api.Status]{
		Use:          "public",
		Short:        "The most recent public statuses",
		Headers:      statusHeaders,
		RowFunc:      statusRow,
		EmptyMessage: "No statuses",
		Fetch: func(ctx context.Context, c *api.Client, _ []string) ([]api.Status, error) {
			return c.Timelines().Public(ctx)
		},
	})
}

func pagedTimelineCmd(use, short string, fetch func(context.Context, *api.Client, api.Paging) ([]api.Status, error)) *cobra.Command {
	var pf pagingFlags
	return NewListCommand(ListConfig[api.Status]{
		Use:          use,
		Short:        short,
		Headers:      statusHeaders,
		RowFunc:      statusRow,
		EmptyMessage: "No statuses",
		Flags:        pf.register,
		Fetch: func(ctx context.Context, c *api.Client, _ []string) ([]api.Status, error) {
			return fetch(ctx, c, pf.paging())
		},
	})
}

func newTimelineUserCmd() *cobra.Command {
	var (
		pf        pagingFlags
		retweeted string
	)
	return NewListCommand(ListConfig[api.Status]{
		Use:   "user <user>",
		Short: "Statuses posted by a user",
		Long: strings.TrimSpace(`
Statuses posted by a user given as a numeric id, @name or profile link.

--retweets by lists retweets the user posted; --retweets to lists retweets
posted by the users they follow.`),
		Example: strings.TrimSpace(`
  chirp timeline user @gopher -n 20
  chirp timeline user https://twitter.com/gopher --retweets by`),
		Args:         cobra.ExactArgs(1),
		Headers:      statusHeaders,
		RowFunc:      statusRow,
		EmptyMessage: "No statuses",
		Flags: func(cmd *cobra.Command) {
			pf.register(cmd)
			cmd.Flags().StringVar(&retweeted, "retweets", "", "Only retweets: by|to")
		},
		Fetch: func(ctx context.Context, c *api.Client, args []string) ([]api.Status, error) {
			user, err := parseUserRef(args[0])
			if err != nil {
				return nil, err
			}
			switch retweeted {
			case "":
				return c.Timelines().User(ctx, user, pf.paging())
			case "by":
				return c.Timelines().RetweetedByUser(ctx, user, pf.paging())
			case "to":
				return c.Timelines().RetweetedToUser(ctx, user, pf.paging())
			default:
				return nil, api.NewValidationError("--retweets", retweeted, []string{"by", "to"})
			}
		},
	})
}
