package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/iocontext"
	"github.com/chirpkit/chirp/internal/param"
)

// maxStatusInput bounds a status read from stdin.
const maxStatusInput = 64 * 1024

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"st"},
		Short:   "Show, post and delete statuses",
	}

	cmd.AddCommand(newStatusShowCmd())
	cmd.AddCommand(newStatusPostCmd())
	cmd.AddCommand(newStatusDeleteCmd())
	cmd.AddCommand(newStatusRetweetCmd())
	cmd.AddCommand(newStatusRetweetsCmd())
	cmd.AddCommand(newStatusRetweetedByCmd())
	cmd.AddCommand(newStatusRelatedCmd())

	return cmd
}

func newStatusShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id|url>",
		Aliases: []string{"get"},
		Short:   "Show one status",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseStatusID(args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			s, err := client.Statuses().Show(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printStatus(cmd, s)
		}),
	}
}

func newStatusPostCmd() *cobra.Command {
	var (
		replyTo   string
		lat, long float64
		placeID   string
		showCoord bool
		sensitive bool
	)

	cmd := &cobra.Command{
		Use:     "post <text|->",
		Aliases: []string{"update", "tweet"},
		Short:   "Post a status",
		Example: strings.TrimSpace(`
  chirp status post "hello"
  echo "from a pipe" | chirp status post -
  chirp status post "agreed" --reply-to 123456
  chirp --dry-run status post "preview only"`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			text, err := iocontext.ArgOrStdin(cmd.Context(), args[0], maxStatusInput)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("status text is required")
			}
			u := api.StatusUpdate{Status: text}
			if replyTo != "" {
				id, err := parseStatusID(replyTo)
				if err != nil {
					return err
				}
				u.InReplyToStatusID = param.Some(id)
			}
			flagSet := cmd.Flags()
			if flagSet.Changed("lat") != flagSet.Changed("long") {
				return fmt.Errorf("--lat and --long must be given together")
			}
			if flagSet.Changed("lat") {
				u.Location = param.Some(api.GeoLocation{Latitude: lat, Longitude: long})
			}
			u.PlaceID = param.NonEmpty(placeID)
			if flagSet.Changed("display-coordinates") {
				u.DisplayCoordinates = param.Some(showCoord)
			}
			if flagSet.Changed("sensitive") {
				u.PossiblySensitive = param.Some(sensitive)
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			s, err := client.Statuses().Update(cmd.Context(), u)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(s)
			}
			f.Success("Posted status %d", s.ID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&replyTo, "reply-to", "", "Status id or link this replies to")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude to attach")
	cmd.Flags().Float64Var(&long, "long", 0, "Longitude to attach")
	cmd.Flags().StringVar(&placeID, "place", "", "Place id to attach (see 'chirp geo search')")
	cmd.Flags().BoolVar(&showCoord, "display-coordinates", false, "Show the exact coordinates")
	cmd.Flags().BoolVar(&sensitive, "sensitive", false, "Mark attached links as possibly sensitive")

	return cmd
}

func newStatusDeleteCmd() *cobra.Command {
	var concurrency int64

	cmd := &cobra.Command{
		Use:     "delete <id|url>...",
		Aliases: []string{"rm", "destroy"},
		Short:   "Delete one or more of your statuses",
		Args:    cobra.MinimumNArgs(1),
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

			if len(ids) == 1 {
				s, err := client.Statuses().Destroy(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				f := formatter(cmd)
				if f.Structured() {
					return f.Output(s)
				}
				f.Success("Deleted status %d", s.ID)
				return nil
			}

			results := runBulkOperation(cmd.Context(), ids, concurrency, func(ctx context.Context, id int64) error {
				_, err := client.Statuses().Destroy(ctx, id)
				return err
			})
			return writeBulk(cmd, "Deleted", results)
		}),
	}
	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests for several ids")
	return cmd
}

// writeBulk prints per-id outcomes and fails when any id failed.
func writeBulk(cmd *cobra.Command, verb string, results []BulkResult) error {
	f := formatter(cmd)
	if f.Structured() {
		if err := f.Output(results); err != nil {
			return err
		}
		return bulkError(results)
	}
	for _, r := range results {
		if r.Success {
			f.Success("%s %d", verb, r.ID)
		} else {
			f.Warn("%d: %s", r.ID, r.Error)
		}
	}
	ok, failed := countResults(results)
	if failed > 0 {
		return bulkError(results)
	}
	_, _ = fmt.Fprintf(iocontext.GetIO(cmd.Context()).ErrOut, "%d succeeded\n", ok)
	return nil
}

func newStatusRetweetCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "retweet <id|url>",
		Aliases: []string{"rt"},
		Short:   "Retweet a status",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseStatusID(args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			s, err := client.Statuses().Retweet(cmd.Context(), id)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(s)
			}
			f.Success("Retweeted %d as %d", id, s.ID)
			return nil
		}),
	}
}

func newStatusRetweetsCmd() *cobra.Command {
	return NewListCommand(ListConfig[api.Status]{
		Use:          "retweets <id|url>",
		Short:        "Retweets of a status",
		Args:         cobra.ExactArgs(1),
		Headers:      statusHeaders,
		RowFunc:      statusRow,
		EmptyMessage: "No retweets",
		Fetch: func(ctx context.Context, c *api.Client, args []string) ([]api.Status, error) {
			id, err := parseStatusID(args[0])
			if err != nil {
				return nil, err
			}
			return c.Statuses().Retweets(ctx, id)
		},
	})
}

func newStatusRetweetedByCmd() *cobra.Command {
	var pf pagingFlags
	return NewListCommand(ListConfig[api.User]{
		Use:          "retweeted-by <id|url>",
		Short:        "Users who retweeted a status",
		Args:         cobra.ExactArgs(1),
		Headers:      userHeaders,
		RowFunc:      userRow,
		EmptyMessage: "No retweeters",
		Flags:        pf.register,
		Fetch: func(ctx context.Context, c *api.Client, args []string) ([]api.User, error) {
			id, err := parseStatusID(args[0])
			if err != nil {
				return nil, err
			}
			return c.Statuses().RetweetedBy(ctx, id, pf.paging())
		},
	})
}

func newStatusRelatedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "related <id|url>",
		Short: "Conversation, replies and same-author statuses around a status",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseStatusID(args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			rel, err := client.Statuses().Related(cmd.Context(), id)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(rel)
			}
			groups := []struct {
				name  string
				items []api.Status
			}{
				{"conversation", rel.TweetsWithConversation},
				{"reply", rel.TweetsWithReply},
				{"same author", rel.TweetsFromUser},
			}
			f.StartTable(append([]string{"KIND"}, statusHeaders...))
			for _, g := range groups {
				for _, s := range g.items {
					f.Row(append([]string{g.name}, statusRow(s)...)...)
				}
			}
			return f.EndTable()
		}),
	}
}
