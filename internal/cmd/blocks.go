package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
)

func newBlocksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "blocks",
		Aliases: []string{"block"},
		Short:   "Block users and report spam",
	}

	cmd.AddCommand(userActionCmd("add <user>", "Block a user", "Blocked", func(ctx context.Context, c *api.Client, u api.UserRef) (*api.User, error) {
		return c.Blocks().Create(ctx, u)
	}))
	cmd.AddCommand(userActionCmd("remove <user>", "Unblock a user", "Unblocked", func(ctx context.Context, c *api.Client, u api.UserRef) (*api.User, error) {
		return c.Blocks().Destroy(ctx, u)
	}))
	cmd.AddCommand(userActionCmd("report-spam <user>", "Block a user and report it as spam", "Reported", func(ctx context.Context, c *api.Client, u api.UserRef) (*api.User, error) {
		return c.Blocks().ReportSpam(ctx, u)
	}))
	cmd.AddCommand(newBlocksListCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "ids",
		Short: "Ids of blocked users",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ids, err := client.Blocks().BlockingIDs(cmd.Context())
			if err != nil {
				return err
			}
			return writeIDs(cmd, ids)
		}),
	})
	cmd.AddCommand(newBlocksExistsCmd())

	return cmd
}

func newBlocksListCmd() *cobra.Command {
	var page int
	return NewListCommand(ListConfig[api.User]{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "Users you block",
		Headers:      userHeaders,
		RowFunc:      userRow,
		EmptyMessage: "No blocked users",
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().IntVar(&page, "page", 0, "Page number")
		},
		Fetch: func(ctx context.Context, c *api.Client, _ []string) ([]api.User, error) {
			return c.Blocks().Blocking(ctx, page)
		},
	})
}

func newBlocksExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <user>",
		Short: "Check whether you block a user",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, err := parseUserRef(args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ok, err := client.Blocks().Exists(cmd.Context(), ref)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(map[string]any{"user": ref.String(), "blocking": ok})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), boolText(ok))
			return nil
		}),
	}
}
