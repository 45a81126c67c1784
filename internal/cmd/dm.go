package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/iocontext"
)

func newDMCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dm",
		Aliases: []string{"messages", "direct-messages"},
		Short:   "Read and send direct messages",
	}

	cmd.AddCommand(dmListCmd("list", []string{"ls", "received"}, "Messages sent to you", func(ctx context.Context, c *api.Client, p api.Paging) ([]api.DirectMessage, error) {
		return c.DirectMessages().Received(ctx, p)
	}))
	cmd.AddCommand(dmListCmd("sent", nil, "Messages you sent", func(ctx context.Context, c *api.Client, p api.Paging) ([]api.DirectMessage, error) {
		return c.DirectMessages().Sent(ctx, p)
	}))
	cmd.AddCommand(newDMShowCmd())
	cmd.AddCommand(newDMSendCmd())
	cmd.AddCommand(newDMDeleteCmd())

	return cmd
}

func dmListCmd(use string, aliases []string, short string, fetch func(context.Context, *api.Client, api.Paging) ([]api.DirectMessage, error)) *cobra.Command {
	var pf pagingFlags
	return NewListCommand(ListConfig[api.DirectMessage]{
		Use:          use,
		Aliases:      aliases,
		Short:        short,
		Headers:      dmHeaders,
		RowFunc:      dmRow,
		EmptyMessage: "No messages",
		Flags:        pf.register,
		Fetch: func(ctx context.Context, c *api.Client, _ []string) ([]api.DirectMessage, error) {
			return fetch(ctx, c, pf.paging())
		},
	})
}

func newDMShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <id>",
		Aliases: []string{"get"},
		Short:   "Show one direct message",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("message", args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			m, err := client.DirectMessages().Show(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printDM(cmd, m)
		}),
	}
}

func newDMSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <user> <text|->",
		Short: "Send a direct message",
		Example: strings.TrimSpace(`
  chirp dm send @ann "see you at 6"
  cat note.txt | chirp dm send 12345 -`),
		Args: cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			to, err := parseUserRef(args[0])
			if err != nil {
				return err
			}
			text, err := iocontext.ArgOrStdin(cmd.Context(), args[1], maxStatusInput)
			if err != nil {
				return err
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("message text is required")
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			m, err := client.DirectMessages().Send(cmd.Context(), to, text)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(m)
			}
			f.Success("Sent message %d to @%s", m.ID, m.RecipientScreenName)
			return nil
		}),
	}
}

func newDMDeleteCmd() *cobra.Command {
	var concurrency int64
	cmd := &cobra.Command{
		Use:     "delete <id>...",
		Aliases: []string{"rm"},
		Short:   "Delete direct messages",
		Args:    cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("message", args)
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			if len(ids) == 1 {
				m, err := client.DirectMessages().Destroy(cmd.Context(), ids[0])
				if err != nil {
					return err
				}
				f := formatter(cmd)
				if f.Structured() {
					return f.Output(m)
				}
				f.Success("Deleted message %d", m.ID)
				return nil
			}
			results := runBulkOperation(cmd.Context(), ids, concurrency, func(ctx context.Context, id int64) error {
				_, err := client.DirectMessages().Destroy(ctx, id)
				return err
			})
			return writeBulk(cmd, "Deleted", results)
		}),
	}
	cmd.Flags().Int64Var(&concurrency, "concurrency", DefaultConcurrency, "Parallel requests for several ids")
	return cmd
}
