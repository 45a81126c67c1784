package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
)

func newLegalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "legal",
		Short: "Terms of service and privacy policy",
	}
	cmd.AddCommand(legalTextCmd("tos", "Terms of service", "tos", func(ctx context.Context, c *api.Client) (string, error) {
		return c.Help().TermsOfService(ctx)
	}))
	cmd.AddCommand(legalTextCmd("privacy", "Privacy policy", "privacy", func(ctx context.Context, c *api.Client) (string, error) {
		return c.Help().PrivacyPolicy(ctx)
	}))
	return cmd
}

func legalTextCmd(use, short, key string, fetch func(context.Context, *api.Client) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			text, err := fetch(cmd.Context(), client)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(map[string]string{key: text})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		}),
	}
}
