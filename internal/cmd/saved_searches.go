package cmd

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
)

func newSavedSearchesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "saved-searches",
		Aliases: []string{"saved", "ss"},
		Short:   "Manage saved searches",
	}

	cmd.AddCommand(NewListCommand(ListConfig[api.SavedSearch]{
		Use:          "list",
		Aliases:      []string{"ls"},
		Short:        "Your saved searches",
		Headers:      []string{"ID", "NAME", "QUERY", "CREATED"},
		RowFunc:      savedSearchRow,
		EmptyMessage: "No saved searches",
		Fetch: func(ctx context.Context, c *api.Client, _ []string) ([]api.SavedSearch, error) {
			return c.SavedSearches().List(ctx)
		},
	}))
	cmd.AddCommand(savedSearchByIDCmd("show <id>", "Show a saved search", "", func(ctx context.Context, c *api.Client, id int64) (*api.SavedSearch, error) {
		return c.SavedSearches().Show(ctx, id)
	}))
	cmd.AddCommand(&cobra.Command{
		Use:   "create <query>",
		Short: "Save a search",
		Args:  cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			s, err := client.SavedSearches().Create(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(s)
			}
			f.Success("Saved search %d: %s", s.ID, s.Query)
			return nil
		}),
	})
	cmd.AddCommand(savedSearchByIDCmd("delete <id>", "Delete a saved search", "Deleted saved search", func(ctx context.Context, c *api.Client, id int64) (*api.SavedSearch, error) {
		return c.SavedSearches().Destroy(ctx, id)
	}))

	return cmd
}

func savedSearchRow(s api.SavedSearch) []string {
	return []string{itoa(s.ID), s.Name, s.Query, formatTime(s.CreatedAt)}
}

// savedSearchByIDCmd prints the search, or a success line when verb is set.
func savedSearchByIDCmd(use, short, verb string, op func(context.Context, *api.Client, int64) (*api.SavedSearch, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("saved search", args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			s, err := op(cmd.Context(), client, id)
			if err != nil {
				return err
			}
			if verb != "" {
				f := formatter(cmd)
				if f.Structured() {
					return f.Output(s)
				}
				f.Success("%s %d", verb, s.ID)
				return nil
			}
			position := "-"
			if s.Position != nil {
				position = strconv.Itoa(*s.Position)
			}
			return printDetail(cmd, s, []field{
				{"ID", itoa(s.ID)},
				{"Name", s.Name},
				{"Query", s.Query},
				{"Position", position},
				{"Created", formatTime(s.CreatedAt)},
			})
		}),
	}
}
