package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
)

// ListConfig defines how a list command behaves
type ListConfig[T any] struct {
	Use          string
	Aliases      []string
	Short        string
	Long         string
	Example      string
	Args         cobra.PositionalArgs
	Headers      []string
	RowFunc      func(T) []string
	EmptyMessage string
	// Flags registers command-specific flags read by Fetch.
	Flags func(cmd *cobra.Command)
	Fetch func(ctx context.Context, client *api.Client, args []string) ([]T, error)
}

// NewListCommand creates a cobra command from ListConfig. Structured modes
// print the items array; text mode prints a table.
func NewListCommand[T any](cfg ListConfig[T]) *cobra.Command {
	args := cfg.Args
	if args == nil {
		args = cobra.NoArgs
	}
	cmd := &cobra.Command{
		Use:     cfg.Use,
		Aliases: cfg.Aliases,
		Short:   cfg.Short,
		Long:    cfg.Long,
		Example: cfg.Example,
		Args:    args,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			items, err := cfg.Fetch(cmd.Context(), client, args)
			if err != nil {
				return err
			}
			return writeList(cmd, items, cfg.Headers, cfg.RowFunc, cfg.EmptyMessage)
		}),
	}
	if cfg.Flags != nil {
		cfg.Flags(cmd)
	}
	return cmd
}

func writeList[T any](cmd *cobra.Command, items []T, headers []string, row func(T) []string, empty string) error {
	f := formatter(cmd)
	if items == nil {
		items = []T{}
	}
	if f.Structured() {
		return f.Output(items)
	}
	if len(items) == 0 {
		if empty == "" {
			empty = "No results"
		}
		f.Empty(empty)
		return nil
	}
	f.StartTable(headers)
	for _, item := range items {
		f.Row(row(item)...)
	}
	return f.EndTable()
}
