package cmd

import (
	"context"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
)

// newHelpAPICmd groups the service's help endpoints. It is not cobra's help command.
func newHelpAPICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "service",
		Aliases: []string{"api-help"},
		Short:   "Service health, configuration and languages",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Check that the service answers",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ok, err := client.Help().Test(cmd.Context())
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(map[string]bool{"ok": ok})
			}
			if ok {
				f.Success("ok")
			} else {
				f.Warn("service answered but did not report ok")
			}
			return nil
		}),
	})
	cmd.AddCommand(NewListCommand(ListConfig[api.Language]{
		Use:          "languages",
		Short:        "Languages the service supports",
		Headers:      []string{"CODE", "NAME", "STATUS"},
		EmptyMessage: "No languages",
		RowFunc: func(l api.Language) []string {
			return []string{l.Code, l.Name, l.Status}
		},
		Fetch: func(ctx context.Context, c *api.Client, _ []string) ([]api.Language, error) {
			return cached(c, "languages", "", func() ([]api.Language, error) {
				return c.Help().Languages(ctx)
			})
		},
	}))
	cmd.AddCommand(&cobra.Command{
		Use:     "configuration",
		Aliases: []string{"config"},
		Short:   "Limits such as short URL length and photo sizes",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			conf, err := cached(client, "configuration", "", func() (*api.Configuration, error) {
				return client.Help().Configuration(cmd.Context())
			})
			if err != nil {
				return err
			}
			fields := []field{
				{"Short URL length", strconv.Itoa(conf.ShortURLLength)},
				{"Short URL length (https)", strconv.Itoa(conf.ShortURLLengthHTTPS)},
				{"Characters per media", strconv.Itoa(conf.CharactersReservedPerMedia)},
				{"Max media per upload", strconv.Itoa(conf.MaxMediaPerUpload)},
				{"Photo size limit", strconv.FormatInt(conf.PhotoSizeLimit, 10)},
			}
			sizes := make([]string, 0, len(conf.PhotoSizes))
			for name := range conf.PhotoSizes {
				sizes = append(sizes, name)
			}
			sort.Strings(sizes)
			for _, name := range sizes {
				s := conf.PhotoSizes[name]
				fields = append(fields, field{"Photo " + name, strconv.Itoa(s.Width) + "x" + strconv.Itoa(s.Height) + " " + s.Resize})
			}
			return printDetail(cmd, conf, fields)
		}),
	})

	return cmd
}
