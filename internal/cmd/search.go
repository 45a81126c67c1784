package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/dates"
)

func newSearchCmd() *cobra.Command {
	var (
		q      api.SearchQuery
		until  string
		near   string
		radius float64
		unit   string
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search recent statuses",
		Long: strings.TrimSpace(`
Search recent statuses. No results is not an error: the command prints nothing
in text mode and an empty result in JSON mode.`),
		Example: strings.TrimSpace(`
  chirp search golang
  chirp search "#gophercon" --type recent --rpp 50
  chirp search coffee --near 37.78,-122.40 --radius 2 --unit km
  chirp search golang --until yesterday -o json -q '.results[].text'`),
		Args: cobra.MinimumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			q.Query = strings.Join(args, " ")
			if until != "" {
				day, err := parseDate(until)
				if err != nil {
					return err
				}
				q.Until = dates.Format(day)
			}
			if near != "" {
				loc, err := parseLatLong(near)
				if err != nil {
					return err
				}
				if unit != "mi" && unit != "km" {
					return api.NewValidationError("--unit", unit, []string{"mi", "km"})
				}
				q = q.Near(loc, radius, unit)
			}

			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			res, err := client.Search().Search(cmd.Context(), q)
			if err != nil {
				return err
			}

			f := formatter(cmd)
			if f.Structured() {
				return f.Output(res)
			}
			if len(res.Tweets) == 0 {
				f.Empty("No results")
				return nil
			}
			f.StartTable([]string{"ID", "FROM", "CREATED", "TEXT"})
			for _, t := range res.Tweets {
				f.Row(tweetRow(t)...)
			}
			if err := f.EndTable(); err != nil {
				return err
			}
			if res.NextPage != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "next page: --page %d\n", res.Page+1)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&q.Lang, "lang", "", "Restrict to an ISO 639-1 language")
	cmd.Flags().StringVar(&q.Locale, "locale", "", "Language of the query")
	cmd.Flags().StringVar(&q.ResultType, "type", "", "Result type: mixed|recent|popular")
	cmd.Flags().StringVar(&until, "until", "", "Statuses before this day (yyyy-mm-dd, yesterday, 3d ago)")
	cmd.Flags().Int64Var(&q.SinceID, "since-id", 0, "Only statuses newer than this id")
	cmd.Flags().Int64Var(&q.MaxID, "max-id", 0, "Only statuses at or older than this id")
	cmd.Flags().IntVar(&q.Rpp, "rpp", 0, "Results per page (max 100)")
	cmd.Flags().IntVar(&q.Page, "page", 0, "Page number")
	cmd.Flags().StringVar(&near, "near", "", "Restrict to a radius around lat,long")
	cmd.Flags().Float64Var(&radius, "radius", 1, "Radius for --near")
	cmd.Flags().StringVar(&unit, "unit", "mi", "Radius unit: mi|km")

	return cmd
}
