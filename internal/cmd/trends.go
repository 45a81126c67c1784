package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/param"
	"github.com/chirpkit/chirp/internal/resolve"
)

func newTrendsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Trending topics",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			t, err := client.Trends().Trends(cmd.Context())
			if err != nil {
				return err
			}
			return writeTrends(cmd, []api.Trends{*t})
		}),
	}

	cmd.AddCommand(newTrendsCurrentCmd())
	cmd.AddCommand(trendsWindowCmd("daily", "Hourly trends for a day (default: today)", func(ctx context.Context, c *api.Client, d time.Time, ex bool) ([]api.Trends, error) {
		return c.Trends().Daily(ctx, d, ex)
	}))
	cmd.AddCommand(trendsWindowCmd("weekly", "Daily trends for a week starting at --date", func(ctx context.Context, c *api.Client, d time.Time, ex bool) ([]api.Trends, error) {
		return c.Trends().Weekly(ctx, d, ex)
	}))
	cmd.AddCommand(newTrendsAvailableCmd())
	cmd.AddCommand(newTrendsPlaceCmd())

	return cmd
}

func newTrendsCurrentCmd() *cobra.Command {
	var exclude bool
	cmd := &cobra.Command{
		Use:   "current",
		Short: "Topics trending right now",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ts, err := client.Trends().Current(cmd.Context(), exclude)
			if err != nil {
				return err
			}
			return writeTrends(cmd, ts)
		}),
	}
	cmd.Flags().BoolVar(&exclude, "exclude-hashtags", false, "Leave out hashtag topics")
	return cmd
}

func trendsWindowCmd(use, short string, fetch func(context.Context, *api.Client, time.Time, bool) ([]api.Trends, error)) *cobra.Command {
	var (
		date    string
		exclude bool
	)
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			day, err := parseDate(date)
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ts, err := fetch(cmd.Context(), client, day, exclude)
			if err != nil {
				return err
			}
			return writeTrends(cmd, ts)
		}),
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to report (yyyy-mm-dd, yesterday, monday, 2w ago)")
	cmd.Flags().BoolVar(&exclude, "exclude-hashtags", false, "Leave out hashtag topics")
	return cmd
}

// writeTrends prints one row per topic, grouped by bucket time.
func writeTrends(cmd *cobra.Command, ts []api.Trends) error {
	f := formatter(cmd)
	if f.Structured() {
		if ts == nil {
			ts = []api.Trends{}
		}
		return f.Output(ts)
	}
	total := 0
	for _, t := range ts {
		total += len(t.Trends)
	}
	if total == 0 {
		f.Empty("No trends")
		return nil
	}
	f.StartTable([]string{"AT", "NAME", "QUERY"})
	for _, t := range ts {
		at := "-"
		if !t.TrendAt.IsZero() {
			at = t.TrendAt.Local().Format("2006-01-02 15:04")
		}
		for _, tr := range t.Trends {
			f.Row(at, tr.Name, tr.Query)
		}
	}
	return f.EndTable()
}

func locationRow(l api.Location) []string {
	kind := "-"
	if l.PlaceType != nil {
		kind = l.PlaceType.Name
	}
	return []string{itoa(l.WOEID), l.Name, kind, l.Country}
}

// availableLocations reads the trend locations, from the local cache when fresh.
func availableLocations(ctx context.Context, client *api.Client, near param.Optional[api.GeoLocation]) ([]api.Location, error) {
	variant := ""
	if loc, ok := near.Get(); ok {
		variant = fmt.Sprintf("%g,%g", loc.Latitude, loc.Longitude)
	}
	return cached(client, "trend-locations", variant, func() ([]api.Location, error) {
		return client.Trends().Available(ctx, near)
	})
}

func newTrendsAvailableCmd() *cobra.Command {
	var lat, long float64
	return NewListCommand(ListConfig[api.Location]{
		Use:          "available",
		Aliases:      []string{"locations"},
		Short:        "Locations with trend data, nearest first with --lat/--long",
		Headers:      []string{"WOEID", "NAME", "TYPE", "COUNTRY"},
		RowFunc:      locationRow,
		EmptyMessage: "No locations",
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude to sort by")
			cmd.Flags().Float64Var(&long, "long", 0, "Longitude to sort by")
			cmd.MarkFlagsRequiredTogether("lat", "long")
		},
		Fetch: func(ctx context.Context, c *api.Client, _ []string) ([]api.Location, error) {
			var near param.Optional[api.GeoLocation]
			if lat != 0 || long != 0 {
				near = param.Some(api.GeoLocation{Latitude: lat, Longitude: long})
			}
			return availableLocations(ctx, c, near)
		},
	})
}

func newTrendsPlaceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "place <woeid|name>",
		Short: "Trends for one location",
		Example: strings.TrimSpace(`
  chirp trends place 1
  chirp trends place london`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			woeid, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				locs, err := availableLocations(ctx, client, param.None[api.GeoLocation]())
				if err != nil {
					return err
				}
				if woeid, err = resolve.FuzzyMatch(args[0], resolve.Locations(locs)); err != nil {
					return err
				}
			}
			t, err := client.Trends().Location(ctx, woeid)
			if err != nil {
				return err
			}
			return writeTrends(cmd, []api.Trends{*t})
		}),
	}
}
