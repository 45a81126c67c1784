package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/param"
)

func newGeoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geo",
		Short: "Search and create places",
	}

	cmd.AddCommand(newGeoSearchCmd())
	cmd.AddCommand(newGeoReverseCmd())
	cmd.AddCommand(newGeoShowCmd())
	cmd.AddCommand(newGeoSimilarCmd())
	cmd.AddCommand(newGeoCreateCmd())

	return cmd
}

// parseLatLong reads "lat,long".
func parseLatLong(s string) (api.GeoLocation, error) {
	latStr, longStr, ok := strings.Cut(s, ",")
	if !ok {
		return api.GeoLocation{}, fmt.Errorf("invalid location %q: expected lat,long", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return api.GeoLocation{}, fmt.Errorf("invalid latitude %q", latStr)
	}
	long, err := strconv.ParseFloat(strings.TrimSpace(longStr), 64)
	if err != nil || long < -180 || long > 180 {
		return api.GeoLocation{}, fmt.Errorf("invalid longitude %q", longStr)
	}
	return api.GeoLocation{Latitude: lat, Longitude: long}, nil
}

// geoQueryFlags binds the shared place query flags.
type geoQueryFlags struct {
	at          string
	granularity string
	accuracy    string
	max         int
}

func (g *geoQueryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&g.granularity, "granularity", "", "poi|neighborhood|city|admin|country")
	cmd.Flags().StringVar(&g.accuracy, "accuracy", "", "Search radius, e.g. 5ft or 1000 (meters)")
	cmd.Flags().IntVar(&g.max, "max", 0, "Maximum number of places")
}

func (g *geoQueryFlags) query() (api.GeoQuery, error) {
	q := api.GeoQuery{Granularity: g.granularity, Accuracy: g.accuracy, MaxResults: g.max}
	if g.at != "" {
		loc, err := parseLatLong(g.at)
		if err != nil {
			return q, err
		}
		q.Location = param.Some(loc)
	}
	return q, nil
}

func newGeoSearchCmd() *cobra.Command {
	var (
		gf geoQueryFlags
		ip string
	)
	return NewListCommand(ListConfig[api.Place]{
		Use:   "search [query]",
		Short: "Find places by name, point or IP address",
		Example: strings.TrimSpace(`
  chirp geo search "twitter hq"
  chirp geo search --at 37.78,-122.40 --granularity city
  chirp geo search --ip 74.125.19.104`),
		Args:         cobra.MaximumNArgs(1),
		Headers:      placeHeaders,
		RowFunc:      placeRow,
		EmptyMessage: "No places found",
		Flags: func(cmd *cobra.Command) {
			gf.register(cmd)
			cmd.Flags().StringVar(&gf.at, "at", "", "Point as lat,long")
			cmd.Flags().StringVar(&ip, "ip", "", "Search near an IP address")
		},
		Fetch: func(ctx context.Context, c *api.Client, args []string) ([]api.Place, error) {
			q, err := gf.query()
			if err != nil {
				return nil, err
			}
			q.IP = ip
			if len(args) == 1 {
				q.Query = args[0]
			}
			return c.Geo().Search(ctx, q)
		},
	})
}

func newGeoReverseCmd() *cobra.Command {
	var gf geoQueryFlags
	return NewListCommand(ListConfig[api.Place]{
		Use:          "reverse <lat,long>",
		Short:        "Places containing a point",
		Args:         cobra.ExactArgs(1),
		Headers:      placeHeaders,
		RowFunc:      placeRow,
		EmptyMessage: "No places found",
		Flags:        gf.register,
		Fetch: func(ctx context.Context, c *api.Client, args []string) ([]api.Place, error) {
			gf.at = args[0]
			q, err := gf.query()
			if err != nil {
				return nil, err
			}
			return c.Geo().ReverseGeocode(ctx, q)
		},
	})
}

func printPlace(cmd *cobra.Command, p *api.Place) error {
	var within []string
	for _, c := range p.ContainedWithin {
		within = append(within, c.FullName)
	}
	return printDetail(cmd, p, []field{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Full name", p.FullName},
		{"Type", p.PlaceType},
		{"Country", p.Country},
		{"Street address", p.Attributes["street_address"]},
		{"Within", strings.Join(within, "; ")},
	})
}

func newGeoShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <place_id>",
		Aliases: []string{"get"},
		Short:   "Show a place",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			p, err := client.Geo().Place(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printPlace(cmd, p)
		}),
	}
}

func newGeoSimilarCmd() *cobra.Command {
	var within, street string
	cmd := &cobra.Command{
		Use:   "similar <name> <lat,long>",
		Short: "Places matching a name near a point, plus a token for geo create",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			loc, err := parseLatLong(args[1])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			sp, err := client.Geo().SimilarPlaces(cmd.Context(), loc, args[0], param.NonEmpty(within), param.NonEmpty(street))
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(sp)
			}
			if err := writeList(cmd, sp.Places, placeHeaders, placeRow, "No similar places"); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "token: %s\n", sp.Token)
			return nil
		}),
	}
	cmd.Flags().StringVar(&within, "within", "", "Place id the new place is inside")
	cmd.Flags().StringVar(&street, "street", "", "Street address")
	return cmd
}

func newGeoCreateCmd() *cobra.Command {
	var p struct {
		within string
		token  string
		street string
	}
	cmd := &cobra.Command{
		Use:   "create <name> <lat,long>",
		Short: "Create a place (get --token from geo similar)",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			loc, err := parseLatLong(args[1])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			place, err := client.Geo().Create(cmd.Context(), api.NewPlace{
				Name:            args[0],
				ContainedWithin: p.within,
				Token:           p.token,
				Location:        loc,
				StreetAddress:   param.NonEmpty(p.street),
			})
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(place)
			}
			f.Success("Created place %s (%s)", place.FullName, place.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&p.within, "within", "", "Place id the new place is inside")
	cmd.Flags().StringVar(&p.token, "token", "", "Token from geo similar")
	cmd.Flags().StringVar(&p.street, "street", "", "Street address")
	_ = cmd.MarkFlagRequired("within")
	_ = cmd.MarkFlagRequired("token")
	return cmd
}
