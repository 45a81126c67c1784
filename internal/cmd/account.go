package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/media"
	"github.com/chirpkit/chirp/internal/param"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "account",
		Aliases: []string{"me"},
		Short:   "Your profile, settings and totals",
	}

	cmd.AddCommand(newAccountVerifyCmd())
	cmd.AddCommand(newAccountTotalsCmd())
	cmd.AddCommand(newAccountSettingsCmd())
	cmd.AddCommand(newAccountUpdateProfileCmd())
	cmd.AddCommand(newAccountColorsCmd())
	cmd.AddCommand(newAccountImageCmd())
	cmd.AddCommand(newAccountBackgroundCmd())

	return cmd
}

func newAccountVerifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "verify",
		Aliases: []string{"whoami"},
		Short:   "Show the authenticated user",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			u, err := client.Account().VerifyCredentials(cmd.Context())
			if err != nil {
				return err
			}
			return printUser(cmd, u)
		}),
	}
}

func newAccountTotalsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "totals",
		Short: "Counts of your statuses, followers, favorites and friends",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			t, err := client.Account().Totals(cmd.Context())
			if err != nil {
				return err
			}
			return printDetail(cmd, t, []field{
				{"Updates", strconv.Itoa(t.Updates)},
				{"Followers", strconv.Itoa(t.Followers)},
				{"Favorites", strconv.Itoa(t.Favorites)},
				{"Friends", strconv.Itoa(t.Friends)},
			})
		}),
	}
}

func newAccountSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Your account preferences",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			s, err := client.Account().Settings(cmd.Context())
			if err != nil {
				return err
			}
			tz := ""
			if s.TimeZone != nil {
				tz = s.TimeZone.Name
			}
			var trends []string
			for _, l := range s.TrendLocation {
				trends = append(trends, l.Name)
			}
			return printDetail(cmd, s, []field{
				{"Screen name", "@" + s.ScreenName},
				{"Language", s.Language},
				{"Time zone", tz},
				{"Always HTTPS", boolText(s.AlwaysUseHTTPS)},
				{"Geo enabled", boolText(s.GeoEnabled)},
				{"Discoverable by email", boolText(s.DiscoverableByEmail)},
				{"Sleep time", boolText(s.SleepTime.Enabled)},
				{"Trend locations", strings.Join(trends, ", ")},
			})
		}),
	}
}

// optString returns Some(v) when the flag was given, even if empty.
func optString(cmd *cobra.Command, name, v string) param.Optional[string] {
	if cmd.Flags().Changed(name) {
		return param.Some(v)
	}
	return param.None[string]()
}

func newAccountUpdateProfileCmd() *cobra.Command {
	var name, url, location, description string
	cmd := &cobra.Command{
		Use:   "update-profile",
		Short: "Change your name, URL, location or description",
		Example: strings.TrimSpace(`
  chirp account update-profile --name "Ann" --location Berlin
  chirp account update-profile --url ""`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			u := api.ProfileUpdate{
				Name:        optString(cmd, "name", name),
				URL:         optString(cmd, "url", url),
				Location:    optString(cmd, "location", location),
				Description: optString(cmd, "description", description),
			}
			if !u.Name.IsSet() && !u.URL.IsSet() && !u.Location.IsSet() && !u.Description.IsSet() {
				return fmt.Errorf("at least one of --name, --url, --location or --description is required")
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			user, err := client.Account().UpdateProfile(cmd.Context(), u)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(user)
			}
			f.Success("Updated profile of @%s", user.ScreenName)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&url, "url", "", "Website")
	cmd.Flags().StringVar(&location, "location", "", "Location")
	cmd.Flags().StringVar(&description, "description", "", "Bio")
	return cmd
}

func newAccountColorsCmd() *cobra.Command {
	var background, text, link, fill, border string
	cmd := &cobra.Command{
		Use:   "colors",
		Short: "Change profile colors (hex, without #)",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			trim := func(name, v string) param.Optional[string] {
				return optString(cmd, name, strings.TrimPrefix(v, "#"))
			}
			c := api.ProfileColors{
				Background:    trim("background", background),
				Text:          trim("text", text),
				Link:          trim("link", link),
				SidebarFill:   trim("sidebar-fill", fill),
				SidebarBorder: trim("sidebar-border", border),
			}
			if !c.Background.IsSet() && !c.Text.IsSet() && !c.Link.IsSet() && !c.SidebarFill.IsSet() && !c.SidebarBorder.IsSet() {
				return fmt.Errorf("at least one color flag is required")
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			user, err := client.Account().UpdateProfileColors(cmd.Context(), c)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(user)
			}
			f.Success("Updated colors of @%s", user.ScreenName)
			return nil
		}),
	}
	cmd.Flags().StringVar(&background, "background", "", "Background color")
	cmd.Flags().StringVar(&text, "text", "", "Text color")
	cmd.Flags().StringVar(&link, "link", "", "Link color")
	cmd.Flags().StringVar(&fill, "sidebar-fill", "", "Sidebar fill color")
	cmd.Flags().StringVar(&border, "sidebar-border", "", "Sidebar border color")
	return cmd
}

func newAccountImageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "image <file>",
		Short: "Upload a new profile image (JPEG, PNG or GIF)",
		Long:  "Upload a new profile image. Large JPEG and PNG files are scaled down to fit the upload limit.",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			img, err := media.Load(args[0], media.MaxProfileImage)
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			user, err := client.Account().UpdateProfileImage(cmd.Context(), img)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(user)
			}
			f.Success("Updated profile image of @%s", user.ScreenName)
			return nil
		}),
	}
}

func newAccountBackgroundCmd() *cobra.Command {
	var tile bool
	cmd := &cobra.Command{
		Use:   "background <file>",
		Short: "Upload a new profile background image",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			img, err := media.Load(args[0], media.MaxBackgroundImage)
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			user, err := client.Account().UpdateProfileBackgroundImage(cmd.Context(), img, tile)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(user)
			}
			f.Success("Updated background image of @%s", user.ScreenName)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&tile, "tile", false, "Repeat the image")
	return cmd
}

func newRateLimitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rate-limit",
		Aliases: []string{"ratelimit", "limits"},
		Short:   "Remaining API calls this hour",
		Long:    "Remaining API calls this hour. Without credentials this is the budget of your IP address.",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			rl, err := client.Account().RateLimitStatus(cmd.Context())
			if err != nil {
				return err
			}
			resetIn := rl.ResetIn(time.Now()).Round(time.Second)
			if f := formatter(cmd); f.Structured() {
				return f.Output(map[string]any{
					"remaining_hits":        rl.RemainingHits,
					"hourly_limit":          rl.HourlyLimit,
					"reset_time_in_seconds": rl.ResetTimeInSeconds,
					"reset_in_seconds":      int64(resetIn / time.Second),
				})
			}
			return printDetail(cmd, rl, []field{
				{"Remaining", fmt.Sprintf("%d/%d", rl.RemainingHits, rl.HourlyLimit)},
				{"Resets in", resetIn.String()},
				{"Resets at", formatTime(rl.ResetTime)},
			})
		}),
	}
}
