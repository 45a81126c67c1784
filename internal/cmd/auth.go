package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/auth"
	"github.com/chirpkit/chirp/internal/config"
	"github.com/chirpkit/chirp/internal/iocontext"
)

// newAuthCmd returns the auth command with subcommands
func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage authentication credentials",
		Long:  "Store, inspect and remove API credentials kept in your OS keychain as named profiles.",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthProfilesCmd())
	cmd.AddCommand(newAuthUseCmd())

	return cmd
}

func profileName() string {
	if p := strings.TrimSpace(flags.Profile); p != "" {
		return p
	}
	return "default"
}

func newAuthLoginCmd() *cobra.Command {
	var (
		token    string
		username string
		password string
		verify   bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store credentials in a profile",
		Long: strings.TrimSpace(`
Save a bearer token, or a username and password, to the OS keychain under the
profile named by --profile (default "default"). The profile becomes current.

Pass --token - to read the token from stdin.`),
		Example: strings.TrimSpace(`
  chirp auth login --token "$TOKEN"
  echo "$TOKEN" | chirp auth login --token -
  chirp --profile work auth login --username ann --password secret`),
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			var creds config.Credentials
			switch {
			case token != "" && username != "":
				return fmt.Errorf("--token and --username are mutually exclusive")
			case token != "":
				t, err := iocontext.ArgOrStdin(cmd.Context(), token, 4096)
				if err != nil {
					return err
				}
				creds = config.Credentials{Kind: config.KindBearer, Token: t}
			case username != "":
				if password == "" {
					return fmt.Errorf("--password is required with --username")
				}
				creds = config.Credentials{Kind: config.KindBasic, Username: username, Password: password}
			default:
				return fmt.Errorf("--token or --username is required")
			}
			if err := creds.Validate(); err != nil {
				return err
			}

			var who *api.User
			if verify {
				settings, err := config.LoadSettings("")
				if err != nil {
					return err
				}
				cfg := config.ResolveWith(settings, creds.Authorization())
				client := api.New(cfg.API, cfg.Auth)
				who, err = client.Account().VerifyCredentials(cmd.Context())
				if err != nil {
					return fmt.Errorf("credentials were rejected: %w", err)
				}
			}

			name := profileName()
			if err := config.SaveProfile(name, creds); err != nil {
				return err
			}

			f := formatter(cmd)
			if f.Structured() {
				out := map[string]any{"profile": name, "kind": creds.Kind}
				if who != nil {
					out["screen_name"] = who.ScreenName
				}
				return f.Output(out)
			}
			if who != nil {
				f.Success("Saved profile %q for @%s", name, who.ScreenName)
			} else {
				f.Success("Saved profile %q", name)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token (- reads stdin)")
	cmd.Flags().StringVar(&username, "username", "", "Username for basic auth")
	cmd.Flags().StringVar(&password, "password", "", "Password for basic auth")
	cmd.Flags().BoolVar(&verify, "verify", false, "Call verify_credentials before saving")

	return cmd
}

type authStatus struct {
	Profile     string `json:"profile"`
	Source      string `json:"source"`
	Credential  string `json:"credential"`
	Enabled     bool   `json:"enabled"`
	RESTBaseURL string `json:"rest_base_url"`
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials would be used",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			cfg, err := newClientFactory().resolve()
			if err != nil && !errors.Is(err, config.ErrNotConfigured) {
				return err
			}
			st := authStatus{
				Profile:     profileName(),
				Source:      "keyring",
				Credential:  "anonymous",
				Enabled:     auth.IsEnabled(cfg.Auth),
				RESTBaseURL: cfg.API.RESTBaseURL,
			}
			if flags.Profile == "" {
				if current, err := config.CurrentProfile(); err == nil {
					st.Profile = current
				}
				if envCredentials() {
					st.Source = "environment"
				}
			}
			if s, ok := cfg.Auth.(fmt.Stringer); ok {
				st.Credential = s.String()
			}

			f := formatter(cmd)
			if f.Structured() {
				return f.Output(st)
			}
			out := iocontext.GetIO(cmd.Context()).Out
			_, _ = fmt.Fprintf(out, "Profile:     %s\n", st.Profile)
			_, _ = fmt.Fprintf(out, "Source:      %s\n", st.Source)
			_, _ = fmt.Fprintf(out, "Credential:  %s\n", st.Credential)
			_, _ = fmt.Fprintf(out, "REST API:    %s\n", st.RESTBaseURL)
			if !st.Enabled {
				f.Warn("no credentials configured; only public endpoints will work")
			}
			return nil
		}),
	}
}

func envCredentials() bool {
	for _, k := range []string{"CHIRP_TOKEN", "CHIRP_USERNAME"} {
		if strings.TrimSpace(envOr(k, "")) != "" {
			return true
		}
	}
	return false
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credentials of a profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			name := profileName()
			if flags.Profile == "" {
				if current, err := config.CurrentProfile(); err == nil {
					name = current
				}
			}
			if err := config.DeleteProfile(name); err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(map[string]any{"profile": name, "removed": true})
			}
			f.Success("Removed profile %q", name)
			return nil
		}),
	}
}

func newAuthProfilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"ls"},
		Short:   "List stored profiles",
		Args:    cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, _ := config.CurrentProfile()

			type row struct {
				Name    string `json:"name"`
				Current bool   `json:"current"`
			}
			rows := make([]row, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, row{Name: p, Current: p == current})
			}
			return writeList(cmd, rows, []string{"PROFILE", "CURRENT"}, func(r row) []string {
				mark := ""
				if r.Current {
					mark = "*"
				}
				return []string{r.Name, mark}
			}, "No profiles stored. Run 'chirp auth login'.")
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Make a stored profile current",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if _, err := config.LoadProfile(name); err != nil {
				return fmt.Errorf("profile %q: %w", name, err)
			}
			if err := config.SetCurrentProfile(name); err != nil {
				return err
			}
			formatter(cmd).Success("Switched to profile %q", name)
			return nil
		}),
	}
}
