// Package cmd is the chirp command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/chirpkit/chirp/internal/debug"
	"github.com/chirpkit/chirp/internal/dryrun"
	"github.com/chirpkit/chirp/internal/iocontext"
	"github.com/chirpkit/chirp/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output   string
	Query    string
	Template string
	Debug    bool
	DryRun   bool
	Profile  string
	Timeout  time.Duration
}

// flags holds the global command flags. It is package-level state and is
// reset at the start of every Execute call; read it only from inside RunE.
var flags rootFlags

func defaultFlags() rootFlags {
	return rootFlags{
		Output: envOr("CHIRP_OUTPUT", "text"),
		Debug:  parseBoolEnv("CHIRP_DEBUG"),
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func parseBoolEnv(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	// A .env in the working directory never overrides exported variables.
	_ = godotenv.Load()

	flags = defaultFlags()
	resetSession()

	root := &cobra.Command{
		Use:                "chirp",
		Short:              "Command line client for the social network REST API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if flags.Query != "" && !cmd.Flags().Changed("output") && flags.Output == "text" {
				flags.Output = "json"
			}
			mode, err := outfmt.Parse(flags.Output)
			if err != nil {
				return err
			}
			if flags.Query != "" && mode == outfmt.Text && flags.Template == "" {
				return fmt.Errorf("--query requires --output json or jsonl")
			}
			ctx = outfmt.WithMode(ctx, mode)
			if flags.Query != "" {
				ctx = outfmt.WithQuery(ctx, flags.Query)
			}
			if flags.Template != "" {
				tmpl, err := loadTemplate(flags.Template)
				if err != nil {
					return err
				}
				ctx = outfmt.WithTemplate(ctx, tmpl)
			}
			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			streams := iocontext.GetIO(ctx)
			ctx = iocontext.WithIO(ctx, streams)
			cmd.SetOut(streams.Out)
			cmd.SetErr(streams.ErrOut)

			debug.SetupLogger(flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)
			ctx = dryrun.WithDryRun(ctx, flags.DryRun)

			cmd.SetContext(ctx)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			logSessionStats(cmd.Context())
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", flags.Output, "Output format: text|json|jsonl (env CHIRP_OUTPUT)")
	pf.StringVarP(&flags.Query, "query", "q", "", "jq expression applied to JSON output")
	pf.StringVar(&flags.Template, "template", "", "Go template string (or @path) rendered over the JSON shape of the result")
	pf.BoolVar(&flags.Debug, "debug", flags.Debug, "Log requests to stderr (env CHIRP_DEBUG)")
	pf.BoolVar(&flags.DryRun, "dry-run", false, "Print mutating requests instead of sending them")
	pf.StringVar(&flags.Profile, "profile", "", "Credential profile to use (env CHIRP_PROFILE)")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "HTTP request timeout, e.g. 10s (overrides settings)")

	root.AddCommand(
		newAuthCmd(),
		newTimelineCmd(),
		newStatusCmd(),
		newSearchCmd(),
		newUsersCmd(),
		newListsCmd(),
		newDMCmd(),
		newFriendshipsCmd(),
		newTrendsCmd(),
		newGeoCmd(),
		newFavoritesCmd(),
		newBlocksCmd(),
		newSavedSearchesCmd(),
		newAccountCmd(),
		newLegalCmd(),
		newHelpAPICmd(),
		newRateLimitCmd(),
		newMonitorCmd(),
		newCacheCmd(),
		newVersionCmd(),
	)

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
func enhanceUnknownError(err error, root, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := closest(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			cmd := root
			if targetCmd != nil {
				cmd = targetCmd
			}
			var names []string
			collect := func(f *pflag.Flag) { names = append(names, "--"+f.Name) }
			cmd.Flags().VisitAll(collect)
			cmd.InheritedFlags().VisitAll(collect)
			help := strings.TrimSpace(cmd.CommandPath()) + " --help"
			if suggestion := closest(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?\nRun %q to see supported flags.", msg, suggestion, help)
			}
			return fmt.Sprintf("%s\n\nRun %q to see supported flags.", msg, help)
		}
	}
	return msg
}

func extractQuoted(s string) string {
	start := strings.IndexByte(s, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(s[start+1:], '"')
	if end < 0 {
		return ""
	}
	return s[start+1 : start+1+end]
}

func extractFlag(s string) string {
	idx := strings.Index(s, "--")
	if idx < 0 {
		return ""
	}
	rest := s[idx:]
	if end := strings.IndexByte(rest, ' '); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimRight(rest, ".,;:!?\"'")
}

func loadTemplate(value string) (string, error) {
	if path, ok := strings.CutPrefix(value, "@"); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}
	return value, nil
}
