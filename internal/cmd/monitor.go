package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/config"
	"github.com/chirpkit/chirp/internal/monitor"
)

func newMonitorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Shared per-endpoint call statistics",
		Long: `Shared per-endpoint call statistics recorded in Redis.

Recording is enabled with monitoring.enabled in the config file (or CHIRP_MONITOR=1)
and monitoring.redis_url (or CHIRP_REDIS_URL).`,
	}
	cmd.AddCommand(newMonitorShowCmd())
	cmd.AddCommand(newMonitorResetCmd())
	return cmd
}

func dialMonitor() (*monitor.RedisRecorder, error) {
	settings, err := config.LoadSettings(newClientFactory().settingsPath)
	if err != nil {
		return nil, err
	}
	if settings.Monitoring.RedisURL == "" {
		return nil, fmt.Errorf("no redis url configured: set monitoring.redis_url or CHIRP_REDIS_URL")
	}
	return monitor.DialRedis(settings.Monitoring.RedisURL, monitor.DefaultKeyPrefix)
}

func newMonitorShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print call counts, failures and latency per endpoint",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			rec, err := dialMonitor()
			if err != nil {
				return err
			}
			defer func() { _ = rec.Close() }()
			stats, err := rec.Read(cmd.Context())
			if err != nil {
				return err
			}
			return writeList(cmd, stats, []string{"PATH", "CALLS", "FAILURES", "AVG"}, func(s monitor.EndpointStat) []string {
				return []string{s.Path, strconv.FormatInt(s.Calls, 10), strconv.FormatInt(s.Failures, 10), s.Average().String()}
			}, "No calls recorded")
		}),
	}
}

func newMonitorResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the shared statistics",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			rec, err := dialMonitor()
			if err != nil {
				return err
			}
			defer func() { _ = rec.Close() }()
			if err := rec.Reset(cmd.Context()); err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(map[string]bool{"reset": true})
			}
			f.Success("Statistics reset")
			return nil
		}),
	}
}
