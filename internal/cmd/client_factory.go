package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/config"
	"github.com/chirpkit/chirp/internal/debug"
	"github.com/chirpkit/chirp/internal/dryrun"
	"github.com/chirpkit/chirp/internal/httpx"
	"github.com/chirpkit/chirp/internal/iocontext"
	"github.com/chirpkit/chirp/internal/monitor"
)

// sessionState is what one Execute call builds lazily and tears down at the end.
type sessionState struct {
	http  *httpx.Client
	stats *monitor.Stats
	redis *monitor.RedisRecorder
}

var session sessionState

func resetSession() {
	if session.redis != nil {
		_ = session.redis.Close()
	}
	session = sessionState{}
}

type clientFactory struct {
	settingsPath string
	userAgent    string
}

func newClientFactory() *clientFactory {
	return &clientFactory{userAgent: fmt.Sprintf("chirp/%s", version)}
}

// getClient builds the facade for the active profile and global flags.
func getClient(cmd *cobra.Command) (*api.Client, error) {
	return newClientFactory().build(cmd.Context())
}

func (f *clientFactory) resolve() (config.ClientConfig, error) {
	settings, err := config.LoadSettings(f.settingsPath)
	if err != nil {
		return config.ClientConfig{}, err
	}
	if name := strings.TrimSpace(flags.Profile); name != "" {
		creds, err := config.LoadProfile(name)
		if err != nil {
			return config.ClientConfig{}, err
		}
		return config.ResolveWith(settings, creds.Authorization()), nil
	}
	return config.Resolve(settings)
}

func (f *clientFactory) build(ctx context.Context) (*api.Client, error) {
	cfg, err := f.resolve()
	if err != nil {
		return nil, err
	}

	hc := httpx.New()
	hc.SetRetryConfig(cfg.Retry)
	hc.SetTimeout(cfg.Timeout)
	if flags.Timeout > 0 {
		hc.SetTimeout(flags.Timeout)
	}
	hc.UserAgent = f.userAgent
	if cfg.UserAgent != "" && cfg.UserAgent != httpx.DefaultUserAgent {
		hc.UserAgent = cfg.UserAgent
	}
	session.http = hc

	var doer httpx.Doer = hc
	if dryrun.IsEnabled(ctx) {
		doer = &dryrun.Doer{Next: hc, Out: iocontext.GetIO(ctx).Out}
	}

	opts := []api.Option{api.WithHTTP(doer)}
	if rec := f.recorder(ctx, cfg); rec != nil {
		opts = append(opts, api.WithMonitor(rec))
	}
	return api.New(cfg.API, cfg.Auth, opts...), nil
}

// recorder wires in-memory stats under --debug and the Redis sink when
// monitoring is enabled. It returns nil when neither applies.
func (f *clientFactory) recorder(ctx context.Context, cfg config.ClientConfig) monitor.Recorder {
	var recs monitor.Multi
	if debug.IsEnabled(ctx) {
		if session.stats == nil {
			session.stats = monitor.NewStats()
		}
		recs = append(recs, session.stats)
	}
	if cfg.Monitor && cfg.RedisURL != "" {
		if session.redis == nil {
			r, err := monitor.DialRedis(cfg.RedisURL, monitor.DefaultKeyPrefix)
			if err != nil {
				slog.Warn("monitoring disabled", "error", err)
			} else {
				session.redis = r
			}
		}
		if session.redis != nil {
			recs = append(recs, session.redis)
		}
	}
	switch len(recs) {
	case 0:
		return nil
	case 1:
		return recs[0]
	default:
		return recs
	}
}

// logSessionStats writes the per-endpoint summary collected under --debug.
func logSessionStats(ctx context.Context) {
	if session.stats == nil || !debug.IsEnabled(ctx) {
		return
	}
	for _, s := range session.stats.Snapshot() {
		slog.Debug("endpoint stats",
			"path", s.Path,
			"calls", s.Calls,
			"failures", s.Failures,
			"avg", s.Average(),
			"max", s.Max,
		)
	}
	if session.http != nil {
		if meta := session.http.LastRateLimit().Meta(); meta != nil {
			slog.Debug("rate limit", "headers", meta)
		}
	}
}
