package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultKeyPrefix    = "chirp"
	DefaultRedisTimeout = 500 * time.Millisecond
)

// RedisRecorder keeps counters in three Redis hashes keyed by path so several
// processes can share one view: <prefix>:calls, <prefix>:failures and
// <prefix>:latency_ms. The first failed write disables recording for the
// life of the recorder, so an unreachable server costs one timeout, not one
// per call.
type RedisRecorder struct {
	client   redis.UniversalClient
	prefix   string
	timeout  time.Duration
	disabled atomic.Bool
}

var _ Recorder = (*RedisRecorder)(nil)

// NewRedisRecorder wraps an existing client. An empty prefix uses DefaultKeyPrefix.
func NewRedisRecorder(client redis.UniversalClient, prefix string) *RedisRecorder {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisRecorder{client: client, prefix: prefix, timeout: DefaultRedisTimeout}
}

// DialRedis parses a redis:// URL and returns a recorder over a new client.
func DialRedis(rawURL, prefix string) (*RedisRecorder, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	return NewRedisRecorder(redis.NewClient(opts), prefix), nil
}

func (r *RedisRecorder) key(name string) string {
	return r.prefix + ":" + name
}

// Record never returns an error to the caller; the first failure is logged
// and turns the recorder off.
func (r *RedisRecorder) Record(path string, elapsed time.Duration, ok bool) {
	if r.disabled.Load() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	pipe := r.client.Pipeline()
	pipe.HIncrBy(ctx, r.key("calls"), path, 1)
	if !ok {
		pipe.HIncrBy(ctx, r.key("failures"), path, 1)
	}
	pipe.HIncrBy(ctx, r.key("latency_ms"), path, elapsed.Milliseconds())
	if _, err := pipe.Exec(ctx); err != nil {
		if r.disabled.CompareAndSwap(false, true) {
			slog.Warn("monitor disabled: redis write failed", "path", path, "error", err)
		}
	}
}

// Disabled reports whether a failed write has turned recording off.
func (r *RedisRecorder) Disabled() bool {
	return r.disabled.Load()
}

// Read loads the shared counters. Latency precision is whole milliseconds.
func (r *RedisRecorder) Read(ctx context.Context) ([]EndpointStat, error) {
	calls, err := r.client.HGetAll(ctx, r.key("calls")).Result()
	if err != nil {
		return nil, fmt.Errorf("read calls: %w", err)
	}
	failures, err := r.client.HGetAll(ctx, r.key("failures")).Result()
	if err != nil {
		return nil, fmt.Errorf("read failures: %w", err)
	}
	latency, err := r.client.HGetAll(ctx, r.key("latency_ms")).Result()
	if err != nil {
		return nil, fmt.Errorf("read latency: %w", err)
	}

	out := make([]EndpointStat, 0, len(calls))
	for path, n := range calls {
		s := EndpointStat{Path: path}
		s.Calls, _ = strconv.ParseInt(n, 10, 64)
		s.Failures, _ = strconv.ParseInt(failures[path], 10, 64)
		ms, _ := strconv.ParseInt(latency[path], 10, 64)
		s.Total = time.Duration(ms) * time.Millisecond
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// Reset deletes the shared counters.
func (r *RedisRecorder) Reset(ctx context.Context) error {
	return r.client.Del(ctx, r.key("calls"), r.key("failures"), r.key("latency_ms")).Err()
}

func (r *RedisRecorder) Close() error {
	return r.client.Close()
}
