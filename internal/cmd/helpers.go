package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/cache"
	"github.com/chirpkit/chirp/internal/dates"
	"github.com/chirpkit/chirp/internal/dryrun"
	"github.com/chirpkit/chirp/internal/iocontext"
	"github.com/chirpkit/chirp/internal/outfmt"
	"github.com/chirpkit/chirp/internal/urlparse"
)

// errAlreadyHandled is a sentinel error indicating the error was already printed to stderr.
// Commands using RunE return this to signal Cobra that an error occurred (for exit code)
// without Cobra printing it again (since SilenceErrors is true on root command).
var errAlreadyHandled = errors.New("error already handled")

type handledError struct {
	err      error
	exitCode int
}

func (e *handledError) Error() string {
	return e.err.Error()
}

func (e *handledError) Unwrap() error {
	return errAlreadyHandled
}

func (e *handledError) ExitCode() int {
	return e.exitCode
}

// RunE wraps a command body with error rendering. A request intercepted by
// --dry-run is reported as success.
func RunE(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := fn(cmd, args)
		if err == nil || dryrun.IsSkipped(err) {
			return nil
		}
		if outfmt.IsJSON(cmd.Context()) {
			if structured := api.StructuredErrorFromError(err); structured != nil {
				_ = outfmt.WriteJSON(iocontext.GetIO(cmd.Context()).ErrOut, map[string]any{"error": structured})
			}
		} else {
			_, _ = fmt.Fprint(iocontext.GetIO(cmd.Context()).ErrOut, HandleError(err))
		}
		return &handledError{err: err, exitCode: ExitCode(err)}
	}
}

func formatter(cmd *cobra.Command) *outfmt.Formatter {
	streams := iocontext.GetIO(cmd.Context())
	return outfmt.NewFormatter(cmd.Context(), streams.Out, streams.ErrOut)
}

// render writes v in structured modes, or calls table in text mode.
func render(cmd *cobra.Command, v any, table func(f *outfmt.Formatter)) error {
	f := formatter(cmd)
	if f.Structured() {
		return f.Output(v)
	}
	table(f)
	return f.EndTable()
}

// pagingFlags binds the shared timeline window flags.
type pagingFlags struct {
	page    int
	count   int
	sinceID int64
	maxID   int64
}

func (p *pagingFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.page, "page", 0, "Page number (1-based)")
	cmd.Flags().IntVarP(&p.count, "count", "n", 0, "Number of items (max 200)")
	cmd.Flags().Int64Var(&p.sinceID, "since-id", 0, "Only items newer than this id")
	cmd.Flags().Int64Var(&p.maxID, "max-id", 0, "Only items at or older than this id")
}

func (p *pagingFlags) paging() api.Paging {
	return api.Paging{Page: p.page, Count: p.count, SinceID: p.sinceID, MaxID: p.maxID}
}

// parseUserRef accepts a numeric id, "@name", "name" or a profile link.
// Use --id semantics by passing a pure number.
func parseUserRef(arg string) (api.UserRef, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return api.UserRef{}, fmt.Errorf("user is required")
	}
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if id <= 0 {
			return api.UserRef{}, fmt.Errorf("user id must be positive")
		}
		return api.ByID(id), nil
	}
	name, err := urlparse.ScreenName(arg)
	if err != nil {
		return api.UserRef{}, err
	}
	return api.ByScreenName(name), nil
}

// parseStatusID accepts a numeric id or a status link.
func parseStatusID(arg string) (int64, error) {
	return urlparse.StatusID(strings.TrimSpace(arg))
}

func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q: must be a positive integer", kind, arg)
	}
	return id, nil
}

func parseIDs(kind string, args []string) ([]int64, error) {
	out := make([]int64, 0, len(args))
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := parseID(kind, part)
			if err != nil {
				return nil, err
			}
			out = append(out, id)
		}
	}
	return out, nil
}

func formatTime(t api.Time) string {
	return outfmt.FormatTime(t.Time)
}

func truncate(s string, n int) string {
	return outfmt.Truncate(s, n)
}

func screenName(u *api.User) string {
	if u == nil {
		return outfmt.Handle("")
	}
	return outfmt.Handle(u.ScreenName)
}

// cached returns the stored value for key when fresh, or calls load and stores it.
// variant separates entries of the same key, e.g. a location filter.
func cached[T any](client *api.Client, key, variant string, load func() (T, error)) (T, error) {
	dir, err := cache.DefaultDir()
	if err != nil {
		return load()
	}
	store := cache.NewStore(dir, key, client.RESTBaseURL(), variant)
	var v T
	if store.Get(&v) {
		return v, nil
	}
	v, err = load()
	if err != nil {
		return v, err
	}
	store.Put(v)
	return v, nil
}

// parseDate reads a day flag; an empty value is the zero time.
func parseDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	return dates.Parse(value, time.Now())
}
