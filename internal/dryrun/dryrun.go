// Package dryrun previews mutating requests instead of sending them.
package dryrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/chirpkit/chirp/internal/httpx"
	"github.com/chirpkit/chirp/internal/param"
)

type contextKey string

const dryRunKey contextKey = "dry_run_enabled"

// ErrSkipped is returned by Doer in place of a response for every request it
// intercepts. Callers treat it as success.
var ErrSkipped = errors.New("dry-run: request not sent")

// WithDryRun returns a context with dry-run mode enabled/disabled.
func WithDryRun(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, dryRunKey, enabled)
}

// IsEnabled returns true if dry-run mode is enabled.
func IsEnabled(ctx context.Context) bool {
	if v, ok := ctx.Value(dryRunKey).(bool); ok {
		return v
	}
	return false
}

// Preview is what a dry run prints for one request.
type Preview struct {
	Method   string
	URL      string
	Params   param.Set
	Warnings []string
}

// Write outputs the preview to the writer.
func (p *Preview) Write(w io.Writer) {
	_, _ = fmt.Fprintf(w, "\n[DRY-RUN] Would %s %s\n", p.Method, p.URL)
	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")

	if len(p.Params) > 0 {
		for _, prm := range p.Params {
			if f, ok := prm.File(); ok {
				_, _ = fmt.Fprintf(w, "  %s: <%s, %d bytes>\n", prm.Name, f.Name, len(f.Content))
				continue
			}
			_, _ = fmt.Fprintf(w, "  %s: %s\n", prm.Name, prm.Value())
		}
		_, _ = fmt.Fprintln(w)
	}

	if len(p.Warnings) > 0 {
		_, _ = fmt.Fprintln(w, "Warnings:")
		for _, warning := range p.Warnings {
			_, _ = fmt.Fprintf(w, "  ! %s\n", warning)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintf(w, "───────────────────────────────────────\n")
	_, _ = fmt.Fprintln(w, "No changes made (dry-run mode)")
}

// Doer wraps another httpx.Doer. GET requests pass through so lookups used to
// build a mutation still resolve; everything else is printed to Out and
// answered with ErrSkipped.
type Doer struct {
	Next httpx.Doer
	Out  io.Writer
}

var _ httpx.Doer = (*Doer)(nil)

func (d *Doer) Do(ctx context.Context, req *httpx.Request) (*httpx.Response, error) {
	if req.Method == http.MethodGet {
		return d.Next.Do(ctx, req)
	}
	p := &Preview{Method: req.Method, URL: req.URL, Params: req.Params}
	if req.Params.HasFile() {
		p.Warnings = append(p.Warnings, "request would be sent as multipart/form-data")
	}
	p.Write(d.Out)
	return nil, ErrSkipped
}

// IsSkipped reports whether err came from an intercepted request.
func IsSkipped(err error) bool {
	return errors.Is(err, ErrSkipped)
}
