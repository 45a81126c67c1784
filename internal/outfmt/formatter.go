package outfmt

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
)

var (
	successColor = color.New(color.FgGreen)
	warnColor    = color.New(color.FgYellow)
)

// Formatter handles output formatting for commands.
type Formatter struct {
	ctx       context.Context
	out       io.Writer
	errOut    io.Writer
	tabWriter *tabwriter.Writer
}

// NewFormatter creates a new Formatter
func NewFormatter(ctx context.Context, out, errOut io.Writer) *Formatter {
	return &Formatter{
		ctx:       ctx,
		out:       out,
		errOut:    errOut,
		tabWriter: tabwriter.NewWriter(out, 0, 4, 2, ' ', 0),
	}
}

// Structured reports whether Output will write the result. Commands render a
// table themselves when it returns false.
func (f *Formatter) Structured() bool {
	return IsJSON(f.ctx) || GetTemplate(f.ctx) != ""
}

// Output writes data as JSON, JSON lines or through the template, after the
// context query. In text mode without a template it writes nothing.
func (f *Formatter) Output(data any) error {
	if !f.Structured() {
		return nil
	}
	query := GetQuery(f.ctx)
	if tmpl := GetTemplate(f.ctx); tmpl != "" {
		filtered, err := ApplyQuery(data, query)
		if err != nil {
			return err
		}
		return WriteTemplate(f.out, filtered, tmpl)
	}
	if ModeFromContext(f.ctx) == JSONL {
		filtered, err := ApplyQuery(data, query)
		if err != nil {
			return err
		}
		return WriteJSONL(f.out, filtered)
	}
	if query == "" {
		return WriteJSON(f.out, data)
	}
	filtered, err := ApplyQuery(data, query)
	if err != nil {
		return err
	}
	return WriteJSON(f.out, filtered)
}

// StartTable writes table headers. Returns true if in text mode.
func (f *Formatter) StartTable(headers []string) bool {
	if f.Structured() {
		return false
	}
	f.Row(headers...)
	return true
}

// Row writes a single row to the table.
func (f *Formatter) Row(columns ...string) {
	for i, col := range columns {
		if i > 0 {
			_, _ = fmt.Fprint(f.tabWriter, "\t")
		}
		_, _ = fmt.Fprint(f.tabWriter, col)
	}
	_, _ = fmt.Fprintln(f.tabWriter)
}

// EndTable flushes the table output.
func (f *Formatter) EndTable() error {
	return f.tabWriter.Flush()
}

// Empty writes a message to stderr indicating no results.
func (f *Formatter) Empty(message string) {
	_, _ = fmt.Fprintln(f.errOut, message)
}

// Success prints a confirmation line in text mode.
func (f *Formatter) Success(format string, args ...any) {
	if f.Structured() {
		return
	}
	_, _ = successColor.Fprintf(f.out, format+"\n", args...)
}

// Warn prints to stderr in every mode.
func (f *Formatter) Warn(format string, args ...any) {
	_, _ = warnColor.Fprintf(f.errOut, "warning: "+format+"\n", args...)
}
