package outfmt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/chirpkit/chirp/internal/api"
)

type templateKey struct{}

// WithTemplate adds a template string to the context
func WithTemplate(ctx context.Context, tmpl string) context.Context {
	return context.WithValue(ctx, templateKey{}, tmpl)
}

// GetTemplate retrieves the template string from context
func GetTemplate(ctx context.Context) string {
	if tmpl, ok := ctx.Value(templateKey{}).(string); ok {
		return tmpl
	}
	return ""
}

// FormatTime renders a timestamp in local time, "-" when unset.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

// Truncate collapses whitespace and cuts s to n runes, ending with an ellipsis.
func Truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n || n < 1 {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Handle renders a screen name as @name, "-" when empty.
func Handle(name string) string {
	name = strings.TrimPrefix(name, "@")
	if name == "" {
		return "-"
	}
	return "@" + name
}

// Template values are the JSON shape of a result, so times arrive as strings
// and users as maps. The funcs accept both that shape and the api types.
var templateFuncs = template.FuncMap{
	"json": func(val any) (string, error) {
		buf := &bytes.Buffer{}
		enc := json.NewEncoder(buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(val); err != nil {
			return "", err
		}
		return buf.String(), nil
	},
	"date":     templateDate,
	"handle":   templateHandle,
	"truncate": func(n int, s any) string { return Truncate(fmt.Sprint(orEmpty(s)), n) },
}

func orEmpty(v any) any {
	if v == nil {
		return ""
	}
	return v
}

func templateDate(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return FormatTime(time.Time{}), nil
	case api.Time:
		return FormatTime(t.Time), nil
	case time.Time:
		return FormatTime(t), nil
	case float64:
		return FormatTime(time.Unix(int64(t), 0)), nil
	case string:
		if t == "" {
			return FormatTime(time.Time{}), nil
		}
		parsed, err := api.ParseTime(t)
		if err != nil {
			return "", err
		}
		return FormatTime(parsed), nil
	}
	return "", fmt.Errorf("date: unsupported value %T", v)
}

func templateHandle(v any) string {
	switch u := v.(type) {
	case string:
		return Handle(u)
	case map[string]any:
		name, _ := u["screen_name"].(string)
		return Handle(name)
	case *api.User:
		if u == nil {
			return Handle("")
		}
		return Handle(u.ScreenName)
	case api.User:
		return Handle(u.ScreenName)
	}
	return Handle("")
}

// WriteTemplate renders data using a Go text/template string
func WriteTemplate(w io.Writer, v any, tmpl string) error {
	t, err := template.New("output").Funcs(templateFuncs).Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return formatTemplateError("invalid template", err)
	}
	if err := t.Execute(w, v); err != nil {
		return formatTemplateError("template execution error", err)
	}
	return nil
}

var templateLocationPattern = regexp.MustCompile(`:(\d+):(\d+):`)

func formatTemplateError(kind string, err error) error {
	msg := err.Error()
	if matches := templateLocationPattern.FindStringSubmatch(msg); len(matches) == 3 {
		return fmt.Errorf("%s at line %s, column %s: %s", kind, matches[1], matches[2], msg)
	}
	return fmt.Errorf("%s: %w", kind, err)
}
