package outfmt

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpkit/chirp/internal/api"
)

func render(t *testing.T, data any, tmpl string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, data, tmpl))
	return buf.String()
}

func TestTemplateContext(t *testing.T) {
	assert.Empty(t, GetTemplate(context.Background()))
	ctx := WithTemplate(context.Background(), "{{.text}}")
	assert.Equal(t, "{{.text}}", GetTemplate(ctx))
}

func TestWriteTemplate_StatusShape(t *testing.T) {
	// The shape a status takes after the query step.
	status := map[string]any{
		"id":         float64(1),
		"text":       "hello   world,\nfrom the gopher meetup",
		"created_at": "2008-08-27T13:08:45Z",
		"user":       map[string]any{"id": float64(7), "screen_name": "ann"},
	}

	got := render(t, status, `{{handle .user}} {{.text | truncate 12}}`)
	assert.Equal(t, "@ann hello world…", got)

	want := time.Date(2008, 8, 27, 13, 8, 45, 0, time.UTC).Local().Format("2006-01-02 15:04")
	assert.Equal(t, want, render(t, status, `{{date .created_at}}`))
}

func TestWriteTemplate_APITypes(t *testing.T) {
	at := time.Date(2011, 3, 4, 5, 6, 0, 0, time.UTC)
	st := api.Status{
		ID:        9,
		Text:      "short",
		CreatedAt: api.Time{Time: at},
		User:      &api.User{ID: 7, ScreenName: "ann"},
	}

	got := render(t, st, `{{.ID}} {{handle .User}} {{date .CreatedAt}} {{truncate 40 .Text}}`)
	assert.Equal(t, "9 @ann "+at.Local().Format("2006-01-02 15:04")+" short", got)
	assert.Equal(t, "-", render(t, api.User{}, `{{handle .}}`))
}

func TestWriteTemplate_UserList(t *testing.T) {
	users := []any{
		map[string]any{"screen_name": "ann", "followers_count": float64(12)},
		map[string]any{"screen_name": "@bob", "followers_count": float64(3)},
	}
	assert.Equal(t, "@ann 12\n@bob 3\n", render(t, users, "{{range .}}{{handle .screen_name}} {{.followers_count}}\n{{end}}"))
}

func TestWriteTemplate_DateEdgeCases(t *testing.T) {
	assert.Equal(t, "-", render(t, map[string]any{"created_at": nil}, `{{date .created_at}}`))
	assert.Equal(t, "-", render(t, map[string]any{"created_at": ""}, `{{date .created_at}}`))

	var buf bytes.Buffer
	err := WriteTemplate(&buf, map[string]any{"created_at": "last tuesday"}, `{{date .created_at}}`)
	assert.ErrorContains(t, err, "template execution error")
}

func TestWriteTemplate_JSONFunc(t *testing.T) {
	got := render(t, map[string]any{"user": map[string]any{"screen_name": "ann"}}, `{{json .user}}`)
	assert.JSONEq(t, `{"screen_name":"ann"}`, got)
}

func TestWriteTemplate_InvalidTemplate(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTemplate(&buf, nil, "{{.text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid template")
}

func TestTruncateAndHandle(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "a b c", Truncate("a\n b\t c", 10))
	assert.Equal(t, "héllo w…", Truncate("héllo world", 8))
	assert.Equal(t, "@ann", Handle("ann"))
	assert.Equal(t, "@ann", Handle("@ann"))
	assert.Equal(t, "-", Handle(""))
	assert.Equal(t, "-", FormatTime(time.Time{}))
}
