package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpkit/chirp/internal/httpx"
)

func resultOf(body string) *result {
	return &result{method: http.MethodGet, path: "t.json", resp: &httpx.Response{StatusCode: 200, Body: []byte(body)}}
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		body string
		want string
		ok   bool
	}{
		{`true`, "true", true},
		{`false`, "true", false},
		{`"ok"`, "ok", true},
		{`ok`, "ok", true},
		{`"nope"`, "ok", false},
		{``, "ok", false},
	}
	for _, tt := range tests {
		got, err := literal(resultOf(tt.body), nil, tt.want)
		require.NoError(t, err)
		assert.Equal(t, tt.ok, got, "body %q", tt.body)
	}
}

func TestListRejectsEmptyBody(t *testing.T) {
	_, err := list[Status](resultOf(""), nil)
	assert.True(t, IsDeserialization(err))

	got, err := list[Status](resultOf("[]"), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFieldMissing(t *testing.T) {
	_, err := field[string](resultOf(`{"other":"x"}`), "tos")
	assert.True(t, IsDeserialization(err))
}

func TestCursorReadsBothCursors(t *testing.T) {
	page, err := cursor[List](resultOf(`{"lists":[{"id":1,"name":"a"}],"previous_cursor":-5,"next_cursor":6}`), "lists")
	require.NoError(t, err)
	assert.Equal(t, int64(-5), page.PreviousCursor)
	assert.Equal(t, int64(6), page.NextCursor)

	_, err = cursor[List](resultOf(`{"lists":[{"id":1}]}`), "lists")
	assert.True(t, IsDeserialization(err), "list without name must fail")
}

func TestTimeLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{`"Wed Aug 27 13:08:45 +0000 2008"`, time.Date(2008, 8, 27, 13, 8, 45, 0, time.UTC)},
		{`"Wed, 27 Aug 2008 13:08:45 +0000"`, time.Date(2008, 8, 27, 13, 8, 45, 0, time.UTC)},
		{`"2008-08-27T13:08:45Z"`, time.Date(2008, 8, 27, 13, 8, 45, 0, time.UTC)},
		{`"2008-08-27"`, time.Date(2008, 8, 27, 0, 0, 0, 0, time.UTC)},
		{`1219842525`, time.Unix(1219842525, 0).UTC()},
		{`null`, time.Time{}},
	}
	for _, tt := range tests {
		var got Time
		require.NoError(t, got.UnmarshalJSON([]byte(tt.in)), tt.in)
		assert.True(t, tt.want.Equal(got.Time), "%s: got %v", tt.in, got.Time)
	}

	var bad Time
	assert.Error(t, bad.UnmarshalJSON([]byte(`"yesterday"`)))
}
