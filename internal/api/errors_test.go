package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chirpkit/chirp/internal/httpx"
)

func TestParseVendorErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []VendorError
	}{
		{"array of objects", `{"errors":[{"code":34,"message":"Sorry, that page does not exist"}]}`, []VendorError{{Code: 34, Message: "Sorry, that page does not exist"}}},
		{"array of strings", `{"errors":["one","two"]}`, []VendorError{{Message: "one"}, {Message: "two"}}},
		{"errors string", `{"errors":"bad"}`, []VendorError{{Message: "bad"}}},
		{"legacy error", `{"error":"Could not authenticate you.","request":"/1/x.json"}`, []VendorError{{Message: "Could not authenticate you."}}},
		{"message only", `{"message":"nope"}`, []VendorError{{Message: "nope"}}},
		{"empty", ``, nil},
		{"html", `<html>down</html>`, nil},
		{"unrelated json", `{"ok":false}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseVendorErrors([]byte(tt.body)))
		})
	}
}

func TestStatusErrorRedactsUnknownBody(t *testing.T) {
	err := statusError(http.MethodGet, "x.json", &httpx.Response{StatusCode: 502, Body: []byte("<html>secret</html>")})

	assert.Equal(t, KindHTTPStatus, err.Kind)
	assert.NotContains(t, err.Error(), "secret")
	assert.Contains(t, err.Error(), "Bad Gateway")
	assert.Contains(t, err.Error(), "redacted")
}

func TestStatusText420(t *testing.T) {
	err := statusError(http.MethodGet, "search.json", &httpx.Response{StatusCode: 420})
	assert.Contains(t, err.Error(), "Enhance Your Calm")
	assert.True(t, IsRateLimited(err))
}

func TestErrorMessage(t *testing.T) {
	err := &Error{Kind: KindHTTPStatus, StatusCode: 404, Method: "GET", Path: "users/show.json",
		Vendor: []VendorError{{Code: 50, Message: "User not found."}}}
	assert.Equal(t, "GET users/show.json: status 404: User not found. (code 50)", err.Error())

	auth := authorizationError(http.MethodPost, "statuses/update.json")
	assert.Equal(t, "POST statuses/update.json: authorization required: no credentials configured", auth.Error())
}

func TestErrorHelpersSeeWrappedErrors(t *testing.T) {
	base := statusError(http.MethodGet, "x.json", &httpx.Response{StatusCode: http.StatusTooManyRequests})
	wrapped := fmt.Errorf("listing: %w", base)

	assert.True(t, IsHTTPStatus(wrapped))
	assert.True(t, IsRateLimited(wrapped))
	assert.False(t, IsNotFound(wrapped))
	assert.Equal(t, 429, StatusCode(wrapped))
	assert.False(t, IsTransport(wrapped))

	assert.False(t, IsHTTPStatus(errors.New("plain")))
	assert.Equal(t, 0, StatusCode(errors.New("plain")))
}

func TestTransportErrorUnwraps(t *testing.T) {
	err := transportError(http.MethodGet, "x.json", context.DeadlineExceeded)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "authorization", KindAuthorization.String())
	assert.Equal(t, "transport", KindTransport.String())
	assert.Equal(t, "http_status", KindHTTPStatus.String())
	assert.Equal(t, "deserialization", KindDeserialization.String())
	assert.Equal(t, "unknown", Kind(0).String())
}
