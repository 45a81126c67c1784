package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpkit/chirp/internal/httpx"
)

func TestErrorCodeFromStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		want       ErrorCode
	}{
		{400, ErrBadRequest},
		{401, ErrUnauthorized},
		{403, ErrForbidden},
		{404, ErrNotFound},
		{406, ErrValidation},
		{420, ErrRateLimited},
		{422, ErrValidation},
		{429, ErrRateLimited},
		{500, ErrServerError},
		{503, ErrServerError},
		{200, ErrUnknown},
		{418, ErrUnknown},
	}
	for _, tt := range tests {
		if got := ErrorCodeFromStatus(tt.statusCode); got != tt.want {
			t.Errorf("ErrorCodeFromStatus(%d) = %v, want %v", tt.statusCode, got, tt.want)
		}
	}
}

func TestErrorCodeIsRetryable(t *testing.T) {
	for _, code := range []ErrorCode{ErrRateLimited, ErrServerError, ErrTimeout, ErrNetwork, ErrCircuitOpen} {
		if !code.IsRetryable() {
			t.Errorf("%v.IsRetryable() = false, want true", code)
		}
	}
	for _, code := range []ErrorCode{ErrBadRequest, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrValidation, ErrParse, ErrUnknown} {
		if code.IsRetryable() {
			t.Errorf("%v.IsRetryable() = true, want false", code)
		}
	}
}

func TestErrorCodeSuggestion(t *testing.T) {
	assert.Contains(t, ErrUnauthorized.Suggestion(), "chirp auth login")
	assert.Contains(t, ErrRateLimited.Suggestion(), "chirp ratelimit")
	assert.Empty(t, ErrUnknown.Suggestion())
}

func TestStructuredErrorFromError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      ErrorCode
		retryable bool
	}{
		{"authorization", authorizationError(http.MethodGet, "x.json"), ErrUnauthorized, false},
		{"not found", statusError(http.MethodGet, "x.json", &httpx.Response{StatusCode: 404}), ErrNotFound, false},
		{"server", statusError(http.MethodGet, "x.json", &httpx.Response{StatusCode: 500}), ErrServerError, true},
		{"parse", deserializationError(http.MethodGet, "x.json", errors.New("bad")), ErrParse, false},
		{"timeout", transportError(http.MethodGet, "x.json", context.DeadlineExceeded), ErrTimeout, true},
		{"circuit", transportError(http.MethodGet, "x.json", &httpx.CircuitOpenError{}), ErrCircuitOpen, true},
		{"network", transportError(http.MethodGet, "x.json", errors.New("refused")), ErrNetwork, true},
		{"plain", errors.New("something"), ErrUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			se := StructuredErrorFromError(tt.err)
			require.NotNil(t, se)
			assert.Equal(t, tt.code, se.Code)
			assert.Equal(t, tt.retryable, se.Retryable)
		})
	}
	assert.Nil(t, StructuredErrorFromError(nil))
}

func TestStructuredErrorContext(t *testing.T) {
	err := statusError(http.MethodGet, "users/show.json", &httpx.Response{
		StatusCode: 404,
		Body:       []byte(`{"errors":[{"code":50,"message":"User not found."}]}`),
	})
	se := StructuredErrorFromError(err)

	assert.Equal(t, "http_status", se.Context["kind"])
	assert.Equal(t, 404, se.Context["status_code"])
	assert.Equal(t, "GET users/show.json", se.Context["endpoint"])

	data, jerr := json.Marshal(se)
	require.NoError(t, jerr)
	assert.True(t, strings.Contains(string(data), `"code":"not_found"`))
	assert.Contains(t, string(data), "User not found. (code 50)")
}

func TestStructuredErrorPassesThrough(t *testing.T) {
	orig := NewValidationError("output", "xml", []string{"text", "json"})
	assert.Same(t, orig, StructuredErrorFromError(orig))
	assert.Equal(t, ErrValidation, orig.Code)
	assert.Equal(t, "[validation_failed] invalid output \"xml\": must be one of text, json", orig.Error())
}
