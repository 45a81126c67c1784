package api

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chirpkit/chirp/internal/httpx"
)

// ErrorCode is a machine-readable error classification for CLI output.
type ErrorCode string

const (
	ErrBadRequest   ErrorCode = "bad_request"
	ErrUnauthorized ErrorCode = "unauthorized"
	ErrForbidden    ErrorCode = "forbidden"
	ErrNotFound     ErrorCode = "not_found"
	ErrValidation   ErrorCode = "validation_failed"
	ErrRateLimited  ErrorCode = "rate_limited"
	ErrServerError  ErrorCode = "server_error"
	ErrTimeout      ErrorCode = "timeout"
	ErrNetwork      ErrorCode = "network"
	ErrParse        ErrorCode = "parse"
	ErrCircuitOpen  ErrorCode = "circuit_open"
	ErrUnknown      ErrorCode = "unknown"
)

// IsRetryable returns true if errors with this code may succeed on retry.
func (c ErrorCode) IsRetryable() bool {
	switch c {
	case ErrRateLimited, ErrServerError, ErrTimeout, ErrNetwork, ErrCircuitOpen:
		return true
	default:
		return false
	}
}

// Suggestion returns a human-readable hint for resolving this error.
func (c ErrorCode) Suggestion() string {
	switch c {
	case ErrUnauthorized:
		return "Run 'chirp auth login' to store credentials"
	case ErrForbidden:
		return "The account is not allowed to perform this action"
	case ErrNotFound:
		return "Verify the id or screen name exists"
	case ErrRateLimited:
		return "Check 'chirp ratelimit' and retry after the reset time"
	case ErrValidation:
		return "Check the input values"
	case ErrBadRequest:
		return "Check the request parameters"
	case ErrServerError:
		return "The server encountered an error; try again later"
	case ErrTimeout:
		return "The request timed out; check network connectivity and retry"
	case ErrNetwork:
		return "Check network connectivity and the configured base URL"
	case ErrParse:
		return "The server response changed shape; run with --debug to inspect it"
	case ErrCircuitOpen:
		return "Too many recent failures; wait before retrying"
	default:
		return ""
	}
}

// ErrorCodeFromStatus maps an HTTP status code to an ErrorCode.
func ErrorCodeFromStatus(statusCode int) ErrorCode {
	switch statusCode {
	case 400:
		return ErrBadRequest
	case 401:
		return ErrUnauthorized
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	case 406, 422:
		return ErrValidation
	case 420, 429:
		return ErrRateLimited
	default:
		if statusCode >= 500 && statusCode < 600 {
			return ErrServerError
		}
		return ErrUnknown
	}
}

// StructuredError provides machine-readable error information.
type StructuredError struct {
	Code          ErrorCode      `json:"code"`
	Message       string         `json:"message"`
	Retryable     bool           `json:"retryable"`
	Suggestion    string         `json:"suggestion,omitempty"`
	Context       map[string]any `json:"context,omitempty"`
	AllowedValues []string       `json:"allowed_values,omitempty"`
}

func (e *StructuredError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// MarshalJSON implements custom JSON marshaling.
func (e *StructuredError) MarshalJSON() ([]byte, error) {
	type Alias StructuredError
	return json.Marshal((*Alias)(e))
}

// NewStructuredError creates a StructuredError from an ErrorCode and message.
func NewStructuredError(code ErrorCode, message string) *StructuredError {
	return &StructuredError{
		Code:       code,
		Message:    message,
		Retryable:  code.IsRetryable(),
		Suggestion: code.Suggestion(),
	}
}

// NewValidationError reports a flag value outside its allowed set.
func NewValidationError(field, got string, allowed []string) *StructuredError {
	return &StructuredError{
		Code:          ErrValidation,
		Message:       fmt.Sprintf("invalid %s %q: must be one of %s", field, got, strings.Join(allowed, ", ")),
		Suggestion:    fmt.Sprintf("Use one of: %s", strings.Join(allowed, ", ")),
		AllowedValues: allowed,
		Context:       map[string]any{"field": field, "got": got},
	}
}

func codeForError(e *Error) ErrorCode {
	switch e.Kind {
	case KindAuthorization:
		return ErrUnauthorized
	case KindHTTPStatus:
		return ErrorCodeFromStatus(e.StatusCode)
	case KindDeserialization:
		return ErrParse
	case KindTransport:
		switch {
		case httpx.IsCircuitOpen(e.Cause):
			return ErrCircuitOpen
		case errors.Is(e.Cause, context.DeadlineExceeded):
			return ErrTimeout
		default:
			return ErrNetwork
		}
	}
	return ErrUnknown
}

// StructuredErrorFromError converts any error to a StructuredError.
func StructuredErrorFromError(err error) *StructuredError {
	if err == nil {
		return nil
	}

	var se *StructuredError
	if errors.As(err, &se) {
		return se
	}

	if e, ok := asError(err); ok {
		code := codeForError(e)
		out := NewStructuredError(code, e.Error())
		ctx := map[string]any{"kind": e.Kind.String()}
		if e.StatusCode != 0 {
			ctx["status_code"] = e.StatusCode
		}
		if e.Path != "" {
			ctx["endpoint"] = e.Method + " " + e.Path
		}
		if len(e.Vendor) > 0 {
			ctx["vendor"] = e.Vendor
		}
		out.Context = ctx
		return out
	}

	return &StructuredError{Code: ErrUnknown, Message: err.Error()}
}
