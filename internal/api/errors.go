package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/chirpkit/chirp/internal/httpx"
)

// Kind discriminates the failures a call can surface.
type Kind int

const (
	// KindAuthorization means a signed identity was required but none is configured.
	// Nothing was sent over the wire.
	KindAuthorization Kind = iota + 1
	// KindTransport means the exchange could not complete.
	KindTransport
	// KindHTTPStatus means the server answered with a non-success status.
	KindHTTPStatus
	// KindDeserialization means the body did not have the expected shape.
	KindDeserialization
)

func (k Kind) String() string {
	switch k {
	case KindAuthorization:
		return "authorization"
	case KindTransport:
		return "transport"
	case KindHTTPStatus:
		return "http_status"
	case KindDeserialization:
		return "deserialization"
	default:
		return "unknown"
	}
}

// ErrNoCredentials is the cause of every authorization failure.
var ErrNoCredentials = errors.New("no credentials configured")

// VendorError is one entry of the server's error payload.
type VendorError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
}

// Error is the single error type returned by every endpoint.
type Error struct {
	Kind       Kind
	StatusCode int
	Method     string
	Path       string
	Vendor     []VendorError
	Cause      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Method != "" {
		fmt.Fprintf(&b, "%s %s: ", e.Method, e.Path)
	}
	switch e.Kind {
	case KindAuthorization:
		b.WriteString("authorization required")
	case KindHTTPStatus:
		fmt.Fprintf(&b, "status %d", e.StatusCode)
	case KindDeserialization:
		b.WriteString("unexpected response format")
	case KindTransport:
		b.WriteString("transport failure")
	}
	if msg := e.VendorMessage(); msg != "" {
		b.WriteString(": ")
		b.WriteString(msg)
	} else if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// VendorMessage joins the server-supplied messages.
func (e *Error) VendorMessage() string {
	msgs := make([]string, 0, len(e.Vendor))
	for _, v := range e.Vendor {
		if v.Code != 0 {
			msgs = append(msgs, fmt.Sprintf("%s (code %d)", v.Message, v.Code))
		} else if v.Message != "" {
			msgs = append(msgs, v.Message)
		}
	}
	return strings.Join(msgs, "; ")
}

// HasVendorCode reports whether the payload carries the given server error code.
func (e *Error) HasVendorCode(code int) bool {
	for _, v := range e.Vendor {
		if v.Code == code {
			return true
		}
	}
	return false
}

func authorizationError(method, path string) *Error {
	return &Error{Kind: KindAuthorization, Method: method, Path: path, Cause: ErrNoCredentials}
}

func transportError(method, path string, err error) *Error {
	return &Error{Kind: KindTransport, Method: method, Path: path, Cause: err}
}

func statusError(method, path string, resp *httpx.Response) *Error {
	vendor := parseVendorErrors(resp.Body)
	var cause error
	if len(vendor) == 0 {
		text := statusText(resp.StatusCode)
		if len(strings.TrimSpace(string(resp.Body))) > 0 {
			// Unrecognized bodies may echo request data, so they are never surfaced.
			text += " (response body redacted)"
		}
		cause = errors.New(text)
	}
	return &Error{
		Kind:       KindHTTPStatus,
		StatusCode: resp.StatusCode,
		Method:     method,
		Path:       path,
		Vendor:     vendor,
		Cause:      cause,
	}
}

func deserializationError(method, path string, err error) *Error {
	return &Error{Kind: KindDeserialization, Method: method, Path: path, Cause: err}
}

func statusText(code int) string {
	if code == 420 {
		return "Enhance Your Calm"
	}
	if t := http.StatusText(code); t != "" {
		return t
	}
	return "unexpected status"
}

// parseVendorErrors accepts {"errors":[{"code":..,"message":..}]},
// {"errors":"text"}, {"error":"text","request":".."} and {"message":"text"}.
func parseVendorErrors(body []byte) []VendorError {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return nil
	}
	root := gjson.ParseBytes(body)
	var out []VendorError

	errs := root.Get("errors")
	switch {
	case errs.IsArray():
		errs.ForEach(func(_, v gjson.Result) bool {
			if v.Type == gjson.String {
				out = append(out, VendorError{Message: v.String()})
				return true
			}
			out = append(out, VendorError{Code: int(v.Get("code").Int()), Message: v.Get("message").String()})
			return true
		})
	case errs.Type == gjson.String:
		out = append(out, VendorError{Message: errs.String()})
	}
	if e := root.Get("error"); e.Type == gjson.String {
		out = append(out, VendorError{Message: e.String()})
	} else if m := root.Get("message"); len(out) == 0 && m.Type == gjson.String {
		out = append(out, VendorError{Message: m.String()})
	}
	return out
}

func asError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func isKind(err error, k Kind) bool {
	e, ok := asError(err)
	return ok && e.Kind == k
}

// IsAuthorization checks for a local missing-credential failure.
func IsAuthorization(err error) bool { return isKind(err, KindAuthorization) }

// IsTransport checks for an exchange that never completed.
func IsTransport(err error) bool { return isKind(err, KindTransport) }

// IsHTTPStatus checks for a non-success response.
func IsHTTPStatus(err error) bool { return isKind(err, KindHTTPStatus) }

// IsDeserialization checks for a body that did not match the expected shape.
func IsDeserialization(err error) bool { return isKind(err, KindDeserialization) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	if e, ok := asError(err); ok {
		return e.StatusCode
	}
	return 0
}

// IsNotFound checks for a 404 response.
func IsNotFound(err error) bool {
	return IsHTTPStatus(err) && StatusCode(err) == http.StatusNotFound
}

// IsRateLimited checks for 429 or the legacy 420 status.
func IsRateLimited(err error) bool {
	if !IsHTTPStatus(err) {
		return false
	}
	code := StatusCode(err)
	return code == http.StatusTooManyRequests || code == 420
}
