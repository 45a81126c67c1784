// Package auth provides the credentials that sign outgoing API requests.
package auth

import (
	"net/http"
	"strings"
)

// Authorization signs requests. Enabled reports whether a real identity is
// attached; anonymous credentials still satisfy the interface.
type Authorization interface {
	Enabled() bool
	Sign(req *http.Request) error
}

// Anonymous sends requests unsigned.
type Anonymous struct{}

func (Anonymous) Enabled() bool { return false }

func (Anonymous) Sign(*http.Request) error { return nil }

func (Anonymous) String() string { return "anonymous" }

// Bearer signs with an OAuth2 bearer token.
type Bearer struct {
	Token string
}

func (b Bearer) Enabled() bool { return strings.TrimSpace(b.Token) != "" }

func (b Bearer) Sign(req *http.Request) error {
	if !b.Enabled() {
		return nil
	}
	req.Header.Set("Authorization", "Bearer "+b.Token)
	return nil
}

func (b Bearer) String() string { return "bearer " + Mask(b.Token) }

// Basic signs with HTTP basic credentials.
type Basic struct {
	Username string
	Password string
}

func (b Basic) Enabled() bool { return b.Username != "" && b.Password != "" }

func (b Basic) Sign(req *http.Request) error {
	if !b.Enabled() {
		return nil
	}
	req.SetBasicAuth(b.Username, b.Password)
	return nil
}

func (b Basic) String() string { return "basic " + b.Username }

// IsEnabled treats a nil credential as anonymous.
func IsEnabled(a Authorization) bool {
	return a != nil && a.Enabled()
}

// Mask hides all but the last four characters of a secret.
func Mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

// Redact returns a copy of h with credential headers masked, for logging.
func Redact(h http.Header) http.Header {
	out := h.Clone()
	for _, key := range []string{"Authorization", "Cookie"} {
		if out.Get(key) != "" {
			out.Set(key, "[redacted]")
		}
	}
	return out
}
