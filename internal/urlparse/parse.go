// Package urlparse turns web links to statuses, profiles and lists into the
// ids and names the API takes.
package urlparse

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Resource kinds a link can point at.
const (
	KindStatus = "status"
	KindUser   = "user"
	KindList   = "list"
)

// ParsedURL is a web link broken into its resource parts.
type ParsedURL struct {
	Host       string
	Kind       string
	ScreenName string
	StatusID   int64  // set for KindStatus
	ListSlug   string // set for KindList
}

var (
	statusPattern = regexp.MustCompile(`^/([A-Za-z0-9_]{1,20})/status(?:es)?/(\d+)(?:/.*)?$`)
	listPattern   = regexp.MustCompile(`^/([A-Za-z0-9_]{1,20})/lists/([A-Za-z0-9_-]+)(?:/.*)?$`)
	userPattern   = regexp.MustCompile(`^/([A-Za-z0-9_]{1,20})/?$`)
)

// reserved paths that look like profiles but are site pages.
var reserved = map[string]bool{
	"search": true, "home": true, "settings": true, "i": true,
	"login": true, "logout": true, "signup": true, "about": true, "tos": true, "privacy": true,
}

// Parse accepts links like https://twitter.com/ann/status/123,
// the older hash-bang form https://twitter.com/#!/ann/status/123,
// https://twitter.com/ann/lists/gophers and https://twitter.com/ann.
func Parse(rawURL string) (*ParsedURL, error) {
	if rawURL == "" {
		return nil, fmt.Errorf("URL cannot be empty")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" {
		return nil, fmt.Errorf("invalid URL: missing scheme (expected https://...)")
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid URL scheme %q: expected http or https", parsed.Scheme)
	}

	path := parsed.Path
	if strings.HasPrefix(parsed.Fragment, "!/") {
		path = strings.TrimPrefix(parsed.Fragment, "!")
	}
	host := strings.TrimPrefix(parsed.Host, "www.")
	host = strings.TrimPrefix(host, "mobile.")

	if m := statusPattern.FindStringSubmatch(path); m != nil {
		id, err := strconv.ParseInt(m[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid status ID: %w", err)
		}
		return &ParsedURL{Host: host, Kind: KindStatus, ScreenName: m[1], StatusID: id}, nil
	}
	if m := listPattern.FindStringSubmatch(path); m != nil {
		return &ParsedURL{Host: host, Kind: KindList, ScreenName: m[1], ListSlug: m[2]}, nil
	}
	if m := userPattern.FindStringSubmatch(path); m != nil && !reserved[strings.ToLower(m[1])] {
		return &ParsedURL{Host: host, Kind: KindUser, ScreenName: m[1]}, nil
	}
	return nil, fmt.Errorf("unrecognized link %q: expected /{screen_name}[/status/{id} | /lists/{slug}]", rawURL)
}

// ArgError reports a command argument that is neither an id, a name nor a
// recognized link.
type ArgError struct {
	Arg    string
	Reason string
	Err    error
}

func (e *ArgError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %v", e.Reason, e.Arg, e.Err)
	}
	return fmt.Sprintf("%s %q", e.Reason, e.Arg)
}

func (e *ArgError) Unwrap() error { return e.Err }

// StatusID accepts either a bare numeric id or a status link.
func StatusID(arg string) (int64, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if id <= 0 {
			return 0, &ArgError{Arg: arg, Reason: "invalid status id"}
		}
		return id, nil
	}
	if !strings.Contains(arg, "://") {
		return 0, &ArgError{Arg: arg, Reason: "invalid status id", Err: fmt.Errorf("expected a number or a status link")}
	}
	p, err := Parse(arg)
	if err != nil {
		return 0, &ArgError{Arg: arg, Reason: "invalid status link", Err: err}
	}
	if p.Kind != KindStatus {
		return 0, &ArgError{Arg: arg, Reason: "not a status link", Err: fmt.Errorf("points at a %s", p.Kind)}
	}
	return p.StatusID, nil
}

// ScreenName accepts "@ann", "ann" or a profile/status link.
func ScreenName(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if strings.Contains(arg, "://") {
		p, err := Parse(arg)
		if err != nil {
			return "", &ArgError{Arg: arg, Reason: "invalid profile link", Err: err}
		}
		return p.ScreenName, nil
	}
	name := strings.TrimPrefix(arg, "@")
	if !userPattern.MatchString("/" + name) {
		return "", &ArgError{Arg: arg, Reason: "invalid screen name"}
	}
	return name, nil
}
