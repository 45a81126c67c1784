// Package api is the REST facade: one method per endpoint, each composed of
// the authorization gate, parameter assembly, default merging, dispatch and
// response mapping.
package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/chirpkit/chirp/internal/auth"
	"github.com/chirpkit/chirp/internal/httpx"
	"github.com/chirpkit/chirp/internal/monitor"
	"github.com/chirpkit/chirp/internal/param"
)

const (
	DefaultRESTBaseURL   = "https://api.twitter.com/1/"
	DefaultSearchBaseURL = "https://search.twitter.com/"
)

// Config holds the settings the facade reads once at construction.
type Config struct {
	RESTBaseURL     string
	SearchBaseURL   string
	IncludeEntities bool
	IncludeRetweets bool
}

// DefaultConfig requests entities and retweets against the public endpoints.
func DefaultConfig() Config {
	return Config{
		RESTBaseURL:     DefaultRESTBaseURL,
		SearchBaseURL:   DefaultSearchBaseURL,
		IncludeEntities: true,
		IncludeRetweets: true,
	}
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTP replaces the default transport.
func WithHTTP(d httpx.Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithMonitor reports every dispatched call to r.
func WithMonitor(r monitor.Recorder) Option {
	return func(c *Client) { c.monitor = r }
}

// Client is safe for concurrent use. Everything it holds is read-only after New.
type Client struct {
	restBaseURL     string
	searchBaseURL   string
	http            httpx.Doer
	auth            auth.Authorization
	monitor         monitor.Recorder
	includeEntities param.Parameter
	includeRetweets param.Parameter
}

// Compile-time interface implementation checks
var (
	_ Requester  = (*Client)(nil)
	_ Dispatcher = (*Client)(nil)
)

// New builds a facade. A nil credential is treated as anonymous.
func New(cfg Config, authz auth.Authorization, opts ...Option) *Client {
	if authz == nil {
		authz = auth.Anonymous{}
	}
	if cfg.RESTBaseURL == "" {
		cfg.RESTBaseURL = DefaultRESTBaseURL
	}
	if cfg.SearchBaseURL == "" {
		cfg.SearchBaseURL = DefaultSearchBaseURL
	}
	c := &Client{
		restBaseURL:     withTrailingSlash(cfg.RESTBaseURL),
		searchBaseURL:   withTrailingSlash(cfg.SearchBaseURL),
		auth:            authz,
		includeEntities: param.Bool("include_entities", cfg.IncludeEntities),
		includeRetweets: param.Bool("include_rts", cfg.IncludeRetweets),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = httpx.New()
	}
	return c
}

func withTrailingSlash(u string) string {
	if strings.HasSuffix(u, "/") {
		return u
	}
	return u + "/"
}

// Authorization returns the configured credential.
func (c *Client) Authorization() auth.Authorization {
	return c.auth
}

// RESTBaseURL returns the base every REST path is resolved against.
func (c *Client) RESTBaseURL() string {
	return c.restBaseURL
}

// SearchBaseURL returns the base of the search endpoint.
func (c *Client) SearchBaseURL() string {
	return c.searchBaseURL
}

// requireAuthorization fails before any request is built when no identity is configured.
func (c *Client) requireAuthorization(method, path string) error {
	if !auth.IsEnabled(c.auth) {
		return authorizationError(method, path)
	}
	return nil
}

func (c *Client) withEntities(params param.Set) param.Set {
	return param.MergeOne(params, c.includeEntities)
}

func (c *Client) withEntitiesAndRetweets(params param.Set) param.Set {
	return param.Merge(params, param.Set{c.includeEntities, c.includeRetweets})
}

// result is a successful response plus the call it came from, for error context.
type result struct {
	method string
	path   string
	resp   *httpx.Response
}

// dispatch issues one request and maps the outcome. Non-2xx becomes a
// KindHTTPStatus error, except 3xx when allowRedirect is set.
func (c *Client) dispatch(ctx context.Context, method, base, path string, params param.Set, allowRedirect bool) (*result, error) {
	start := time.Now()
	resp, err := c.http.Do(ctx, &httpx.Request{
		Method:     method,
		URL:        base + path,
		Params:     params,
		Auth:       c.auth,
		NoRedirect: allowRedirect,
	})
	if c.monitor != nil {
		c.monitor.Record(path, time.Since(start), err == nil && resp.StatusCode < 300)
	}
	if err != nil {
		return nil, transportError(method, path, err)
	}
	ok := resp.OK() || (allowRedirect && resp.StatusCode >= 300 && resp.StatusCode < 400)
	if !ok {
		return nil, statusError(method, path, resp)
	}
	return &result{method: method, path: path, resp: resp}, nil
}

func (c *Client) get(ctx context.Context, path string, params param.Set) (*result, error) {
	return c.dispatch(ctx, http.MethodGet, c.restBaseURL, path, params, false)
}

func (c *Client) post(ctx context.Context, path string, params param.Set) (*result, error) {
	return c.dispatch(ctx, http.MethodPost, c.restBaseURL, path, params, false)
}

func (c *Client) delete(ctx context.Context, path string, params param.Set) (*result, error) {
	return c.dispatch(ctx, http.MethodDelete, c.restBaseURL, path, params, false)
}

// Get issues an arbitrary GET against the REST base and returns the raw body.
func (c *Client) Get(ctx context.Context, path string, params param.Set) ([]byte, error) {
	r, err := c.get(ctx, strings.TrimPrefix(path, "/"), params)
	if err != nil {
		return nil, err
	}
	return r.resp.Body, nil
}

// Post issues an arbitrary authorized POST against the REST base and returns the raw body.
func (c *Client) Post(ctx context.Context, path string, params param.Set) ([]byte, error) {
	path = strings.TrimPrefix(path, "/")
	if err := c.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	r, err := c.post(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return r.resp.Body, nil
}

// Delete issues an arbitrary authorized DELETE against the REST base and returns the raw body.
func (c *Client) Delete(ctx context.Context, path string, params param.Set) ([]byte, error) {
	path = strings.TrimPrefix(path, "/")
	if err := c.requireAuthorization(http.MethodDelete, path); err != nil {
		return nil, err
	}
	r, err := c.delete(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return r.resp.Body, nil
}
