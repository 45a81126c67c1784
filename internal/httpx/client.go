// Package httpx is the HTTP collaborator behind the API facade. It encodes a
// parameter set for the verb, signs the request, and returns the raw response.
// Non-2xx statuses are returned as responses, not errors; only failures to
// complete the exchange are errors.
package httpx

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/chirpkit/chirp/internal/auth"
	"github.com/chirpkit/chirp/internal/debug"
	"github.com/chirpkit/chirp/internal/param"
)

const (
	DefaultTimeout   = 30 * time.Second
	DefaultUserAgent = "chirp"
)

// Request is one call to the remote API.
type Request struct {
	Method string
	URL    string
	Params param.Set
	Auth   auth.Authorization
	// NoRedirect returns 3xx responses as-is instead of following Location.
	NoRedirect bool
}

// Response is the raw outcome of an exchange.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Doer is the narrow interface the facade depends on.
type Doer interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Client is the default Doer.
//
// The circuit breaker tracks server failures for the lifetime of the client.
// Use ResetCircuitBreaker when reusing a client across logical sessions.
type Client struct {
	HTTP           *http.Client
	UserAgent      string
	RetryConfig    RetryConfig
	circuitBreaker *circuitBreaker
	rateLimitMu    sync.Mutex
	lastRateLimit  *RateLimitInfo
}

var _ Doer = (*Client)(nil)

type noRedirectKey struct{}

// New creates a client with TLS 1.2 minimum and retry settings from the environment.
func New() *Client {
	baseTransport, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		baseTransport = &http.Transport{}
	}
	transport := baseTransport.Clone()
	if transport.TLSClientConfig == nil {
		transport.TLSClientConfig = &tls.Config{}
	} else {
		transport.TLSClientConfig = transport.TLSClientConfig.Clone()
	}
	transport.TLSClientConfig.MinVersion = tls.VersionTLS12

	retryCfg := DefaultRetryConfig()
	return &Client{
		UserAgent:   DefaultUserAgent,
		RetryConfig: retryCfg,
		HTTP: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if v, _ := req.Context().Value(noRedirectKey{}).(bool); v {
					return http.ErrUseLastResponse
				}
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				return nil
			},
		},
		circuitBreaker: &circuitBreaker{
			threshold: retryCfg.CircuitBreakerThreshold,
			resetTime: retryCfg.CircuitBreakerResetTime,
		},
	}
}

// SetRetryConfig updates the retry configuration and aligns circuit breaker settings.
func (c *Client) SetRetryConfig(cfg RetryConfig) {
	c.RetryConfig = cfg
	if c.circuitBreaker != nil {
		c.circuitBreaker.threshold = cfg.CircuitBreakerThreshold
		c.circuitBreaker.resetTime = cfg.CircuitBreakerResetTime
	}
}

// SetTimeout changes the per-exchange timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.HTTP.Timeout = d
	}
}

// ResetCircuitBreaker clears failure counts and closes the circuit.
func (c *Client) ResetCircuitBreaker() {
	if c.circuitBreaker != nil {
		c.circuitBreaker.reset()
	}
}

// Do performs the exchange. GET requests are retried on transport errors,
// 429 and 5xx; other verbs get exactly one attempt.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.circuitBreaker != nil && c.circuitBreaker.isOpen() {
		return nil, &CircuitOpenError{}
	}
	if req.NoRedirect {
		ctx = context.WithValue(ctx, noRedirectKey{}, true)
	}
	if debug.RequestID(ctx) == "" {
		ctx = debug.WithRequestID(ctx, "")
	}

	attempts := uint(1)
	if req.Method == http.MethodGet {
		attempts += uint(max(c.RetryConfig.MaxRetries, 0))
	}

	var (
		last    *Response
		attempt int
	)
	err := retry.Do(
		func() error {
			attempt++
			resp, err := c.once(ctx, req, attempt)
			if err != nil {
				return err
			}
			last = resp
			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				d, _ := retryAfterDuration(resp.Header)
				return &retryableStatus{status: resp.StatusCode, retryAfter: d}
			case resp.StatusCode >= 500:
				if c.circuitBreaker != nil {
					c.circuitBreaker.recordFailure()
				}
				return &retryableStatus{status: resp.StatusCode}
			case resp.OK() && c.circuitBreaker != nil:
				c.circuitBreaker.recordSuccess()
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(c.RetryConfig.BaseDelay),
		retry.MaxDelay(c.RetryConfig.MaxDelay),
		retry.DelayType(c.delay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
		}),
		retry.OnRetry(func(n uint, err error) {
			if n+1 < attempts {
				slog.Info("retrying request", "method", req.Method, "url", req.URL, "attempt", n+2, "reason", err)
			}
		}),
	)

	var rs *retryableStatus
	switch {
	case err == nil:
		return last, nil
	case errors.As(err, &rs) && last != nil:
		return last, nil
	default:
		return nil, err
	}
}

func (c *Client) delay(n uint, err error, cfg *retry.Config) time.Duration {
	var rs *retryableStatus
	if errors.As(err, &rs) && rs.retryAfter > 0 {
		return rs.retryAfter
	}
	return retry.BackOffDelay(n, err, cfg)
}

func (c *Client) once(ctx context.Context, req *Request, attempt int) (*Response, error) {
	start := time.Now()
	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		if debug.IsEnabled(ctx) {
			slog.Debug("request failed", "method", req.Method, "url", req.URL, "attempt", attempt,
				"request_id", debug.RequestID(ctx), "error", err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.recordRateLimit(resp.Header)

	if debug.IsEnabled(ctx) {
		slog.Debug("request complete", "method", req.Method, "url", httpReq.URL.String(),
			"status", resp.StatusCode, "attempt", attempt, "duration", time.Since(start),
			"request_id", debug.RequestID(ctx), "headers", auth.Redact(httpReq.Header))
	}
	return &Response{StatusCode: resp.StatusCode, Body: body, Header: resp.Header}, nil
}

func (c *Client) newHTTPRequest(ctx context.Context, req *Request) (*http.Request, error) {
	target := req.URL
	var (
		body        io.Reader
		contentType string
	)

	switch req.Method {
	case http.MethodPost, http.MethodPut:
		if req.Params.HasFile() {
			buf, ct, err := encodeMultipart(req.Params)
			if err != nil {
				return nil, err
			}
			body, contentType = buf, ct
		} else {
			body = strings.NewReader(req.Params.Encode())
			contentType = "application/x-www-form-urlencoded"
		}
	default:
		if q := req.Params.Encode(); q != "" {
			sep := "?"
			if strings.Contains(target, "?") {
				sep = "&"
			}
			target += sep + q
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	if id := debug.RequestID(ctx); id != "" {
		httpReq.Header.Set("X-Request-Id", id)
	}
	if req.Auth != nil {
		if err := req.Auth.Sign(httpReq); err != nil {
			return nil, fmt.Errorf("failed to sign request: %w", err)
		}
	}
	return httpReq, nil
}

// encodeMultipart writes every parameter in order; file parameters become file parts.
func encodeMultipart(params param.Set) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, p := range params {
		f, ok := p.File()
		if !ok {
			if err := writer.WriteField(p.Name, p.Value()); err != nil {
				return nil, "", fmt.Errorf("failed to write field %s: %w", p.Name, err)
			}
			continue
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, p.Name, f.Name))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := writer.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create form file %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write file content %s: %w", f.Name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}
