package config

import (
	"errors"
	"time"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/auth"
	"github.com/chirpkit/chirp/internal/httpx"
)

// ClientConfig contains resolved API client settings.
type ClientConfig struct {
	API       api.Config
	Auth      auth.Authorization
	Timeout   time.Duration
	Retry     httpx.RetryConfig
	UserAgent string
	Monitor   bool
	RedisURL  string
}

// Resolve merges settings with the resolved credentials. Missing credentials
// are not an error: the client is anonymous and authorized endpoints fail locally.
func Resolve(s Settings) (ClientConfig, error) {
	authz := auth.Authorization(auth.Anonymous{})
	creds, err := LoadCredentials()
	switch {
	case err == nil:
		authz = creds.Authorization()
	case errors.Is(err, ErrNotConfigured):
	default:
		return ClientConfig{}, err
	}
	return ResolveWith(s, authz), nil
}

// ResolveWith is Resolve with an explicit credential.
func ResolveWith(s Settings, authz auth.Authorization) ClientConfig {
	cfg := api.DefaultConfig()
	if s.RESTBaseURL != "" {
		cfg.RESTBaseURL = s.RESTBaseURL
	}
	if s.SearchBaseURL != "" {
		cfg.SearchBaseURL = s.SearchBaseURL
	}
	cfg.IncludeEntities = s.EntitiesEnabled()
	cfg.IncludeRetweets = s.RetweetsEnabled()

	retry := httpx.DefaultRetryConfig()
	if s.HTTP.Retries != nil {
		retry.MaxRetries = *s.HTTP.Retries
	}
	if s.HTTP.RetryDelay > 0 {
		retry.BaseDelay = s.HTTP.RetryDelay
	}

	timeout := httpx.DefaultTimeout
	if s.HTTP.Timeout > 0 {
		timeout = s.HTTP.Timeout
	}
	ua := s.UserAgent
	if ua == "" {
		ua = httpx.DefaultUserAgent
	}

	return ClientConfig{
		API:       cfg,
		Auth:      authz,
		Timeout:   timeout,
		Retry:     retry,
		UserAgent: ua,
		Monitor:   s.Monitoring.Enabled,
		RedisURL:  s.Monitoring.RedisURL,
	}
}
