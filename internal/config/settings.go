package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chirpkit/chirp/internal/validation"
)

const settingsFile = "config.yaml"

// Settings is the non-secret configuration read from config.yaml.
type Settings struct {
	RESTBaseURL     string             `yaml:"rest_base_url"`
	SearchBaseURL   string             `yaml:"search_base_url"`
	IncludeEntities *bool              `yaml:"include_entities"`
	IncludeRetweets *bool              `yaml:"include_rts"`
	UserAgent       string             `yaml:"user_agent,omitempty"`
	Monitoring      MonitoringSettings `yaml:"monitoring"`
	HTTP            HTTPSettings       `yaml:"http"`
}

type MonitoringSettings struct {
	Enabled  bool   `yaml:"enabled"`
	RedisURL string `yaml:"redis_url,omitempty"`
}

type HTTPSettings struct {
	Timeout    time.Duration `yaml:"timeout,omitempty"`
	Retries    *int          `yaml:"retries,omitempty"`
	RetryDelay time.Duration `yaml:"retry_delay,omitempty"`
}

// EntitiesEnabled defaults to true when unset.
func (s Settings) EntitiesEnabled() bool {
	return s.IncludeEntities == nil || *s.IncludeEntities
}

// RetweetsEnabled defaults to true when unset.
func (s Settings) RetweetsEnabled() bool {
	return s.IncludeRetweets == nil || *s.IncludeRetweets
}

// SettingsPath returns the location of config.yaml. CHIRP_CONFIG overrides it.
func SettingsPath() (string, error) {
	if p := firstNonBlankEnv("CHIRP_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := userConfigDir()
	if err != nil || strings.TrimSpace(dir) == "" {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", fmt.Errorf("cannot locate config directory: %w", herr)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, serviceName, settingsFile), nil
}

// LoadSettings reads path (or the default path when empty) and applies
// CHIRP_* environment overrides. A missing file yields defaults.
func LoadSettings(path string) (Settings, error) {
	var s Settings
	if path == "" {
		p, err := SettingsPath()
		if err != nil {
			return s, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return s, fmt.Errorf("failed to read settings: %w", err)
	default:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return s, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}

	if err := s.applyEnv(); err != nil {
		return s, err
	}
	for _, u := range []struct{ name, value string }{
		{"rest_base_url", s.RESTBaseURL},
		{"search_base_url", s.SearchBaseURL},
	} {
		if u.value == "" {
			continue
		}
		if err := validation.ValidateBaseURL(u.value); err != nil {
			return s, fmt.Errorf("%s: %w", u.name, err)
		}
	}
	return s, nil
}

// SaveSettings writes s as YAML, creating the directory when needed.
func SaveSettings(path string, s Settings) error {
	if path == "" {
		p, err := SettingsPath()
		if err != nil {
			return err
		}
		path = p
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

func (s *Settings) applyEnv() error {
	if v := firstNonBlankEnv("CHIRP_REST_BASE_URL"); v != "" {
		s.RESTBaseURL = v
	}
	if v := firstNonBlankEnv("CHIRP_SEARCH_BASE_URL"); v != "" {
		s.SearchBaseURL = v
	}
	if v := firstNonBlankEnv("CHIRP_REDIS_URL"); v != "" {
		s.Monitoring.RedisURL = v
	}

	bools := []struct {
		key string
		set func(bool)
	}{
		{"CHIRP_INCLUDE_ENTITIES", func(b bool) { s.IncludeEntities = &b }},
		{"CHIRP_INCLUDE_RTS", func(b bool) { s.IncludeRetweets = &b }},
		{"CHIRP_MONITOR", func(b bool) { s.Monitoring.Enabled = b }},
	}
	for _, e := range bools {
		v := firstNonBlankEnv(e.key)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		e.set(b)
	}

	if v := firstNonBlankEnv("CHIRP_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHIRP_TIMEOUT: %w", err)
		}
		s.HTTP.Timeout = d
	}
	if v := firstNonBlankEnv("CHIRP_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("CHIRP_MAX_RETRIES must be a non-negative integer")
		}
		s.HTTP.Retries = &n
	}
	return nil
}
