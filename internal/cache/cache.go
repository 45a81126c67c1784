// Package cache keeps slow-changing reference data (help/configuration,
// languages, trend locations) on disk between runs.
//
// Cache files are JSON, scoped per resource, API base URL and variant.
// Default TTL is one hour. Disable with CHIRP_NO_CACHE=1.
package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const DefaultTTL = time.Hour

type entry struct {
	CachedAt time.Time           `json:"cached_at"`
	Items    jsoniter.RawMessage `json:"items"`
}

// Store reads and writes a single cache key.
type Store struct {
	path string
	ttl  time.Duration
}

// NewStore creates a Store with the default TTL.
// key names the resource (e.g. "languages"); variant distinguishes
// parameterized lookups such as a location, and may be empty.
func NewStore(dir, key, baseURL, variant string) *Store {
	return NewStoreWithTTL(dir, key, baseURL, variant, DefaultTTL)
}

// NewStoreWithTTL creates a Store with a custom TTL.
func NewStoreWithTTL(dir, key, baseURL, variant string, ttl time.Duration) *Store {
	hash := sha1.Sum([]byte(baseURL + "\x00" + variant))
	filename := sanitizeKey(key) + "_" + hex.EncodeToString(hash[:6]) + ".json"
	return &Store{
		path: filepath.Join(dir, filename),
		ttl:  ttl,
	}
}

// Get loads cached items into dst. Returns false on miss (no file, expired, disabled).
func (s *Store) Get(dst any) bool {
	if disabled() {
		return false
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return false
	}
	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return false
	}
	if time.Since(e.CachedAt) > s.ttl {
		return false
	}
	return json.Unmarshal(e.Items, dst) == nil
}

// Put writes items to the cache. Silently no-ops on error or when disabled.
func (s *Store) Put(items any) {
	if disabled() {
		return
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	data, err := json.Marshal(entry{
		CachedAt: time.Now(),
		Items:    raw,
	})
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		_ = os.Remove(tmp)
		return
	}
	_ = os.Rename(tmp, s.path)
}

// Clear removes this cache file.
func (s *Store) Clear() {
	_ = os.Remove(s.path)
}

// ClearAll removes all cache files from the directory.
// It only removes files matching this package's filename scheme.
func ClearAll(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() || !isCacheFilename(e.Name()) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, e.Name()))
	}
}

// DefaultDir returns CHIRP_CACHE_DIR when set, otherwise "$XDG_CACHE_HOME/chirp"
// or the platform equivalent.
func DefaultDir() (string, error) {
	if dir := os.Getenv("CHIRP_CACHE_DIR"); dir != "" {
		return dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "chirp"), nil
}

func disabled() bool {
	return os.Getenv("CHIRP_NO_CACHE") != ""
}

func sanitizeKey(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "cache"
	}
	return strings.NewReplacer("/", "-", "\\", "-", "_", "-").Replace(key)
}

func isCacheFilename(name string) bool {
	// Expected: "<key>_<12hex>.json"
	if filepath.Ext(name) != ".json" {
		return false
	}
	key, sum, ok := strings.Cut(strings.TrimSuffix(name, ".json"), "_")
	if !ok || key == "" || strings.Contains(sum, "_") {
		return false
	}
	return len(sum) == 12 && isHex(sum)
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
