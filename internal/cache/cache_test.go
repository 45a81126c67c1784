package cache_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/chirpkit/chirp/internal/cache"
)

type language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func TestStore_PutAndGet(t *testing.T) {
	s := cache.NewStore(t.TempDir(), "languages", "https://api.example.com/1/", "")

	s.Put([]language{{Code: "en", Name: "English"}, {Code: "fr", Name: "French"}})

	var got []language
	if !s.Get(&got) {
		t.Fatal("expected cache hit")
	}
	if len(got) != 2 || got[0].Code != "en" || got[1].Name != "French" {
		t.Fatalf("unexpected items: %+v", got)
	}
}

func TestStore_ExpiredTTL(t *testing.T) {
	s := cache.NewStoreWithTTL(t.TempDir(), "languages", "https://api.example.com/1/", "", time.Millisecond)
	s.Put([]string{"a"})
	time.Sleep(5 * time.Millisecond)

	var got []string
	if s.Get(&got) {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestStore_MissOnEmpty(t *testing.T) {
	s := cache.NewStore(t.TempDir(), "languages", "https://api.example.com/1/", "")

	var got []string
	if s.Get(&got) {
		t.Fatal("expected cache miss on empty store")
	}
}

func TestStore_Clear(t *testing.T) {
	s := cache.NewStore(t.TempDir(), "languages", "https://api.example.com/1/", "")
	s.Put([]string{"a"})
	s.Clear()

	var got []string
	if s.Get(&got) {
		t.Fatal("expected cache miss after clear")
	}
}

func TestStore_VariantsAndServersAreSeparate(t *testing.T) {
	dir := t.TempDir()
	near := cache.NewStore(dir, "trend-locations", "https://api.example.com/1/", "37.78,-122.4")
	all := cache.NewStore(dir, "trend-locations", "https://api.example.com/1/", "")
	other := cache.NewStore(dir, "trend-locations", "http://localhost:8080/1/", "")

	near.Put([]string{"near"})
	all.Put([]string{"all"})
	other.Put([]string{"other"})

	var got1, got2, got3 []string
	near.Get(&got1)
	all.Get(&got2)
	other.Get(&got3)
	if got1[0] != "near" || got2[0] != "all" || got3[0] != "other" {
		t.Fatalf("stores should not share files: %v %v %v", got1, got2, got3)
	}
}

func TestClearAll(t *testing.T) {
	dir := t.TempDir()
	cache.NewStore(dir, "languages", "https://api.example.com/1/", "").Put([]string{"a"})
	cache.NewStore(dir, "configuration", "https://api.example.com/1/", "").Put([]string{"b"})

	cache.ClearAll(dir)

	files, _ := filepath.Glob(filepath.Join(dir, "*.json"))
	if len(files) != 0 {
		t.Fatalf("expected no cache files after ClearAll, got %d", len(files))
	}
}

func TestStore_DisabledByEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CHIRP_NO_CACHE", "1")

	s := cache.NewStore(dir, "languages", "https://api.example.com/1/", "")
	s.Put([]string{"a"})

	var got []string
	if s.Get(&got) {
		t.Fatal("expected cache miss when disabled via env")
	}
	files, _ := os.ReadDir(dir)
	if len(files) != 0 {
		t.Fatal("expected no files written when cache disabled")
	}
}
