// Test utilities for the chirp commands.
//
// Commands run through Execute against an httptest server. The REST base URL
// points at <server>/1/ and the search base URL at <server>/search/, so routes
// are registered as e.g. "GET /1/statuses/show/1.json".
//
//	handler := newRouteHandler().
//	    On("GET", "/1/statuses/show/1.json", jsonResponse(200, statusJSON))
//	setupTestEnvWithHandler(t, handler)
//
//	output := captureStdout(t, func() {
//	    if err := Execute(context.Background(), []string{"status", "show", "1"}); err != nil {
//	        t.Fatalf("command failed: %v", err)
//	    }
//	})
package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

const (
	userJSON   = `{"id": 7, "screen_name": "ann", "name": "Ann", "followers_count": 12, "friends_count": 3, "created_at": "Wed Aug 27 13:08:45 +0000 2008"}`
	statusJSON = `{"id": 1, "text": "hello world", "retweet_count": 2, "created_at": "Wed Aug 27 13:08:45 +0000 2008", "user": ` + userJSON + `}`
	listJSON   = `{"id": 42, "name": "Gophers", "slug": "gophers", "mode": "public", "member_count": 5, "subscriber_count": 1, "user": ` + userJSON + `}`
)

// captureStdout executes a function and captures its stdout output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stdout = old
	return <-done
}

// captureStderr executes a function and captures its stderr output.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	fn()

	_ = w.Close()
	os.Stderr = old
	return <-done
}

type testEnv struct {
	t      *testing.T
	server *httptest.Server
}

// setupTestEnvWithHandler starts a server and points the client at it.
//
// It sets a bearer token, an empty config file, disables the cache and retries,
// and forces text output. t.Setenv restores everything on cleanup.
func setupTestEnvWithHandler(t *testing.T, handler http.Handler) *testEnv {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	dir := t.TempDir()
	t.Setenv("CHIRP_REST_BASE_URL", server.URL+"/1/")
	t.Setenv("CHIRP_SEARCH_BASE_URL", server.URL+"/search/")
	t.Setenv("CHIRP_TOKEN", "test-token")
	t.Setenv("CHIRP_USERNAME", "")
	t.Setenv("CHIRP_PROFILE", "")
	t.Setenv("CHIRP_CONFIG", filepath.Join(dir, "config.yaml"))
	t.Setenv("CHIRP_CACHE_DIR", filepath.Join(dir, "cache"))
	t.Setenv("CHIRP_NO_CACHE", "1")
	t.Setenv("CHIRP_MAX_RETRIES", "0")
	t.Setenv("CHIRP_OUTPUT", "text")
	t.Setenv("CHIRP_DEBUG", "")
	t.Setenv("CHIRP_MONITOR", "")
	t.Setenv("CHIRP_REDIS_URL", "")

	return &testEnv{t: t, server: server}
}

// jsonResponse returns a handler writing body with the given status.
func jsonResponse(statusCode int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write([]byte(body))
	}
}

// routeHandler routes by exact "METHOD PATH" and records what it served.
// Unknown routes get 404.
type routeHandler struct {
	mu       sync.Mutex
	routes   map[string]http.HandlerFunc
	requests []*http.Request
	forms    []map[string][]string
}

func newRouteHandler() *routeHandler {
	return &routeHandler{routes: make(map[string]http.HandlerFunc)}
}

// On registers a handler for the given HTTP method and path.
func (rh *routeHandler) On(method, path string, handler http.HandlerFunc) *routeHandler {
	rh.routes[method+" "+path] = handler
	return rh
}

func (rh *routeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseMultipartForm(1 << 20)
	rh.mu.Lock()
	rh.requests = append(rh.requests, r)
	rh.forms = append(rh.forms, r.Form)
	handler, ok := rh.routes[r.Method+" "+r.URL.Path]
	rh.mu.Unlock()
	if ok {
		handler(w, r)
		return
	}
	http.NotFound(w, r)
}

// count returns how many requests hit method and path.
func (rh *routeHandler) count(method, path string) int {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	n := 0
	for _, r := range rh.requests {
		if r.Method == method && r.URL.Path == path {
			n++
		}
	}
	return n
}

// lastForm returns the parsed parameters of the last request to method and path.
func (rh *routeHandler) lastForm(method, path string) map[string][]string {
	rh.mu.Lock()
	defer rh.mu.Unlock()
	for i := len(rh.requests) - 1; i >= 0; i-- {
		if rh.requests[i].Method == method && rh.requests[i].URL.Path == path {
			return rh.forms[i]
		}
	}
	return nil
}

func decodeArray(t *testing.T, output string) []map[string]any {
	t.Helper()
	var items []map[string]any
	if err := json.Unmarshal([]byte(output), &items); err != nil {
		t.Fatalf("output is not a JSON array: %v, output: %s", err, output)
	}
	return items
}

func decodeObject(t *testing.T, output string) map[string]any {
	t.Helper()
	var obj map[string]any
	if err := json.Unmarshal([]byte(output), &obj); err != nil {
		t.Fatalf("output is not a JSON object: %v, output: %s", err, output)
	}
	return obj
}

func TestTestInfrastructure(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/test", jsonResponse(200, `{"method": "get"}`))
	env := setupTestEnvWithHandler(t, handler)

	resp, err := http.Get(env.server.URL + "/1/test")
	if err != nil {
		t.Fatalf("GET request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Errorf("expected status 200, got %d", resp.StatusCode)
	}

	resp, err = http.Get(env.server.URL + "/1/unknown")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != 404 {
		t.Errorf("expected status 404 for unknown route, got %d", resp.StatusCode)
	}
	if handler.count("GET", "/1/test") != 1 {
		t.Errorf("expected one recorded request")
	}
}
