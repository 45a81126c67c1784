package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpkit/chirp/internal/auth"
	"github.com/chirpkit/chirp/internal/httpx"
	"github.com/chirpkit/chirp/internal/monitor"
	"github.com/chirpkit/chirp/internal/param"
)

type route struct {
	status int
	body   string
	header map[string]string
}

type seenRequest struct {
	Method string
	Path   string
	Query  string
	Body   string
	Header http.Header
}

type testServer struct {
	*httptest.Server
	mu     sync.Mutex
	routes map[string]route
	seen   []seenRequest
}

// newTestServer answers "METHOD /path" keys with canned responses and 404 otherwise.
func newTestServer(t *testing.T, routes map[string]route) *testServer {
	t.Helper()
	if routes == nil {
		routes = map[string]route{}
	}
	ts := &testServer{routes: routes}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		ts.mu.Lock()
		ts.seen = append(ts.seen, seenRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   string(body),
			Header: r.Header.Clone(),
		})
		rt, ok := ts.routes[r.Method+" "+r.URL.Path]
		ts.mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		for k, v := range rt.header {
			w.Header().Set(k, v)
		}
		status := rt.status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, rt.body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) last(t *testing.T) seenRequest {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	require.NotEmpty(t, ts.seen, "no request reached the server")
	return ts.seen[len(ts.seen)-1]
}

func (ts *testServer) set(key string, rt route) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.routes[key] = rt
}

func noRetryHTTP() *httpx.Client {
	h := httpx.New()
	h.SetRetryConfig(httpx.RetryConfig{
		MaxRetries:              0,
		BaseDelay:               time.Millisecond,
		MaxDelay:                time.Millisecond,
		CircuitBreakerThreshold: 100,
		CircuitBreakerResetTime: time.Minute,
	})
	return h
}

func newTestClient(ts *testServer, authz auth.Authorization, opts ...Option) *Client {
	cfg := Config{
		RESTBaseURL:     ts.URL + "/1",
		SearchBaseURL:   ts.URL + "/search/",
		IncludeEntities: true,
		IncludeRetweets: true,
	}
	return New(cfg, authz, append([]Option{WithHTTP(noRetryHTTP())}, opts...)...)
}

var signedIn = auth.Bearer{Token: "tok"}

// countingDoer fails the test if it is ever asked to send anything.
type countingDoer struct {
	calls atomic.Int32
}

func (d *countingDoer) Do(context.Context, *httpx.Request) (*httpx.Response, error) {
	d.calls.Add(1)
	return &httpx.Response{StatusCode: http.StatusOK, Body: []byte(`{}`)}, nil
}

type failingDoer struct{ err error }

func (d failingDoer) Do(context.Context, *httpx.Request) (*httpx.Response, error) {
	return nil, d.err
}

func TestNewDefaults(t *testing.T) {
	c := New(Config{}, nil)

	assert.Equal(t, DefaultRESTBaseURL, c.RESTBaseURL())
	assert.Equal(t, DefaultSearchBaseURL, c.SearchBaseURL())
	assert.False(t, c.Authorization().Enabled())
	assert.Equal(t, "include_entities=false", param.Of(c.includeEntities).Encode())
}

func TestNewAddsTrailingSlash(t *testing.T) {
	c := New(Config{RESTBaseURL: "http://x/1", SearchBaseURL: "http://s"}, nil)
	assert.Equal(t, "http://x/1/", c.RESTBaseURL())
	assert.Equal(t, "http://s/", c.SearchBaseURL())
}

func TestUpdateStatusMergesEntitiesAfterStatus(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"POST /1/statuses/update.json": {body: `{"id": 10, "text": "hello", "user": {"id": 1, "screen_name": "ann"}}`},
	})
	c := newTestClient(ts, signedIn)

	st, err := c.Statuses().Post(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(10), st.ID)
	assert.Equal(t, "ann", st.User.ScreenName)

	req := ts.last(t)
	assert.Equal(t, "status=hello&include_entities=true", req.Body)
	assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
}

func TestUpdateStatusOptionalFields(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"POST /1/statuses/update.json": {body: `{"id": 11, "text": "hi"}`},
	})
	c := newTestClient(ts, signedIn)

	_, err := c.Statuses().Update(context.Background(), StatusUpdate{
		Status:            "hi",
		InReplyToStatusID: param.Some[int64](7),
		Location:          param.Some(GeoLocation{Latitude: 1.5, Longitude: -2}),
	})
	require.NoError(t, err)
	assert.Equal(t, "status=hi&in_reply_to_status_id=7&lat=1.5&long=-2&include_entities=true", ts.last(t).Body)
}

func TestUpdateStatusRejectsEmptyText(t *testing.T) {
	d := &countingDoer{}
	c := New(DefaultConfig(), signedIn, WithHTTP(d))

	_, err := c.Statuses().Update(context.Background(), StatusUpdate{})
	assert.Error(t, err)
	assert.Equal(t, int32(0), d.calls.Load())
}

func TestTimelineMergesEntitiesAndRetweets(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/statuses/user_timeline.json": {body: `[{"id": 1, "text": "a"}, {"id": 2, "text": "b"}]`},
	})
	c := newTestClient(ts, nil)

	got, err := c.Timelines().User(context.Background(), ByScreenName("@ann"), Paging{Count: 5})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "screen_name=ann&count=5&include_entities=true&include_rts=true", ts.last(t).Query)
}

func TestEntitiesOnlyTimelines(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/statuses/home_timeline.json":     {body: `[]`},
		"GET /1/statuses/retweets_of_me.json":    {body: `[]`},
		"GET /1/statuses/retweeted_to_user.json": {body: `[]`},
		"GET /1/statuses/mentions.json":          {body: `[]`},
	})
	c := newTestClient(ts, signedIn)
	ctx := context.Background()

	_, err := c.Timelines().Home(ctx, Paging{Count: 2})
	require.NoError(t, err)
	assert.Equal(t, "count=2&include_entities=true", ts.last(t).Query)

	_, err = c.Timelines().RetweetsOfMe(ctx, Paging{})
	require.NoError(t, err)
	assert.Equal(t, "include_entities=true", ts.last(t).Query)

	_, err = c.Timelines().RetweetedToUser(ctx, ByID(3), Paging{})
	require.NoError(t, err)
	assert.Equal(t, "user_id=3&include_entities=true", ts.last(t).Query)

	_, err = c.Timelines().Mentions(ctx, Paging{})
	require.NoError(t, err)
	assert.Equal(t, "include_entities=true&include_rts=true", ts.last(t).Query)
}

func TestDefaultsFollowConfig(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/statuses/public_timeline.json": {body: `[]`},
	})
	c := New(Config{RESTBaseURL: ts.URL + "/1/", IncludeEntities: false, IncludeRetweets: true}, nil, WithHTTP(noRetryHTTP()))

	_, err := c.Timelines().Public(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "include_entities=false&include_rts=true", ts.last(t).Query)
}

func TestAuthorizationGateSendsNothing(t *testing.T) {
	ctx := context.Background()
	d := &countingDoer{}
	c := New(DefaultConfig(), auth.Anonymous{}, WithHTTP(d))

	calls := map[string]func() error{
		"home timeline": func() error { _, err := c.Timelines().Home(ctx, Paging{}); return err },
		"update":        func() error { _, err := c.Statuses().Post(ctx, "x"); return err },
		"destroy":       func() error { _, err := c.Statuses().Destroy(ctx, 1); return err },
		"dm send":       func() error { _, err := c.DirectMessages().Send(ctx, ByID(1), "x"); return err },
		"dm list":       func() error { _, err := c.DirectMessages().Received(ctx, Paging{}); return err },
		"favorites":     func() error { _, err := c.Favorites().List(ctx, 0); return err },
		"verify":        func() error { _, err := c.Account().VerifyCredentials(ctx); return err },
		"block exists":  func() error { _, err := c.Blocks().Exists(ctx, ByID(1)); return err },
		"lookup":        func() error { _, err := c.Users().LookupIDs(ctx, []int64{1}); return err },
		"list create":   func() error { _, err := c.Lists().Create(ctx, "n", ListPublic, param.None[string]()); return err },
		"place":         func() error { _, err := c.Geo().Create(ctx, NewPlace{}); return err },
		"add member":    func() error { _, err := c.Lists().AddMember(ctx, 1, 2); return err },
		"add members":   func() error { _, err := c.Lists().AddMembers(ctx, 1, nil); return err },
		"add by name":   func() error { _, err := c.Lists().AddMembersByScreenName(ctx, 1, nil); return err },
		"remove member": func() error { _, err := c.Lists().RemoveMember(ctx, 1, 2); return err },
		"subscribe":     func() error { _, err := c.Lists().Subscribe(ctx, 1); return err },
		"unsubscribe":   func() error { _, err := c.Lists().Unsubscribe(ctx, 1); return err },
		"raw post":      func() error { _, err := c.Post(ctx, "x.json", nil); return err },
		"raw delete":    func() error { _, err := c.Delete(ctx, "x.json", nil); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.True(t, IsAuthorization(err), "got %v", err)
			assert.ErrorIs(t, err, ErrNoCredentials)
		})
	}
	assert.Equal(t, int32(0), d.calls.Load())
}

func TestUserTimelineWithoutUserNeedsAuth(t *testing.T) {
	d := &countingDoer{}
	c := New(DefaultConfig(), nil, WithHTTP(d))

	_, err := c.Timelines().User(context.Background(), UserRef{}, Paging{})
	assert.True(t, IsAuthorization(err))
	assert.Equal(t, int32(0), d.calls.Load())
}

func TestAnonymousReadsAreSent(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/statuses/show/5.json": {body: `{"id": 5, "text": "x"}`},
	})
	c := newTestClient(ts, nil)

	st, err := c.Statuses().Show(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "x", st.Text)
	assert.Empty(t, ts.last(t).Header.Get("Authorization"))
}

func TestStatusErrorCarriesVendorMessage(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/statuses/show/5.json": {status: http.StatusForbidden, body: `{"errors":[{"code":179,"message":"Not authorized"}]}`},
	})
	c := newTestClient(ts, nil)

	_, err := c.Statuses().Show(context.Background(), 5)
	require.Error(t, err)
	assert.True(t, IsHTTPStatus(err))
	assert.Equal(t, http.StatusForbidden, StatusCode(err))

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.HasVendorCode(179))
	assert.Equal(t, "statuses/show/5.json", apiErr.Path)
	assert.Contains(t, err.Error(), "Not authorized")
}

func TestNotFoundIsAnErrorOutsideGracefulEndpoints(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newTestClient(ts, nil)

	_, err := c.Users().Show(context.Background(), ByID(9))
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	c := New(DefaultConfig(), nil, WithHTTP(failingDoer{err: cause}))

	_, err := c.Statuses().Show(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, IsTransport(err))
	assert.ErrorIs(t, err, cause)
}

func TestMissingRequiredFieldIsDeserializationError(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/statuses/show/5.json": {body: `{"text": "no id"}`},
		"GET /1/users/show.json":      {body: `{"id": 3}`},
		"GET /1/statuses/show/6.json": {body: `not json`},
	})
	c := newTestClient(ts, nil)
	ctx := context.Background()

	_, err := c.Statuses().Show(ctx, 5)
	assert.True(t, IsDeserialization(err), "got %v", err)

	_, err = c.Users().Show(ctx, ByID(3))
	assert.True(t, IsDeserialization(err), "got %v", err)

	_, err = c.Statuses().Show(ctx, 6)
	assert.True(t, IsDeserialization(err), "got %v", err)
}

func TestMonitorRecordsEachCall(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/statuses/show/1.json": {body: `{"id": 1, "text": "x"}`},
	})
	stats := monitor.NewStats()
	c := newTestClient(ts, nil, WithMonitor(stats))
	ctx := context.Background()

	_, err := c.Statuses().Show(ctx, 1)
	require.NoError(t, err)
	_, err = c.Statuses().Show(ctx, 2)
	require.Error(t, err)

	snap := stats.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "statuses/show/1.json", snap[0].Path)
	assert.Equal(t, int64(1), snap[0].Calls)
	assert.Equal(t, int64(0), snap[0].Failures)
	assert.Equal(t, "statuses/show/2.json", snap[1].Path)
	assert.Equal(t, int64(1), snap[1].Failures)
}

func TestMonitorRecordsTransportFailure(t *testing.T) {
	stats := monitor.NewStats()
	c := New(DefaultConfig(), nil, WithHTTP(failingDoer{err: errors.New("boom")}), WithMonitor(stats))

	_, err := c.Help().Test(context.Background())
	require.Error(t, err)
	snap := stats.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, int64(1), snap[0].Failures)
}

func TestRawDispatch(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/custom/thing.json":    {body: `{"a":1}`},
		"DELETE /1/custom/thing.json": {body: `{"deleted":true}`},
	})
	c := newTestClient(ts, signedIn)
	ctx := context.Background()

	body, err := c.Get(ctx, "/custom/thing.json", param.Of(param.Int("n", 2)))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(body))
	assert.Equal(t, "n=2", ts.last(t).Query)

	body, err = c.Delete(ctx, "custom/thing.json", nil)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "deleted"))
}
