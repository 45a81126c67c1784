package api

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chirpkit/chirp/internal/param"
)

func TestSearch(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /search/search.json": {body: `{
			"results": [{"id": 5, "text": "go go", "from_user": "ann", "created_at": "Wed, 08 Apr 2009 19:22:10 +0000"}],
			"max_id": 5, "since_id": 0, "page": 1, "results_per_page": 15, "completed_in": 0.01, "query": "go"
		}`},
	})
	c := newTestClient(ts, nil)

	res, err := c.Search().Search(context.Background(), SearchQuery{Query: "go", Rpp: 15, ResultType: "recent"})
	require.NoError(t, err)
	require.Len(t, res.Tweets, 1)
	assert.Equal(t, "ann", res.Tweets[0].FromUser)
	assert.Equal(t, 2009, res.Tweets[0].CreatedAt.Year())
	assert.Equal(t, "q=go&result_type=recent&rpp=15", ts.last(t).Query)
}

func TestSearchNotFoundIsEmpty(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newTestClient(ts, nil)

	res, err := c.Search().Search(context.Background(), SearchQuery{Query: "nothing"})
	require.NoError(t, err)
	assert.Empty(t, res.Tweets)
	assert.NotNil(t, res.Tweets)
	assert.Equal(t, "nothing", res.Query)
}

func TestSearchServerErrorPropagates(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /search/search.json": {status: http.StatusBadRequest, body: `{"error":"bad query"}`},
	})
	c := newTestClient(ts, nil)

	_, err := c.Search().Search(context.Background(), SearchQuery{Query: "x"})
	require.Error(t, err)
	assert.True(t, IsHTTPStatus(err))
	assert.Equal(t, http.StatusBadRequest, StatusCode(err))
}

func TestSearchQueryValidation(t *testing.T) {
	_, err := SearchQuery{}.params()
	assert.Error(t, err)
	_, err = SearchQuery{Query: "x", Rpp: 500}.params()
	assert.Error(t, err)
	_, err = SearchQuery{Query: "x", ResultType: "best"}.params()
	assert.Error(t, err)

	q := SearchQuery{Query: "x"}.Near(GeoLocation{Latitude: 37.78, Longitude: -122.4}, 1, "mi")
	assert.Equal(t, "37.78,-122.4,1mi", q.Geocode)
}

func TestGeoGracefulNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	c := newTestClient(ts, nil)
	ctx := context.Background()
	q := GeoQuery{Location: param.Some(GeoLocation{Latitude: 1, Longitude: 2})}

	places, err := c.Geo().Search(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, places)

	places, err = c.Geo().ReverseGeocode(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, places)

	_, err = c.Geo().Place(ctx, "abc")
	assert.True(t, IsNotFound(err))
}

func TestGeoSearch(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/geo/search.json": {body: `{"result":{"places":[{"id":"5a110d312052166f","name":"San Francisco","place_type":"city"}]}}`},
	})
	c := newTestClient(ts, nil)

	places, err := c.Geo().Search(context.Background(), GeoQuery{Query: "sf", Granularity: "city"})
	require.NoError(t, err)
	require.Len(t, places, 1)
	assert.Equal(t, "San Francisco", places[0].Name)
	assert.Equal(t, "granularity=city&query=sf", ts.last(t).Query)
}

func TestGeoQueryNeedsSomething(t *testing.T) {
	_, err := GeoQuery{}.params()
	assert.Error(t, err)

	c := New(DefaultConfig(), nil, WithHTTP(&countingDoer{}))
	_, err = c.Geo().ReverseGeocode(context.Background(), GeoQuery{Query: "x"})
	assert.Error(t, err)
}

func TestSimilarPlacesAndCreate(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/geo/similar_places.json": {body: `{"result":{"places":[{"id":"p1","name":"Cafe"}],"token":"tok123"}}`},
		"POST /1/geo/place.json":         {body: `{"id":"p2","name":"Cafe"}`},
	})
	c := newTestClient(ts, signedIn)
	ctx := context.Background()
	loc := GeoLocation{Latitude: 10, Longitude: 20}

	sim, err := c.Geo().SimilarPlaces(ctx, loc, "Cafe", param.Some("p0"), param.None[string]())
	require.NoError(t, err)
	assert.Equal(t, "tok123", sim.Token)
	require.Len(t, sim.Places, 1)
	assert.Equal(t, "lat=10&long=20&name=Cafe&contained_within=p0", ts.last(t).Query)

	place, err := c.Geo().Create(ctx, NewPlace{
		Name:            "Cafe",
		ContainedWithin: "p0",
		Token:           sim.Token,
		Location:        loc,
		StreetAddress:   param.Some("1 Main St"),
	})
	require.NoError(t, err)
	assert.Equal(t, "p2", place.ID)
	assert.Equal(t, "name=Cafe&contained_within=p0&token=tok123&lat=10&long=20&attribute%3Astreet_address=1+Main+St", ts.last(t).Body)
}

func TestBlocksExists(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/blocks/exists.json": {body: `{"id": 3, "screen_name": "spammer"}`},
	})
	c := newTestClient(ts, signedIn)
	ctx := context.Background()

	blocked, err := c.Blocks().Exists(ctx, ByScreenName("spammer"))
	require.NoError(t, err)
	assert.True(t, blocked)

	ts.set("GET /1/blocks/exists.json", route{status: http.StatusNotFound, body: `{"error":"You are not blocking this user."}`})
	blocked, err = c.Blocks().Exists(ctx, ByScreenName("friend"))
	require.NoError(t, err)
	assert.False(t, blocked)

	ts.set("GET /1/blocks/exists.json", route{body: `{"error":"You are not blocking this user.","request":"/1/blocks/exists.json"}`})
	blocked, err = c.Blocks().Exists(ctx, ByScreenName("friend"))
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestFriendshipExists(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/friendships/exists.json": {body: `true`},
	})
	c := newTestClient(ts, nil)

	ok, err := c.Friendships().Exists(context.Background(), "ann", "bob")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "user_a=ann&user_b=bob", ts.last(t).Query)

	ts.set("GET /1/friendships/exists.json", route{body: `false`})
	ok, err = c.Friendships().Exists(context.Background(), "ann", "bob")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFriendshipShow(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/friendships/show.json": {body: `{"relationship":{
			"source":{"id":1,"screen_name":"ann","following":true,"followed_by":false},
			"target":{"id":2,"screen_name":"bob","following":false,"followed_by":true}}}`},
	})
	c := newTestClient(ts, nil)

	rel, err := c.Friendships().Show(context.Background(), ByID(1), ByScreenName("bob"))
	require.NoError(t, err)
	assert.True(t, rel.Source.Following)
	assert.True(t, rel.Target.FollowedBy)
	assert.Equal(t, "source_id=1&target_screen_name=bob", ts.last(t).Query)
}

func TestFriendshipUpdateSendsEachFlag(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"POST /1/friendships/update.json": {body: `{"relationship":{"source":{"id":1},"target":{"id":2}}}`},
	})
	c := newTestClient(ts, signedIn)

	_, err := c.Friendships().Update(context.Background(), ByID(2), FriendshipUpdate{
		Device:   param.Some(true),
		Retweets: param.Some(false),
	})
	require.NoError(t, err)
	assert.Equal(t, "user_id=2&device=true&retweets=false", ts.last(t).Body)
}

func TestFriendshipLookup(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/friendships/lookup.json": {body: `[{"id":2,"screen_name":"bob","connections":["following","followed_by"]}]`},
	})
	c := newTestClient(ts, signedIn)

	fs, err := c.Friendships().LookupIDs(context.Background(), []int64{2, 3})
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.True(t, fs[0].IsFollowing())
	assert.True(t, fs[0].IsFollowedBy())
	assert.Equal(t, "user_id=2%2C3", ts.last(t).Query)
}

func TestFollowerIDs(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/followers/ids.json": {body: `{"ids":[1,2,3],"previous_cursor":0,"next_cursor":1374004777531007833}`},
		"GET /1/friends/ids.json":   {body: `[4,5]`},
	})
	c := newTestClient(ts, nil)
	ctx := context.Background()

	page, err := c.Friendships().FollowerIDs(ctx, ByScreenName("ann"), -1)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, page.IDs)
	assert.True(t, page.HasNext())
	assert.Equal(t, int64(1374004777531007833), page.NextCursor)
	assert.Equal(t, "screen_name=ann&cursor=-1", ts.last(t).Query)

	page, err = c.Friendships().FriendIDs(ctx, ByID(9), -1)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 5}, page.IDs)
	assert.False(t, page.HasNext())
}

func TestIDsMissingArray(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/friends/ids.json": {body: `{"nope":true}`},
	})
	c := newTestClient(ts, nil)

	_, err := c.Friendships().FriendIDs(context.Background(), ByID(1), -1)
	assert.True(t, IsDeserialization(err))
}

func TestListMembersCursor(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/lists/members.json": {body: `{"users":[{"id":1,"screen_name":"a"},{"id":2,"screen_name":"b"}],"previous_cursor":-3,"next_cursor":0}`},
	})
	c := newTestClient(ts, signedIn)

	page, err := c.Lists().Members(context.Background(), 77, -1)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.False(t, page.HasNext())
	assert.True(t, page.HasPrevious())
	assert.Equal(t, "list_id=77&cursor=-1&include_entities=true", ts.last(t).Query)
}

func TestListStatusesUsesPerPage(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/lists/statuses.json": {body: `[]`},
	})
	c := newTestClient(ts, nil)

	_, err := c.Lists().Statuses(context.Background(), 7, Paging{Count: 20, Page: 2})
	require.NoError(t, err)
	assert.Equal(t, "list_id=7&page=2&per_page=20&include_entities=true&include_rts=true", ts.last(t).Query)
}

func TestAddMembersJoinsIDs(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"POST /1/lists/members/create_all.json": {body: `{"id":7,"name":"friends","mode":"public"}`},
	})
	c := newTestClient(ts, signedIn)

	l, err := c.Lists().AddMembers(context.Background(), 7, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.True(t, l.IsPublic())
	assert.Equal(t, "list_id=7&user_id=1%2C2%2C3", ts.last(t).Body)
}

func TestDirectMessageSend(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"POST /1/direct_messages/new.json": {body: `{"id":9,"text":"hey","sender_screen_name":"me","recipient_screen_name":"bob"}`},
	})
	c := newTestClient(ts, signedIn)

	dm, err := c.DirectMessages().Send(context.Background(), ByScreenName("bob"), "hey")
	require.NoError(t, err)
	assert.Equal(t, "bob", dm.RecipientScreenName)
	assert.Equal(t, "screen_name=bob&text=hey&include_entities=true", ts.last(t).Body)
}

func TestTrendsCurrent(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/trends/current.json": {body: `{"as_of":1268748600,"trends":{
			"2010-03-16 14:10:00":[{"name":"#b","query":"#b"}],
			"2010-03-16 14:00:00":[{"name":"#a","query":"#a"},{"name":"c","query":"c"}]}}`},
	})
	c := newTestClient(ts, nil)

	got, err := c.Trends().Current(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, 14, got[0].TrendAt.Hour())
	assert.Equal(t, 0, got[0].TrendAt.Minute())
	assert.Len(t, got[0].Trends, 2)
	assert.Equal(t, "#b", got[1].Trends[0].Name)
	assert.Equal(t, time.Unix(1268748600, 0).UTC(), got[0].AsOf)
	assert.Equal(t, "exclude=hashtags", ts.last(t).Query)
}

func TestTrendsDailyDate(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/trends/daily.json": {body: `{"as_of":1,"trends":{}}`},
	})
	c := newTestClient(ts, nil)

	got, err := c.Trends().Daily(context.Background(), time.Date(2011, 5, 4, 0, 0, 0, 0, time.UTC), false)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "date=2011-05-04", ts.last(t).Query)
}

func TestTrendsLocation(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/trends/1.json": {body: `[{"as_of":"2011-05-04T12:00:00Z","created_at":"2011-05-04T11:55:00Z",
			"locations":[{"name":"Worldwide","woeid":1}],
			"trends":[{"name":"golang","url":"http://x","query":"golang"}]}]`},
	})
	c := newTestClient(ts, nil)

	got, err := c.Trends().Location(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, got.Location)
	assert.Equal(t, "Worldwide", got.Location.Name)
	assert.Equal(t, "golang", got.Trends[0].Name)
	assert.Equal(t, 55, got.TrendAt.Minute())
}

func TestTrendsMissingName(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/trends.json": {body: `{"as_of":"Tue, 16 Mar 2010 14:10:00 +0000","trends":[{"url":"x"}]}`},
	})
	c := newTestClient(ts, nil)

	_, err := c.Trends().Trends(context.Background())
	assert.True(t, IsDeserialization(err))
}

func TestHelpEndpoints(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/help/test.json":      {body: `"ok"`},
		"GET /1/legal/tos.json":      {body: `{"tos":"Be nice."}`},
		"GET /1/legal/privacy.json":  {body: `{"privacy":"We keep little."}`},
		"GET /1/help/languages.json": {body: `[{"code":"en","name":"English","status":"production"}]`},
	})
	c := newTestClient(ts, nil)
	ctx := context.Background()

	ok, err := c.Help().Test(ctx)
	require.NoError(t, err)
	assert.True(t, ok)

	tos, err := c.Help().TermsOfService(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Be nice.", tos)

	privacy, err := c.Help().PrivacyPolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, "We keep little.", privacy)

	langs, err := c.Help().Languages(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", langs[0].Code)

	_, err = c.Help().Configuration(ctx)
	assert.True(t, IsNotFound(err))
}

func TestProfileImageReadsRedirect(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/users/profile_image/ann.json": {status: http.StatusFound, header: map[string]string{"Location": "http://img.example/ann_bigger.png"}},
	})
	c := newTestClient(ts, nil)

	img, err := c.Users().ProfileImage(context.Background(), "@ann", ImageBigger)
	require.NoError(t, err)
	assert.Equal(t, "http://img.example/ann_bigger.png", img.URL)
	assert.Equal(t, "size=bigger", ts.last(t).Query)
}

func TestUpdateProfileImageIsMultipart(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"POST /1/account/update_profile_background_image.json": {body: `{"id":1,"screen_name":"me"}`},
	})
	c := newTestClient(ts, signedIn)

	img := param.File{Name: "bg.png", Content: []byte("\x89PNG\r\n\x1a\nrest"), ContentType: "image/png"}
	u, err := c.Account().UpdateProfileBackgroundImage(context.Background(), img, true)
	require.NoError(t, err)
	assert.Equal(t, "me", u.ScreenName)

	req := ts.last(t)
	assert.True(t, strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data"))
	assert.Contains(t, req.Body, `name="image"; filename="bg.png"`)
	assert.Contains(t, req.Body, `name="tile"`)
	assert.True(t, strings.Index(req.Body, `name="tile"`) < strings.Index(req.Body, `name="include_entities"`))
}

func TestRateLimitStatus(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/account/rate_limit_status.json": {body: `{"remaining_hits":140,"hourly_limit":150,"reset_time_in_seconds":1300000000,"reset_time":"Sun Mar 13 07:06:40 +0000 2011"}`},
	})
	c := newTestClient(ts, nil)

	rl, err := c.Account().RateLimitStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 140, rl.RemainingHits)
	assert.Equal(t, 2011, rl.ResetTime.Year())
	assert.Equal(t, 10*time.Second, rl.ResetIn(time.Unix(1300000000-10, 0)))
	assert.Zero(t, rl.ResetIn(time.Unix(1300000000+10, 0)))
}

func TestSuggestionsExtractsUsers(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/users/suggestions/tech.json": {body: `{"name":"Tech","slug":"tech","users":[{"id":1,"screen_name":"gopher"}]}`},
	})
	c := newTestClient(ts, nil)

	users, err := c.Users().Suggestions(context.Background(), "tech")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "gopher", users[0].ScreenName)
}

func TestRelatedResults(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"GET /1/related_results/show/1.json": {body: `[
			{"groupName":"TweetsWithConversation","results":[{"kind":"Tweet","value":{"id":2,"text":"reply"}}]},
			{"groupName":"Other","results":[]}]`},
	})
	c := newTestClient(ts, signedIn)

	rel, err := c.Statuses().Related(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rel.TweetsWithConversation, 1)
	assert.Equal(t, "reply", rel.TweetsWithConversation[0].Text)
	assert.Empty(t, rel.TweetsFromUser)
}

func TestSavedSearches(t *testing.T) {
	ts := newTestServer(t, map[string]route{
		"POST /1/saved_searches/create.json": {body: `{"id":4,"query":"golang","name":"golang"}`},
		"GET /1/saved_searches.json":         {body: `[{"id":4,"query":"golang"}]`},
	})
	c := newTestClient(ts, signedIn)
	ctx := context.Background()

	ss, err := c.SavedSearches().Create(ctx, "golang")
	require.NoError(t, err)
	assert.Equal(t, int64(4), ss.ID)
	assert.Equal(t, "query=golang", ts.last(t).Body)

	all, err := c.SavedSearches().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
