package cmd

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersShow(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/users/show.json", jsonResponse(200, userJSON))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"users", "show", "@ann"}))
	})

	assert.Contains(t, output, "Screen name:")
	assert.Contains(t, output, "@ann")
	form := handler.lastForm("GET", "/1/users/show.json")
	assert.Equal(t, []string{"ann"}, form["screen_name"])
}

func TestUsersLookup_SplitsIDsAndNames(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/users/lookup.json", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("user_id") != "" {
				jsonResponse(200, `[{"id": 12, "screen_name": "twelve"}]`)(w, r)
				return
			}
			jsonResponse(200, `[{"id": 7, "screen_name": "ann"}]`)(w, r)
		})
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"users", "lookup", "12,ann", "@ann", "-o", "json"}))
	})

	items := decodeArray(t, output)
	require.Len(t, items, 2)
	assert.Equal(t, "twelve", items[0]["screen_name"])
	assert.Equal(t, "ann", items[1]["screen_name"])
	assert.Equal(t, 2, handler.count("GET", "/1/users/lookup.json"))
}

func TestListsShow_ResolvesName(t *testing.T) {
	owned := `{"lists": [` + listJSON + `, {"id": 43, "name": "Rustaceans", "slug": "rustaceans"}], "next_cursor": 0, "previous_cursor": 0}`
	handler := newRouteHandler().
		On("GET", "/1/lists.json", jsonResponse(200, owned)).
		On("GET", "/1/lists/show.json", jsonResponse(200, listJSON))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"lists", "show", "gophers"}))
	})

	assert.Contains(t, output, "Gophers")
	assert.Contains(t, output, "Owner:")
	form := handler.lastForm("GET", "/1/lists/show.json")
	assert.Equal(t, []string{"42"}, form["list_id"])
}

func TestListsShow_NoLists(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/lists.json", jsonResponse(200, `{"lists": [], "next_cursor": 0, "previous_cursor": 0}`))
	setupTestEnvWithHandler(t, handler)

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"lists", "show", "gophers"})
	})
	require.Error(t, err)
	assert.Contains(t, stderr, `no lists found to match "gophers"`)
}

func TestListsList(t *testing.T) {
	page := `{"lists": [` + listJSON + `], "next_cursor": 99, "previous_cursor": 0}`
	handler := newRouteHandler().
		On("GET", "/1/lists.json", jsonResponse(200, page))
	setupTestEnvWithHandler(t, handler)

	var output string
	stderr := captureStderr(t, func() {
		output = captureStdout(t, func() {
			require.NoError(t, Execute(context.Background(), []string{"lists", "list", "ann"}))
		})
	})

	assert.Contains(t, output, "MEMBERS")
	assert.Contains(t, output, "Gophers")
	assert.Contains(t, stderr, "next page: --cursor 99")
}

func TestListsList_ExclusiveFlags(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"lists", "list", "--memberships", "--subscriptions"})
	})
	require.Error(t, err)
	assert.Equal(t, exitGeneric, ExitCode(err))
}

func TestListsCreate(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/1/lists/create.json", jsonResponse(200, listJSON))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"lists", "create", "Gophers", "--mode", "private", "--description", "go people"}))
	})

	assert.Contains(t, output, `Created list "Gophers" (42)`)
	form := handler.lastForm("POST", "/1/lists/create.json")
	assert.Equal(t, []string{"Gophers"}, form["name"])
	assert.Equal(t, []string{"private"}, form["mode"])
	assert.Equal(t, []string{"go people"}, form["description"])
}

func TestListsMembersAdd_Batch(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/1/lists/members/create_all.json", jsonResponse(200, listJSON))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"lists", "members", "add", "42", "1", "2", "bob"}))
	})

	assert.Contains(t, output, `List "Gophers" now has 5 members`)
	assert.Equal(t, 2, handler.count("POST", "/1/lists/members/create_all.json"))
}

func TestListsMembersCheck_NotMember(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"lists", "members", "check", "42", "7"}))
	})
	assert.Equal(t, "7: no", strings.TrimSpace(output))
}

func TestListsMembersCheck_Member(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/lists/members/show.json", jsonResponse(200, userJSON))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"lists", "members", "check", "42", "7", "-o", "json"}))
	})

	obj := decodeObject(t, output)
	assert.Equal(t, true, obj["member"])
	assert.EqualValues(t, 7, obj["user_id"])
}

func TestDMSend(t *testing.T) {
	dm := `{"id": 5, "text": "see you", "sender_screen_name": "me", "recipient_screen_name": "ann"}`
	handler := newRouteHandler().
		On("POST", "/1/direct_messages/new.json", jsonResponse(200, dm))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"dm", "send", "@ann", "see you"}))
	})

	assert.Contains(t, output, "Sent message 5 to @ann")
	form := handler.lastForm("POST", "/1/direct_messages/new.json")
	assert.Equal(t, []string{"ann"}, form["screen_name"])
	assert.Equal(t, []string{"see you"}, form["text"])
}

func TestDMSend_EmptyText(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"dm", "send", "ann", "   "})
	})
	require.Error(t, err)
	assert.Equal(t, exitUsage, ExitCode(err))
}

func TestDMList(t *testing.T) {
	dms := `[{"id": 5, "text": "hi there", "sender_screen_name": "ann", "recipient_screen_name": "me"}]`
	handler := newRouteHandler().
		On("GET", "/1/direct_messages.json", jsonResponse(200, dms))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"dm", "list"}))
	})
	assert.Contains(t, output, "FROM")
	assert.Contains(t, output, "hi there")
}

func TestFriendshipsExists(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/friendships/exists.json", jsonResponse(200, "true"))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"friendships", "exists", "@ann", "bob"}))
	})

	assert.Equal(t, "yes", strings.TrimSpace(output))
	form := handler.lastForm("GET", "/1/friendships/exists.json")
	assert.Equal(t, []string{"ann"}, form["user_a"])
	assert.Equal(t, []string{"bob"}, form["user_b"])
}

func TestFriendshipsShow(t *testing.T) {
	rel := `{"relationship": {
		"source": {"id": 1, "screen_name": "me", "following": true, "followed_by": false},
		"target": {"id": 7, "screen_name": "ann", "following": false, "followed_by": true}}}`
	handler := newRouteHandler().
		On("GET", "/1/friendships/show.json", jsonResponse(200, rel))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"friendships", "show", "me", "ann"}))
	})

	assert.Contains(t, output, "@me")
	assert.Contains(t, output, "@ann")
	assert.Contains(t, output, "following")
}

func TestFriendshipsFollow(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/1/friendships/create.json", jsonResponse(200, userJSON))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"friendships", "follow", "ann"}))
	})
	assert.Contains(t, output, "Followed @ann")
}

func TestFriendshipsFollowerIDs(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/followers/ids.json", jsonResponse(200, `{"ids": [3, 4], "next_cursor": 12, "previous_cursor": 0}`))
	setupTestEnvWithHandler(t, handler)

	var output string
	stderr := captureStderr(t, func() {
		output = captureStdout(t, func() {
			require.NoError(t, Execute(context.Background(), []string{"friendships", "follower-ids", "ann"}))
		})
	})

	assert.Equal(t, "3\n4", strings.TrimSpace(output))
	assert.Contains(t, stderr, "next page: --cursor 12")
}

func TestFavoritesAdd(t *testing.T) {
	handler := newRouteHandler().
		On("POST", "/1/favorites/create/1.json", jsonResponse(200, statusJSON)).
		On("POST", "/1/favorites/create/2.json", jsonResponse(200, statusJSON))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"favorites", "add", "1", "2"}))
	})

	assert.Contains(t, output, "Favorited 1")
	assert.Contains(t, output, "Favorited 2")
}

func TestFavoritesAdd_SingleFailure(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	var err error
	_ = captureStderr(t, func() {
		err = Execute(context.Background(), []string{"favorites", "add", "1"})
	})
	require.Error(t, err)
	assert.Equal(t, exitNotFound, ExitCode(err))
}

func TestBlocksExists(t *testing.T) {
	handler := newRouteHandler().
		On("GET", "/1/blocks/exists.json", jsonResponse(200, userJSON))
	setupTestEnvWithHandler(t, handler)

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"blocks", "exists", "ann", "-o", "json"}))
	})

	obj := decodeObject(t, output)
	assert.Equal(t, true, obj["blocking"])
}

func TestBlocksExists_NotBlocked(t *testing.T) {
	setupTestEnvWithHandler(t, newRouteHandler())

	output := captureStdout(t, func() {
		require.NoError(t, Execute(context.Background(), []string{"blocks", "exists", "ann"}))
	})
	assert.Equal(t, "no", strings.TrimSpace(output))
}

func TestSavedSearches(t *testing.T) {
	saved := `{"id": 3, "query": "golang", "name": "golang", "position": null, "created_at": "Wed Aug 27 13:08:45 +0000 2008"}`
	handler := newRouteHandler().
		On("GET", "/1/saved_searches.json", jsonResponse(200, "["+saved+"]")).
		On("POST", "/1/saved_searches/create.json", jsonResponse(200, saved)).
		On("POST", "/1/saved_searches/destroy/3.json", jsonResponse(200, saved))
	setupTestEnvWithHandler(t, handler)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"saved-searches", "list"}, "QUERY"},
		{[]string{"saved-searches", "create", "go", "lang"}, "Saved search 3: golang"},
		{[]string{"saved-searches", "delete", "3"}, "Deleted saved search 3"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args[1:], " "), func(t *testing.T) {
			output := captureStdout(t, func() {
				require.NoError(t, Execute(context.Background(), tt.args))
			})
			assert.Contains(t, output, tt.want)
		})
	}

	form := handler.lastForm("POST", "/1/saved_searches/create.json")
	assert.Equal(t, []string{"go lang"}, form["query"])
}

func TestUnauthenticatedMutation(t *testing.T) {
	handler := newRouteHandler()
	setupTestEnvWithHandler(t, handler)
	t.Setenv("CHIRP_TOKEN", "")

	var err error
	stderr := captureStderr(t, func() {
		err = Execute(context.Background(), []string{"status", "post", "hello"})
	})

	require.Error(t, err)
	assert.Equal(t, exitAuth, ExitCode(err))
	assert.Contains(t, stderr, "Authentication required")
	assert.Equal(t, 0, handler.count("POST", "/1/statuses/update.json"))
}
