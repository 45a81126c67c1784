package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/chirpkit/chirp/internal/param"
)

// Relationship describes how two users are connected, from each side.
type Relationship struct {
	Source RelationshipSide `json:"source"`
	Target RelationshipSide `json:"target"`
}

type RelationshipSide struct {
	ID                   int64  `json:"id" validate:"required"`
	ScreenName           string `json:"screen_name"`
	Following            bool   `json:"following"`
	FollowedBy           bool   `json:"followed_by"`
	NotificationsEnabled bool   `json:"notifications_enabled"`
	Blocking             bool   `json:"blocking"`
	WantRetweets         bool   `json:"want_retweets"`
	MarkedSpam           bool   `json:"marked_spam"`
	AllReplies           bool   `json:"all_replies"`
	CanDM                bool   `json:"can_dm"`
}

// Friendship is the authenticated user's connection to one other user.
type Friendship struct {
	ID          int64    `json:"id" validate:"required"`
	Name        string   `json:"name"`
	ScreenName  string   `json:"screen_name"`
	Connections []string `json:"connections"`
}

func (f *Friendship) has(conn string) bool {
	for _, c := range f.Connections {
		if c == conn {
			return true
		}
	}
	return false
}

func (f *Friendship) IsFollowing() bool { return f.has("following") }

func (f *Friendship) IsFollowedBy() bool { return f.has("followed_by") }

func (s FriendshipsService) changeUser(ctx context.Context, path string, user UserRef, extra param.Set) (*User, error) {
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	params, err := user.params()
	if err != nil {
		return nil, err
	}
	return one[User](s.post(ctx, path, s.withEntities(param.Merge(params, extra))))
}

// Create follows a user. With follow set, device notifications are enabled too.
func (s FriendshipsService) Create(ctx context.Context, user UserRef, follow bool) (*User, error) {
	var extra param.Set
	if follow {
		extra = param.Of(param.Bool("follow", true))
	}
	return s.changeUser(ctx, "friendships/create.json", user, extra)
}

// Destroy unfollows a user.
func (s FriendshipsService) Destroy(ctx context.Context, user UserRef) (*User, error) {
	return s.changeUser(ctx, "friendships/destroy.json", user, nil)
}

// Exists reports whether userA follows userB.
func (s FriendshipsService) Exists(ctx context.Context, userA, userB string) (bool, error) {
	params := param.Of(param.String("user_a", userA), param.String("user_b", userB))
	r, err := s.get(ctx, "friendships/exists.json", params)
	return literal(r, err, "true")
}

// Show describes the relationship between two users.
func (s FriendshipsService) Show(ctx context.Context, source, target UserRef) (*Relationship, error) {
	sp, err := source.paramsAs("source_id", "source_screen_name")
	if err != nil {
		return nil, err
	}
	tp, err := target.paramsAs("target_id", "target_screen_name")
	if err != nil {
		return nil, err
	}
	r, err := s.get(ctx, "friendships/show.json", param.Merge(sp, tp))
	if err != nil {
		return nil, err
	}
	return field[Relationship](r, "relationship")
}

func (s FriendshipsService) pendingIDs(ctx context.Context, path string, cursorID int64) (*IDs, error) {
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return ids(s.get(ctx, path, param.Of(param.Int64("cursor", cursorID))))
}

// Incoming returns ids of users with a pending follow request to the authenticated user.
func (s FriendshipsService) Incoming(ctx context.Context, cursorID int64) (*IDs, error) {
	return s.pendingIDs(ctx, "friendships/incoming.json", cursorID)
}

// Outgoing returns ids of protected users the authenticated user asked to follow.
func (s FriendshipsService) Outgoing(ctx context.Context, cursorID int64) (*IDs, error) {
	return s.pendingIDs(ctx, "friendships/outgoing.json", cursorID)
}

// LookupIDs returns the authenticated user's connection to up to 100 users.
func (s FriendshipsService) LookupIDs(ctx context.Context, userIDs []int64) ([]Friendship, error) {
	const path = "friendships/lookup.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return list[Friendship](s.get(ctx, path, param.Of(param.String("user_id", joinIDs(userIDs)))))
}

// LookupScreenNames is LookupIDs by screen name.
func (s FriendshipsService) LookupScreenNames(ctx context.Context, names []string) ([]Friendship, error) {
	const path = "friendships/lookup.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return list[Friendship](s.get(ctx, path, param.Of(param.String("screen_name", strings.Join(names, ",")))))
}

// Update toggles device notifications and retweets for a followed user.
func (s FriendshipsService) Update(ctx context.Context, user UserRef, u FriendshipUpdate) (*Relationship, error) {
	const path = "friendships/update.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	params, err := user.params()
	if err != nil {
		return nil, err
	}
	r, err := s.post(ctx, path, param.Merge(params, u.params()))
	if err != nil {
		return nil, err
	}
	return field[Relationship](r, "relationship")
}

// NoRetweetIDs returns ids of users whose retweets the authenticated user hides.
func (s FriendshipsService) NoRetweetIDs(ctx context.Context) (*IDs, error) {
	const path = "friendships/no_retweet_ids.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return ids(s.get(ctx, path, nil))
}

func (s FriendshipsService) graphIDs(ctx context.Context, path string, user UserRef, cursorID int64) (*IDs, error) {
	var base param.Set
	if user.IsZero() {
		if err := s.requireAuthorization(http.MethodGet, path); err != nil {
			return nil, err
		}
	} else {
		p, err := user.params()
		if err != nil {
			return nil, err
		}
		base = p
	}
	return ids(s.get(ctx, path, param.MergeOne(base, param.Int64("cursor", cursorID))))
}

// FriendIDs returns a page of ids a user follows. Start with cursor -1.
func (s FriendshipsService) FriendIDs(ctx context.Context, user UserRef, cursorID int64) (*IDs, error) {
	return s.graphIDs(ctx, "friends/ids.json", user, cursorID)
}

// FollowerIDs returns a page of ids following a user. Start with cursor -1.
func (s FriendshipsService) FollowerIDs(ctx context.Context, user UserRef, cursorID int64) (*IDs, error) {
	return s.graphIDs(ctx, "followers/ids.json", user, cursorID)
}

// EnableNotifications turns on device notifications for a followed user.
func (s FriendshipsService) EnableNotifications(ctx context.Context, user UserRef) (*User, error) {
	return s.changeUser(ctx, "notifications/follow.json", user, nil)
}

// DisableNotifications turns device notifications off.
func (s FriendshipsService) DisableNotifications(ctx context.Context, user UserRef) (*User, error) {
	return s.changeUser(ctx, "notifications/leave.json", user, nil)
}
