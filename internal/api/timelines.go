package api

import (
	"context"
	"net/http"

	"github.com/chirpkit/chirp/internal/param"
)

// Home and the retweet timelines take include_entities only.
const (
	entitiesOnly = false
	withRetweets = true
)

// timeline fetches a status list merged with the entity default and, when rts
// is set, the retweet default.
func (s TimelinesService) timeline(ctx context.Context, path string, base param.Set, paging Paging, rts bool) ([]Status, error) {
	pp, err := paging.params()
	if err != nil {
		return nil, err
	}
	params := param.Merge(base, pp)
	if rts {
		params = s.withEntitiesAndRetweets(params)
	} else {
		params = s.withEntities(params)
	}
	return list[Status](s.get(ctx, path, params))
}

func (s TimelinesService) authTimeline(ctx context.Context, path string, paging Paging, rts bool) ([]Status, error) {
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return s.timeline(ctx, path, nil, paging, rts)
}

// Public returns the most recent statuses from unprotected users.
func (s TimelinesService) Public(ctx context.Context) ([]Status, error) {
	return s.timeline(ctx, "statuses/public_timeline.json", nil, Paging{}, withRetweets)
}

// Home returns statuses and retweets from the authenticated user and the users they follow.
func (s TimelinesService) Home(ctx context.Context, paging Paging) ([]Status, error) {
	return s.authTimeline(ctx, "statuses/home_timeline.json", paging, entitiesOnly)
}

// Friends is Home without native retweets.
func (s TimelinesService) Friends(ctx context.Context, paging Paging) ([]Status, error) {
	return s.authTimeline(ctx, "statuses/friends_timeline.json", paging, withRetweets)
}

// User returns a user's statuses. A zero ref means the authenticated user.
func (s TimelinesService) User(ctx context.Context, user UserRef, paging Paging) ([]Status, error) {
	const path = "statuses/user_timeline.json"
	if user.IsZero() {
		return s.authTimeline(ctx, path, paging, withRetweets)
	}
	base, err := user.params()
	if err != nil {
		return nil, err
	}
	return s.timeline(ctx, path, base, paging, withRetweets)
}

// Mentions returns statuses mentioning the authenticated user.
func (s TimelinesService) Mentions(ctx context.Context, paging Paging) ([]Status, error) {
	return s.authTimeline(ctx, "statuses/mentions.json", paging, withRetweets)
}

// RetweetedByMe returns retweets posted by the authenticated user.
func (s TimelinesService) RetweetedByMe(ctx context.Context, paging Paging) ([]Status, error) {
	return s.authTimeline(ctx, "statuses/retweeted_by_me.json", paging, entitiesOnly)
}

// RetweetedToMe returns retweets posted by users the authenticated user follows.
func (s TimelinesService) RetweetedToMe(ctx context.Context, paging Paging) ([]Status, error) {
	return s.authTimeline(ctx, "statuses/retweeted_to_me.json", paging, entitiesOnly)
}

// RetweetsOfMe returns the authenticated user's statuses that others retweeted.
func (s TimelinesService) RetweetsOfMe(ctx context.Context, paging Paging) ([]Status, error) {
	return s.authTimeline(ctx, "statuses/retweets_of_me.json", paging, entitiesOnly)
}

// RetweetedToUser returns retweets posted by users the given user follows.
func (s TimelinesService) RetweetedToUser(ctx context.Context, user UserRef, paging Paging) ([]Status, error) {
	base, err := user.params()
	if err != nil {
		return nil, err
	}
	return s.timeline(ctx, "statuses/retweeted_to_user.json", base, paging, entitiesOnly)
}

// RetweetedByUser returns retweets posted by the given user.
func (s TimelinesService) RetweetedByUser(ctx context.Context, user UserRef, paging Paging) ([]Status, error) {
	base, err := user.params()
	if err != nil {
		return nil, err
	}
	return s.timeline(ctx, "statuses/retweeted_by_user.json", base, paging, entitiesOnly)
}
