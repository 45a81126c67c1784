package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/chirpkit/chirp/internal/param"
)

// Show returns a single status.
func (s StatusesService) Show(ctx context.Context, id int64) (*Status, error) {
	return one[Status](s.get(ctx, fmt.Sprintf("statuses/show/%d.json", id), s.withEntities(nil)))
}

// Update posts a new status as the authenticated user.
func (s StatusesService) Update(ctx context.Context, u StatusUpdate) (*Status, error) {
	const path = "statuses/update.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	params, err := u.params()
	if err != nil {
		return nil, err
	}
	return one[Status](s.post(ctx, path, s.withEntities(params)))
}

// Post is Update with only the text.
func (s StatusesService) Post(ctx context.Context, text string) (*Status, error) {
	return s.Update(ctx, StatusUpdate{Status: text})
}

// Destroy deletes one of the authenticated user's statuses and returns it.
func (s StatusesService) Destroy(ctx context.Context, id int64) (*Status, error) {
	path := fmt.Sprintf("statuses/destroy/%d.json", id)
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[Status](s.post(ctx, path, s.withEntities(nil)))
}

// Retweet retweets a status and returns the new retweet.
func (s StatusesService) Retweet(ctx context.Context, id int64) (*Status, error) {
	path := fmt.Sprintf("statuses/retweet/%d.json", id)
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[Status](s.post(ctx, path, s.withEntities(nil)))
}

// Retweets returns up to 100 retweets of a status.
func (s StatusesService) Retweets(ctx context.Context, id int64) ([]Status, error) {
	path := fmt.Sprintf("statuses/retweets/%d.json", id)
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return list[Status](s.get(ctx, path, s.withEntities(param.Of(param.Int("count", 100)))))
}

// RetweetedBy returns the users who retweeted a status.
func (s StatusesService) RetweetedBy(ctx context.Context, id int64, paging Paging) ([]User, error) {
	params, err := paging.params()
	if err != nil {
		return nil, err
	}
	return list[User](s.get(ctx, fmt.Sprintf("statuses/%d/retweeted_by.json", id), params))
}

// RetweetedByIDs returns the ids of users who retweeted a status.
func (s StatusesService) RetweetedByIDs(ctx context.Context, id int64, paging Paging) (*IDs, error) {
	path := fmt.Sprintf("statuses/%d/retweeted_by/ids.json", id)
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	params, err := paging.params()
	if err != nil {
		return nil, err
	}
	return ids(s.get(ctx, path, params))
}

// RelatedResults groups statuses related to one status.
type RelatedResults struct {
	TweetsWithConversation []Status `json:"tweets_with_conversation"`
	TweetsWithReply        []Status `json:"tweets_with_reply"`
	TweetsFromUser         []Status `json:"tweets_from_user"`
}

// Related returns the conversation, replies and same-author statuses around a status.
func (s StatusesService) Related(ctx context.Context, id int64) (*RelatedResults, error) {
	path := fmt.Sprintf("related_results/show/%d.json", id)
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	r, err := s.get(ctx, path, s.withEntities(nil))
	if err != nil {
		return nil, err
	}
	root, err := r.root()
	if err != nil {
		return nil, err
	}

	out := &RelatedResults{
		TweetsWithConversation: []Status{},
		TweetsWithReply:        []Status{},
		TweetsFromUser:         []Status{},
	}
	var decodeErr error
	root.ForEach(func(_, group gjson.Result) bool {
		var dst *[]Status
		switch group.Get("groupName").String() {
		case "TweetsWithConversation":
			dst = &out.TweetsWithConversation
		case "TweetsWithReply":
			dst = &out.TweetsWithReply
		case "TweetsFromUser":
			dst = &out.TweetsFromUser
		default:
			return true
		}
		group.Get("results").ForEach(func(_, item gjson.Result) bool {
			var st Status
			if decodeErr = r.decode([]byte(item.Get("value").Raw), &st); decodeErr != nil {
				return false
			}
			if decodeErr = r.check(&st); decodeErr != nil {
				return false
			}
			*dst = append(*dst, st)
			return true
		})
		return decodeErr == nil
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}
