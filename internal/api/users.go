package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/chirpkit/chirp/internal/param"
)

// Category is a group of suggested users.
type Category struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
	Size int    `json:"size"`
}

// ImageSize selects a profile image variant.
type ImageSize string

const (
	ImageBigger   ImageSize = "bigger"
	ImageNormal   ImageSize = "normal"
	ImageMini     ImageSize = "mini"
	ImageOriginal ImageSize = "original"
)

// ProfileImage is the resolved URL of a profile image.
type ProfileImage struct {
	URL string `json:"url"`
}

// Show returns one user.
func (s UsersService) Show(ctx context.Context, user UserRef) (*User, error) {
	params, err := user.params()
	if err != nil {
		return nil, err
	}
	return one[User](s.get(ctx, "users/show.json", s.withEntities(params)))
}

// LookupIDs returns up to 100 users by id in one call.
func (s UsersService) LookupIDs(ctx context.Context, ids []int64) ([]User, error) {
	const path = "users/lookup.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, errors.New("no user ids given")
	}
	return list[User](s.get(ctx, path, s.withEntities(param.Of(param.String("user_id", joinIDs(ids))))))
}

// LookupScreenNames returns up to 100 users by screen name in one call.
func (s UsersService) LookupScreenNames(ctx context.Context, names []string) ([]User, error) {
	const path = "users/lookup.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New("no screen names given")
	}
	return list[User](s.get(ctx, path, s.withEntities(param.Of(param.String("screen_name", strings.Join(names, ","))))))
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

// Search finds users by name, 20 per page. Pages start at 1.
func (s UsersService) Search(ctx context.Context, query string, page int) ([]User, error) {
	const path = "users/search.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	b := param.NewBuilder().String("q", query).Int("per_page", 20)
	if page > 0 {
		b.Int("page", page)
	}
	return list[User](s.get(ctx, path, s.withEntities(b.MustBuild())))
}

// SuggestionCategories lists the suggested-user categories.
func (s UsersService) SuggestionCategories(ctx context.Context) ([]Category, error) {
	return list[Category](s.get(ctx, "users/suggestions.json", nil))
}

// Suggestions returns the users in a suggestion category.
func (s UsersService) Suggestions(ctx context.Context, slug string) ([]User, error) {
	r, err := s.get(ctx, "users/suggestions/"+url.PathEscape(slug)+".json", nil)
	if err != nil {
		return nil, err
	}
	return fieldList[User](r, "users")
}

// SuggestionMembers returns the users in a category along with their latest status.
func (s UsersService) SuggestionMembers(ctx context.Context, slug string) ([]User, error) {
	return list[User](s.get(ctx, "users/suggestions/"+url.PathEscape(slug)+"/members.json", nil))
}

// ProfileImage resolves the image URL for a screen name without downloading it.
func (s UsersService) ProfileImage(ctx context.Context, screenName string, size ImageSize) (*ProfileImage, error) {
	path := "users/profile_image/" + url.PathEscape(strings.TrimPrefix(screenName, "@")) + ".json"
	var params param.Set
	if size != "" {
		params = param.Of(param.String("size", string(size)))
	}
	r, err := s.dispatch(ctx, http.MethodGet, s.restBaseURL, path, params, true)
	if err != nil {
		return nil, err
	}
	loc := r.resp.Header.Get("Location")
	if loc == "" {
		return nil, r.fail(fmt.Errorf("status %d without Location header", r.resp.StatusCode))
	}
	return &ProfileImage{URL: loc}, nil
}

func (s UsersService) usersByCursor(ctx context.Context, path string, user UserRef, cursorID int64) (*CursorPage[User], error) {
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
	r, err := s.get(ctx, path, s.withEntities(param.MergeOne(base, param.Int64("cursor", cursorID))))
	if err != nil {
		return nil, err
	}
	return cursor[User](r, "users")
}

// FriendsStatuses returns a page of the users someone follows, each with their
// latest status. Start with cursor -1; a zero ref means the authenticated user.
func (s UsersService) FriendsStatuses(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[User], error) {
	return s.usersByCursor(ctx, "statuses/friends.json", user, cursorID)
}

// FollowersStatuses is FriendsStatuses for followers.
func (s UsersService) FollowersStatuses(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[User], error) {
	return s.usersByCursor(ctx, "statuses/followers.json", user, cursorID)
}
