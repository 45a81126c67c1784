package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/chirpkit/chirp/internal/param"
)

// List is a curated group of users.
type List struct {
	ID              int64  `json:"id" validate:"required"`
	Name            string `json:"name" validate:"required"`
	FullName        string `json:"full_name,omitempty"`
	Slug            string `json:"slug,omitempty"`
	Description     string `json:"description,omitempty"`
	Mode            string `json:"mode,omitempty"`
	URI             string `json:"uri,omitempty"`
	MemberCount     int64  `json:"member_count"`
	SubscriberCount int64  `json:"subscriber_count"`
	Following       bool   `json:"following"`
	User            *User  `json:"user,omitempty"`
}

// IsPublic reports whether anyone can see the list.
func (l *List) IsPublic() bool {
	return l.Mode != string(ListPrivate)
}

func listParam(listID int64) param.Parameter {
	return param.Int64("list_id", listID)
}

// Create makes a list owned by the authenticated user.
func (s ListsService) Create(ctx context.Context, name string, mode ListMode, description param.Optional[string]) (*List, error) {
	const path = "lists/create.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errors.New("list name is required")
	}
	if mode == "" {
		mode = ListPublic
	}
	params := param.NewBuilder().
		String("name", name).
		String("mode", string(mode)).
		OptString("description", description).
		MustBuild()
	return one[List](s.post(ctx, path, params))
}

// Update changes name, mode or description of a list.
func (s ListsService) Update(ctx context.Context, listID int64, u ListUpdate) (*List, error) {
	const path = "lists/update.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[List](s.post(ctx, path, param.Merge(param.Of(listParam(listID)), u.params())))
}

// Destroy deletes a list owned by the authenticated user.
func (s ListsService) Destroy(ctx context.Context, listID int64) (*List, error) {
	const path = "lists/destroy.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[List](s.post(ctx, path, param.Of(listParam(listID))))
}

// Show returns one list.
func (s ListsService) Show(ctx context.Context, listID int64) (*List, error) {
	const path = "lists/show.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return one[List](s.get(ctx, path, param.Of(listParam(listID))))
}

// Statuses returns the timeline of a list's members.
func (s ListsService) Statuses(ctx context.Context, listID int64, paging Paging) ([]Status, error) {
	pp, err := paging.paramsCountAs("per_page")
	if err != nil {
		return nil, err
	}
	params := s.withEntitiesAndRetweets(param.Merge(param.Of(listParam(listID)), pp))
	return list[Status](s.get(ctx, "lists/statuses.json", params))
}

func (s ListsService) listsByCursor(ctx context.Context, path string, user UserRef, cursorID int64) (*CursorPage[List], error) {
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
	r, err := s.get(ctx, path, param.MergeOne(base, param.Int64("cursor", cursorID)))
	if err != nil {
		return nil, err
	}
	return cursor[List](r, "lists")
}

// OwnedBy returns a page of the lists a user owns. Start with cursor -1.
func (s ListsService) OwnedBy(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[List], error) {
	return s.listsByCursor(ctx, "lists.json", user, cursorID)
}

// Memberships returns a page of the lists a user was added to.
func (s ListsService) Memberships(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[List], error) {
	return s.listsByCursor(ctx, "lists/memberships.json", user, cursorID)
}

// Subscriptions returns a page of the lists a user follows.
func (s ListsService) Subscriptions(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[List], error) {
	return s.listsByCursor(ctx, "lists/subscriptions.json", user, cursorID)
}

// All returns every list a user owns or follows, unpaginated.
func (s ListsService) All(ctx context.Context, user UserRef) ([]List, error) {
	params, err := user.params()
	if err != nil {
		return nil, err
	}
	return list[List](s.get(ctx, "lists/all.json", params))
}
