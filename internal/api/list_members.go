package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/chirpkit/chirp/internal/param"
)

func (s ListsService) usersOfList(ctx context.Context, path string, listID, cursorID int64) (*CursorPage[User], error) {
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	params := s.withEntities(param.Of(listParam(listID), param.Int64("cursor", cursorID)))
	r, err := s.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	return cursor[User](r, "users")
}

// changeList gates the call before build assembles its parameters.
func (s ListsService) changeList(ctx context.Context, path string, build func() (param.Set, error)) (*List, error) {
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	params, err := build()
	if err != nil {
		return nil, err
	}
	return one[List](s.post(ctx, path, params))
}

func fixedParams(ps ...param.Parameter) func() (param.Set, error) {
	return func() (param.Set, error) { return param.Of(ps...), nil }
}

func (s ListsService) showUserOfList(ctx context.Context, path string, listID, userID int64) (*User, error) {
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	params := s.withEntities(param.Of(listParam(listID), param.Int64("user_id", userID)))
	return one[User](s.get(ctx, path, params))
}

// Members returns a page of a list's members. Start with cursor -1.
func (s ListsService) Members(ctx context.Context, listID, cursorID int64) (*CursorPage[User], error) {
	return s.usersOfList(ctx, "lists/members.json", listID, cursorID)
}

// AddMember adds one user to a list.
func (s ListsService) AddMember(ctx context.Context, listID, userID int64) (*List, error) {
	return s.changeList(ctx, "lists/members/create.json",
		fixedParams(listParam(listID), param.Int64("user_id", userID)))
}

// AddMembers adds up to 100 users by id in one call.
func (s ListsService) AddMembers(ctx context.Context, listID int64, userIDs []int64) (*List, error) {
	return s.changeList(ctx, "lists/members/create_all.json", func() (param.Set, error) {
		if len(userIDs) == 0 {
			return nil, errors.New("no user ids given")
		}
		return param.Of(listParam(listID), param.String("user_id", joinIDs(userIDs))), nil
	})
}

// AddMembersByScreenName adds up to 100 users by screen name in one call.
func (s ListsService) AddMembersByScreenName(ctx context.Context, listID int64, names []string) (*List, error) {
	return s.changeList(ctx, "lists/members/create_all.json", func() (param.Set, error) {
		if len(names) == 0 {
			return nil, errors.New("no screen names given")
		}
		return param.Of(listParam(listID), param.String("screen_name", strings.Join(names, ","))), nil
	})
}

// RemoveMember removes a user from a list.
func (s ListsService) RemoveMember(ctx context.Context, listID, userID int64) (*List, error) {
	return s.changeList(ctx, "lists/members/destroy.json",
		fixedParams(listParam(listID), param.Int64("user_id", userID)))
}

// ShowMember returns the user if they are a member; a non-member is a 404 error.
func (s ListsService) ShowMember(ctx context.Context, listID, userID int64) (*User, error) {
	return s.showUserOfList(ctx, "lists/members/show.json", listID, userID)
}

// Subscribers returns a page of a list's subscribers. Start with cursor -1.
func (s ListsService) Subscribers(ctx context.Context, listID, cursorID int64) (*CursorPage[User], error) {
	return s.usersOfList(ctx, "lists/subscribers.json", listID, cursorID)
}

// Subscribe makes the authenticated user follow a list.
func (s ListsService) Subscribe(ctx context.Context, listID int64) (*List, error) {
	return s.changeList(ctx, "lists/subscribers/create.json", fixedParams(listParam(listID)))
}

// Unsubscribe stops following a list.
func (s ListsService) Unsubscribe(ctx context.Context, listID int64) (*List, error) {
	return s.changeList(ctx, "lists/subscribers/destroy.json", fixedParams(listParam(listID)))
}

// ShowSubscriber returns the user if they follow the list; otherwise a 404 error.
func (s ListsService) ShowSubscriber(ctx context.Context, listID, userID int64) (*User, error) {
	return s.showUserOfList(ctx, "lists/subscribers/show.json", listID, userID)
}
