package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/chirpkit/chirp/internal/param"
)

func pageParams(page int) param.Set {
	if page <= 0 {
		return nil
	}
	return param.Of(param.Int("page", page))
}

// List returns the authenticated user's favorites. Page 0 means the first page.
func (s FavoritesService) List(ctx context.Context, page int) ([]Status, error) {
	const path = "favorites.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return list[Status](s.get(ctx, path, s.withEntities(pageParams(page))))
}

// ListOf returns another user's favorites, by id or screen name.
func (s FavoritesService) ListOf(ctx context.Context, user string, page int) ([]Status, error) {
	path := "favorites/" + url.PathEscape(strings.TrimPrefix(user, "@")) + ".json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return list[Status](s.get(ctx, path, s.withEntities(pageParams(page))))
}

// Create favorites a status and returns it.
func (s FavoritesService) Create(ctx context.Context, id int64) (*Status, error) {
	path := fmt.Sprintf("favorites/create/%d.json", id)
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[Status](s.post(ctx, path, s.withEntities(nil)))
}

// Destroy un-favorites a status and returns it.
func (s FavoritesService) Destroy(ctx context.Context, id int64) (*Status, error) {
	path := fmt.Sprintf("favorites/destroy/%d.json", id)
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[Status](s.post(ctx, path, s.withEntities(nil)))
}
