package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/chirpkit/chirp/internal/param"
)

// SavedSearch is a query stored on the account.
type SavedSearch struct {
	ID        int64  `json:"id" validate:"required"`
	Query     string `json:"query" validate:"required"`
	Name      string `json:"name"`
	Position  *int   `json:"position"`
	CreatedAt Time   `json:"created_at"`
}

func (s SavedSearchesService) List(ctx context.Context) ([]SavedSearch, error) {
	const path = "saved_searches.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return list[SavedSearch](s.get(ctx, path, nil))
}

func (s SavedSearchesService) Show(ctx context.Context, id int64) (*SavedSearch, error) {
	path := fmt.Sprintf("saved_searches/show/%d.json", id)
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return one[SavedSearch](s.get(ctx, path, nil))
}

func (s SavedSearchesService) Create(ctx context.Context, query string) (*SavedSearch, error) {
	const path = "saved_searches/create.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[SavedSearch](s.post(ctx, path, param.Of(param.String("query", query))))
}

// Destroy deletes a saved search and returns it.
func (s SavedSearchesService) Destroy(ctx context.Context, id int64) (*SavedSearch, error) {
	path := fmt.Sprintf("saved_searches/destroy/%d.json", id)
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[SavedSearch](s.post(ctx, path, nil))
}
