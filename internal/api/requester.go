package api

import (
	"context"

	"github.com/chirpkit/chirp/internal/param"
)

// Dispatcher is the verb-level surface for endpoints the typed methods do not cover.
type Dispatcher interface {
	Get(ctx context.Context, path string, params param.Set) ([]byte, error)
	Post(ctx context.Context, path string, params param.Set) ([]byte, error)
	Delete(ctx context.Context, path string, params param.Set) ([]byte, error)
}

// Requester is what every endpoint composes: the gate, default merging and
// the verb dispatchers. Services embed *Client, which implements it.
type Requester interface {
	requireAuthorization(method, path string) error
	withEntities(params param.Set) param.Set
	withEntitiesAndRetweets(params param.Set) param.Set
	get(ctx context.Context, path string, params param.Set) (*result, error)
	post(ctx context.Context, path string, params param.Set) (*result, error)
	delete(ctx context.Context, path string, params param.Set) (*result, error)
}
