package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/chirpkit/chirp/internal/param"
)

// GeoQuery searches for places. Set a location, an IP or a free-text query.
type GeoQuery struct {
	Location    param.Optional[GeoLocation] `param:"-"`
	Query       string                      `param:"query,omitempty"`
	IP          string                      `param:"ip,omitempty" validate:"omitempty,ip"`
	Granularity string                      `param:"granularity,omitempty" validate:"omitempty,oneof=poi neighborhood city admin country"`
	Accuracy    string                      `param:"accuracy,omitempty"`
	MaxResults  int                         `param:"max_results,omitempty" validate:"gte=0"`
}

func (q GeoQuery) params() (param.Set, error) {
	if err := validate.Struct(q); err != nil {
		return nil, fmt.Errorf("invalid geo query: %w", err)
	}
	b := param.NewBuilder()
	loc, hasLoc := q.Location.Get()
	if hasLoc {
		if err := validate.Struct(loc); err != nil {
			return nil, fmt.Errorf("invalid location: %w", err)
		}
		b.Merge(loc.params())
	}
	if !hasLoc && q.IP == "" && q.Query == "" {
		return nil, errors.New("geo query needs a location, an ip or a query")
	}
	return b.Struct(q).Build()
}

// SimilarPlaces are candidate matches plus the token needed to create a new place.
type SimilarPlaces struct {
	Places []Place `json:"places"`
	Token  string  `json:"token"`
}

// NewPlace describes a place to create. Token comes from SimilarPlaces.
type NewPlace struct {
	Name            string `validate:"required"`
	ContainedWithin string `validate:"required"`
	Token           string `validate:"required"`
	Location        GeoLocation
	StreetAddress   param.Optional[string]
}

func (p NewPlace) params() (param.Set, error) {
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid place: %w", err)
	}
	return param.NewBuilder().
		String("name", p.Name).
		String("contained_within", p.ContainedWithin).
		String("token", p.Token).
		Merge(p.Location.params()).
		OptString("attribute:street_address", p.StreetAddress).
		Build()
}

func (s GeoService) places(ctx context.Context, path string, params param.Set) ([]Place, error) {
	r, err := s.get(ctx, path, params)
	if IsNotFound(err) {
		return []Place{}, nil
	}
	if err != nil {
		return nil, err
	}
	return fieldList[Place](r, "result.places")
}

// Search finds places. A 404 is an empty result.
func (s GeoService) Search(ctx context.Context, q GeoQuery) ([]Place, error) {
	params, err := q.params()
	if err != nil {
		return nil, err
	}
	return s.places(ctx, "geo/search.json", params)
}

// ReverseGeocode finds places containing a point. A 404 is an empty result.
func (s GeoService) ReverseGeocode(ctx context.Context, q GeoQuery) ([]Place, error) {
	if !q.Location.IsSet() {
		return nil, errors.New("reverse geocode needs a location")
	}
	params, err := q.params()
	if err != nil {
		return nil, err
	}
	return s.places(ctx, "geo/reverse_geocode.json", params)
}

// SimilarPlaces finds places matching a name near a point.
func (s GeoService) SimilarPlaces(ctx context.Context, loc GeoLocation, name string, containedWithin, streetAddress param.Optional[string]) (*SimilarPlaces, error) {
	params := param.NewBuilder().
		Merge(loc.params()).
		String("name", name).
		OptString("contained_within", containedWithin).
		OptString("attribute:street_address", streetAddress).
		MustBuild()
	r, err := s.get(ctx, "geo/similar_places.json", params)
	if err != nil {
		return nil, err
	}
	places, err := fieldList[Place](r, "result.places")
	if err != nil {
		return nil, err
	}
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	return &SimilarPlaces{Places: places, Token: root.Get("result.token").String()}, nil
}

// Place returns one place by id.
func (s GeoService) Place(ctx context.Context, id string) (*Place, error) {
	return one[Place](s.get(ctx, "geo/id/"+url.PathEscape(id)+".json", nil))
}

// Create registers a new place.
func (s GeoService) Create(ctx context.Context, p NewPlace) (*Place, error) {
	const path = "geo/place.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	params, err := p.params()
	if err != nil {
		return nil, err
	}
	return one[Place](s.post(ctx, path, params))
}
