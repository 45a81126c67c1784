package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chirpkit/chirp/internal/param"
)

// SearchQuery is a search request. Zero fields are not sent.
type SearchQuery struct {
	Query      string `param:"q" validate:"required"`
	Lang       string `param:"lang,omitempty"`
	Locale     string `param:"locale,omitempty"`
	ResultType string `param:"result_type,omitempty" validate:"omitempty,oneof=mixed recent popular"`
	Until      string `param:"until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	SinceID    int64  `param:"since_id,omitempty"`
	MaxID      int64  `param:"max_id,omitempty"`
	Rpp        int    `param:"rpp,omitempty" validate:"gte=0,lte=100"`
	Page       int    `param:"page,omitempty" validate:"gte=0"`
	Geocode    string `param:"geocode,omitempty"`
}

// Near restricts results to a radius around a point; unit is "mi" or "km".
func (q SearchQuery) Near(loc GeoLocation, radius float64, unit string) SearchQuery {
	q.Geocode = fmt.Sprintf("%s,%s,%s%s",
		strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
		strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
		strconv.FormatFloat(radius, 'f', -1, 64), unit)
	return q
}

func (q SearchQuery) params() (param.Set, error) {
	if err := validate.Struct(q); err != nil {
		return nil, fmt.Errorf("invalid search query: %w", err)
	}
	return param.NewBuilder().Struct(q).Build()
}

// Tweet is a search hit. The search endpoint uses its own flat shape.
type Tweet struct {
	ID              int64        `json:"id" validate:"required"`
	Text            string       `json:"text" validate:"required"`
	FromUser        string       `json:"from_user"`
	FromUserID      int64        `json:"from_user_id"`
	ToUser          string       `json:"to_user,omitempty"`
	ToUserID        int64        `json:"to_user_id,omitempty"`
	CreatedAt       Time         `json:"created_at"`
	Source          string       `json:"source,omitempty"`
	IsoLanguageCode string       `json:"iso_language_code,omitempty"`
	ProfileImageURL string       `json:"profile_image_url,omitempty"`
	Geo             *Coordinates `json:"geo,omitempty"`
	Location        string       `json:"location,omitempty"`
}

// QueryResult is one page of search hits.
type QueryResult struct {
	Tweets         []Tweet `json:"results"`
	MaxID          int64   `json:"max_id"`
	SinceID        int64   `json:"since_id"`
	RefreshURL     string  `json:"refresh_url,omitempty"`
	NextPage       string  `json:"next_page,omitempty"`
	ResultsPerPage int     `json:"results_per_page"`
	Page           int     `json:"page"`
	CompletedIn    float64 `json:"completed_in"`
	Query          string  `json:"query"`
	Warning        string  `json:"warning,omitempty"`
}

// Search runs a query against the search endpoint. A 404 is an empty result.
func (s SearchService) Search(ctx context.Context, q SearchQuery) (*QueryResult, error) {
	params, err := q.params()
	if err != nil {
		return nil, err
	}
	r, err := s.dispatch(ctx, http.MethodGet, s.searchBaseURL, "search.json", params, false)
	if IsNotFound(err) {
		return &QueryResult{Query: q.Query, Tweets: []Tweet{}}, nil
	}
	res, err := one[QueryResult](r, err)
	if err != nil {
		return nil, err
	}
	for i := range res.Tweets {
		if err := r.check(&res.Tweets[i]); err != nil {
			return nil, err
		}
	}
	if res.Tweets == nil {
		res.Tweets = []Tweet{}
	}
	return res, nil
}
