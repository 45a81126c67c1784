package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"github.com/chirpkit/chirp/internal/param"
)

// Trend is one trending topic.
type Trend struct {
	Name  string `json:"name" validate:"required"`
	URL   string `json:"url,omitempty"`
	Query string `json:"query,omitempty"`
}

// Trends is the set of topics trending at one moment, optionally for one place.
type Trends struct {
	AsOf     time.Time `json:"as_of"`
	TrendAt  time.Time `json:"trend_at"`
	Trends   []Trend   `json:"trends"`
	Location *Location `json:"location,omitempty"`
}

// Location is a place trends are available for, identified by WOEID.
type Location struct {
	WOEID       int64      `json:"woeid" validate:"required"`
	Name        string     `json:"name"`
	Country     string     `json:"country,omitempty"`
	CountryCode string     `json:"countryCode,omitempty"`
	URL         string     `json:"url,omitempty"`
	PlaceType   *PlaceType `json:"placeType,omitempty"`
	ParentID    int64      `json:"parentid,omitempty"`
}

type PlaceType struct {
	Code int    `json:"code"`
	Name string `json:"name"`
}

func gjsonTime(v gjson.Result) time.Time {
	switch v.Type {
	case gjson.Number:
		return time.Unix(v.Int(), 0).UTC()
	case gjson.String:
		if t, err := ParseTime(v.String()); err == nil {
			return t
		}
	}
	return time.Time{}
}

// trendsByTime maps {"as_of":..,"trends":{"<time>":[...],...}} to one Trends per key, oldest first.
func trendsByTime(r *result, err error) ([]Trends, error) {
	if err != nil {
		return nil, err
	}
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	buckets := root.Get("trends")
	if !buckets.IsObject() {
		return nil, r.fail(fmt.Errorf("missing object %q", "trends"))
	}
	asOf := gjsonTime(root.Get("as_of"))

	out := []Trends{}
	var decodeErr error
	buckets.ForEach(func(key, value gjson.Result) bool {
		at, perr := ParseTime(key.String())
		if perr != nil {
			decodeErr = r.fail(perr)
			return false
		}
		items, derr := decodeItems[Trend](r, []byte(value.Raw))
		if derr != nil {
			decodeErr = derr
			return false
		}
		out = append(out, Trends{AsOf: asOf, TrendAt: at, Trends: items})
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrendAt.Before(out[j].TrendAt) })
	return out, nil
}

func excludeParams(excludeHashtags bool) param.Set {
	if excludeHashtags {
		return param.Of(param.String("exclude", "hashtags"))
	}
	return nil
}

// Trends returns the current top topics.
func (s TrendsService) Trends(ctx context.Context) (*Trends, error) {
	r, err := s.get(ctx, "trends.json", nil)
	if err != nil {
		return nil, err
	}
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	items, err := fieldList[Trend](r, "trends")
	if err != nil {
		return nil, err
	}
	asOf := gjsonTime(root.Get("as_of"))
	return &Trends{AsOf: asOf, TrendAt: asOf, Trends: items}, nil
}

// Current returns the topics trending right now.
func (s TrendsService) Current(ctx context.Context, excludeHashtags bool) ([]Trends, error) {
	return trendsByTime(s.get(ctx, "trends/current.json", excludeParams(excludeHashtags)))
}

// Daily returns hourly buckets for the day containing date, or today when date is zero.
func (s TrendsService) Daily(ctx context.Context, date time.Time, excludeHashtags bool) ([]Trends, error) {
	return trendsByTime(s.get(ctx, "trends/daily.json", trendsWindowParams(date, excludeHashtags)))
}

// Weekly returns daily buckets for the week starting at date, or this week when date is zero.
func (s TrendsService) Weekly(ctx context.Context, date time.Time, excludeHashtags bool) ([]Trends, error) {
	return trendsByTime(s.get(ctx, "trends/weekly.json", trendsWindowParams(date, excludeHashtags)))
}

func trendsWindowParams(date time.Time, excludeHashtags bool) param.Set {
	b := param.NewBuilder()
	if !date.IsZero() {
		b.String("date", date.Format("2006-01-02"))
	}
	return b.Merge(excludeParams(excludeHashtags)).MustBuild()
}

// Available lists locations with trend data, nearest first when near is set.
func (s TrendsService) Available(ctx context.Context, near param.Optional[GeoLocation]) ([]Location, error) {
	var params param.Set
	if loc, ok := near.Get(); ok {
		params = loc.params()
	}
	return list[Location](s.get(ctx, "trends/available.json", params))
}

// Location returns the trends for a WOEID (1 is worldwide).
func (s TrendsService) Location(ctx context.Context, woeid int64) (*Trends, error) {
	r, err := s.get(ctx, fmt.Sprintf("trends/%d.json", woeid), nil)
	if err != nil {
		return nil, err
	}
	root, err := r.root()
	if err != nil {
		return nil, err
	}
	first := root.Get("0")
	if !root.IsArray() || !first.Exists() {
		return nil, r.fail(errors.New("expected a non-empty array"))
	}
	items, err := decodeItems[Trend](r, []byte(first.Get("trends").Raw))
	if err != nil {
		return nil, err
	}
	out := &Trends{
		AsOf:    gjsonTime(first.Get("as_of")),
		TrendAt: gjsonTime(first.Get("created_at")),
		Trends:  items,
	}
	if locs := first.Get("locations.0"); locs.Exists() {
		var loc Location
		if err := r.decode([]byte(locs.Raw), &loc); err != nil {
			return nil, err
		}
		out.Location = &loc
	}
	return out, nil
}
