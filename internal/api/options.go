package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chirpkit/chirp/internal/param"
)

// Paging selects a window of a timeline. Zero fields are not sent.
type Paging struct {
	Page    int   `param:"page,omitempty" validate:"gte=0"`
	Count   int   `param:"count,omitempty" validate:"gte=0,lte=200"`
	SinceID int64 `param:"since_id,omitempty" validate:"gte=0"`
	MaxID   int64 `param:"max_id,omitempty" validate:"gte=0"`
}

func (p Paging) params() (param.Set, error) {
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid paging: %w", err)
	}
	return param.NewBuilder().Struct(p).Build()
}

// paramsCountAs sends Count under a different name; list timelines call it per_page.
func (p Paging) paramsCountAs(name string) (param.Set, error) {
	count := p.Count
	p.Count = 0
	s, err := p.params()
	if err != nil || count == 0 {
		return s, err
	}
	return param.MergeOne(s, param.Int(name, count)), nil
}

// UserRef identifies a user by numeric id or by screen name.
type UserRef struct {
	ID         int64
	ScreenName string
}

func ByID(id int64) UserRef { return UserRef{ID: id} }

func ByScreenName(name string) UserRef {
	return UserRef{ScreenName: strings.TrimPrefix(name, "@")}
}

func (u UserRef) IsZero() bool {
	return u.ID == 0 && u.ScreenName == ""
}

func (u UserRef) String() string {
	if u.ScreenName != "" {
		return "@" + u.ScreenName
	}
	return fmt.Sprintf("%d", u.ID)
}

// paramsAs sends the reference under idName or nameName.
func (u UserRef) paramsAs(idName, nameName string) (param.Set, error) {
	switch {
	case u.ID != 0 && u.ScreenName != "":
		return nil, errors.New("user reference has both id and screen name")
	case u.ID != 0:
		return param.Of(param.Int64(idName, u.ID)), nil
	case u.ScreenName != "":
		return param.Of(param.String(nameName, u.ScreenName)), nil
	default:
		return nil, errors.New("user reference is empty")
	}
}

func (u UserRef) params() (param.Set, error) {
	return u.paramsAs("user_id", "screen_name")
}

// GeoLocation is a latitude/longitude pair.
type GeoLocation struct {
	Latitude  float64 `json:"lat" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"long" validate:"gte=-180,lte=180"`
}

func (g GeoLocation) params() param.Set {
	return param.Of(param.Float("lat", g.Latitude), param.Float("long", g.Longitude))
}

// StatusUpdate is a new post. Absent optionals are not sent.
type StatusUpdate struct {
	Status             string `validate:"required"`
	InReplyToStatusID  param.Optional[int64]
	Location           param.Optional[GeoLocation]
	PlaceID            param.Optional[string]
	DisplayCoordinates param.Optional[bool]
	PossiblySensitive  param.Optional[bool]
}

func (u StatusUpdate) params() (param.Set, error) {
	if err := validate.Struct(u); err != nil {
		return nil, fmt.Errorf("invalid status update: %w", err)
	}
	b := param.NewBuilder().
		String("status", u.Status).
		OptInt64("in_reply_to_status_id", u.InReplyToStatusID)
	if loc, ok := u.Location.Get(); ok {
		if err := validate.Struct(loc); err != nil {
			return nil, fmt.Errorf("invalid location: %w", err)
		}
		b.Merge(loc.params())
	}
	return b.OptString("place_id", u.PlaceID).
		OptBool("display_coordinates", u.DisplayCoordinates).
		OptBool("possibly_sensitive", u.PossiblySensitive).
		Build()
}

// ProfileUpdate changes profile text fields. Absent fields keep their value.
type ProfileUpdate struct {
	Name        param.Optional[string]
	URL         param.Optional[string]
	Location    param.Optional[string]
	Description param.Optional[string]
}

func (u ProfileUpdate) params() param.Set {
	return param.NewBuilder().
		OptString("name", u.Name).
		OptString("url", u.URL).
		OptString("location", u.Location).
		OptString("description", u.Description).
		MustBuild()
}

// ProfileColors changes profile colors, given as hex without '#'.
type ProfileColors struct {
	Background    param.Optional[string]
	Text          param.Optional[string]
	Link          param.Optional[string]
	SidebarFill   param.Optional[string]
	SidebarBorder param.Optional[string]
}

func (c ProfileColors) params() param.Set {
	return param.NewBuilder().
		OptString("profile_background_color", c.Background).
		OptString("profile_text_color", c.Text).
		OptString("profile_link_color", c.Link).
		OptString("profile_sidebar_fill_color", c.SidebarFill).
		OptString("profile_sidebar_border_color", c.SidebarBorder).
		MustBuild()
}

// ListMode is the visibility of a list.
type ListMode string

const (
	ListPublic  ListMode = "public"
	ListPrivate ListMode = "private"
)

// ListUpdate changes a list. Absent fields keep their value.
type ListUpdate struct {
	Name        param.Optional[string]
	Mode        param.Optional[ListMode]
	Description param.Optional[string]
}

func (u ListUpdate) params() param.Set {
	b := param.NewBuilder().OptString("name", u.Name)
	if m, ok := u.Mode.Get(); ok {
		b.String("mode", string(m))
	}
	return b.OptString("description", u.Description).MustBuild()
}

// FriendshipUpdate toggles device notifications and retweets from a followed user.
type FriendshipUpdate struct {
	Device   param.Optional[bool]
	Retweets param.Optional[bool]
}

func (u FriendshipUpdate) params() param.Set {
	return param.NewBuilder().
		OptBool("device", u.Device).
		OptBool("retweets", u.Retweets).
		MustBuild()
}
