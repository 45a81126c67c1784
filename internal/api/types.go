package api

// Status is a single post.
type Status struct {
	ID                   int64        `json:"id" validate:"required"`
	IDStr                string       `json:"id_str,omitempty"`
	Text                 string       `json:"text" validate:"required"`
	CreatedAt            Time         `json:"created_at"`
	Source               string       `json:"source,omitempty"`
	Truncated            bool         `json:"truncated"`
	InReplyToStatusID    int64        `json:"in_reply_to_status_id,omitempty"`
	InReplyToUserID      int64        `json:"in_reply_to_user_id,omitempty"`
	InReplyToScreenName  string       `json:"in_reply_to_screen_name,omitempty"`
	Favorited            bool         `json:"favorited"`
	Retweeted            bool         `json:"retweeted"`
	RetweetCount         int64        `json:"retweet_count"`
	PossiblySensitive    bool         `json:"possibly_sensitive,omitempty"`
	User                 *User        `json:"user,omitempty"`
	RetweetedStatus      *Status      `json:"retweeted_status,omitempty"`
	Place                *Place       `json:"place,omitempty"`
	Coordinates          *Coordinates `json:"coordinates,omitempty"`
	Entities             *Entities    `json:"entities,omitempty"`
	Contributors         []int64      `json:"contributors,omitempty"`
}

// IsRetweet reports whether the status wraps another one.
func (s *Status) IsRetweet() bool {
	return s.RetweetedStatus != nil
}

// User is an account profile.
type User struct {
	ID                        int64   `json:"id" validate:"required"`
	IDStr                     string  `json:"id_str,omitempty"`
	ScreenName                string  `json:"screen_name" validate:"required"`
	Name                      string  `json:"name"`
	Location                  string  `json:"location,omitempty"`
	Description               string  `json:"description,omitempty"`
	URL                       string  `json:"url,omitempty"`
	ProfileImageURL           string  `json:"profile_image_url,omitempty"`
	ProfileImageURLHTTPS      string  `json:"profile_image_url_https,omitempty"`
	ProfileBackgroundColor    string  `json:"profile_background_color,omitempty"`
	ProfileTextColor          string  `json:"profile_text_color,omitempty"`
	ProfileLinkColor          string  `json:"profile_link_color,omitempty"`
	ProfileSidebarFillColor   string  `json:"profile_sidebar_fill_color,omitempty"`
	ProfileSidebarBorderColor string  `json:"profile_sidebar_border_color,omitempty"`
	ProfileBackgroundImageURL string  `json:"profile_background_image_url,omitempty"`
	ProfileBackgroundTile     bool    `json:"profile_background_tile"`
	Protected                 bool    `json:"protected"`
	Verified                  bool    `json:"verified"`
	GeoEnabled                bool    `json:"geo_enabled"`
	FollowersCount            int64   `json:"followers_count"`
	FriendsCount              int64   `json:"friends_count"`
	StatusesCount             int64   `json:"statuses_count"`
	FavouritesCount           int64   `json:"favourites_count"`
	ListedCount               int64   `json:"listed_count"`
	CreatedAt                 Time    `json:"created_at"`
	Lang                      string  `json:"lang,omitempty"`
	TimeZone                  string  `json:"time_zone,omitempty"`
	UTCOffset                 int     `json:"utc_offset,omitempty"`
	Following                 bool    `json:"following"`
	FollowRequestSent         bool    `json:"follow_request_sent"`
	Notifications             bool    `json:"notifications"`
	Status                    *Status `json:"status,omitempty"`
}

// Entities are the parsed spans of a status text.
type Entities struct {
	Hashtags     []HashtagEntity `json:"hashtags,omitempty"`
	URLs         []URLEntity     `json:"urls,omitempty"`
	UserMentions []MentionEntity `json:"user_mentions,omitempty"`
	Media        []MediaEntity   `json:"media,omitempty"`
}

type HashtagEntity struct {
	Text    string `json:"text"`
	Indices []int  `json:"indices"`
}

type URLEntity struct {
	URL         string `json:"url"`
	ExpandedURL string `json:"expanded_url,omitempty"`
	DisplayURL  string `json:"display_url,omitempty"`
	Indices     []int  `json:"indices"`
}

type MentionEntity struct {
	ID         int64  `json:"id"`
	ScreenName string `json:"screen_name"`
	Name       string `json:"name"`
	Indices    []int  `json:"indices"`
}

type MediaEntity struct {
	ID            int64  `json:"id"`
	Type          string `json:"type"`
	MediaURL      string `json:"media_url"`
	MediaURLHTTPS string `json:"media_url_https,omitempty"`
	URL           string `json:"url"`
	DisplayURL    string `json:"display_url,omitempty"`
	ExpandedURL   string `json:"expanded_url,omitempty"`
	Indices       []int  `json:"indices"`
}

// Coordinates is a GeoJSON point in [longitude, latitude] order.
type Coordinates struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// Latitude returns the point's latitude, or 0 when absent.
func (c *Coordinates) Latitude() float64 {
	if c == nil || len(c.Coordinates) < 2 {
		return 0
	}
	return c.Coordinates[1]
}

// Longitude returns the point's longitude, or 0 when absent.
func (c *Coordinates) Longitude() float64 {
	if c == nil || len(c.Coordinates) < 2 {
		return 0
	}
	return c.Coordinates[0]
}

// Place is a named geographic area.
type Place struct {
	ID              string            `json:"id" validate:"required"`
	Name            string            `json:"name"`
	FullName        string            `json:"full_name,omitempty"`
	PlaceType       string            `json:"place_type,omitempty"`
	URL             string            `json:"url,omitempty"`
	Country         string            `json:"country,omitempty"`
	CountryCode     string            `json:"country_code,omitempty"`
	Attributes      map[string]string `json:"attributes,omitempty"`
	BoundingBox     *BoundingBox      `json:"bounding_box,omitempty"`
	ContainedWithin []Place           `json:"contained_within,omitempty"`
}

// BoundingBox is a GeoJSON polygon.
type BoundingBox struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}
