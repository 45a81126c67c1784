package api

import (
	"context"
	"net/http"
	"time"

	"github.com/chirpkit/chirp/internal/param"
)

// RateLimitStatus is the hourly call budget of the caller.
type RateLimitStatus struct {
	RemainingHits      int   `json:"remaining_hits"`
	HourlyLimit        int   `json:"hourly_limit" validate:"required"`
	ResetTimeInSeconds int64 `json:"reset_time_in_seconds"`
	ResetTime          Time  `json:"reset_time"`
}

// ResetIn returns how long until the budget refills, relative to now.
func (r *RateLimitStatus) ResetIn(now time.Time) time.Duration {
	if r.ResetTimeInSeconds == 0 {
		return 0
	}
	d := time.Unix(r.ResetTimeInSeconds, 0).Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// AccountTotals counts what the authenticated user has produced.
type AccountTotals struct {
	Updates   int `json:"updates"`
	Followers int `json:"followers"`
	Favorites int `json:"favorites"`
	Friends   int `json:"friends"`
}

type SleepTime struct {
	Enabled   bool `json:"enabled"`
	StartTime *int `json:"start_time"`
	EndTime   *int `json:"end_time"`
}

type TimeZone struct {
	Name       string `json:"name"`
	UTCOffset  int    `json:"utc_offset"`
	TZInfoName string `json:"tzinfo_name"`
}

// AccountSettings are the preferences of the authenticated user.
type AccountSettings struct {
	ScreenName          string     `json:"screen_name"`
	Language            string     `json:"language"`
	AlwaysUseHTTPS      bool       `json:"always_use_https"`
	DiscoverableByEmail bool       `json:"discoverable_by_email"`
	GeoEnabled          bool       `json:"geo_enabled"`
	SleepTime           SleepTime  `json:"sleep_time"`
	TimeZone            *TimeZone  `json:"time_zone,omitempty"`
	TrendLocation       []Location `json:"trend_location"`
}

// VerifyCredentials returns the authenticated user.
func (s AccountService) VerifyCredentials(ctx context.Context) (*User, error) {
	const path = "account/verify_credentials.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return one[User](s.get(ctx, path, s.withEntities(nil)))
}

// RateLimitStatus returns the caller's budget. Anonymous callers get the per-IP budget.
func (s AccountService) RateLimitStatus(ctx context.Context) (*RateLimitStatus, error) {
	return one[RateLimitStatus](s.get(ctx, "account/rate_limit_status.json", nil))
}

// UpdateProfile changes profile text fields and returns the updated user.
func (s AccountService) UpdateProfile(ctx context.Context, u ProfileUpdate) (*User, error) {
	const path = "account/update_profile.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[User](s.post(ctx, path, s.withEntities(u.params())))
}

// Totals returns counts for the authenticated user.
func (s AccountService) Totals(ctx context.Context) (*AccountTotals, error) {
	const path = "account/totals.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return one[AccountTotals](s.get(ctx, path, nil))
}

// Settings returns the authenticated user's preferences.
func (s AccountService) Settings(ctx context.Context) (*AccountSettings, error) {
	const path = "account/settings.json"
	if err := s.requireAuthorization(http.MethodGet, path); err != nil {
		return nil, err
	}
	return one[AccountSettings](s.get(ctx, path, nil))
}

// UpdateProfileColors changes profile colors and returns the updated user.
func (s AccountService) UpdateProfileColors(ctx context.Context, c ProfileColors) (*User, error) {
	const path = "account/update_profile_colors.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[User](s.post(ctx, path, s.withEntities(c.params())))
}

// UpdateProfileImage uploads a new avatar as multipart form data.
func (s AccountService) UpdateProfileImage(ctx context.Context, image param.File) (*User, error) {
	const path = "account/update_profile_image.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	return one[User](s.post(ctx, path, s.withEntities(param.Of(param.FileParam("image", image)))))
}

// UpdateProfileBackgroundImage uploads a background image; tile repeats it.
func (s AccountService) UpdateProfileBackgroundImage(ctx context.Context, image param.File, tile bool) (*User, error) {
	const path = "account/update_profile_background_image.json"
	if err := s.requireAuthorization(http.MethodPost, path); err != nil {
		return nil, err
	}
	params := param.Of(param.FileParam("image", image), param.Bool("tile", tile))
	return one[User](s.post(ctx, path, s.withEntities(params)))
}
