package cmd

import (
	"strconv"

	"github.com/chirpkit/chirp/internal/api"
)

var (
	statusHeaders = []string{"ID", "USER", "CREATED", "RT", "TEXT"}
	userHeaders   = []string{"ID", "SCREEN NAME", "NAME", "FOLLOWERS", "FRIENDS"}
	listHeaders   = []string{"ID", "NAME", "MODE", "MEMBERS", "SUBSCRIBERS"}
	dmHeaders     = []string{"ID", "FROM", "TO", "CREATED", "TEXT"}
	placeHeaders  = []string{"ID", "NAME", "TYPE", "COUNTRY"}
)

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func statusRow(s api.Status) []string {
	return []string{itoa(s.ID), screenName(s.User), formatTime(s.CreatedAt), itoa(s.RetweetCount), truncate(s.Text, 70)}
}

func userRow(u api.User) []string {
	return []string{itoa(u.ID), "@" + u.ScreenName, u.Name, itoa(u.FollowersCount), itoa(u.FriendsCount)}
}

func listRow(l api.List) []string {
	return []string{itoa(l.ID), l.Name, l.Mode, itoa(l.MemberCount), itoa(l.SubscriberCount)}
}

func dmRow(m api.DirectMessage) []string {
	return []string{itoa(m.ID), "@" + m.SenderScreenName, "@" + m.RecipientScreenName, formatTime(m.CreatedAt), truncate(m.Text, 60)}
}

func placeRow(p api.Place) []string {
	name := p.FullName
	if name == "" {
		name = p.Name
	}
	return []string{p.ID, name, p.PlaceType, p.Country}
}

func tweetRow(t api.Tweet) []string {
	return []string{itoa(t.ID), "@" + t.FromUser, formatTime(t.CreatedAt), truncate(t.Text, 80)}
}

func boolText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
