package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
)

type field struct {
	label string
	value string
}

// printDetail writes v in structured modes, or label/value lines in text mode.
func printDetail(cmd *cobra.Command, v any, fields []field) error {
	f := formatter(cmd)
	if f.Structured() {
		return f.Output(v)
	}
	for _, fl := range fields {
		if fl.value == "" {
			continue
		}
		f.Row(fl.label+":", fl.value)
	}
	return f.EndTable()
}

func printStatus(cmd *cobra.Command, s *api.Status) error {
	fields := []field{
		{"ID", itoa(s.ID)},
		{"User", screenName(s.User)},
		{"Created", formatTime(s.CreatedAt)},
		{"Text", s.Text},
		{"Retweets", itoa(s.RetweetCount)},
	}
	if s.InReplyToStatusID != 0 {
		fields = append(fields, field{"Reply to", fmt.Sprintf("%d (@%s)", s.InReplyToStatusID, s.InReplyToScreenName)})
	}
	if s.RetweetedStatus != nil {
		fields = append(fields, field{"Retweet of", fmt.Sprintf("%d by %s", s.RetweetedStatus.ID, screenName(s.RetweetedStatus.User))})
	}
	if s.Place != nil {
		fields = append(fields, field{"Place", s.Place.FullName})
	}
	return printDetail(cmd, s, fields)
}

func printUser(cmd *cobra.Command, u *api.User) error {
	fields := []field{
		{"ID", itoa(u.ID)},
		{"Screen name", "@" + u.ScreenName},
		{"Name", u.Name},
		{"Description", u.Description},
		{"Location", u.Location},
		{"URL", u.URL},
		{"Followers", itoa(u.FollowersCount)},
		{"Friends", itoa(u.FriendsCount)},
		{"Statuses", itoa(u.StatusesCount)},
		{"Protected", boolText(u.Protected)},
		{"Joined", formatTime(u.CreatedAt)},
	}
	return printDetail(cmd, u, fields)
}

func printList(cmd *cobra.Command, l *api.List) error {
	owner := "-"
	if l.User != nil {
		owner = "@" + l.User.ScreenName
	}
	return printDetail(cmd, l, []field{
		{"ID", itoa(l.ID)},
		{"Name", l.Name},
		{"Slug", l.Slug},
		{"Owner", owner},
		{"Mode", l.Mode},
		{"Description", l.Description},
		{"Members", itoa(l.MemberCount)},
		{"Subscribers", itoa(l.SubscriberCount)},
	})
}

func printDM(cmd *cobra.Command, m *api.DirectMessage) error {
	return printDetail(cmd, m, []field{
		{"ID", itoa(m.ID)},
		{"From", "@" + m.SenderScreenName},
		{"To", "@" + m.RecipientScreenName},
		{"Created", formatTime(m.CreatedAt)},
		{"Text", m.Text},
	})
}
