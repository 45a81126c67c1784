package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/outfmt"
	"github.com/chirpkit/chirp/internal/param"
	"github.com/chirpkit/chirp/internal/urlparse"
)

func newFriendshipsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "friendships",
		Aliases: []string{"friends", "fr"},
		Short:   "Follow users and inspect relationships",
	}

	cmd.AddCommand(newFollowCmd())
	cmd.AddCommand(userActionCmd("unfollow <user>", "Stop following a user", "Unfollowed", func(ctx context.Context, c *api.Client, u api.UserRef) (*api.User, error) {
		return c.Friendships().Destroy(ctx, u)
	}))
	cmd.AddCommand(newFriendshipExistsCmd())
	cmd.AddCommand(newFriendshipShowCmd())
	cmd.AddCommand(newFriendshipLookupCmd())
	cmd.AddCommand(newFriendshipUpdateCmd())
	cmd.AddCommand(idsPageCmd("incoming", "Pending requests to follow you", false, func(ctx context.Context, c *api.Client, _ api.UserRef, cursor int64) (*api.IDs, error) {
		return c.Friendships().Incoming(ctx, cursor)
	}))
	cmd.AddCommand(idsPageCmd("outgoing", "Your pending requests to follow protected users", false, func(ctx context.Context, c *api.Client, _ api.UserRef, cursor int64) (*api.IDs, error) {
		return c.Friendships().Outgoing(ctx, cursor)
	}))
	cmd.AddCommand(idsPageCmd("friend-ids", "Ids a user follows (default: you)", true, func(ctx context.Context, c *api.Client, u api.UserRef, cursor int64) (*api.IDs, error) {
		return c.Friendships().FriendIDs(ctx, u, cursor)
	}))
	cmd.AddCommand(idsPageCmd("follower-ids", "Ids following a user (default: you)", true, func(ctx context.Context, c *api.Client, u api.UserRef, cursor int64) (*api.IDs, error) {
		return c.Friendships().FollowerIDs(ctx, u, cursor)
	}))
	cmd.AddCommand(&cobra.Command{
		Use:   "no-retweets",
		Short: "Ids of users whose retweets you hide",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ids, err := client.Friendships().NoRetweetIDs(cmd.Context())
			if err != nil {
				return err
			}
			return writeIDs(cmd, ids)
		}),
	})
	cmd.AddCommand(newNotificationsCmd())

	return cmd
}

// userActionCmd builds a command that changes one user and prints it.
func userActionCmd(use, short, verb string, action func(context.Context, *api.Client, api.UserRef) (*api.User, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, err := parseUserRef(args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			u, err := action(cmd.Context(), client, ref)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(u)
			}
			f.Success("%s @%s", verb, u.ScreenName)
			return nil
		}),
	}
}

func newFollowCmd() *cobra.Command {
	var notify bool
	cmd := &cobra.Command{
		Use:   "follow <user>",
		Short: "Follow a user",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = RunE(func(cmd *cobra.Command, args []string) error {
		ref, err := parseUserRef(args[0])
		if err != nil {
			return err
		}
		client, err := getClient(cmd)
		if err != nil {
			return err
		}
		u, err := client.Friendships().Create(cmd.Context(), ref, notify)
		if err != nil {
			return err
		}
		f := formatter(cmd)
		if f.Structured() {
			return f.Output(u)
		}
		if u.Protected {
			f.Success("Requested to follow @%s", u.ScreenName)
			return nil
		}
		f.Success("Followed @%s", u.ScreenName)
		return nil
	})
	cmd.Flags().BoolVar(&notify, "notify", false, "Also enable device notifications")
	return cmd
}

func newFriendshipExistsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exists <user_a> <user_b>",
		Short: "Check whether user_a follows user_b",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			a, err := urlparse.ScreenName(args[0])
			if err != nil {
				return err
			}
			b, err := urlparse.ScreenName(args[1])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ok, err := client.Friendships().Exists(cmd.Context(), a, b)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(map[string]any{"user_a": a, "user_b": b, "follows": ok})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), boolText(ok))
			return nil
		}),
	}
}

func newFriendshipShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <source> <target>",
		Short: "Describe the relationship between two users",
		Args:  cobra.ExactArgs(2),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			source, err := parseUserRef(args[0])
			if err != nil {
				return err
			}
			target, err := parseUserRef(args[1])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			rel, err := client.Friendships().Show(cmd.Context(), source, target)
			if err != nil {
				return err
			}
			return render(cmd, rel, func(f *outfmt.Formatter) {
				f.StartTable([]string{"", "@" + rel.Source.ScreenName, "@" + rel.Target.ScreenName})
				f.Row("following", boolText(rel.Source.Following), boolText(rel.Target.Following))
				f.Row("followed by", boolText(rel.Source.FollowedBy), boolText(rel.Target.FollowedBy))
				f.Row("blocking", boolText(rel.Source.Blocking), "-")
				f.Row("notifications", boolText(rel.Source.NotificationsEnabled), "-")
				f.Row("want retweets", boolText(rel.Source.WantRetweets), "-")
			})
		}),
	}
}

func newFriendshipLookupCmd() *cobra.Command {
	return NewListCommand(ListConfig[api.Friendship]{
		Use:          "lookup <user>...",
		Short:        "Your connections to several users",
		Args:         cobra.MinimumNArgs(1),
		Headers:      []string{"ID", "SCREEN NAME", "CONNECTIONS"},
		EmptyMessage: "No users found",
		RowFunc: func(f api.Friendship) []string {
			conns := strings.Join(f.Connections, ",")
			if conns == "" {
				conns = "none"
			}
			return []string{itoa(f.ID), "@" + f.ScreenName, conns}
		},
		Fetch: func(ctx context.Context, c *api.Client, args []string) ([]api.Friendship, error) {
			ids, names, err := splitUserArgs(args)
			if err != nil {
				return nil, err
			}
			var out []api.Friendship
			for _, part := range chunk(ids, lookupChunk) {
				fs, err := c.Friendships().LookupIDs(ctx, part)
				if err != nil {
					return nil, err
				}
				out = append(out, fs...)
			}
			for _, part := range chunk(names, lookupChunk) {
				fs, err := c.Friendships().LookupScreenNames(ctx, part)
				if err != nil {
					return nil, err
				}
				out = append(out, fs...)
			}
			return out, nil
		},
	})
}

func newFriendshipUpdateCmd() *cobra.Command {
	var device, retweets bool
	cmd := &cobra.Command{
		Use:   "update <user>",
		Short: "Toggle device notifications or retweets for a followed user",
		Example: strings.TrimSpace(`
  chirp friendships update @ann --retweets=false
  chirp friendships update 12345 --device`),
		Args: cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, err := parseUserRef(args[0])
			if err != nil {
				return err
			}
			var u api.FriendshipUpdate
			if cmd.Flags().Changed("device") {
				u.Device = param.Some(device)
			}
			if cmd.Flags().Changed("retweets") {
				u.Retweets = param.Some(retweets)
			}
			if !u.Device.IsSet() && !u.Retweets.IsSet() {
				return fmt.Errorf("at least one of --device or --retweets is required")
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			rel, err := client.Friendships().Update(cmd.Context(), ref, u)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(rel)
			}
			f.Success("Updated friendship with @%s (notifications %s, retweets %s)",
				rel.Target.ScreenName, boolText(rel.Source.NotificationsEnabled), boolText(rel.Source.WantRetweets))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&device, "device", false, "Device notifications")
	cmd.Flags().BoolVar(&retweets, "retweets", false, "Show retweets from this user")
	return cmd
}

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Device notifications for followed users",
	}
	cmd.AddCommand(userActionCmd("on <user>", "Enable device notifications", "Notifications on for", func(ctx context.Context, c *api.Client, u api.UserRef) (*api.User, error) {
		return c.Friendships().EnableNotifications(ctx, u)
	}))
	cmd.AddCommand(userActionCmd("off <user>", "Disable device notifications", "Notifications off for", func(ctx context.Context, c *api.Client, u api.UserRef) (*api.User, error) {
		return c.Friendships().DisableNotifications(ctx, u)
	}))
	return cmd
}

// idsPageCmd builds a cursor-paged id listing. withUser adds an optional user argument.
func idsPageCmd(use, short string, withUser bool, fetch func(context.Context, *api.Client, api.UserRef, int64) (*api.IDs, error)) *cobra.Command {
	var cursor int64
	args := cobra.NoArgs
	if withUser {
		use += " [user]"
		args = cobra.MaximumNArgs(1)
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var ref api.UserRef
			if len(args) == 1 {
				r, err := parseUserRef(args[0])
				if err != nil {
					return err
				}
				ref = r
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ids, err := fetch(cmd.Context(), client, ref, cursor)
			if err != nil {
				return err
			}
			return writeIDs(cmd, ids)
		}),
	}
	cmd.Flags().Int64Var(&cursor, "cursor", -1, "Cursor from a previous page (-1 is the first page)")
	return cmd
}

// writeIDs prints an id page, one id per line in text mode.
func writeIDs(cmd *cobra.Command, ids *api.IDs) error {
	f := formatter(cmd)
	if f.Structured() {
		if ids.IDs == nil {
			ids.IDs = []int64{}
		}
		return f.Output(ids)
	}
	if len(ids.IDs) == 0 {
		f.Empty("No ids")
		return nil
	}
	out := cmd.OutOrStdout()
	for _, id := range ids.IDs {
		_, _ = fmt.Fprintln(out, id)
	}
	if ids.HasNext() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "next page: --cursor %d\n", ids.NextCursor)
	}
	return nil
}
