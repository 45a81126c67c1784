package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/urlparse"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user", "u"},
		Short:   "Look up users",
	}

	cmd.AddCommand(newUsersShowCmd())
	cmd.AddCommand(newUsersLookupCmd())
	cmd.AddCommand(newUsersSearchCmd())
	cmd.AddCommand(newUsersSuggestionsCmd())
	cmd.AddCommand(newUsersProfileImageCmd())
	cmd.AddCommand(usersByCursorCmd("friends", "Users a user follows, with their latest status", func(ctx context.Context, c *api.Client, u api.UserRef, cursor int64) (*api.CursorPage[api.User], error) {
		return c.Users().FriendsStatuses(ctx, u, cursor)
	}))
	cmd.AddCommand(usersByCursorCmd("followers", "Users following a user, with their latest status", func(ctx context.Context, c *api.Client, u api.UserRef, cursor int64) (*api.CursorPage[api.User], error) {
		return c.Users().FollowersStatuses(ctx, u, cursor)
	}))

	return cmd
}

func newUsersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <user>",
		Aliases: []string{"get"},
		Short:   "Show a user by id, @name or profile link",
		Args:    cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			ref, err := parseUserRef(args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			u, err := client.Users().Show(cmd.Context(), ref)
			if err != nil {
				return err
			}
			return printUser(cmd, u)
		}),
	}
}

func newUsersLookupCmd() *cobra.Command {
	return NewListCommand(ListConfig[api.User]{
		Use:   "lookup <user>...",
		Short: "Look up many users at once",
		Long: strings.TrimSpace(`
Look up users by numeric id or screen name. Arguments may be comma separated.
Requests are split into batches of 100 and sent concurrently.`),
		Example:      "  chirp users lookup @ann bob 12,34",
		Args:         cobra.MinimumNArgs(1),
		Headers:      userHeaders,
		RowFunc:      userRow,
		EmptyMessage: "No users found",
		Fetch: func(ctx context.Context, c *api.Client, args []string) ([]api.User, error) {
			ids, names, err := splitUserArgs(args)
			if err != nil {
				return nil, err
			}
			return lookupUsers(ctx, c, ids, names)
		},
	})
}

// splitUserArgs separates numeric ids from screen names, dropping duplicates.
func splitUserArgs(args []string) ([]int64, []string, error) {
	var (
		ids   []int64
		names []string
	)
	seenID := map[int64]bool{}
	seenName := map[string]bool{}
	for _, a := range args {
		for _, part := range strings.Split(a, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if id, err := strconv.ParseInt(part, 10, 64); err == nil && id > 0 {
				if !seenID[id] {
					seenID[id] = true
					ids = append(ids, id)
				}
				continue
			}
			name, err := urlparse.ScreenName(part)
			if err != nil {
				return nil, nil, err
			}
			key := strings.ToLower(name)
			if !seenName[key] {
				seenName[key] = true
				names = append(names, name)
			}
		}
	}
	if len(ids) == 0 && len(names) == 0 {
		return nil, nil, fmt.Errorf("at least one user is required")
	}
	return ids, names, nil
}

func newUsersSearchCmd() *cobra.Command {
	var page int
	return NewListCommand(ListConfig[api.User]{
		Use:          "search <query>",
		Short:        "Search users by name",
		Args:         cobra.MinimumNArgs(1),
		Headers:      userHeaders,
		RowFunc:      userRow,
		EmptyMessage: "No users found",
		Flags: func(cmd *cobra.Command) {
			cmd.Flags().IntVar(&page, "page", 0, "Page number")
		},
		Fetch: func(ctx context.Context, c *api.Client, args []string) ([]api.User, error) {
			return c.Users().Search(ctx, strings.Join(args, " "), page)
		},
	})
}

func newUsersSuggestionsCmd() *cobra.Command {
	var members bool
	cmd := &cobra.Command{
		Use:   "suggestions [slug]",
		Short: "Suggested user categories, or the users in one",
		Args:  cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if len(args) == 0 {
				cats, err := client.Users().SuggestionCategories(ctx)
				if err != nil {
					return err
				}
				return writeList(cmd, cats, []string{"SLUG", "NAME", "SIZE"}, func(c api.Category) []string {
					return []string{c.Slug, c.Name, strconv.Itoa(c.Size)}
				}, "No categories")
			}
			var users []api.User
			if members {
				users, err = client.Users().SuggestionMembers(ctx, args[0])
			} else {
				users, err = client.Users().Suggestions(ctx, args[0])
			}
			if err != nil {
				return err
			}
			return writeList(cmd, users, userHeaders, userRow, "No suggested users")
		}),
	}
	cmd.Flags().BoolVar(&members, "members", false, "Use the members endpoint, which includes latest statuses")
	return cmd
}

func newUsersProfileImageCmd() *cobra.Command {
	var size string
	cmd := &cobra.Command{
		Use:   "profile-image <screen_name>",
		Short: "Print the URL of a profile image",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			allowed := []string{string(api.ImageBigger), string(api.ImageNormal), string(api.ImageMini), string(api.ImageOriginal)}
			valid := false
			for _, a := range allowed {
				valid = valid || a == size
			}
			if !valid {
				return api.NewValidationError("--size", size, allowed)
			}
			name, err := urlparse.ScreenName(args[0])
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			img, err := client.Users().ProfileImage(cmd.Context(), name, api.ImageSize(size))
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(img)
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), img.URL)
			return nil
		}),
	}
	cmd.Flags().StringVar(&size, "size", string(api.ImageNormal), "bigger|normal|mini|original")
	return cmd
}

func usersByCursorCmd(use, short string, fetch func(context.Context, *api.Client, api.UserRef, int64) (*api.CursorPage[api.User], error)) *cobra.Command {
	var cursor int64
	cmd := &cobra.Command{
		Use:   use + " <user>",
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
			page, err := fetch(cmd.Context(), client, ref, cursor)
			if err != nil {
				return err
			}
			return writeCursorPage(cmd, page, userHeaders, userRow, "No users")
		}),
	}
	cmd.Flags().Int64Var(&cursor, "cursor", -1, "Cursor from a previous page (-1 is the first page)")
	return cmd
}

// writeCursorPage prints a cursor page: the whole envelope in structured
// modes, the items plus a next-cursor hint in text mode.
func writeCursorPage[T any](cmd *cobra.Command, page *api.CursorPage[T], headers []string, row func(T) []string, empty string) error {
	f := formatter(cmd)
	if f.Structured() {
		if page.Items == nil {
			page.Items = []T{}
		}
		return f.Output(page)
	}
	if err := writeList(cmd, page.Items, headers, row, empty); err != nil {
		return err
	}
	if page.HasNext() {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "next page: --cursor %d\n", page.NextCursor)
	}
	return nil
}
