package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chirpkit/chirp/internal/api"
	"github.com/chirpkit/chirp/internal/param"
	"github.com/chirpkit/chirp/internal/resolve"
	"github.com/chirpkit/chirp/internal/urlparse"
)

// maxListPages bounds how many cursor pages name resolution walks.
const maxListPages = 10

func newListsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lists",
		Aliases: []string{"list", "l"},
		Short:   "Manage lists, their members and subscribers",
		Long: strings.TrimSpace(`
Lists are addressed by numeric id, by name or slug of one of your own lists
(matched fuzzily), as @owner/slug, or by a list link.`),
	}

	cmd.AddCommand(newListsListCmd())
	cmd.AddCommand(newListsShowCmd())
	cmd.AddCommand(newListsCreateCmd())
	cmd.AddCommand(newListsUpdateCmd())
	cmd.AddCommand(newListsDeleteCmd())
	cmd.AddCommand(newListsStatusesCmd())
	cmd.AddCommand(newListsMembersCmd())
	cmd.AddCommand(newListsSubscribersCmd())
	cmd.AddCommand(newListsSubscribeCmd(true))
	cmd.AddCommand(newListsSubscribeCmd(false))

	return cmd
}

// resolveListID turns a list argument into an id.
func resolveListID(ctx context.Context, client *api.Client, arg string) (int64, error) {
	arg = strings.TrimSpace(arg)
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil && id > 0 {
		return id, nil
	}

	owner, name := api.UserRef{}, arg
	if p, err := urlparse.Parse(arg); err == nil && p.Kind == urlparse.KindList {
		owner, name = api.ByScreenName(p.ScreenName), p.ListSlug
	} else if o, slug, ok := strings.Cut(arg, "/"); ok && strings.HasPrefix(o, "@") {
		owner, name = api.ByScreenName(o), slug
	}

	var all []api.List
	cursor := int64(-1)
	for range maxListPages {
		page, err := client.Lists().OwnedBy(ctx, owner, cursor)
		if err != nil {
			return 0, err
		}
		all = append(all, page.Items...)
		if !page.HasNext() {
			break
		}
		cursor = page.NextCursor
	}
	if len(all) == 0 {
		return 0, fmt.Errorf("no lists found to match %q", name)
	}
	return resolve.FuzzyMatch(name, resolve.Lists(all))
}

func newListsListCmd() *cobra.Command {
	var (
		memberships   bool
		subscriptions bool
		all           bool
		cursor        int64
	)
	cmd := &cobra.Command{
		Use:     "list [user]",
		Aliases: []string{"ls"},
		Short:   "Lists a user owns (default: you)",
		Args:    cobra.MaximumNArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			var ref api.UserRef
			if len(args) == 1 {
				r, err := parseUserRef(args[0])
				if err != nil {
					return err
				}
				ref = r
			}
			if memberships && subscriptions {
				return fmt.Errorf("--memberships and --subscriptions are mutually exclusive")
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if all {
				if ref.IsZero() {
					me, err := client.Account().VerifyCredentials(ctx)
					if err != nil {
						return err
					}
					ref = api.ByID(me.ID)
				}
				lists, err := client.Lists().All(ctx, ref)
				if err != nil {
					return err
				}
				return writeList(cmd, lists, listHeaders, listRow, "No lists")
			}

			var page *api.CursorPage[api.List]
			switch {
			case memberships:
				page, err = client.Lists().Memberships(ctx, ref, cursor)
			case subscriptions:
				page, err = client.Lists().Subscriptions(ctx, ref, cursor)
			default:
				page, err = client.Lists().OwnedBy(ctx, ref, cursor)
			}
			if err != nil {
				return err
			}
			return writeCursorPage(cmd, page, listHeaders, listRow, "No lists")
		}),
	}
	cmd.Flags().BoolVar(&memberships, "memberships", false, "Lists the user was added to")
	cmd.Flags().BoolVar(&subscriptions, "subscriptions", false, "Lists the user follows")
	cmd.Flags().BoolVar(&all, "all", false, "Every list owned or followed, unpaginated")
	cmd.Flags().Int64Var(&cursor, "cursor", -1, "Cursor from a previous page")
	return cmd
}

// withList runs fn with the resolved id of args[0].
func withList(fn func(cmd *cobra.Command, client *api.Client, listID int64, args []string) error) func(*cobra.Command, []string) error {
	return RunE(func(cmd *cobra.Command, args []string) error {
		client, err := getClient(cmd)
		if err != nil {
			return err
		}
		id, err := resolveListID(cmd.Context(), client, args[0])
		if err != nil {
			return err
		}
		return fn(cmd, client, id, args[1:])
	})
}

func newListsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <list>",
		Short: "Show a list",
		Args:  cobra.ExactArgs(1),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, _ []string) error {
			l, err := client.Lists().Show(cmd.Context(), id)
			if err != nil {
				return err
			}
			return printList(cmd, l)
		}),
	}
}

func parseListMode(s string) (api.ListMode, error) {
	switch api.ListMode(s) {
	case api.ListPublic, api.ListPrivate:
		return api.ListMode(s), nil
	}
	return "", api.NewValidationError("--mode", s, []string{string(api.ListPublic), string(api.ListPrivate)})
}

func newListsCreateCmd() *cobra.Command {
	var mode, description string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a list",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			m, err := parseListMode(mode)
			if err != nil {
				return err
			}
			client, err := getClient(cmd)
			if err != nil {
				return err
			}
			var desc param.Optional[string]
			if cmd.Flags().Changed("description") {
				desc = param.Some(description)
			}
			l, err := client.Lists().Create(cmd.Context(), args[0], m, desc)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(l)
			}
			f.Success("Created list %q (%d)", l.Name, l.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&mode, "mode", string(api.ListPublic), "public|private")
	cmd.Flags().StringVar(&description, "description", "", "List description")
	return cmd
}

func newListsUpdateCmd() *cobra.Command {
	var name, mode, description string
	cmd := &cobra.Command{
		Use:   "update <list>",
		Short: "Rename a list or change its mode or description",
		Args:  cobra.ExactArgs(1),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, _ []string) error {
			var u api.ListUpdate
			fl := cmd.Flags()
			if fl.Changed("name") {
				u.Name = param.Some(name)
			}
			if fl.Changed("mode") {
				m, err := parseListMode(mode)
				if err != nil {
					return err
				}
				u.Mode = param.Some(m)
			}
			if fl.Changed("description") {
				u.Description = param.Some(description)
			}
			if !u.Name.IsSet() && !u.Mode.IsSet() && !u.Description.IsSet() {
				return fmt.Errorf("at least one of --name, --mode or --description is required")
			}
			l, err := client.Lists().Update(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(l)
			}
			f.Success("Updated list %d", l.ID)
			return nil
		}),
	}
	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&mode, "mode", "", "public|private")
	cmd.Flags().StringVar(&description, "description", "", "New description")
	return cmd
}

func newListsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <list>",
		Aliases: []string{"rm"},
		Short:   "Delete a list you own",
		Args:    cobra.ExactArgs(1),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, _ []string) error {
			l, err := client.Lists().Destroy(cmd.Context(), id)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(l)
			}
			f.Success("Deleted list %q (%d)", l.Name, l.ID)
			return nil
		}),
	}
}

func newListsStatusesCmd() *cobra.Command {
	var pf pagingFlags
	cmd := &cobra.Command{
		Use:   "statuses <list>",
		Short: "Timeline of a list",
		Args:  cobra.ExactArgs(1),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, _ []string) error {
			items, err := client.Lists().Statuses(cmd.Context(), id, pf.paging())
			if err != nil {
				return err
			}
			return writeList(cmd, items, statusHeaders, statusRow, "No statuses")
		}),
	}
	pf.register(cmd)
	return cmd
}

func newListsMembersCmd() *cobra.Command {
	var cursor int64
	cmd := &cobra.Command{
		Use:   "members <list>",
		Short: "Members of a list",
		Args:  cobra.ExactArgs(1),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, _ []string) error {
			page, err := client.Lists().Members(cmd.Context(), id, cursor)
			if err != nil {
				return err
			}
			return writeCursorPage(cmd, page, userHeaders, userRow, "No members")
		}),
	}
	cmd.Flags().Int64Var(&cursor, "cursor", -1, "Cursor from a previous page")

	cmd.AddCommand(newListsMembersAddCmd())
	cmd.AddCommand(newListsMembersRemoveCmd())
	cmd.AddCommand(newListsMembersCheckCmd())
	return cmd
}

func newListsMembersAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <list> <user>...",
		Short: "Add users to a list",
		Long:  "Add users by id or screen name. Up to 100 ids or names go in one request.",
		Args:  cobra.MinimumNArgs(2),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, rest []string) error {
			ids, names, err := splitUserArgs(rest)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			var l *api.List
			switch {
			case len(ids) == 1 && len(names) == 0:
				l, err = client.Lists().AddMember(ctx, id, ids[0])
			default:
				for _, c := range chunk(ids, lookupChunk) {
					if l, err = client.Lists().AddMembers(ctx, id, c); err != nil {
						return err
					}
				}
				for _, c := range chunk(names, lookupChunk) {
					if l, err = client.Lists().AddMembersByScreenName(ctx, id, c); err != nil {
						return err
					}
				}
			}
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(l)
			}
			f.Success("List %q now has %d members", l.Name, l.MemberCount)
			return nil
		}),
	}
}

func newListsMembersRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <list> <user_id>",
		Aliases: []string{"rm"},
		Short:   "Remove a user from a list",
		Args:    cobra.ExactArgs(2),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, rest []string) error {
			userID, err := resolveUserID(cmd.Context(), client, rest[0])
			if err != nil {
				return err
			}
			l, err := client.Lists().RemoveMember(cmd.Context(), id, userID)
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(l)
			}
			f.Success("Removed %d from list %q", userID, l.Name)
			return nil
		}),
	}
}

func newListsMembersCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <list> <user>",
		Short: "Check whether a user is a member of a list",
		Args:  cobra.ExactArgs(2),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, rest []string) error {
			userID, err := resolveUserID(cmd.Context(), client, rest[0])
			if err != nil {
				return err
			}
			u, err := client.Lists().ShowMember(cmd.Context(), id, userID)
			member := err == nil
			if err != nil && !api.IsNotFound(err) {
				return err
			}
			return printMembership(cmd, userID, u, member)
		}),
	}
}

func printMembership(cmd *cobra.Command, userID int64, u *api.User, ok bool) error {
	f := formatter(cmd)
	if f.Structured() {
		return f.Output(map[string]any{"user_id": userID, "member": ok})
	}
	name := itoa(userID)
	if u != nil {
		name = "@" + u.ScreenName
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, boolText(ok))
	return nil
}

// resolveUserID accepts a numeric id or looks the screen name up.
func resolveUserID(ctx context.Context, client *api.Client, arg string) (int64, error) {
	ref, err := parseUserRef(arg)
	if err != nil {
		return 0, err
	}
	if ref.ID != 0 {
		return ref.ID, nil
	}
	u, err := client.Users().Show(ctx, ref)
	if err != nil {
		return 0, err
	}
	return u.ID, nil
}

func newListsSubscribersCmd() *cobra.Command {
	var cursor int64
	cmd := &cobra.Command{
		Use:   "subscribers <list>",
		Short: "Users subscribed to a list",
		Args:  cobra.ExactArgs(1),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, _ []string) error {
			page, err := client.Lists().Subscribers(cmd.Context(), id, cursor)
			if err != nil {
				return err
			}
			return writeCursorPage(cmd, page, userHeaders, userRow, "No subscribers")
		}),
	}
	cmd.Flags().Int64Var(&cursor, "cursor", -1, "Cursor from a previous page")

	cmd.AddCommand(&cobra.Command{
		Use:   "check <list> <user>",
		Short: "Check whether a user subscribes to a list",
		Args:  cobra.ExactArgs(2),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, rest []string) error {
			userID, err := resolveUserID(cmd.Context(), client, rest[0])
			if err != nil {
				return err
			}
			u, err := client.Lists().ShowSubscriber(cmd.Context(), id, userID)
			subscribed := err == nil
			if err != nil && !api.IsNotFound(err) {
				return err
			}
			return printMembership(cmd, userID, u, subscribed)
		}),
	})
	return cmd
}

func newListsSubscribeCmd(subscribe bool) *cobra.Command {
	use, short, verb := "subscribe <list>", "Follow a list", "Subscribed to"
	if !subscribe {
		use, short, verb = "unsubscribe <list>", "Stop following a list", "Unsubscribed from"
	}
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withList(func(cmd *cobra.Command, client *api.Client, id int64, _ []string) error {
			var (
				l   *api.List
				err error
			)
			if subscribe {
				l, err = client.Lists().Subscribe(cmd.Context(), id)
			} else {
				l, err = client.Lists().Unsubscribe(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			f := formatter(cmd)
			if f.Structured() {
				return f.Output(l)
			}
			f.Success("%s list %q", verb, l.Name)
			return nil
		}),
	}
}
