package api

import (
	"context"
	"time"

	"github.com/chirpkit/chirp/internal/param"
)

// Capability interfaces describe each resource family so callers can depend
// on the slice they use and substitute fakes in tests.

type Searcher interface {
	Search(ctx context.Context, q SearchQuery) (*QueryResult, error)
}

type TrendsReader interface {
	Trends(ctx context.Context) (*Trends, error)
	Current(ctx context.Context, excludeHashtags bool) ([]Trends, error)
	Daily(ctx context.Context, date time.Time, excludeHashtags bool) ([]Trends, error)
	Weekly(ctx context.Context, date time.Time, excludeHashtags bool) ([]Trends, error)
	Available(ctx context.Context, near param.Optional[GeoLocation]) ([]Location, error)
	Location(ctx context.Context, woeid int64) (*Trends, error)
}

type TimelineReader interface {
	Public(ctx context.Context) ([]Status, error)
	Home(ctx context.Context, paging Paging) ([]Status, error)
	Friends(ctx context.Context, paging Paging) ([]Status, error)
	User(ctx context.Context, user UserRef, paging Paging) ([]Status, error)
	Mentions(ctx context.Context, paging Paging) ([]Status, error)
	RetweetedByMe(ctx context.Context, paging Paging) ([]Status, error)
	RetweetedToMe(ctx context.Context, paging Paging) ([]Status, error)
	RetweetsOfMe(ctx context.Context, paging Paging) ([]Status, error)
	RetweetedToUser(ctx context.Context, user UserRef, paging Paging) ([]Status, error)
	RetweetedByUser(ctx context.Context, user UserRef, paging Paging) ([]Status, error)
}

type StatusMethods interface {
	Show(ctx context.Context, id int64) (*Status, error)
	Update(ctx context.Context, u StatusUpdate) (*Status, error)
	Post(ctx context.Context, text string) (*Status, error)
	Destroy(ctx context.Context, id int64) (*Status, error)
	Retweet(ctx context.Context, id int64) (*Status, error)
	Retweets(ctx context.Context, id int64) ([]Status, error)
	RetweetedBy(ctx context.Context, id int64, paging Paging) ([]User, error)
	RetweetedByIDs(ctx context.Context, id int64, paging Paging) (*IDs, error)
	Related(ctx context.Context, id int64) (*RelatedResults, error)
}

type UserMethods interface {
	Show(ctx context.Context, user UserRef) (*User, error)
	LookupIDs(ctx context.Context, ids []int64) ([]User, error)
	LookupScreenNames(ctx context.Context, names []string) ([]User, error)
	Search(ctx context.Context, query string, page int) ([]User, error)
	SuggestionCategories(ctx context.Context) ([]Category, error)
	Suggestions(ctx context.Context, slug string) ([]User, error)
	SuggestionMembers(ctx context.Context, slug string) ([]User, error)
	ProfileImage(ctx context.Context, screenName string, size ImageSize) (*ProfileImage, error)
	FriendsStatuses(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[User], error)
	FollowersStatuses(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[User], error)
}

type ListMethods interface {
	Create(ctx context.Context, name string, mode ListMode, description param.Optional[string]) (*List, error)
	Update(ctx context.Context, listID int64, u ListUpdate) (*List, error)
	Destroy(ctx context.Context, listID int64) (*List, error)
	Show(ctx context.Context, listID int64) (*List, error)
	Statuses(ctx context.Context, listID int64, paging Paging) ([]Status, error)
	OwnedBy(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[List], error)
	Memberships(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[List], error)
	Subscriptions(ctx context.Context, user UserRef, cursorID int64) (*CursorPage[List], error)
	All(ctx context.Context, user UserRef) ([]List, error)
}

type ListMemberMethods interface {
	Members(ctx context.Context, listID, cursorID int64) (*CursorPage[User], error)
	AddMember(ctx context.Context, listID, userID int64) (*List, error)
	AddMembers(ctx context.Context, listID int64, userIDs []int64) (*List, error)
	AddMembersByScreenName(ctx context.Context, listID int64, names []string) (*List, error)
	RemoveMember(ctx context.Context, listID, userID int64) (*List, error)
	ShowMember(ctx context.Context, listID, userID int64) (*User, error)
}

type ListSubscriberMethods interface {
	Subscribers(ctx context.Context, listID, cursorID int64) (*CursorPage[User], error)
	Subscribe(ctx context.Context, listID int64) (*List, error)
	Unsubscribe(ctx context.Context, listID int64) (*List, error)
	ShowSubscriber(ctx context.Context, listID, userID int64) (*User, error)
}

type DirectMessageMethods interface {
	Received(ctx context.Context, paging Paging) ([]DirectMessage, error)
	Sent(ctx context.Context, paging Paging) ([]DirectMessage, error)
	Send(ctx context.Context, to UserRef, text string) (*DirectMessage, error)
	Destroy(ctx context.Context, id int64) (*DirectMessage, error)
	Show(ctx context.Context, id int64) (*DirectMessage, error)
}

type FriendshipMethods interface {
	Create(ctx context.Context, user UserRef, follow bool) (*User, error)
	Destroy(ctx context.Context, user UserRef) (*User, error)
	Exists(ctx context.Context, userA, userB string) (bool, error)
	Show(ctx context.Context, source, target UserRef) (*Relationship, error)
	Incoming(ctx context.Context, cursorID int64) (*IDs, error)
	Outgoing(ctx context.Context, cursorID int64) (*IDs, error)
	LookupIDs(ctx context.Context, userIDs []int64) ([]Friendship, error)
	LookupScreenNames(ctx context.Context, names []string) ([]Friendship, error)
	Update(ctx context.Context, user UserRef, u FriendshipUpdate) (*Relationship, error)
	NoRetweetIDs(ctx context.Context) (*IDs, error)
}

type SocialGraphReader interface {
	FriendIDs(ctx context.Context, user UserRef, cursorID int64) (*IDs, error)
	FollowerIDs(ctx context.Context, user UserRef, cursorID int64) (*IDs, error)
}

type NotificationMethods interface {
	EnableNotifications(ctx context.Context, user UserRef) (*User, error)
	DisableNotifications(ctx context.Context, user UserRef) (*User, error)
}

type AccountMethods interface {
	VerifyCredentials(ctx context.Context) (*User, error)
	RateLimitStatus(ctx context.Context) (*RateLimitStatus, error)
	UpdateProfile(ctx context.Context, u ProfileUpdate) (*User, error)
	Totals(ctx context.Context) (*AccountTotals, error)
	Settings(ctx context.Context) (*AccountSettings, error)
	UpdateProfileColors(ctx context.Context, c ProfileColors) (*User, error)
	UpdateProfileImage(ctx context.Context, image param.File) (*User, error)
	UpdateProfileBackgroundImage(ctx context.Context, image param.File, tile bool) (*User, error)
}

type FavoriteMethods interface {
	List(ctx context.Context, page int) ([]Status, error)
	ListOf(ctx context.Context, user string, page int) ([]Status, error)
	Create(ctx context.Context, id int64) (*Status, error)
	Destroy(ctx context.Context, id int64) (*Status, error)
}

type BlockMethods interface {
	Create(ctx context.Context, user UserRef) (*User, error)
	Destroy(ctx context.Context, user UserRef) (*User, error)
	Exists(ctx context.Context, user UserRef) (bool, error)
	Blocking(ctx context.Context, page int) ([]User, error)
	BlockingIDs(ctx context.Context) (*IDs, error)
}

type SpamReporter interface {
	ReportSpam(ctx context.Context, user UserRef) (*User, error)
}

type SavedSearchMethods interface {
	List(ctx context.Context) ([]SavedSearch, error)
	Show(ctx context.Context, id int64) (*SavedSearch, error)
	Create(ctx context.Context, query string) (*SavedSearch, error)
	Destroy(ctx context.Context, id int64) (*SavedSearch, error)
}

type GeoMethods interface {
	Search(ctx context.Context, q GeoQuery) ([]Place, error)
	ReverseGeocode(ctx context.Context, q GeoQuery) ([]Place, error)
	SimilarPlaces(ctx context.Context, loc GeoLocation, name string, containedWithin, streetAddress param.Optional[string]) (*SimilarPlaces, error)
	Place(ctx context.Context, id string) (*Place, error)
	Create(ctx context.Context, p NewPlace) (*Place, error)
}

type LegalReader interface {
	TermsOfService(ctx context.Context) (string, error)
	PrivacyPolicy(ctx context.Context) (string, error)
}

type HelpMethods interface {
	Test(ctx context.Context) (bool, error)
	Configuration(ctx context.Context) (*Configuration, error)
	Languages(ctx context.Context) ([]Language, error)
}

var (
	_ Searcher              = SearchService{}
	_ TrendsReader          = TrendsService{}
	_ TimelineReader        = TimelinesService{}
	_ StatusMethods         = StatusesService{}
	_ UserMethods           = UsersService{}
	_ ListMethods           = ListsService{}
	_ ListMemberMethods     = ListsService{}
	_ ListSubscriberMethods = ListsService{}
	_ DirectMessageMethods  = DirectMessagesService{}
	_ FriendshipMethods     = FriendshipsService{}
	_ SocialGraphReader     = FriendshipsService{}
	_ NotificationMethods   = FriendshipsService{}
	_ AccountMethods        = AccountService{}
	_ FavoriteMethods       = FavoritesService{}
	_ BlockMethods          = BlocksService{}
	_ SpamReporter          = BlocksService{}
	_ SavedSearchMethods    = SavedSearchesService{}
	_ GeoMethods            = GeoService{}
	_ LegalReader           = HelpService{}
	_ HelpMethods           = HelpService{}
)
