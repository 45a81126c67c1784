package api

// Service accessors group Client methods by resource family.
// Each service embeds *Client and shares its credential and defaults.

type SearchService struct{ *Client }

type TrendsService struct{ *Client }

type TimelinesService struct{ *Client }

type StatusesService struct{ *Client }

type UsersService struct{ *Client }

type ListsService struct{ *Client }

type DirectMessagesService struct{ *Client }

type FriendshipsService struct{ *Client }

type AccountService struct{ *Client }

type FavoritesService struct{ *Client }

type BlocksService struct{ *Client }

type SavedSearchesService struct{ *Client }

type GeoService struct{ *Client }

type HelpService struct{ *Client }

func (c *Client) Search() SearchService {
	return SearchService{c}
}

func (c *Client) Trends() TrendsService {
	return TrendsService{c}
}

func (c *Client) Timelines() TimelinesService {
	return TimelinesService{c}
}

func (c *Client) Statuses() StatusesService {
	return StatusesService{c}
}

func (c *Client) Users() UsersService {
	return UsersService{c}
}

func (c *Client) Lists() ListsService {
	return ListsService{c}
}

func (c *Client) DirectMessages() DirectMessagesService {
	return DirectMessagesService{c}
}

func (c *Client) Friendships() FriendshipsService {
	return FriendshipsService{c}
}

func (c *Client) Account() AccountService {
	return AccountService{c}
}

func (c *Client) Favorites() FavoritesService {
	return FavoritesService{c}
}

func (c *Client) Blocks() BlocksService {
	return BlocksService{c}
}

func (c *Client) SavedSearches() SavedSearchesService {
	return SavedSearchesService{c}
}

func (c *Client) Geo() GeoService {
	return GeoService{c}
}

func (c *Client) Help() HelpService {
	return HelpService{c}
}
