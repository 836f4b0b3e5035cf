package model

// CollectionStatus flags how an item sits in a user's collection.
type CollectionStatus struct {
	Own              bool   `json:"own"`
	PrevOwned        bool   `json:"prev_owned"`
	ForTrade         bool   `json:"for_trade"`
	Want             bool   `json:"want"`
	WantToPlay       bool   `json:"want_to_play"`
	WantToBuy        bool   `json:"want_to_buy"`
	Wishlist         bool   `json:"wishlist"`
	WishlistPriority int    `json:"wishlist_priority,omitempty"`
	Preordered       bool   `json:"preordered"`
	LastModified     string `json:"last_modified,omitempty"`
}

// CollectionItem is one entry of a user's collection.
type CollectionItem struct {
	ID           int              `json:"id"`
	CollectionID int              `json:"collection_id"`
	Name         string           `json:"name"`
	Subtype      string           `json:"subtype"`
	Year         int              `json:"year"`
	Image        string           `json:"image,omitempty"`
	Thumbnail    string           `json:"thumbnail,omitempty"`
	NumPlays     int              `json:"num_plays"`
	Comment      string           `json:"comment,omitempty"`
	MinPlayers   int              `json:"min_players"`
	MaxPlayers   int              `json:"max_players"`
	MinPlayTime  int              `json:"min_play_time"`
	MaxPlayTime  int              `json:"max_play_time"`
	PlayingTime  int              `json:"playing_time"`
	Rating       *float64         `json:"rating,omitempty"`
	Stats        *Stats           `json:"stats,omitempty"`
	Status       CollectionStatus `json:"status"`
	Versions     []Version        `json:"versions,omitempty"`
}

// Collection is a user's collection.
type Collection struct {
	Owner      string           `json:"owner"`
	TotalItems int              `json:"total_items"`
	PubDate    string           `json:"pub_date,omitempty"`
	Items      []CollectionItem `json:"items"`
}
