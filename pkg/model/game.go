package model

// Link is a named reference to another BGG entity (category, designer, expansion, ...).
type Link struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Rank is a position in one of the BGG rankings. Value is nil for "Not Ranked".
type Rank struct {
	ID           int     `json:"id"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	FriendlyName string  `json:"friendly_name"`
	Value        *int    `json:"value,omitempty"`
	BayesAverage float64 `json:"bayes_average"`
}

// Stats are community rating statistics.
type Stats struct {
	UsersRated    int     `json:"users_rated"`
	Average       float64 `json:"average"`
	BayesAverage  float64 `json:"bayes_average"`
	StdDev        float64 `json:"stddev"`
	Median        float64 `json:"median"`
	Owned         int     `json:"owned"`
	Trading       int     `json:"trading"`
	Wanting       int     `json:"wanting"`
	Wishing       int     `json:"wishing"`
	NumComments   int     `json:"num_comments"`
	NumWeights    int     `json:"num_weights"`
	AverageWeight float64 `json:"average_weight"`
	Ranks         []Rank  `json:"ranks,omitempty"`
}

// BoardGameRank returns the overall board game rank, or nil if unranked.
func (s Stats) BoardGameRank() *int {
	for _, r := range s.Ranks {
		if r.Name == "boardgame" {
			return r.Value
		}
	}
	return nil
}

// Video is a video linked from a game page.
type Video struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Language   string `json:"language"`
	Link       string `json:"link"`
	Uploader   string `json:"uploader"`
	UploaderID int    `json:"uploader_id"`
	PostDate   string `json:"post_date"`
}

// Version is a published edition of a game.
type Version struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	ProductCode string  `json:"product_code,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Length      float64 `json:"length,omitempty"`
	Depth       float64 `json:"depth,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	Publishers  []Link  `json:"publishers,omitempty"`
	Artists     []Link  `json:"artists,omitempty"`
	Languages   []Link  `json:"languages,omitempty"`
}

// Game is a board game or expansion as returned by the thing endpoint.
type Game struct {
	ID               int       `json:"id"`
	Name             string    `json:"name"`
	AlternativeNames []string  `json:"alternative_names,omitempty"`
	Type             string    `json:"type"`
	Expansion        bool      `json:"expansion"`
	Thumbnail        string    `json:"thumbnail,omitempty"`
	Image            string    `json:"image,omitempty"`
	Description      string    `json:"description,omitempty"`
	Year             int       `json:"year"`
	MinPlayers       int       `json:"min_players"`
	MaxPlayers       int       `json:"max_players"`
	PlayingTime      int       `json:"playing_time"`
	MinPlayTime      int       `json:"min_play_time"`
	MaxPlayTime      int       `json:"max_play_time"`
	MinAge           int       `json:"min_age"`
	Categories       []Link    `json:"categories,omitempty"`
	Mechanics        []Link    `json:"mechanics,omitempty"`
	Families         []Link    `json:"families,omitempty"`
	Designers        []Link    `json:"designers,omitempty"`
	Artists          []Link    `json:"artists,omitempty"`
	Publishers       []Link    `json:"publishers,omitempty"`
	Implementations  []Link    `json:"implementations,omitempty"`
	Expansions       []Link    `json:"expansions,omitempty"`
	Expands          []Link    `json:"expands,omitempty"`
	Videos           []Video   `json:"videos,omitempty"`
	Versions         []Version `json:"versions,omitempty"`
	Stats            *Stats    `json:"stats,omitempty"`
}
