package model

// User is a BGG account profile.
type User struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	FirstName        string `json:"first_name,omitempty"`
	LastName         string `json:"last_name,omitempty"`
	AvatarLink       string `json:"avatar_link,omitempty"`
	YearRegistered   int    `json:"year_registered,omitempty"`
	LastLogin        string `json:"last_login,omitempty"`
	StateOrProvince  string `json:"state_or_province,omitempty"`
	Country          string `json:"country,omitempty"`
	WebAddress       string `json:"web_address,omitempty"`
	XboxAccount      string `json:"xbox_account,omitempty"`
	WiiAccount       string `json:"wii_account,omitempty"`
	PSNAccount       string `json:"psn_account,omitempty"`
	BattlenetAccount string `json:"battlenet_account,omitempty"`
	SteamAccount     string `json:"steam_account,omitempty"`
	TradeRating      int    `json:"trade_rating"`
	TotalBuddies     int    `json:"total_buddies"`
	TotalGuilds      int    `json:"total_guilds"`
	Buddies          []Link `json:"buddies,omitempty"`
	Guilds           []Link `json:"guilds,omitempty"`
}
