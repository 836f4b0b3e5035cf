package model

// Player is one participant of a logged play.
type Player struct {
	Username      string `json:"username,omitempty"`
	UserID        int    `json:"user_id,omitempty"`
	Name          string `json:"name,omitempty"`
	StartPosition string `json:"start_position,omitempty"`
	Color         string `json:"color,omitempty"`
	Score         string `json:"score,omitempty"`
	New           bool   `json:"new"`
	Rating        string `json:"rating,omitempty"`
	Win           bool   `json:"win"`
}

// Play is one logged play session.
type Play struct {
	ID         int      `json:"id"`
	UserID     int      `json:"user_id,omitempty"`
	Date       string   `json:"date"`
	Quantity   int      `json:"quantity"`
	Duration   int      `json:"duration"`
	Incomplete bool     `json:"incomplete"`
	NoWinStats bool     `json:"no_win_stats"`
	Location   string   `json:"location,omitempty"`
	GameID     int      `json:"game_id"`
	GameName   string   `json:"game_name"`
	Subtypes   []string `json:"subtypes,omitempty"`
	Comment    string   `json:"comment,omitempty"`
	Players    []Player `json:"players,omitempty"`
}

// Plays is a play log for either a user or a game.
type Plays struct {
	Username string `json:"username,omitempty"`
	UserID   int    `json:"user_id,omitempty"`
	GameID   int    `json:"game_id,omitempty"`
	Total    int    `json:"total"`
	Plays    []Play `json:"plays"`
}
