package model

// HotItem is an entry of a "hotness" list.
type HotItem struct {
	ID        int    `json:"id"`
	Rank      int    `json:"rank"`
	Name      string `json:"name"`
	Year      int    `json:"year,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// SearchResult is a search hit.
type SearchResult struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
	Year int    `json:"year,omitempty"`
}
