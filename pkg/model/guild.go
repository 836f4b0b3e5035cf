package model

// Location is a postal address.
type Location struct {
	Addr1           string `json:"addr1,omitempty"`
	Addr2           string `json:"addr2,omitempty"`
	City            string `json:"city,omitempty"`
	StateOrProvince string `json:"state_or_province,omitempty"`
	PostalCode      string `json:"postal_code,omitempty"`
	Country         string `json:"country,omitempty"`
}

// Guild is a BGG user group.
type Guild struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Created     string   `json:"created,omitempty"`
	Category    string   `json:"category,omitempty"`
	Website     string   `json:"website,omitempty"`
	Manager     string   `json:"manager,omitempty"`
	Description string   `json:"description,omitempty"`
	Location    Location `json:"location"`
	MemberCount int      `json:"member_count"`
	Members     []string `json:"members,omitempty"`
}
