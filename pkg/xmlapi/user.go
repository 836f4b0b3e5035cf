package xmlapi

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/model"
)

type xmlRef struct {
	ID   string `xml:"id,attr"`
	Name string `xml:"name,attr"`
}

type xmlRefList struct {
	Total string   `xml:"total,attr"`
	Page  string   `xml:"page,attr"`
	Refs  []xmlRef `xml:",any"`
}

type xmlUser struct {
	ID               string      `xml:"id,attr"`
	Name             string      `xml:"name,attr"`
	FirstName        valueAttr   `xml:"firstname"`
	LastName         valueAttr   `xml:"lastname"`
	AvatarLink       valueAttr   `xml:"avatarlink"`
	YearRegistered   valueAttr   `xml:"yearregistered"`
	LastLogin        valueAttr   `xml:"lastlogin"`
	StateOrProvince  valueAttr   `xml:"stateorprovince"`
	Country          valueAttr   `xml:"country"`
	WebAddress       valueAttr   `xml:"webaddress"`
	XboxAccount      valueAttr   `xml:"xboxaccount"`
	WiiAccount       valueAttr   `xml:"wiiaccount"`
	PSNAccount       valueAttr   `xml:"psnaccount"`
	BattlenetAccount valueAttr   `xml:"battlenetaccount"`
	SteamAccount     valueAttr   `xml:"steamaccount"`
	TradeRating      valueAttr   `xml:"traderating"`
	Buddies          *xmlRefList `xml:"buddies"`
	Guilds           *xmlRefList `xml:"guilds"`
}

// ParseUser decodes one page of a user response, buddies and guilds included when present.
func ParseUser(data []byte) (*model.User, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}
	if root != "user" {
		return nil, unexpectedRoot(data, root)
	}

	var doc xmlUser
	if err := decode(data, &doc); err != nil {
		return nil, err
	}

	// Unknown users come back as <user id="" name="">.
	if strings.TrimSpace(doc.ID) == "" {
		return nil, fmt.Errorf("%w: unknown user", ErrNotFound)
	}
	id, err := requiredID("user", doc.ID)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		ID:               id,
		Name:             doc.Name,
		FirstName:        doc.FirstName.String(),
		LastName:         doc.LastName.String(),
		AvatarLink:       doc.AvatarLink.String(),
		YearRegistered:   doc.YearRegistered.Int(),
		LastLogin:        doc.LastLogin.String(),
		StateOrProvince:  doc.StateOrProvince.String(),
		Country:          doc.Country.String(),
		WebAddress:       doc.WebAddress.String(),
		XboxAccount:      doc.XboxAccount.String(),
		WiiAccount:       doc.WiiAccount.String(),
		PSNAccount:       doc.PSNAccount.String(),
		BattlenetAccount: doc.BattlenetAccount.String(),
		SteamAccount:     doc.SteamAccount.String(),
		TradeRating:      doc.TradeRating.Int(),
	}
	if u.AvatarLink == "N/A" {
		u.AvatarLink = ""
	}

	if b := doc.Buddies; b != nil {
		u.TotalBuddies = atoi(b.Total)
		u.Buddies = convertRefs(b.Refs)
	}
	if g := doc.Guilds; g != nil {
		u.TotalGuilds = atoi(g.Total)
		u.Guilds = convertRefs(g.Refs)
	}

	return u, nil
}

func convertRefs(refs []xmlRef) []model.Link {
	out := make([]model.Link, 0, len(refs))
	for _, r := range refs {
		out = append(out, model.Link{ID: atoi(r.ID), Name: r.Name})
	}
	return out
}
