package xmlapi

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/model"
)

type xmlLocation struct {
	Addr1           string `xml:"addr1"`
	Addr2           string `xml:"addr2"`
	City            string `xml:"city"`
	StateOrProvince string `xml:"stateorprovince"`
	PostalCode      string `xml:"postalcode"`
	Country         string `xml:"country"`
}

type xmlMember struct {
	Name string `xml:"name,attr"`
	Date string `xml:"date,attr"`
}

type xmlMembers struct {
	Count   string      `xml:"count,attr"`
	Page    string      `xml:"page,attr"`
	Members []xmlMember `xml:"member"`
}

type xmlGuild struct {
	ID          string       `xml:"id,attr"`
	Name        *string      `xml:"name,attr"`
	Created     string       `xml:"created,attr"`
	Error       *string      `xml:"error"`
	Category    string       `xml:"category"`
	Website     string       `xml:"website"`
	Manager     string       `xml:"manager"`
	Description string       `xml:"description"`
	Location    *xmlLocation `xml:"location"`
	Members     *xmlMembers  `xml:"members"`
}

// ParseGuild decodes one page of a guild response, members included when present.
func ParseGuild(data []byte) (*model.Guild, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}
	if root != "guild" {
		return nil, unexpectedRoot(data, root)
	}

	var doc xmlGuild
	if err := decode(data, &doc); err != nil {
		return nil, err
	}

	if doc.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, strings.TrimSpace(*doc.Error))
	}
	if doc.Name == nil {
		return nil, fmt.Errorf("%w: guild has no name", ErrNotFound)
	}

	id, err := requiredID("guild", doc.ID)
	if err != nil {
		return nil, err
	}

	g := &model.Guild{
		ID:          id,
		Name:        *doc.Name,
		Created:     doc.Created,
		Category:    text(doc.Category),
		Website:     strings.TrimSpace(doc.Website),
		Manager:     text(doc.Manager),
		Description: text(doc.Description),
	}

	if l := doc.Location; l != nil {
		g.Location = model.Location{
			Addr1:           text(l.Addr1),
			Addr2:           text(l.Addr2),
			City:            text(l.City),
			StateOrProvince: text(l.StateOrProvince),
			PostalCode:      text(l.PostalCode),
			Country:         text(l.Country),
		}
	}

	if m := doc.Members; m != nil {
		g.MemberCount = atoi(m.Count)
		for _, member := range m.Members {
			g.Members = append(g.Members, member.Name)
		}
	}

	return g, nil
}
