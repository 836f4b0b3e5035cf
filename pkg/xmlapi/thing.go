package xmlapi

import (
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/model"
)

type xmlName struct {
	Type  string `xml:"type,attr"`
	Value string `xml:"value,attr"`
}

type xmlLink struct {
	Type    string `xml:"type,attr"`
	ID      string `xml:"id,attr"`
	Value   string `xml:"value,attr"`
	Inbound string `xml:"inbound,attr"`
}

type xmlRank struct {
	Type         string `xml:"type,attr"`
	ID           string `xml:"id,attr"`
	Name         string `xml:"name,attr"`
	FriendlyName string `xml:"friendlyname,attr"`
	Value        string `xml:"value,attr"`
	BayesAverage string `xml:"bayesaverage,attr"`
}

type xmlRatings struct {
	UsersRated    valueAttr `xml:"usersrated"`
	Average       valueAttr `xml:"average"`
	BayesAverage  valueAttr `xml:"bayesaverage"`
	StdDev        valueAttr `xml:"stddev"`
	Median        valueAttr `xml:"median"`
	Owned         valueAttr `xml:"owned"`
	Trading       valueAttr `xml:"trading"`
	Wanting       valueAttr `xml:"wanting"`
	Wishing       valueAttr `xml:"wishing"`
	NumComments   valueAttr `xml:"numcomments"`
	NumWeights    valueAttr `xml:"numweights"`
	AverageWeight valueAttr `xml:"averageweight"`
	Ranks         []xmlRank `xml:"ranks>rank"`
}

type xmlVideo struct {
	ID       string `xml:"id,attr"`
	Title    string `xml:"title,attr"`
	Category string `xml:"category,attr"`
	Language string `xml:"language,attr"`
	Link     string `xml:"link,attr"`
	Username string `xml:"username,attr"`
	UserID   string `xml:"userid,attr"`
	PostDate string `xml:"postdate,attr"`
}

type xmlVersion struct {
	Type          string    `xml:"type,attr"`
	ID            string    `xml:"id,attr"`
	Names         []xmlName `xml:"name"`
	YearPublished valueAttr `xml:"yearpublished"`
	ProductCode   valueAttr `xml:"productcode"`
	Width         valueAttr `xml:"width"`
	Length        valueAttr `xml:"length"`
	Depth         valueAttr `xml:"depth"`
	Weight        valueAttr `xml:"weight"`
	Links         []xmlLink `xml:"link"`
}

type xmlThing struct {
	Type          string       `xml:"type,attr"`
	ID            string       `xml:"id,attr"`
	Thumbnail     string       `xml:"thumbnail"`
	Image         string       `xml:"image"`
	Names         []xmlName    `xml:"name"`
	Description   string       `xml:"description"`
	YearPublished valueAttr    `xml:"yearpublished"`
	MinPlayers    valueAttr    `xml:"minplayers"`
	MaxPlayers    valueAttr    `xml:"maxplayers"`
	PlayingTime   valueAttr    `xml:"playingtime"`
	MinPlayTime   valueAttr    `xml:"minplaytime"`
	MaxPlayTime   valueAttr    `xml:"maxplaytime"`
	MinAge        valueAttr    `xml:"minage"`
	Links         []xmlLink    `xml:"link"`
	Videos        []xmlVideo   `xml:"videos>video"`
	Versions      []xmlVersion `xml:"versions>item"`
	Ratings       *xmlRatings  `xml:"statistics>ratings"`
}

type xmlThings struct {
	Items []xmlThing `xml:"item"`
}

// ParseGames decodes a thing response. An empty item list is not an error;
// callers asking for a single id decide whether that means not found.
func ParseGames(data []byte) ([]model.Game, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}
	if root != "items" {
		return nil, unexpectedRoot(data, root)
	}

	var doc xmlThings
	if err := decode(data, &doc); err != nil {
		return nil, err
	}

	games := make([]model.Game, 0, len(doc.Items))
	for _, item := range doc.Items {
		g, err := convertThing(item)
		if err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, nil
}

func convertThing(item xmlThing) (model.Game, error) {
	id, err := requiredID("thing", item.ID)
	if err != nil {
		return model.Game{}, err
	}

	g := model.Game{
		ID:          id,
		Type:        item.Type,
		Expansion:   item.Type == "boardgameexpansion",
		Thumbnail:   strings.TrimSpace(item.Thumbnail),
		Image:       strings.TrimSpace(item.Image),
		Description: text(item.Description),
		Year:        item.YearPublished.Int(),
		MinPlayers:  item.MinPlayers.Int(),
		MaxPlayers:  item.MaxPlayers.Int(),
		PlayingTime: item.PlayingTime.Int(),
		MinPlayTime: item.MinPlayTime.Int(),
		MaxPlayTime: item.MaxPlayTime.Int(),
		MinAge:      item.MinAge.Int(),
	}

	for _, n := range item.Names {
		switch n.Type {
		case "primary":
			g.Name = n.Value
		case "alternate":
			g.AlternativeNames = append(g.AlternativeNames, n.Value)
		}
	}

	for _, l := range item.Links {
		link := model.Link{ID: atoi(l.ID), Name: l.Value}
		switch l.Type {
		case "boardgamecategory":
			g.Categories = append(g.Categories, link)
		case "boardgamemechanic":
			g.Mechanics = append(g.Mechanics, link)
		case "boardgamefamily":
			g.Families = append(g.Families, link)
		case "boardgamedesigner":
			g.Designers = append(g.Designers, link)
		case "boardgameartist":
			g.Artists = append(g.Artists, link)
		case "boardgamepublisher":
			g.Publishers = append(g.Publishers, link)
		case "boardgameimplementation":
			g.Implementations = append(g.Implementations, link)
		case "boardgameexpansion":
			if strings.HasPrefix(strings.ToLower(l.Inbound), "t") {
				g.Expands = append(g.Expands, link)
			} else {
				g.Expansions = append(g.Expansions, link)
			}
		}
	}

	for _, v := range item.Videos {
		g.Videos = append(g.Videos, model.Video{
			ID:         atoi(v.ID),
			Title:      v.Title,
			Category:   v.Category,
			Language:   v.Language,
			Link:       v.Link,
			Uploader:   v.Username,
			UploaderID: atoi(v.UserID),
			PostDate:   v.PostDate,
		})
	}

	for _, v := range item.Versions {
		if v.Type != "boardgameversion" {
			continue
		}
		g.Versions = append(g.Versions, convertVersion(v))
	}

	if item.Ratings != nil {
		g.Stats = convertRatings(item.Ratings)
	}

	return g, nil
}

func convertVersion(v xmlVersion) model.Version {
	out := model.Version{
		ID:          atoi(v.ID),
		Year:        v.YearPublished.Int(),
		ProductCode: v.ProductCode.String(),
		Width:       v.Width.Float(),
		Length:      v.Length.Float(),
		Depth:       v.Depth.Float(),
		Weight:      v.Weight.Float(),
	}
	for _, n := range v.Names {
		if n.Type == "primary" {
			out.Name = n.Value
		}
	}
	for _, l := range v.Links {
		link := model.Link{ID: atoi(l.ID), Name: l.Value}
		switch l.Type {
		case "boardgamepublisher":
			out.Publishers = append(out.Publishers, link)
		case "boardgameartist":
			out.Artists = append(out.Artists, link)
		case "language":
			out.Languages = append(out.Languages, link)
		}
	}
	return out
}

func convertRatings(r *xmlRatings) *model.Stats {
	s := &model.Stats{
		UsersRated:    r.UsersRated.Int(),
		Average:       r.Average.Float(),
		BayesAverage:  r.BayesAverage.Float(),
		StdDev:        r.StdDev.Float(),
		Median:        r.Median.Float(),
		Owned:         r.Owned.Int(),
		Trading:       r.Trading.Int(),
		Wanting:       r.Wanting.Int(),
		Wishing:       r.Wishing.Int(),
		NumComments:   r.NumComments.Int(),
		NumWeights:    r.NumWeights.Int(),
		AverageWeight: r.AverageWeight.Float(),
	}
	s.Ranks = convertRanks(r.Ranks)
	return s
}

func convertRanks(ranks []xmlRank) []model.Rank {
	var out []model.Rank
	for _, r := range ranks {
		rank := model.Rank{
			ID:           atoi(r.ID),
			Type:         r.Type,
			Name:         r.Name,
			FriendlyName: r.FriendlyName,
			BayesAverage: atof(r.BayesAverage),
		}
		// "Not Ranked" leaves Value nil.
		if n, err := requiredID("rank", r.Value); err == nil {
			rank.Value = &n
		}
		out = append(out, rank)
	}
	return out
}
