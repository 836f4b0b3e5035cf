package xmlapi

import (
	"fmt"

	"github.com/Sternrassler/bgg-client/pkg/model"
)

type xmlPlayer struct {
	Username      string `xml:"username,attr"`
	UserID        string `xml:"userid,attr"`
	Name          string `xml:"name,attr"`
	StartPosition string `xml:"startposition,attr"`
	Color         string `xml:"color,attr"`
	Score         string `xml:"score,attr"`
	New           string `xml:"new,attr"`
	Rating        string `xml:"rating,attr"`
	Win           string `xml:"win,attr"`
}

type xmlPlayItem struct {
	Name       string      `xml:"name,attr"`
	ObjectType string      `xml:"objecttype,attr"`
	ObjectID   string      `xml:"objectid,attr"`
	Subtypes   []valueAttr `xml:"subtypes>subtype"`
}

type xmlPlay struct {
	ID         string      `xml:"id,attr"`
	UserID     string      `xml:"userid,attr"`
	Date       string      `xml:"date,attr"`
	Quantity   string      `xml:"quantity,attr"`
	Length     string      `xml:"length,attr"`
	Incomplete string      `xml:"incomplete,attr"`
	NoWinStats string      `xml:"nowinstats,attr"`
	Location   string      `xml:"location,attr"`
	Item       xmlPlayItem `xml:"item"`
	Comments   string      `xml:"comments"`
	Players    []xmlPlayer `xml:"players>player"`
}

type xmlPlays struct {
	Username string    `xml:"username,attr"`
	UserID   string    `xml:"userid,attr"`
	Total    *string   `xml:"total,attr"`
	Page     string    `xml:"page,attr"`
	Plays    []xmlPlay `xml:"play"`
}

// ParsePlays decodes one page of a plays response.
// A document without a total attribute is how the API reports an unknown user or game.
func ParsePlays(data []byte) (*model.Plays, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}
	if root != "plays" {
		return nil, unexpectedRoot(data, root)
	}

	var doc xmlPlays
	if err := decode(data, &doc); err != nil {
		return nil, err
	}
	if doc.Total == nil {
		return nil, fmt.Errorf("%w: plays document has no total", ErrNotFound)
	}

	p := &model.Plays{
		Username: doc.Username,
		UserID:   atoi(doc.UserID),
		Total:    atoi(*doc.Total),
		Plays:    make([]model.Play, 0, len(doc.Plays)),
	}

	for _, play := range doc.Plays {
		id, err := requiredID("play", play.ID)
		if err != nil {
			return nil, err
		}

		out := model.Play{
			ID:         id,
			UserID:     atoi(play.UserID),
			Date:       play.Date,
			Quantity:   atoi(play.Quantity),
			Duration:   atoi(play.Length),
			Incomplete: flag(play.Incomplete),
			NoWinStats: flag(play.NoWinStats),
			Location:   text(play.Location),
			GameID:     atoi(play.Item.ObjectID),
			GameName:   play.Item.Name,
			Comment:    text(play.Comments),
		}
		for _, st := range play.Item.Subtypes {
			out.Subtypes = append(out.Subtypes, st.String())
		}
		for _, pl := range play.Players {
			out.Players = append(out.Players, model.Player{
				Username:      pl.Username,
				UserID:        atoi(pl.UserID),
				Name:          pl.Name,
				StartPosition: pl.StartPosition,
				Color:         pl.Color,
				Score:         pl.Score,
				New:           flag(pl.New),
				Rating:        pl.Rating,
				Win:           flag(pl.Win),
			})
		}
		p.Plays = append(p.Plays, out)
	}

	return p, nil
}
