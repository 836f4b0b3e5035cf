package xmlapi

import (
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/model"
)

type xmlCollRating struct {
	Value        string    `xml:"value,attr"`
	UsersRated   valueAttr `xml:"usersrated"`
	Average      valueAttr `xml:"average"`
	BayesAverage valueAttr `xml:"bayesaverage"`
	StdDev       valueAttr `xml:"stddev"`
	Median       valueAttr `xml:"median"`
	Ranks        []xmlRank `xml:"ranks>rank"`
}

type xmlCollStats struct {
	MinPlayers  string         `xml:"minplayers,attr"`
	MaxPlayers  string         `xml:"maxplayers,attr"`
	MinPlayTime string         `xml:"minplaytime,attr"`
	MaxPlayTime string         `xml:"maxplaytime,attr"`
	PlayingTime string         `xml:"playingtime,attr"`
	NumOwned    string         `xml:"numowned,attr"`
	Rating      *xmlCollRating `xml:"rating"`
}

type xmlCollStatus struct {
	Own              string `xml:"own,attr"`
	PrevOwned        string `xml:"prevowned,attr"`
	ForTrade         string `xml:"fortrade,attr"`
	Want             string `xml:"want,attr"`
	WantToPlay       string `xml:"wanttoplay,attr"`
	WantToBuy        string `xml:"wanttobuy,attr"`
	Wishlist         string `xml:"wishlist,attr"`
	WishlistPriority string `xml:"wishlistpriority,attr"`
	Preordered       string `xml:"preordered,attr"`
	LastModified     string `xml:"lastmodified,attr"`
}

type xmlCollItem struct {
	ObjectType    string         `xml:"objecttype,attr"`
	ObjectID      string         `xml:"objectid,attr"`
	Subtype       string         `xml:"subtype,attr"`
	CollID        string         `xml:"collid,attr"`
	Name          string         `xml:"name"`
	YearPublished string         `xml:"yearpublished"`
	Image         string         `xml:"image"`
	Thumbnail     string         `xml:"thumbnail"`
	NumPlays      string         `xml:"numplays"`
	Comment       string         `xml:"comment"`
	Stats         *xmlCollStats  `xml:"stats"`
	Status        *xmlCollStatus `xml:"status"`
	Version       *xmlVersion    `xml:"version>item"`
}

type xmlCollection struct {
	TotalItems string        `xml:"totalitems,attr"`
	PubDate    string        `xml:"pubdate,attr"`
	Items      []xmlCollItem `xml:"item"`
}

// ParseCollection decodes a collection response. Owner is left for the caller.
func ParseCollection(data []byte) (*model.Collection, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}
	if root != "items" {
		return nil, unexpectedRoot(data, root)
	}

	var doc xmlCollection
	if err := decode(data, &doc); err != nil {
		return nil, err
	}

	c := &model.Collection{
		TotalItems: atoi(doc.TotalItems),
		PubDate:    doc.PubDate,
		Items:      make([]model.CollectionItem, 0, len(doc.Items)),
	}

	for _, item := range doc.Items {
		ci, err := convertCollectionItem(item)
		if err != nil {
			return nil, err
		}
		c.Items = append(c.Items, ci)
	}
	return c, nil
}

func convertCollectionItem(item xmlCollItem) (model.CollectionItem, error) {
	id, err := requiredID("collection item", item.ObjectID)
	if err != nil {
		return model.CollectionItem{}, err
	}

	ci := model.CollectionItem{
		ID:           id,
		CollectionID: atoi(item.CollID),
		Name:         text(item.Name),
		Subtype:      item.Subtype,
		Year:         atoi(item.YearPublished),
		Image:        strings.TrimSpace(item.Image),
		Thumbnail:    strings.TrimSpace(item.Thumbnail),
		NumPlays:     atoi(item.NumPlays),
		Comment:      text(item.Comment),
	}

	if st := item.Stats; st != nil {
		ci.MinPlayers = atoi(st.MinPlayers)
		ci.MaxPlayers = atoi(st.MaxPlayers)
		ci.MinPlayTime = atoi(st.MinPlayTime)
		ci.MaxPlayTime = atoi(st.MaxPlayTime)
		ci.PlayingTime = atoi(st.PlayingTime)

		if r := st.Rating; r != nil {
			// The user's own rating is "N/A" when unrated.
			if v := strings.TrimSpace(r.Value); v != "" && !strings.EqualFold(v, "n/a") {
				rating := atof(v)
				ci.Rating = &rating
			}
			ci.Stats = &model.Stats{
				UsersRated:   r.UsersRated.Int(),
				Average:      r.Average.Float(),
				BayesAverage: r.BayesAverage.Float(),
				StdDev:       r.StdDev.Float(),
				Median:       r.Median.Float(),
				Owned:        atoi(st.NumOwned),
				Ranks:        convertRanks(r.Ranks),
			}
		}
	}

	if s := item.Status; s != nil {
		ci.Status = model.CollectionStatus{
			Own:              flag(s.Own),
			PrevOwned:        flag(s.PrevOwned),
			ForTrade:         flag(s.ForTrade),
			Want:             flag(s.Want),
			WantToPlay:       flag(s.WantToPlay),
			WantToBuy:        flag(s.WantToBuy),
			Wishlist:         flag(s.Wishlist),
			WishlistPriority: atoi(s.WishlistPriority),
			Preordered:       flag(s.Preordered),
			LastModified:     s.LastModified,
		}
	}

	if item.Version != nil && item.Version.Type == "boardgameversion" {
		ci.Versions = []model.Version{convertVersion(*item.Version)}
	}

	return ci, nil
}
