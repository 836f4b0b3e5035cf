package xmlapi

import (
	"github.com/Sternrassler/bgg-client/pkg/model"
)

type xmlHotItem struct {
	ID            string    `xml:"id,attr"`
	Rank          string    `xml:"rank,attr"`
	Thumbnail     valueAttr `xml:"thumbnail"`
	Name          valueAttr `xml:"name"`
	YearPublished valueAttr `xml:"yearpublished"`
}

type xmlHotItems struct {
	Items []xmlHotItem `xml:"item"`
}

// ParseHotItems decodes a hot list response.
func ParseHotItems(data []byte) ([]model.HotItem, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}
	if root != "items" {
		return nil, unexpectedRoot(data, root)
	}

	var doc xmlHotItems
	if err := decode(data, &doc); err != nil {
		return nil, err
	}

	items := make([]model.HotItem, 0, len(doc.Items))
	for _, item := range doc.Items {
		id, err := requiredID("hot item", item.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, model.HotItem{
			ID:        id,
			Rank:      atoi(item.Rank),
			Name:      item.Name.String(),
			Year:      item.YearPublished.Int(),
			Thumbnail: item.Thumbnail.String(),
		})
	}
	return items, nil
}
