package xmlapi

import (
	"github.com/Sternrassler/bgg-client/pkg/model"
)

type xmlSearchItem struct {
	Type          string    `xml:"type,attr"`
	ID            string    `xml:"id,attr"`
	Names         []xmlName `xml:"name"`
	YearPublished valueAttr `xml:"yearpublished"`
}

type xmlSearch struct {
	Total string          `xml:"total,attr"`
	Items []xmlSearchItem `xml:"item"`
}

// ParseSearch decodes a search response. No hits is an empty slice.
func ParseSearch(data []byte) ([]model.SearchResult, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}
	if root != "items" {
		return nil, unexpectedRoot(data, root)
	}

	var doc xmlSearch
	if err := decode(data, &doc); err != nil {
		return nil, err
	}

	results := make([]model.SearchResult, 0, len(doc.Items))
	for _, item := range doc.Items {
		id, err := requiredID("search result", item.ID)
		if err != nil {
			return nil, err
		}
		r := model.SearchResult{
			ID:   id,
			Type: item.Type,
			Year: item.YearPublished.Int(),
		}
		for _, n := range item.Names {
			if r.Name == "" || n.Type == "primary" {
				r.Name = n.Value
			}
		}
		results = append(results, r)
	}
	return results, nil
}
