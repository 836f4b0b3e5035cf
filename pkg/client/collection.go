package client

import (
	"context"
	"net/url"
	"slices"
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/model"
	"github.com/Sternrassler/bgg-client/pkg/transport"
	"github.com/Sternrassler/bgg-client/pkg/xmlapi"
)

// CollectionSubtypes are the values accepted for CollectionOptions.Subtype
// and ExcludeSubtype.
var CollectionSubtypes = []string{
	"boardgame", "boardgameexpansion", "boardgameaccessory",
	"rpgitem", "rpgissue", "videogame",
}

// CollectionOptions narrows a collection request. Unset flags do not filter.
type CollectionOptions struct {
	Subtype        string
	ExcludeSubtype string

	Own        bool
	Rated      bool
	Played     bool
	Wishlist   bool
	WantToPlay bool
	ForTrade   bool
	Preordered bool

	// Versions includes the owned version of each item.
	Versions bool
}

func (o CollectionOptions) validate() error {
	for _, s := range []string{o.Subtype, o.ExcludeSubtype} {
		if s != "" && !slices.Contains(CollectionSubtypes, s) {
			return invalidArgument("unknown collection subtype %q", s)
		}
	}
	if o.Subtype != "" && o.Subtype == o.ExcludeSubtype {
		return invalidArgument("subtype %q is both included and excluded", o.Subtype)
	}
	return nil
}

func (o CollectionOptions) apply(params url.Values) {
	if o.Subtype != "" {
		params.Set("subtype", o.Subtype)
	}
	if o.ExcludeSubtype != "" {
		params.Set("excludesubtype", o.ExcludeSubtype)
	}

	flags := []struct {
		name string
		set  bool
	}{
		{"own", o.Own},
		{"rated", o.Rated},
		{"played", o.Played},
		{"wishlist", o.Wishlist},
		{"wanttoplay", o.WantToPlay},
		{"trade", o.ForTrade},
		{"preordered", o.Preordered},
		{"version", o.Versions},
	}
	for _, f := range flags {
		if f.set {
			params.Set(f.name, "1")
		}
	}
}

// Collection fetches a user's collection with statistics. BGG answers 202
// while it builds the export; the transport keeps polling with the
// configured retry delay until the export is ready or retries run out.
func (c *Client) Collection(ctx context.Context, username string, opts CollectionOptions) (*model.Collection, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalidArgument("username is required")
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("username", username)
	params.Set("stats", "1")
	opts.apply(params)

	data, err := c.fetch(ctx, transport.NewRequest(string(xmlapi.OpCollection), params))
	if err != nil {
		return nil, err
	}

	coll, err := parse(xmlapi.OpCollection, data, xmlapi.ParseCollection)
	if err != nil {
		return nil, err
	}
	coll.Owner = username
	return coll, nil
}
