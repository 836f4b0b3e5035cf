package transport

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/Sternrassler/bgg-client/pkg/cache"
)

// Request describes one API call: an endpoint name and its query parameters.
// It is a value type; NewRequest copies the parameters so later changes by
// the caller do not leak into an in-flight request.
type Request struct {
	endpoint string
	params   url.Values
	method   string
}

// NewRequest builds a GET request for endpoint (e.g. "thing") with params.
func NewRequest(endpoint string, params url.Values) Request {
	return Request{
		endpoint: strings.Trim(endpoint, "/"),
		params:   cloneValues(params),
		method:   http.MethodGet,
	}
}

// Endpoint returns the endpoint name.
func (r Request) Endpoint() string { return r.endpoint }

// Method returns the HTTP method.
func (r Request) Method() string { return r.method }

// Params returns a copy of the query parameters.
func (r Request) Params() url.Values { return cloneValues(r.params) }

// CacheKey returns the deterministic key this request is cached under.
func (r Request) CacheKey() string {
	return cache.CacheKey{Endpoint: r.endpoint, Params: r.params}.String()
}

// URL joins the request onto base, e.g. https://boardgamegeek.com/xmlapi2.
func (r Request) URL(base string) string {
	u := strings.TrimRight(base, "/") + "/" + r.endpoint
	if len(r.params) > 0 {
		u += "?" + r.params.Encode()
	}
	return u
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for k, vs := range v {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
