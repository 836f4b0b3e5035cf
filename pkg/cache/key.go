package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// CacheKey identifies a cached response by endpoint and query parameters.
type CacheKey struct {
	// Endpoint is the API endpoint name (e.g., "thing", "collection")
	Endpoint string

	// Params are the query parameters sent with the request
	Params url.Values
}

// String generates a deterministic cache key string.
// Format: bgg:endpoint:param1=val1:param2=a,b
//
// Parameter names are sorted, and so are the values of a repeated parameter,
// so two requests with the same logical parameters share one key. Names and
// values are query-escaped, so a value containing ':', '=' or ',' cannot
// collide with a different parameter set.
//
// Example:
//
//	bgg:thing:id=31260:stats=1
func (k CacheKey) String() string {
	parts := []string{"bgg"}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.Params) > 0 {
		names := make([]string, 0, len(k.Params))
		for name := range k.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			values := make([]string, len(k.Params[name]))
			for i, v := range k.Params[name] {
				values[i] = url.QueryEscape(v)
			}
			sort.Strings(values)
			parts = append(parts, fmt.Sprintf("%s=%s", url.QueryEscape(name), strings.Join(values, ",")))
		}
	}

	return strings.Join(parts, ":")
}
