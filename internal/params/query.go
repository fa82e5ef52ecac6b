package params

import (
	"net/url"
	"sort"
	"strings"
)

// BuildQuery builds a canonical query string for the given values, with the keys sorted.
// It differs from url.Values.Encode in that parameters with an empty value are encoded as "?key" instead of "?key=",
// and that only the first value of every key is kept.
func BuildQuery(v url.Values) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make([]string, 0, len(keys))
	for _, key := range keys {
		param := url.QueryEscape(key)
		if value := v.Get(key); value != "" {
			param += "=" + url.QueryEscape(value)
		}
		params = append(params, param)
	}

	if len(params) == 0 {
		return ""
	}

	return "?" + strings.Join(params, "&")
}
