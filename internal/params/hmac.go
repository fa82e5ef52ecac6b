package params

import (
	"net/http"
	"net/url"

	"github.com/DMarby/image-pipeline/internal/hmac"
)

// HMAC signs a URL path and query params, returning the path and query with the hmac param appended
func HMAC(h *hmac.HMAC, path string, query url.Values) (string, error) {
	signed := url.Values{}
	for key, values := range query {
		if key != "hmac" {
			signed[key] = values
		}
	}

	mac, err := h.Create(path + BuildQuery(signed))
	if err != nil {
		return "", err
	}

	signed.Set("hmac", mac)
	return path + BuildQuery(signed), nil
}

// ValidateHMAC validates the URL path and query params of a request against the hmac query param
func ValidateHMAC(h *hmac.HMAC, r *http.Request) (bool, error) {
	query := r.URL.Query()

	mac := query.Get("hmac")
	if mac == "" {
		return false, nil
	}
	query.Del("hmac")

	return h.Validate(r.URL.Path+BuildQuery(query), mac)
}
