package jsonclient

import (
	"net/http"
	"strings"

	"github.com/go-http-utils/headers"

	"deskwise.io/infra/dwerr"
)

// ExtractBearerToken extracts a bearer token from an HTTP header set or returns an error
// if none is found or if it's malformed.
// NOTE: this doesn't enforce that it's a JWT, much less a valid one.
func ExtractBearerToken(h *http.Header) (string, error) {
	bearerToken := h.Get(headers.Authorization)
	if bearerToken == "" {
		return "", dwerr.New("authorization header required")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(bearerToken, bearerPrefix) {
		return "", dwerr.New("authorization header requires bearer token")
	}

	bearerToken = strings.TrimPrefix(bearerToken, bearerPrefix)
	return bearerToken, nil
}
