package oidc

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-http-utils/headers"

	"deskwise.io/infra/dwerr"
)

// ClientCredentialsTokenSource encapsulates parameters required to issue a Client Credentials OIDC request and return a token
type ClientCredentialsTokenSource struct {
	TokenURL        string   `json:"token_url"`
	ClientID        string   `json:"client_id"`
	ClientSecret    string   `json:"client_secret"`
	CustomAudiences []string `json:"custom_audiences"`
}

// GetToken issues a request to an OIDC-compliant token endpoint to perform
// the Client Credentials flow in exchange for an access token.
func (ccts ClientCredentialsTokenSource) GetToken() (string, error) {
	query := url.Values{}
	query.Add("grant_type", "client_credentials")
	query.Add("client_id", ccts.ClientID)
	query.Add("client_secret", ccts.ClientSecret)
	for _, aud := range ccts.CustomAudiences {
		query.Add("audience", aud)
	}
	req, err := http.NewRequest(http.MethodPost, ccts.TokenURL, strings.NewReader(query.Encode()))
	if err != nil {
		return "", dwerr.Wrap(err)
	}
	req.Header.Add(headers.ContentType, "application/x-www-form-urlencoded")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", dwerr.Wrap(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", dwerr.Errorf("unexpected response from token endpoint %v: %v. Failed to read response body: %v", req.URL, resp.Status, err)
		}
		return "", dwerr.Errorf("unexpected response from token endpoint %v: %v: %v", req.URL, resp.Status, string(body))
	}
	var tresp TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tresp); err != nil {
		return "", dwerr.Wrap(err)
	}
	if tresp.ErrorType != "" {
		return "", dwerr.Errorf("token endpoint returned error '%s': %s", tresp.ErrorType, tresp.ErrorDesc)
	}
	return tresp.AccessToken, nil
}
