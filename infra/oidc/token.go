package oidc

import (
	"github.com/golang-jwt/jwt"

	"deskwise.io/infra/dwerr"
)

// StandardClaims is forked from golang-jwt/jwt.StandardClaims,
// except Audience is an array here per the actual spec:
//
//	In the general case, the "aud" value is an array of case-sensitive strings, each containing
//	a StringOrURI value.  In the special case when the JWT has one audience, the "aud" value MAY
//	be a single case-sensitive string containing a StringOrURI value.
//
// https://tools.ietf.org/html/rfc7519#section-4.1
type StandardClaims struct {
	Audience  []string `json:"aud,omitempty"`
	ExpiresAt int64    `json:"exp,omitempty"`
	ID        string   `json:"jti,omitempty"`
	IssuedAt  int64    `json:"iat,omitempty"`
	Issuer    string   `json:"iss,omitempty"`
	NotBefore int64    `json:"nbf,omitempty"`
	Subject   string   `json:"sub,omitempty"`
}

// Valid implements jwt.Claims interface
func (c StandardClaims) Valid() error {
	// Use the time validation logic from jwt.StandardClaims
	jwtClaims := jwt.StandardClaims{
		ExpiresAt: c.ExpiresAt,
		IssuedAt:  c.IssuedAt,
		Issuer:    c.Issuer,
		NotBefore: c.NotBefore,
	}
	return dwerr.Wrap(jwtClaims.Valid())
}

// TokenClaims represents the claims made by a token
type TokenClaims struct {
	StandardClaims

	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Valid implements jwt.Claims interface
func (t TokenClaims) Valid() error {
	return dwerr.Wrap(t.StandardClaims.Valid())
}

// TokenResponse is an OIDC-compliant response from a token endpoint.
// See https://datatracker.ietf.org/doc/html/rfc6749#section-5.1.
// ErrorType will be non-empty if error.
type TokenResponse struct {
	AccessToken  string `json:"access_token,omitempty"`
	TokenType    string `json:"token_type,omitempty"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int    `json:"expires_in,omitempty"`
	IDToken      string `json:"id_token,omitempty"`

	ErrorType string `json:"error,omitempty"`
	ErrorDesc string `json:"error_description,omitempty"`
}

// TokenSource is an interface for anything that can provide an access token
type TokenSource interface {
	GetToken() (string, error)
}
