package dwjwt

import (
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"

	"deskwise.io/infra/dwerr"
	"deskwise.io/infra/oidc"
)

// ParseClaimsUnverified extracts the claims from a token without validating
// its signature or anything else.
func ParseClaimsUnverified(token string) (*oidc.TokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) < 2 {
		return nil, dwerr.Errorf("malformed jwt, expected 3 parts got %d", len(parts))
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, dwerr.Errorf("malformed jwt payload: %v", err)
	}
	var claims oidc.TokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, dwerr.Errorf("failed to unmarshal claims: %v", err)
	}

	return &claims, nil
}

// ParseClaimsVerified extracts the claims from a token and verifies the signature, expiration, etc.
func ParseClaimsVerified(token string, key *rsa.PublicKey) (*oidc.TokenClaims, error) {
	var claims oidc.TokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	})
	return &claims, dwerr.Wrap(err)
}

// IsExpired returns `true, nil` if the supplied JWT has valid claims and is expired,
// `false, nil` if it has valid claims and is unexpired, and `true, err` if the claims
// aren't parseable.
// NOTE: It does NOT validate the token's signature!
func IsExpired(token string) (bool, error) {
	claims, err := ParseClaimsUnverified(token)
	if err != nil {
		return true, dwerr.Wrap(err)
	}
	return time.Now().UTC().After(time.Unix(claims.ExpiresAt, 0).UTC()), nil
}
