package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims represents the JWT claims carried by an access token.
// Tokens minted by the account service put the user id in "id"; tokens from
// an external identity provider use the standard "sub" claim.
type AccessClaims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	UserIDClaim          string `json:"id,omitempty"`
}

// GetUserID returns the authenticated user id, preferring the subject claim.
func (c *AccessClaims) GetUserID() string {
	if c.Subject != "" {
		return c.Subject
	}
	return c.UserIDClaim
}
