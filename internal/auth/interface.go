package auth

import "showcase/internal/domain/models"

// TokenVerifier defines the interface for bearer token verification.
// The middleware depends only on this, not on the signing mode.
type TokenVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has a bad signature.
	VerifyToken(tokenString string) (*models.AccessClaims, error)

	// Close releases any resources held by the verifier (e.g., the JWKS refresh goroutine).
	Close() error
}
