package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"showcase/internal/domain"
	"showcase/internal/domain/models"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
)

// HMACVerifier verifies HS256 tokens signed with a shared secret.
type HMACVerifier struct {
	secret []byte
	logger *slog.Logger
}

// JWKSVerifier verifies RS256/ES256 tokens against a remote JWKS endpoint.
type JWKSVerifier struct {
	jwks   keyfunc.Keyfunc
	cancel context.CancelFunc
	logger *slog.Logger
}

// NewJWTVerifier picks the verification mode: a JWKS URL wins over a shared secret.
func NewJWTVerifier(secret, jwksURL string, logger *slog.Logger) (TokenVerifier, error) {
	switch {
	case jwksURL != "":
		return NewJWKSVerifier(jwksURL, logger)
	case secret != "":
		return NewHMACVerifier(secret, logger), nil
	default:
		return nil, errors.New("either a JWT secret or a JWKS URL is required")
	}
}

// NewHMACVerifier creates a verifier for tokens signed with secret
func NewHMACVerifier(secret string, logger *slog.Logger) *HMACVerifier {
	logger.Info("JWT verifier initialized", "mode", "HS256")
	return &HMACVerifier{secret: []byte(secret), logger: logger}
}

// NewJWKSVerifier creates a verifier that fetches public keys from jwksURL.
// keyfunc caches the keys and refreshes them in the background until Close.
func NewJWKSVerifier(jwksURL string, logger *slog.Logger) (*JWKSVerifier, error) {
	ctx, cancel := context.WithCancel(context.Background())
	jwks, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create JWKS client: %w", err)
	}

	logger.Info("JWT verifier initialized", "mode", "JWKS", "jwks_url", jwksURL)

	return &JWKSVerifier{jwks: jwks, cancel: cancel, logger: logger}, nil
}

func (v *HMACVerifier) VerifyToken(tokenString string) (*models.AccessClaims, error) {
	keyFn := func(*jwt.Token) (interface{}, error) { return v.secret, nil }
	return parseClaims(tokenString, keyFn, []string{"HS256"}, v.logger)
}

func (v *HMACVerifier) Close() error { return nil }

func (v *JWKSVerifier) VerifyToken(tokenString string) (*models.AccessClaims, error) {
	// Only asymmetric algorithms: prevents HS256 tokens keyed with a public key
	return parseClaims(tokenString, v.jwks.Keyfunc, []string{"RS256", "ES256"}, v.logger)
}

func (v *JWKSVerifier) Close() error {
	v.cancel()
	v.logger.Info("JWT verifier closed")
	return nil
}

func parseClaims(tokenString string, keyFn jwt.Keyfunc, methods []string, logger *slog.Logger) (*models.AccessClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AccessClaims{}, keyFn,
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		logger.Debug("token rejected", "error", err)
		return nil, fmt.Errorf("verify token: %w", domain.NewUnauthorized("invalid or expired token"))
	}

	claims, ok := token.Claims.(*models.AccessClaims)
	if !ok || !token.Valid {
		return nil, domain.NewUnauthorized("invalid or expired token")
	}

	if claims.GetUserID() == "" {
		logger.Debug("token missing subject claim")
		return nil, domain.NewUnauthorized("invalid or expired token")
	}

	return claims, nil
}
