package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"showcase/internal/auth"
	"showcase/internal/domain"
	"showcase/internal/httputil"
)

// RequireAuth rejects requests without a valid bearer token and stores the
// caller's user id in the request context.
func RequireAuth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httputil.RespondError(w, http.StatusUnauthorized, "access denied: no token provided")
				return
			}

			userID, err := verify(verifier, token)
			if err != nil {
				logger.Debug("authentication failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, unauthorizedMessage(err))
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}

// OptionalAuth lets anonymous requests through. A present but invalid token
// is still rejected so callers learn their credential is bad.
func OptionalAuth(verifier auth.TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verify(verifier, token)
			if err != nil {
				logger.Debug("optional authentication failed", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, unauthorizedMessage(err))
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}

func verify(verifier auth.TokenVerifier, token string) (string, error) {
	claims, err := verifier.VerifyToken(token)
	if err != nil {
		return "", err
	}
	return claims.GetUserID(), nil
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorizedMessage(err error) string {
	var authErr *domain.UnauthorizedError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return "invalid or expired token"
}
