package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"showcase/internal/domain"
	"showcase/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Anything unmapped is
// logged and reported as a generic 500 so store details never leak.
func handleError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var validationErr *domain.ValidationError
	var httpErr domain.HTTPError

	switch {
	case errors.As(err, &validationErr):
		httputil.RespondValidationError(w, validationErr.Message, validationErr.Details)
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrForbidden),
		errors.Is(err, domain.ErrConflict):
		if errors.As(err, &httpErr) {
			httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
			return
		}
		status, message := sentinelStatus(err)
		httputil.RespondError(w, status, message)
	default:
		logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.GetRequestID(r.Context()),
			"error", err,
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// sentinelStatus covers errors wrapped around a bare sentinel rather than a typed error.
func sentinelStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	default:
		return http.StatusConflict, "resource already exists"
	}
}
