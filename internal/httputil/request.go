package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"showcase/internal/config"
	"showcase/internal/domain"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is capped at config.MaxRequestBodyBytes; malformed or oversized
// bodies yield a domain validation error.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxRequestBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return domain.NewValidationError("request body too large",
				fmt.Sprintf("body: cannot exceed %d bytes", tooLarge.Limit))
		}
		return domain.NewValidationError("invalid JSON", err.Error())
	}

	return nil
}

// QueryInt reads an integer query parameter. A missing parameter yields
// fallback; a malformed one yields a validation error naming it.
func QueryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError("invalid query",
			fmt.Sprintf("%s: must be an integer", name))
	}
	return v, nil
}

// QueryList splits a comma-separated query parameter, dropping blanks.
func QueryList(r *http.Request, name string) []string {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
