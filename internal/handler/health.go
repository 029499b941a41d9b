package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"showcase/internal/httputil"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness endpoint
type HealthHandler struct {
	store  Pinger
	logger *slog.Logger
}

// NewHealthHandler creates a health handler. A nil store reports healthy.
func NewHealthHandler(store Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, logger: logger}
}

// Health reports service and store status
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.store.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", "error", err)
			httputil.RespondError(w, http.StatusServiceUnavailable, "store unavailable")
			return
		}
	}

	httputil.RespondSuccess(w, http.StatusOK, "ok", map[string]interface{}{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}
