package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"showcase/internal/httputil"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// RequestIDHeader carries the request id in both directions
const RequestIDHeader = "X-Request-Id"

const maxIncomingRequestIDLength = 64

// RequestID tags each request with an id (reusing a sane incoming one) and
// writes one access log line when the request completes.
func RequestID(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxIncomingRequestIDLength {
				generated, err := gonanoid.New(12)
				if err != nil {
					logger.Warn("request id generation failed", "error", err)
				}
				id = generated
			}

			w.Header().Set(RequestIDHeader, id)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, httputil.WithRequestID(r, id))

			logger.Info("request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
