package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"showcase/internal/httputil"
)

// Recovery turns a handler panic into a logged error and a 500 envelope.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
// When the handler already started the response, only the log line is kept.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &writeTracker{ResponseWriter: w}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				err := panicError(rec)
				if errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.Error("handler panicked",
					"error", err,
					"request_id", httputil.GetRequestID(r.Context()),
					"method", r.Method,
					"path", r.URL.Path,
					"response_started", tw.started,
					"stack", string(debug.Stack()),
				)

				if tw.started {
					return
				}
				httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
			}()

			next.ServeHTTP(tw, r)
		})
	}
}

func panicError(rec interface{}) error {
	if err, ok := rec.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", rec)
}

// writeTracker records whether the wrapped handler has sent headers.
type writeTracker struct {
	http.ResponseWriter
	started bool
}

func (t *writeTracker) WriteHeader(code int) {
	t.started = true
	t.ResponseWriter.WriteHeader(code)
}

func (t *writeTracker) Write(b []byte) (int, error) {
	t.started = true
	return t.ResponseWriter.Write(b)
}
