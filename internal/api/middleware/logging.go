package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aicaremanager/backend/internal/infrastructure/observability"
)

const requestIDHeader = "X-Request-ID"

// Logging attaches a request-scoped zerolog logger to the context and logs
// each request when it completes.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		logger := observability.GetLogger().With().Str("request_id", requestID).Logger()
		ctx := logger.WithContext(r.Context())

		rw := newStatusRecorder(w)
		next.ServeHTTP(rw, r.WithContext(ctx))

		event := logger.Info()
		if rw.statusCode >= http.StatusInternalServerError {
			event = logger.Error()
		} else if rw.statusCode >= http.StatusBadRequest {
			event = logger.Warn()
		}
		event.
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rw.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
