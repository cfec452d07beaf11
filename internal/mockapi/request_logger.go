package mockapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/voatnetwork/voat/internal/logging"
)

// RequestLogger logs one line per request with status, size and latency.
// The per-request logger is stored in the context for handlers.
func RequestLogger(base logging.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			log := base.With(
				"component", "http",
				"request_id", middleware.GetReqID(r.Context()),
				"remote_ip", r.RemoteAddr,
				"request_method", r.Method,
				"request_uri", r.RequestURI,
			)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			r = r.WithContext(logging.WithContext(r.Context(), log))

			start := time.Now()
			next.ServeHTTP(ww, r)

			status := ww.Status()
			logFn := log.Info
			switch {
			case status >= 500:
				logFn = log.Error
			case status >= 400:
				logFn = log.Warn
			}
			logFn(r.Context(), "request completed",
				"status", status,
				"bytes", ww.BytesWritten(),
				"latency", time.Since(start))
		}
		return http.HandlerFunc(fn)
	}
}
