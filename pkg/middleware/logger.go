package middleware

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/pdm/pkg/logger"
	"github.com/shashiranjanraj/pdm/pkg/reqid"
)

// responseWriter wraps http.ResponseWriter to capture status and body size.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Logger logs one line per request: method, path, status, response size,
// duration, client IP, and the request_id injected by reqid.Middleware.
// The level follows the outcome: 5xx logs at error, 4xx at warn (a 404 on a
// product code or a 409 on a duplicate is a client-side event, not a server
// fault), everything else at info.
//
// Wire reqid.Middleware() BEFORE this middleware so the ID is available
// in the context when Logger runs.
//
//	r.Use(reqid.Middleware())
//	r.Use(middleware.Logger)
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Build a per-request logger pre-tagged with the request_id.
		// Every downstream call to logger.WithCtx(ctx) returns this logger.
		reqLog := logger.L.With("request_id", reqid.FromCtx(r.Context()))
		r = r.WithContext(logger.InjectLogger(r.Context(), reqLog))

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"bytes", rw.bytes,
			"duration", time.Since(start).String(),
			"ip", r.RemoteAddr,
		}
		switch {
		case rw.statusCode >= http.StatusInternalServerError:
			reqLog.Error("request", args...)
		case rw.statusCode >= http.StatusBadRequest:
			reqLog.Warn("request", args...)
		default:
			reqLog.Info("request", args...)
		}
	})
}
