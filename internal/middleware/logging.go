// internal/middleware/logging.go
//
// Access logging and status metrics.
//
// Every request produces one INFO line on the global zap logger (method,
// path, status, bytes, duration, and chi’s request ID) and bumps
// `http_requests_total{code}`.  Mount it after chi’s RequestID and RealIP so
// the ID and client address are present.
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/AdeptTravel/adept-contact/internal/metrics"
)

// AccessLog logs and counts every response.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.HTTPRequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
			zap.S().Infow("http request",
				"req_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"ip", r.RemoteAddr,
				"status", status,
				"bytes", ww.BytesWritten(),
				"dur_ms", time.Since(start).Milliseconds(),
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
