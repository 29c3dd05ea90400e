package middleware

import (
	"net/http"
	"time"

	"github.com/lorrc/cw-dashboard/internal/infrastructure/metrics"
)

// Metrics returns a middleware recording per-endpoint request counts and
// durations.
func Metrics(recorder metrics.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := newResponseWriter(w)

			next.ServeHTTP(wrapped, r)

			endpoint := r.URL.Path
			recorder.IncRequestsTotal(endpoint, wrapped.statusCode)
			recorder.ObserveRequestDuration(endpoint, time.Since(start))
		})
	}
}
