package middleware

import (
	"net/http"
	"time"

	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// Metrics records request count, duration and in-flight requests, labelled
// by chi route pattern.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			m.HTTPInFlight.Inc()
			defer m.HTTPInFlight.Dec()

			wrapped := newStatusRecorder(w)
			next.ServeHTTP(wrapped, r)

			m.ObserveHTTP(r.Method, routePattern(r), wrapped.statusCode, time.Since(start))
		})
	}
}
