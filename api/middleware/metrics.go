package middleware

import (
	"knitcraft_server/api/health"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chiware "github.com/go-chi/chi/v5/middleware"
)

// routeLabel is the chi pattern that matched, so /products/{slug} is one
// series no matter how many slugs exist.
func routeLabel(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}

// MetricsMiddleware records request counts, latency and in-flight requests.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		health.HttpInFlight.Inc()
		defer health.HttpInFlight.Dec()

		start := time.Now()
		ww := chiware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route, status := routeLabel(r), strconv.Itoa(ww.Status())
		health.HttpRequests.WithLabelValues(r.Method, route, status).Inc()
		health.HttpDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
	})
}
