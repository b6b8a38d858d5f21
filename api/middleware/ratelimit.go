package middleware

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/MonkyMars/gecho"
)

// getRateLimitForEndpoint picks the limit bucket for a request.
func (mw *Middleware) getRateLimitForEndpoint(path, method string) (string, int) {
	cfg := mw.cfg.RateLimit

	if method == http.MethodPost {
		switch {
		case path == "/checkout":
			return "checkout", cfg.CheckoutLimit
		case path == "/auth/login", path == "/auth/register", path == "/auth/refresh":
			return "auth", cfg.AuthLimit
		case path == "/reviews", path == "/bespoke", path == "/contact":
			return "submission", cfg.SubmissionLimit
		}
	}
	return "default", cfg.DefaultLimit
}

// getClientIP returns the client address, trusting at most TrustedProxyHops
// entries of X-Forwarded-For counted from the right.
func (mw *Middleware) getClientIP(r *http.Request) string {
	if hops := mw.cfg.RateLimit.TrustedProxyHops; hops > 0 {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			idx := max(len(ips)-hops, 0)
			if ip := strings.TrimSpace(ips[idx]); ip != "" {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware counts requests per client and bucket in redis.
// Cache errors fail open.
func (mw *Middleware) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !mw.cfg.RateLimit.Enabled || strings.HasPrefix(r.URL.Path, "/health") || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			clientIP := mw.getClientIP(r)
			bucket, limit := mw.getRateLimitForEndpoint(r.URL.Path, r.Method)
			window := mw.cfg.RateLimit.Window

			count, err := mw.cacheService.IncrementRateLimit(clientIP, bucket, window)
			if err != nil {
				mw.logger.Warn("Rate limit cache error, allowing request",
					gecho.Field("error", err),
					gecho.Field("ip", clientIP),
					gecho.Field("bucket", bucket),
				)
				next.ServeHTTP(w, r)
				return
			}

			reset := fmt.Sprintf("%d", time.Now().Add(window).Unix())
			if count > limit {
				mw.logger.Warn("Rate limit exceeded",
					gecho.Field("ip", clientIP),
					gecho.Field("bucket", bucket),
					gecho.Field("count", count),
					gecho.Field("limit", limit),
				)

				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
				w.Header().Set("X-RateLimit-Remaining", "0")
				w.Header().Set("X-RateLimit-Reset", reset)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				gecho.TooManyRequests(w,
					gecho.WithMessage("Rate limit exceeded. Please try again later."),
					gecho.WithData(map[string]any{"limit": limit, "retry_after": int(window.Seconds())}),
					gecho.Send(),
				)
				return
			}

			w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
			w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, limit-count)))
			w.Header().Set("X-RateLimit-Reset", reset)

			next.ServeHTTP(w, r)
		})
	}
}
