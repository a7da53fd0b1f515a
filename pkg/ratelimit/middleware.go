package ratelimit

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/go-chi/render"
	"github.com/tendant/simple-wishlist/pkg/config"
	"github.com/tendant/simple-wishlist/pkg/errors"
)

// Middleware applies a per-client-IP limit
type Middleware struct {
	enabled bool
	burst   int
	limiter *RateLimiter
}

// NewMiddleware creates a middleware from cfg
func NewMiddleware(cfg config.RateLimitConfig) *Middleware {
	return &Middleware{
		enabled: cfg.Enabled,
		burst:   cfg.Burst,
		limiter: NewRateLimiter(cfg.Burst, cfg.RefillRate),
	}
}

// Limiter exposes the underlying limiter, e.g. to run its cleanup loop
func (m *Middleware) Limiter() *RateLimiter {
	return m.limiter
}

// Handler returns the rate limiting middleware handler
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled {
			next.ServeHTTP(w, r)
			return
		}

		ip := clientIP(r)
		delay, ok := m.limiter.Reserve(ip)
		if !ok {
			slog.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path, "method", r.Method)

			retryAfter := ""
			if delay > 0 {
				retryAfter = strconv.Itoa(int(delay.Seconds()) + 1)
				w.Header().Set("Retry-After", retryAfter)
			}
			err := errors.RateLimitExceeded(retryAfter)
			render.Status(r, err.HTTPStatusCode())
			render.JSON(w, r, map[string]interface{}{
				"code":    err.Code,
				"message": "Too many requests. Please try again later.",
			})
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(m.burst))
		next.ServeHTTP(w, r)
	})
}

// clientIP uses RemoteAddr only. Put chi's RealIP middleware in front when
// running behind a trusted proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
