package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/codegate/gateway-server-go/internal/service"
)

// AttemptLimiter is the slice of service.AttemptLimiter this middleware
// needs; narrowed to an interface so tests can substitute a fixed verdict.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (allowed bool, resetAt time.Time)
}

var _ AttemptLimiter = (*service.AttemptLimiter)(nil)

// IPRateLimitMiddleware throttles a route per client IP. It fronts code
// verification, where each refused request is one less whitelist guess.
type IPRateLimitMiddleware struct {
	limiter AttemptLimiter
	prefix  string
}

func NewIPRateLimitMiddleware(limiter AttemptLimiter, prefix string) *IPRateLimitMiddleware {
	return &IPRateLimitMiddleware{
		limiter: limiter,
		prefix:  prefix,
	}
}

func (m *IPRateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := fmt.Sprintf("ip:%s:%s", m.prefix, r.RemoteAddr)

		allowed, resetAt := m.limiter.Allow(r.Context(), key)
		if !allowed {
			w.Header().Set("Retry-After", service.RetryAfter(resetAt))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
