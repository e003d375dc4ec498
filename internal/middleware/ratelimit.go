package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/greenleaf-pharma/portal-api/internal/kvstore"
)

// RateLimit bounds requests per client IP to limit requests within a fixed
// window. Counters live in the shared key-value store, so the limit holds
// across instances when Redis backs it.
func RateLimit(store kvstore.Store, limit int, window time.Duration, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			key := fmt.Sprintf("rate:%s", ip)

			count, err := store.Increment(r.Context(), key, window)
			if err != nil {
				// A broken counter must not take the API down.
				logger.Error("rate limit counter failed", "error", err)
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				logger.Warn("rate limit exceeded", "ip", ip, "count", count)
				w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
