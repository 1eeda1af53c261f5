package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/trailbook/trailbook-backend/pkg/clientip"
)

const (
	// RateLimitWindow bounds the counting interval per client IP.
	RateLimitWindow = 60 * time.Second
	// RateLimitMaxRequests is the maximum number of requests per window.
	RateLimitMaxRequests = 60
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting.
	RateLimitKeyPrefix = "ratelimit:"
)

// RateLimit limits requests per client IP using Redis. A nil client or a
// Redis failure lets the request through (fail open).
func RateLimit(client *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if client == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			key := RateLimitKeyPrefix + clientip.RealClientIP(r)

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				client.Expire(ctx, key, RateLimitWindow)
			}

			if count > RateLimitMaxRequests {
				writeMessage(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(RateLimitMaxRequests)-count, 10))

			next.ServeHTTP(w, r)
		})
	}
}
