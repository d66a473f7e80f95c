package middleware

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"

	"github.com/antiq-app/antiq/internal/request"
)

// DefaultRateLimitPerMinute is the default per-client request budget
const DefaultRateLimitPerMinute = 120

// RateLimit returns middleware that limits requests per client IP using
// ulule/limiter with a Redis-backed sliding window. The limit is shared
// across server instances because the counters live in Redis.
func RateLimit(redisClient *redis.Client, requestsPerMinute int) (func(http.Handler) http.Handler, error) {
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRateLimitPerMinute
	}

	rate, err := limiter.NewRateFromFormatted(fmt.Sprintf("%d-M", requestsPerMinute))
	if err != nil {
		return nil, fmt.Errorf("failed to build rate: %w", err)
	}

	store, err := redisstore.NewStore(redisClient)
	if err != nil {
		return nil, fmt.Errorf("failed to create limiter store: %w", err)
	}

	instance := limiter.New(store, rate)
	keyGetter := func(r *http.Request) string {
		return request.ClientIP(r)
	}
	mw := stdlibmw.NewMiddleware(instance, stdlibmw.WithKeyGetter(keyGetter))
	return mw.Handler, nil
}
