package middleware

import (
	"context"
	"net/http"
	"time"
)

// DefaultRequestTimeout applies when Timeout is given a non-positive value.
const DefaultRequestTimeout = 30 * time.Second

// Timeout bounds each request: the handler gets a deadline on its context
// and http.TimeoutHandler writes the 503 when it overruns.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			handler := http.TimeoutHandler(next, timeout, "Request Timeout")
			handler.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
