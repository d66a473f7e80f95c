package middleware

import (
	"net/http"
)

// DefaultMaxRequestSize is the request body cap (1MB) used when
// MaxRequestSize is given a non-positive limit.
const DefaultMaxRequestSize int64 = 1 << 20

// MaxRequestSize caps request body size. An oversized Content-Length is
// rejected up front; bodies without one are bounded by MaxBytesReader,
// which surfaces downstream as http.MaxBytesError.
func MaxRequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestSize
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, "Request Entity Too Large", http.StatusRequestEntityTooLarge)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			defer r.Body.Close()

			next.ServeHTTP(w, r)
		})
	}
}
