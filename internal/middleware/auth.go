package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/antiq-app/antiq/internal/auth"
	"github.com/antiq-app/antiq/internal/database"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/request"
)

// UserFromContext extracts the user from the request context
func UserFromContext(r *http.Request) *models.User {
	return request.UserFromContext(r)
}

// Auth creates authentication middleware that validates session tokens.
// A valid signature alone is not enough: the session must still be tracked,
// so signed-out tokens stop working before they expire.
func Auth(issuer *auth.TokenIssuer, sessions auth.SessionTracker, userRepo database.UserRepositoryInterface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			claims, err := issuer.Verify(parts[1])
			if err != nil {
				respondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := r.Context()

			active, err := sessions.IsActive(ctx, claims.SessionID)
			if err != nil {
				log.Printf("Session lookup failed: %v", err)
				respondError(w, http.StatusInternalServerError, "Session store error")
				return
			}
			if !active {
				respondError(w, http.StatusUnauthorized, "Session has been signed out")
				return
			}

			user, err := userRepo.GetByID(ctx, claims.UserID)
			if err != nil {
				if errors.Is(err, database.ErrNotFound) {
					respondError(w, http.StatusUnauthorized, "Account no longer exists")
					return
				}
				log.Printf("Database error while fetching user: %v", err)
				respondError(w, http.StatusInternalServerError, "Database error")
				return
			}

			ctx = request.WithUser(ctx, user)
			ctx = request.WithSessionID(ctx, claims.SessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}
