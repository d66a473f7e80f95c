package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/antiq-app/antiq/internal/auth"
	"github.com/antiq-app/antiq/internal/database"
	"github.com/antiq-app/antiq/internal/middleware"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/request"
	"github.com/antiq-app/antiq/internal/validation"
)

// AuthHandler handles signup, signin, signout and the current-user endpoint
type AuthHandler struct {
	userRepo database.UserRepositoryInterface
	issuer   *auth.TokenIssuer
	sessions auth.SessionTracker
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userRepo database.UserRepositoryInterface, issuer *auth.TokenIssuer, sessions auth.SessionTracker) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, issuer: issuer, sessions: sessions}
}

// RegisterPublicRoutes registers the routes that do not require a session.
// The router should already have the /api/v1/auth prefix.
func (h *AuthHandler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/signup", h.SignUp).Methods("POST")
	r.HandleFunc("/signin", h.SignIn).Methods("POST")
}

// RegisterRoutes registers the routes that require a session.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/signout", h.SignOut).Methods("POST")
	r.HandleFunc("/me", h.GetMe).Methods("GET")
}

// SignUpRequest represents a signup request
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Name     string `json:"name" validate:"required,min=1,max=255"`
	Password string `json:"password" validate:"required"`
}

// SignInRequest represents a signin request
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by signup and signin
type SessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

// SignUp creates an account and opens a session for it
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := validation.Validate.Struct(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid field: "+validationErrors[0].Field())
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request")
		return
	}

	name := validation.SanitizeText(req.Name)
	if name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name cannot be empty after sanitization")
		return
	}

	ctx := r.Context()

	if _, err := h.userRepo.GetByEmail(ctx, req.Email); err == nil {
		respondJSONError(w, http.StatusConflict, "Conflict", "An account with this email already exists")
		return
	} else if !errors.Is(err, database.ErrNotFound) {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to check email")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        req.Email,
		Name:         name,
		Role:         models.RoleUser,
		PasswordHash: hash,
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create account")
		return
	}

	h.respondWithSession(w, r, http.StatusCreated, user)
}

// SignIn verifies credentials and opens a session
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := validation.Validate.Struct(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Email and password are required")
		return
	}

	ctx := r.Context()

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to look up account")
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Invalid email or password")
		return
	}

	h.respondWithSession(w, r, http.StatusOK, user)
}

// SignOut revokes the current session. The token stops working immediately
// even though it has not expired yet.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	sessionID := request.SessionIDFromContext(r)
	if sessionID == "" {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "Session not found in context")
		return
	}

	if err := h.sessions.Revoke(r.Context(), sessionID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to sign out")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMe returns the authenticated user
func (h *AuthHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

func (h *AuthHandler) respondWithSession(w http.ResponseWriter, r *http.Request, status int, user *models.User) {
	token, sessionID, expiresAt, err := h.issuer.Issue(user)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create session")
		return
	}

	if err := h.sessions.Track(r.Context(), sessionID, user.ID.String(), expiresAt); err != nil {
		log.Printf("Failed to track session: %v", err)
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create session")
		return
	}

	respondJSON(w, status, SessionResponse{Token: token, ExpiresAt: expiresAt, User: user})
}
