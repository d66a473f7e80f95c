package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/antiq-app/antiq/internal/database"
	"github.com/antiq-app/antiq/internal/middleware"
	"github.com/antiq-app/antiq/internal/models"
)

// PreferencesHandler handles per-user preference requests
type PreferencesHandler struct {
	prefsRepo database.PreferencesRepositoryInterface
}

// NewPreferencesHandler creates a new preferences handler
func NewPreferencesHandler(prefsRepo database.PreferencesRepositoryInterface) *PreferencesHandler {
	return &PreferencesHandler{prefsRepo: prefsRepo}
}

// RegisterRoutes registers preference routes on the given router
// The router should already have the /preferences prefix
func (h *PreferencesHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetPreferences).Methods("GET")
	r.HandleFunc("", h.PutPreferences).Methods("PUT")
}

// GetPreferences returns the stored preferences for the authenticated user.
// Users that never saved anything get the defaults.
func (h *PreferencesHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	prefs, err := h.prefsRepo.Get(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve preferences")
		return
	}

	respondJSON(w, http.StatusOK, prefs)
}

// PutPreferences replaces the stored preferences for the authenticated user
func (h *PreferencesHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var prefs models.Preferences
	if !decodeJSONBody(w, r, &prefs) {
		return
	}
	if prefs.FilterCategories == nil {
		prefs.FilterCategories = []uuid.UUID{}
	}

	if err := h.prefsRepo.Save(r.Context(), user.ID, &prefs); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save preferences")
		return
	}

	respondJSON(w, http.StatusOK, &prefs)
}
