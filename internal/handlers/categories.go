package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/antiq-app/antiq/internal/database"
	"github.com/antiq-app/antiq/internal/middleware"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/validation"
)

// MaxCategoryNameLength is the maximum length for a category name
const MaxCategoryNameLength = 100

// CategoryHandler handles category-related requests
type CategoryHandler struct {
	categoryRepo database.CategoryRepositoryInterface
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryRepo database.CategoryRepositoryInterface) *CategoryHandler {
	return &CategoryHandler{categoryRepo: categoryRepo}
}

// RegisterRoutes registers category routes on the given router
// The router should already have the /categories prefix
func (h *CategoryHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListCategories).Methods("GET")
	r.HandleFunc("", h.CreateCategory).Methods("POST")
	r.HandleFunc("/{id}", h.GetCategory).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateCategory).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteCategory).Methods("DELETE")
}

// ListCategories lists all categories for the authenticated user in
// creation order
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	categories, err := h.categoryRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve categories")
		return
	}
	if categories == nil {
		categories = []*models.Category{}
	}

	respondJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a new category for the authenticated user
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var draft models.CategoryDraft
	if !decodeJSONBody(w, r, &draft) {
		return
	}

	if err := validation.Validate.Struct(&draft); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid field: "+validationErrors[0].Field())
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request")
		return
	}

	name := validation.SanitizeText(draft.Name)
	if name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name cannot be empty after sanitization")
		return
	}

	category := &models.Category{
		ID:     uuid.New(),
		UserID: user.ID,
		Name:   name,
		Color:  draft.Color,
		Active: draft.Active,
	}

	if err := h.categoryRepo.Create(r.Context(), category); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create category")
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

// GetCategory retrieves a single category
func (h *CategoryHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := h.loadOwnedCategory(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// UpdateCategory applies a partial update to a category
func (h *CategoryHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := h.loadOwnedCategory(w, r)
	if !ok {
		return
	}

	var patch models.CategoryPatch
	if !decodeJSONBody(w, r, &patch) {
		return
	}

	if patch.Name != nil {
		sanitized := validation.SanitizeText(*patch.Name)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name cannot be empty after sanitization")
			return
		}
		if len(sanitized) > MaxCategoryNameLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Name exceeds maximum length of %d characters", MaxCategoryNameLength))
			return
		}
		category.Name = sanitized
	}
	if patch.Color != nil {
		if err := validation.Validate.Var(*patch.Color, "hexcolor"); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Color must be a hex color")
			return
		}
		category.Color = *patch.Color
	}
	if patch.Active != nil {
		category.Active = *patch.Active
	}

	if err := h.categoryRepo.Update(r.Context(), category); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update category")
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// DeleteCategory deletes a category. Tasks referencing it keep the dangling
// id; clients render those as an unknown category.
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	category, ok := h.loadOwnedCategory(w, r)
	if !ok {
		return
	}

	if err := h.categoryRepo.Delete(r.Context(), category.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete category")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// loadOwnedCategory parses the id route variable, loads the category and
// verifies ownership. Writes the error response itself when something fails.
func (h *CategoryHandler) loadOwnedCategory(w http.ResponseWriter, r *http.Request) (*models.Category, bool) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return nil, false
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid category ID")
		return nil, false
	}

	category, err := h.categoryRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Category not found")
			return nil, false
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve category")
		return nil, false
	}

	if category.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Category does not belong to user")
		return nil, false
	}

	return category, true
}
