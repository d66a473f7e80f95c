package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/antiq-app/antiq/internal/models"
)

// PreferencesRepository handles per-user preference persistence
type PreferencesRepository struct {
	db *DB
}

// NewPreferencesRepository creates a new preferences repository
func NewPreferencesRepository(db *DB) *PreferencesRepository {
	return &PreferencesRepository{db: db}
}

// Get retrieves a user's preferences. A user without a stored row gets the
// defaults, not an error.
func (r *PreferencesRepository) Get(ctx context.Context, userID uuid.UUID) (*models.Preferences, error) {
	var raw []byte
	query := `SELECT filter_categories FROM preferences WHERE user_id = $1`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(&raw)
	if err == sql.ErrNoRows {
		return &models.Preferences{FilterCategories: []uuid.UUID{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences: %w", err)
	}

	prefs := &models.Preferences{}
	if err := json.Unmarshal(raw, &prefs.FilterCategories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	if prefs.FilterCategories == nil {
		prefs.FilterCategories = []uuid.UUID{}
	}

	return prefs, nil
}

// Save upserts a user's preferences
func (r *PreferencesRepository) Save(ctx context.Context, userID uuid.UUID, prefs *models.Preferences) error {
	raw, err := json.Marshal(prefs.FilterCategories)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}

	query := `
		INSERT INTO preferences (user_id, filter_categories, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET filter_categories = EXCLUDED.filter_categories, updated_at = EXCLUDED.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, userID, raw, time.Now()); err != nil {
		return fmt.Errorf("failed to save preferences: %w", err)
	}

	return nil
}
