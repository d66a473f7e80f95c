package database

import (
	"context"

	"github.com/google/uuid"

	"github.com/antiq-app/antiq/internal/models"
)

// TaskRepositoryInterface defines the interface for task repository operations
// This interface enables better testability by allowing mock implementations
type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *models.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryRepositoryInterface defines the interface for category repository operations
type CategoryRepositoryInterface interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CommentRepositoryInterface defines the interface for comment repository operations
type CommentRepositoryInterface interface {
	Add(ctx context.Context, taskID uuid.UUID, comment *models.Comment) error
}

// AttachmentRepositoryInterface defines the interface for attachment repository operations
type AttachmentRepositoryInterface interface {
	Add(ctx context.Context, taskID uuid.UUID, attachment *models.Attachment) error
	Delete(ctx context.Context, taskID, attachmentID uuid.UUID) error
}

// PreferencesRepositoryInterface defines the interface for preferences repository operations
type PreferencesRepositoryInterface interface {
	Get(ctx context.Context, userID uuid.UUID) (*models.Preferences, error)
	Save(ctx context.Context, userID uuid.UUID, prefs *models.Preferences) error
}

// UserRepositoryInterface defines the interface for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// Ensure concrete types implement the interfaces
var (
	_ TaskRepositoryInterface        = (*TaskRepository)(nil)
	_ CategoryRepositoryInterface    = (*CategoryRepository)(nil)
	_ CommentRepositoryInterface     = (*CommentRepository)(nil)
	_ AttachmentRepositoryInterface  = (*AttachmentRepository)(nil)
	_ PreferencesRepositoryInterface = (*PreferencesRepository)(nil)
	_ UserRepositoryInterface        = (*UserRepository)(nil)
)
