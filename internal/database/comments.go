package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/antiq-app/antiq/internal/models"
)

// CommentRepository handles comment database operations. Comments are
// append-only; there is no update or delete.
type CommentRepository struct {
	db *DB
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(db *DB) *CommentRepository {
	return &CommentRepository{db: db}
}

// Add appends a comment to a task
func (r *CommentRepository) Add(ctx context.Context, taskID uuid.UUID, comment *models.Comment) error {
	query := `
		INSERT INTO comments (id, task_id, author, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		comment.ID,
		taskID,
		comment.Author,
		comment.Text,
		time.Now(),
	).Scan(&comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}

	return nil
}
