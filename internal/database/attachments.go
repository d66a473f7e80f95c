package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/antiq-app/antiq/internal/models"
)

// AttachmentRepository handles attachment metadata database operations.
// Only name and size are stored; file bytes never reach the server.
type AttachmentRepository struct {
	db *DB
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Add records attachment metadata on a task
func (r *AttachmentRepository) Add(ctx context.Context, taskID uuid.UUID, attachment *models.Attachment) error {
	query := `
		INSERT INTO attachments (id, task_id, name, size)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.db.ExecContext(ctx, query,
		attachment.ID,
		taskID,
		attachment.Name,
		attachment.Size,
	); err != nil {
		return fmt.Errorf("failed to add attachment: %w", err)
	}

	return nil
}

// Delete removes an attachment from a task. Scoping by task id keeps one
// task's attachment ids useless against another task.
func (r *AttachmentRepository) Delete(ctx context.Context, taskID, attachmentID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM attachments WHERE id = $1 AND task_id = $2`,
		attachmentID, taskID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("attachment %s: %w", attachmentID, ErrNotFound)
	}

	return nil
}
