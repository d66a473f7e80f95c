package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/antiq-app/antiq/internal/models"
)

// TaskRepository handles task database operations
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, user_id, title, description, category_id, due_at, status, priority,
	assignee, interval_type, interval_mode, snoozed_until, all_day, created_at, updated_at`

// Create creates a new task
func (r *TaskRepository) Create(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, description, category_id, due_at, status, priority,
			assignee, interval_type, interval_mode, snoozed_until, all_day, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		task.CategoryID,
		nullTime(task.DueAt),
		task.Status,
		task.Priority,
		task.Assignee,
		task.Interval.Type,
		task.Interval.Mode,
		nullTime(task.SnoozedUntil),
		task.AllDay,
		now,
		now,
	).Scan(&task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}

	if task.Comments == nil {
		task.Comments = []models.Comment{}
	}
	if task.Attachments == nil {
		task.Attachments = []models.Attachment{}
	}

	return nil
}

// GetByID retrieves a task by ID including its comments and attachments.
// Ownership is checked by the caller against task.UserID.
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", err)
	}

	if err := r.attachChildren(ctx, []*models.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// GetByUserID retrieves all tasks for a user, newest first, including
// comments and attachments.
func (r *TaskRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tasks: %w", err)
	}

	if err := r.attachChildren(ctx, tasks); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update writes the full mutable state of a task. The caller applies the
// patch to a freshly loaded row first.
func (r *TaskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks
		SET title = $2, description = $3, category_id = $4, due_at = $5, status = $6,
			priority = $7, assignee = $8, interval_type = $9, interval_mode = $10,
			snoozed_until = $11, all_day = $12, updated_at = $13
		WHERE id = $1
		RETURNING updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.CategoryID,
		nullTime(task.DueAt),
		task.Status,
		task.Priority,
		task.Assignee,
		task.Interval.Type,
		task.Interval.Mode,
		nullTime(task.SnoozedUntil),
		task.AllDay,
		now,
	).Scan(&task.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("task %s: %w", task.ID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	return nil
}

// Delete deletes a task by ID. Comments and attachments cascade.
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*models.Task, error) {
	task := &models.Task{}
	var (
		categoryID   uuid.NullUUID
		dueAt        sql.NullTime
		snoozedUntil sql.NullTime
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&categoryID,
		&dueAt,
		&task.Status,
		&task.Priority,
		&task.Assignee,
		&task.Interval.Type,
		&task.Interval.Mode,
		&snoozedUntil,
		&task.AllDay,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		task.CategoryID = &categoryID.UUID
	}
	if dueAt.Valid {
		task.DueAt = &dueAt.Time
	}
	if snoozedUntil.Valid {
		task.SnoozedUntil = &snoozedUntil.Time
	}
	task.Comments = []models.Comment{}
	task.Attachments = []models.Attachment{}

	return task, nil
}

// attachChildren loads comments and attachments for the given tasks with
// one query per table.
func (r *TaskRepository) attachChildren(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Task, len(tasks))
	ids := make([]uuid.UUID, 0, len(tasks))
	for _, task := range tasks {
		byID[task.ID] = task
		ids = append(ids, task.ID)
	}

	commentQuery := `
		SELECT id, task_id, author, text, created_at
		FROM comments
		WHERE task_id = ANY($1::uuid[])
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, commentQuery, pqUUIDArray(ids))
	if err != nil {
		return fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var comment models.Comment
		var taskID uuid.UUID
		if err := rows.Scan(&comment.ID, &taskID, &comment.Author, &comment.Text, &comment.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan comment: %w", err)
		}
		if task, ok := byID[taskID]; ok {
			task.Comments = append(task.Comments, comment)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating comments: %w", err)
	}

	attachmentQuery := `
		SELECT id, task_id, name, size
		FROM attachments
		WHERE task_id = ANY($1::uuid[])
		ORDER BY id ASC
	`
	attRows, err := r.db.QueryContext(ctx, attachmentQuery, pqUUIDArray(ids))
	if err != nil {
		return fmt.Errorf("failed to query attachments: %w", err)
	}
	defer attRows.Close()

	for attRows.Next() {
		var attachment models.Attachment
		var taskID uuid.UUID
		if err := attRows.Scan(&attachment.ID, &taskID, &attachment.Name, &attachment.Size); err != nil {
			return fmt.Errorf("failed to scan attachment: %w", err)
		}
		if task, ok := byID[taskID]; ok {
			task.Attachments = append(task.Attachments, attachment)
		}
	}
	if err := attRows.Err(); err != nil {
		return fmt.Errorf("error iterating attachments: %w", err)
	}

	return nil
}

func pqUUIDArray(ids []uuid.UUID) any {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return pq.Array(strs)
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
