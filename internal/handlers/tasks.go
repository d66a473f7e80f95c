package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/antiq-app/antiq/internal/database"
	"github.com/antiq-app/antiq/internal/middleware"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/queue"
	"github.com/antiq-app/antiq/internal/validation"
)

const (
	// MaxTaskTitleLength is the maximum length for a task title
	MaxTaskTitleLength = 500
	// MaxTaskDescriptionLength is the maximum length for a task description
	MaxTaskDescriptionLength = 10000
	// MaxCommentTextLength is the maximum length for a comment
	MaxCommentTextLength = 10000
	// MaxSnoozeMinutes caps how far into the future a task can be snoozed
	MaxSnoozeMinutes = 60 * 24 * 365
)

// TaskHandler handles task-related requests
type TaskHandler struct {
	taskRepo       database.TaskRepositoryInterface
	commentRepo    database.CommentRepositoryInterface
	attachmentRepo database.AttachmentRepositoryInterface
	jobQueue       queue.JobQueue
	logger         *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(
	taskRepo database.TaskRepositoryInterface,
	commentRepo database.CommentRepositoryInterface,
	attachmentRepo database.AttachmentRepositoryInterface,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *TaskHandler {
	return &TaskHandler{
		taskRepo:       taskRepo,
		commentRepo:    commentRepo,
		attachmentRepo: attachmentRepo,
		jobQueue:       jobQueue,
		logger:         logger,
	}
}

// RegisterRoutes registers task routes on the given router
// The router should already have the /tasks prefix (e.g., from apiRouter.PathPrefix("/tasks"))
func (h *TaskHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListTasks).Methods("GET")
	r.HandleFunc("", h.CreateTask).Methods("POST")
	r.HandleFunc("/{id}", h.GetTask).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateTask).Methods("PATCH")
	r.HandleFunc("/{id}", h.DeleteTask).Methods("DELETE")
	r.HandleFunc("/{id}/snooze", h.SnoozeTask).Methods("POST")
	r.HandleFunc("/{id}/comments", h.AddComment).Methods("POST")
	r.HandleFunc("/{id}/attachments", h.AddAttachment).Methods("POST")
	r.HandleFunc("/{id}/attachments/{attachmentId}", h.DeleteAttachment).Methods("DELETE")
}

// SnoozeRequest represents a snooze request
type SnoozeRequest struct {
	Minutes int `json:"minutes" validate:"required,gte=1"`
}

// AddCommentRequest represents a comment creation request. Author defaults
// to the authenticated user's name.
type AddCommentRequest struct {
	Author string `json:"author,omitempty"`
	Text   string `json:"text" validate:"required,min=1,max=10000"`
}

// ListTasks lists all tasks for the authenticated user, newest first.
// Filtering happens client-side, so the full set is returned.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	tasks, err := h.taskRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve tasks")
		return
	}
	if tasks == nil {
		tasks = []*models.Task{}
	}

	respondJSON(w, http.StatusOK, tasks)
}

// CreateTask creates a new task for the authenticated user
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var draft models.TaskDraft
	if !decodeJSONBody(w, r, &draft) {
		return
	}

	// Omitted enum fields get their defaults before validation
	if draft.Status == "" {
		draft.Status = models.TaskStatusOpen
	}
	if draft.Priority == "" {
		draft.Priority = models.PriorityNormal
	}
	if draft.Interval.Type == "" {
		draft.Interval.Type = models.IntervalNone
	}
	if draft.Interval.Mode == "" {
		draft.Interval.Mode = models.IntervalModeRelative
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
	if err := validation.ValidateIntervalType(string(draft.Interval.Type)); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	if err := validation.ValidateIntervalMode(string(draft.Interval.Mode)); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	title := validation.SanitizeText(draft.Title)
	if title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title cannot be empty after sanitization")
		return
	}

	task := &models.Task{
		ID:           uuid.New(),
		UserID:       user.ID,
		Title:        title,
		Description:  validation.SanitizeText(draft.Description),
		CategoryID:   draft.CategoryID,
		DueAt:        draft.DueAt,
		Status:       draft.Status,
		Priority:     draft.Priority,
		Assignee:     validation.SanitizeText(draft.Assignee),
		Interval:     draft.Interval,
		SnoozedUntil: draft.SnoozedUntil,
		AllDay:       draft.AllDay,
	}

	if err := h.taskRepo.Create(r.Context(), task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create task")
		return
	}

	respondJSON(w, http.StatusCreated, task)
}

// GetTask retrieves a single task
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// UpdateTask applies a partial update to a task. Nil patch fields are left
// unchanged; moving a task out of the snoozed status clears its wake time.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	var patch models.TaskPatch
	if !decodeJSONBody(w, r, &patch) {
		return
	}

	if patch.Title != nil {
		sanitized := validation.SanitizeText(*patch.Title)
		if sanitized == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title cannot be empty after sanitization")
			return
		}
		if len(sanitized) > MaxTaskTitleLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Title exceeds maximum length of %d characters", MaxTaskTitleLength))
			return
		}
		task.Title = sanitized
	}
	if patch.Description != nil {
		sanitized := validation.SanitizeText(*patch.Description)
		if len(sanitized) > MaxTaskDescriptionLength {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Description exceeds maximum length of %d characters", MaxTaskDescriptionLength))
			return
		}
		task.Description = sanitized
	}
	if patch.CategoryID != nil {
		task.CategoryID = patch.CategoryID
	}
	if patch.DueAt != nil {
		task.DueAt = patch.DueAt
	}
	if patch.Status != nil {
		if err := validation.ValidateTaskStatus(string(*patch.Status)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		task.Status = *patch.Status
		if task.Status != models.TaskStatusSnoozed {
			task.SnoozedUntil = nil
		}
	}
	if patch.Priority != nil {
		if err := validation.ValidatePriority(string(*patch.Priority)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		task.Priority = *patch.Priority
	}
	if patch.Assignee != nil {
		task.Assignee = validation.SanitizeText(*patch.Assignee)
	}
	if patch.Interval != nil {
		if err := validation.ValidateIntervalType(string(patch.Interval.Type)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		if err := validation.ValidateIntervalMode(string(patch.Interval.Mode)); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		task.Interval = *patch.Interval
	}
	if patch.SnoozedUntil != nil {
		task.SnoozedUntil = patch.SnoozedUntil
	}
	if patch.AllDay != nil {
		task.AllDay = *patch.AllDay
	}

	if err := h.taskRepo.Update(r.Context(), task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}

// DeleteTask deletes a task. Comments and attachments go with it.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	if err := h.taskRepo.Delete(r.Context(), task.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SnoozeTask hides a task for the given number of minutes and schedules a
// wake job so the task reopens on its own.
func (h *TaskHandler) SnoozeTask(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	var req SnoozeRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	if req.Minutes < 1 || req.Minutes > MaxSnoozeMinutes {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Minutes must be between 1 and %d", MaxSnoozeMinutes))
		return
	}

	ctx := r.Context()
	wakeAt := time.Now().Add(time.Duration(req.Minutes) * time.Minute)
	task.Status = models.TaskStatusSnoozed
	task.SnoozedUntil = &wakeAt

	if err := h.taskRepo.Update(ctx, task); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to snooze task")
		return
	}

	job := queue.NewJob(queue.JobTypeSnoozeWake, user.ID, &task.ID)
	job.NotBefore = &wakeAt
	if err := h.jobQueue.Enqueue(ctx, job); err != nil {
		// The row is already snoozed; the task just won't wake on its own.
		// The worker re-checks snoozed_until, so a manual edit still recovers.
		h.logger.Error("snooze_wake_enqueue_failed",
			zap.String("task_id", task.ID.String()),
			zap.Error(err),
		)
	}

	respondJSON(w, http.StatusOK, task)
}

// AddComment appends a comment to a task. Comments are never edited or
// removed, so this is the only comment operation.
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r)
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	var req AddCommentRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	text := validation.SanitizeText(req.Text)
	if text == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Text cannot be empty after sanitization")
		return
	}
	if len(text) > MaxCommentTextLength {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Text exceeds maximum length of %d characters", MaxCommentTextLength))
		return
	}

	author := validation.SanitizeText(req.Author)
	if author == "" {
		author = user.Name
	}

	comment := &models.Comment{
		ID:     uuid.New(),
		Author: author,
		Text:   text,
	}

	ctx := r.Context()
	if err := h.commentRepo.Add(ctx, task.ID, comment); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to add comment")
		return
	}

	h.respondWithFreshTask(w, r, task.ID)
}

// AddAttachment records attachment metadata on a task. Only the name and
// size are stored.
func (h *TaskHandler) AddAttachment(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	var meta models.AttachmentMeta
	if !decodeJSONBody(w, r, &meta) {
		return
	}

	if err := validation.Validate.Struct(&meta); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid field: "+validationErrors[0].Field())
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request")
		return
	}

	name := validation.SanitizeText(meta.Name)
	if name == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Name cannot be empty after sanitization")
		return
	}

	attachment := &models.Attachment{
		ID:   uuid.New(),
		Name: name,
		Size: meta.Size,
	}

	if err := h.attachmentRepo.Add(r.Context(), task.ID, attachment); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to add attachment")
		return
	}

	h.respondWithFreshTask(w, r, task.ID)
}

// DeleteAttachment removes attachment metadata from a task
func (h *TaskHandler) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	task, ok := h.loadOwnedTask(w, r)
	if !ok {
		return
	}

	attachmentID, err := uuid.Parse(mux.Vars(r)["attachmentId"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid attachment ID")
		return
	}

	if err := h.attachmentRepo.Delete(r.Context(), task.ID, attachmentID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Attachment not found")
			return
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to delete attachment")
		return
	}

	h.respondWithFreshTask(w, r, task.ID)
}

// loadOwnedTask parses the id route variable, loads the task and verifies
// it belongs to the authenticated user. Writes the error response itself
// when something fails.
func (h *TaskHandler) loadOwnedTask(w http.ResponseWriter, r *http.Request) (*models.Task, bool) {
	user := middleware.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return nil, false
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid task ID")
		return nil, false
	}

	task, err := h.taskRepo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondJSONError(w, http.StatusNotFound, "Not Found", "Task not found")
			return nil, false
		}
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve task")
		return nil, false
	}

	if task.UserID != user.ID {
		respondJSONError(w, http.StatusForbidden, "Forbidden", "Task does not belong to user")
		return nil, false
	}

	return task, true
}

// respondWithFreshTask reloads a task and returns it. Comment and
// attachment mutations respond with the whole parent so clients can
// reconcile without a second request.
func (h *TaskHandler) respondWithFreshTask(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	task, err := h.taskRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to reload task")
		return
	}

	respondJSON(w, http.StatusOK, task)
}
