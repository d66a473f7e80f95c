// Package store holds the client-side mirror of the remote rows and the
// session-local filter state. The store is the single mutable state object
// of the client: every mutation calls the remote API first and reconciles
// the local mirror from the response, so the mirror never runs ahead of
// the server.
package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/antiq-app/antiq/internal/api"
	"github.com/antiq-app/antiq/internal/calendar"
	"github.com/antiq-app/antiq/internal/filter"
	"github.com/antiq-app/antiq/internal/models"
)

const (
	// UnknownCategoryName is rendered for tasks whose category was deleted.
	// The dangling id itself is preserved.
	UnknownCategoryName = "Unbekannt"
	// UnknownCategoryColor is the neutral swatch for unknown categories.
	UnknownCategoryColor = "#9e9e9e"
)

// Store is the client application state. All methods are safe for
// concurrent use; reads take the read lock, mutations hold the write lock
// only while reconciling (never across a network call).
type Store struct {
	client api.Client
	logger *zap.Logger

	mu         sync.RWMutex
	user       *models.User
	tasks      []models.Task
	categories []models.Category
	prefs      models.Preferences
	lastError  string

	// session-local filter/UI state, reset on restart
	filterStatus models.FilterStatus
	dueRange     models.FilterDueRange
	query        string
	calendarMode calendar.Mode
	calendarDate time.Time
}

// New creates an empty store bound to a remote client
func New(client api.Client, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client:       client,
		logger:       logger,
		prefs:        models.Preferences{FilterCategories: []uuid.UUID{}},
		filterStatus: models.FilterStatusAll,
		dueRange:     models.FilterDueAll,
		calendarMode: calendar.ModeMonth,
		calendarDate: time.Now(),
	}
}

// Bootstrap populates the store: session first, then categories, then
// preferences, then tasks. Categories load before tasks so name/color
// lookups resolve as soon as tasks render.
func (s *Store) Bootstrap(ctx context.Context) error {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		return s.fail("failed to resolve session", err)
	}

	categories, err := s.client.ListCategories(ctx)
	if err != nil {
		return s.fail("failed to load categories", err)
	}

	prefs, err := s.client.GetPreferences(ctx)
	if err != nil {
		return s.fail("failed to load preferences", err)
	}

	tasks, err := s.client.ListTasks(ctx)
	if err != nil {
		return s.fail("failed to load tasks", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = user
	s.categories = derefAll(categories)
	s.prefs = *prefs
	if s.prefs.FilterCategories == nil {
		s.prefs.FilterCategories = []uuid.UUID{}
	}
	s.tasks = derefAll(tasks)
	s.lastError = ""
	return nil
}

// SignIn opens a session and bootstraps the store
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	if _, err := s.client.SignIn(ctx, email, password); err != nil {
		return s.fail("sign-in failed", err)
	}
	return s.Bootstrap(ctx)
}

// SignOut ends the session and drops all mirrored state
func (s *Store) SignOut(ctx context.Context) error {
	if err := s.client.SignOut(ctx); err != nil {
		return s.fail("sign-out failed", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.tasks = nil
	s.categories = nil
	s.prefs = models.Preferences{FilterCategories: []uuid.UUID{}}
	s.lastError = ""
	return nil
}

// User returns the authenticated user, or nil before bootstrap
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Tasks returns a copy of the mirrored task collection
func (s *Store) Tasks() []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Task(nil), s.tasks...)
}

// Categories returns a copy of the mirrored category collection
func (s *Store) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Category(nil), s.categories...)
}

// LastError returns the message of the most recent failed operation, or ""
func (s *Store) LastError() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError
}

// CreateTask creates a task remotely and mirrors it locally
func (s *Store) CreateTask(ctx context.Context, draft models.TaskDraft) (*models.Task, error) {
	task, err := s.client.CreateTask(ctx, draft)
	if err != nil {
		return nil, s.fail("failed to create task", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append([]models.Task{*task}, s.tasks...)
	s.lastError = ""
	return task, nil
}

// UpdateTask applies a partial update remotely and patches the mirror
func (s *Store) UpdateTask(ctx context.Context, id uuid.UUID, patch models.TaskPatch) (*models.Task, error) {
	task, err := s.client.UpdateTask(ctx, id, patch)
	if err != nil {
		return nil, s.fail("failed to update task", err)
	}

	s.replaceTask(*task)
	return task, nil
}

// DeleteTask deletes a task remotely and drops it from the mirror
func (s *Store) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.client.DeleteTask(ctx, id); err != nil {
		return s.fail("failed to delete task", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, task := range s.tasks {
		if task.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			break
		}
	}
	s.lastError = ""
	return nil
}

// Complete marks a task as completed
func (s *Store) Complete(ctx context.Context, id uuid.UUID) (*models.Task, error) {
	status := models.TaskStatusCompleted
	return s.UpdateTask(ctx, id, models.TaskPatch{Status: &status})
}

// Snooze hides a task for the given number of minutes. The wake time and
// status are persisted in one call.
func (s *Store) Snooze(ctx context.Context, id uuid.UUID, minutes int) (*models.Task, error) {
	task, err := s.client.SnoozeTask(ctx, id, minutes)
	if err != nil {
		return nil, s.fail("failed to snooze task", err)
	}

	s.replaceTask(*task)
	return task, nil
}

// AddComment appends a comment. The parent task is replaced wholesale with
// the server's refetched copy rather than patched locally.
func (s *Store) AddComment(ctx context.Context, taskID uuid.UUID, text, author string) (*models.Task, error) {
	task, err := s.client.AddComment(ctx, taskID, text, author)
	if err != nil {
		return nil, s.fail("failed to add comment", err)
	}

	s.replaceTask(*task)
	return task, nil
}

// AddAttachment records attachment metadata; the mirror takes the
// refetched parent task.
func (s *Store) AddAttachment(ctx context.Context, taskID uuid.UUID, meta models.AttachmentMeta) (*models.Task, error) {
	task, err := s.client.AddAttachment(ctx, taskID, meta)
	if err != nil {
		return nil, s.fail("failed to add attachment", err)
	}

	s.replaceTask(*task)
	return task, nil
}

// DeleteAttachment removes an attachment; the mirror takes the refetched
// parent task.
func (s *Store) DeleteAttachment(ctx context.Context, taskID, attachmentID uuid.UUID) (*models.Task, error) {
	task, err := s.client.DeleteAttachment(ctx, taskID, attachmentID)
	if err != nil {
		return nil, s.fail("failed to delete attachment", err)
	}

	s.replaceTask(*task)
	return task, nil
}

// CreateCategory creates a category remotely and mirrors it
func (s *Store) CreateCategory(ctx context.Context, draft models.CategoryDraft) (*models.Category, error) {
	category, err := s.client.CreateCategory(ctx, draft)
	if err != nil {
		return nil, s.fail("failed to create category", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = append(s.categories, *category)
	s.lastError = ""
	return category, nil
}

// UpdateCategory applies a partial update remotely and patches the mirror
func (s *Store) UpdateCategory(ctx context.Context, id uuid.UUID, patch models.CategoryPatch) (*models.Category, error) {
	category, err := s.client.UpdateCategory(ctx, id, patch)
	if err != nil {
		return nil, s.fail("failed to update category", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.categories {
		if s.categories[i].ID == category.ID {
			s.categories[i] = *category
			break
		}
	}
	s.lastError = ""
	return category, nil
}

// DeleteCategory deletes a category. Tasks referencing it keep the
// dangling id and render with the unknown label from then on.
func (s *Store) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.client.DeleteCategory(ctx, id); err != nil {
		return s.fail("failed to delete category", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, category := range s.categories {
		if category.ID == id {
			s.categories = append(s.categories[:i], s.categories[i+1:]...)
			break
		}
	}
	s.lastError = ""
	return nil
}

// CategoryName resolves a task's category to its display name. Nil and
// dangling references degrade to the unknown label.
func (s *Store) CategoryName(id *uuid.UUID) string {
	if category := s.lookupCategory(id); category != nil {
		return category.Name
	}
	return UnknownCategoryName
}

// CategoryColor resolves a task's category color, with a neutral fallback
func (s *Store) CategoryColor(id *uuid.UUID) string {
	if category := s.lookupCategory(id); category != nil {
		return category.Color
	}
	return UnknownCategoryColor
}

func (s *Store) lookupCategory(id *uuid.UUID) *models.Category {
	if id == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.categories {
		if s.categories[i].ID == *id {
			category := s.categories[i]
			return &category
		}
	}
	return nil
}

// SetStatusFilter sets the session-local status filter
func (s *Store) SetStatusFilter(status models.FilterStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filterStatus = status
}

// SetDueRangeFilter sets the session-local due-range filter
func (s *Store) SetDueRangeFilter(dueRange models.FilterDueRange) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dueRange = dueRange
}

// SetSearchQuery sets the session-local free-text search
func (s *Store) SetSearchQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

// SetCategoryFilter replaces the selected category ids. The selection is
// the one piece of filter state that survives reloads: it is persisted
// remotely on every change, fire and forget. A failed save is logged and
// never surfaces to the caller.
func (s *Store) SetCategoryFilter(ids []uuid.UUID) {
	if ids == nil {
		ids = []uuid.UUID{}
	}

	s.mu.Lock()
	s.prefs.FilterCategories = append([]uuid.UUID(nil), ids...)
	prefs := models.Preferences{FilterCategories: append([]uuid.UUID(nil), ids...)}
	s.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.client.SavePreferences(ctx, &prefs); err != nil {
			s.logger.Warn("preference_save_failed", zap.Error(err))
		}
	}()
}

// SelectedCategories returns the persisted category filter selection
func (s *Store) SelectedCategories() []uuid.UUID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]uuid.UUID(nil), s.prefs.FilterCategories...)
}

// CalendarMode returns the current calendar view granularity
func (s *Store) CalendarMode() calendar.Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calendarMode
}

// SetCalendarMode switches the calendar between day, week and month view
func (s *Store) SetCalendarMode(mode calendar.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendarMode = mode
}

// CalendarDate returns the calendar's reference date
func (s *Store) CalendarDate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calendarDate
}

// SetCalendarDate jumps the calendar to a specific reference date
func (s *Store) SetCalendarDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendarDate = date
}

// CalendarPrev steps the calendar one unit back for the current mode
func (s *Store) CalendarPrev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendarDate = calendar.Prev(s.calendarDate, s.calendarMode)
}

// CalendarNext steps the calendar one unit forward for the current mode
func (s *Store) CalendarNext() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendarDate = calendar.Next(s.calendarDate, s.calendarMode)
}

// CalendarToday resets the calendar to the current date
func (s *Store) CalendarToday() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendarDate = time.Now()
}

// VisibleTasks runs the filter chain for a view against the mirror
func (s *Store) VisibleTasks(view filter.View, now time.Time) []models.Task {
	s.mu.RLock()
	cfg := filter.Config{
		View:        view,
		Status:      s.filterStatus,
		CategoryIDs: append([]uuid.UUID(nil), s.prefs.FilterCategories...),
		DueRange:    s.dueRange,
		Query:       s.query,
		Now:         now,
	}
	tasks := append([]models.Task(nil), s.tasks...)
	s.mu.RUnlock()

	return filter.Visible(tasks, cfg)
}

// replaceTask swaps the mirrored copy of a task for the server's version
func (s *Store) replaceTask(task models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			break
		}
	}
	s.lastError = ""
}

// fail records the error message in state and returns the wrapped error so
// the caller can still react. The store stays usable after any failure.
func (s *Store) fail(msg string, err error) error {
	wrapped := fmt.Errorf("%s: %w", msg, err)
	s.mu.Lock()
	s.lastError = wrapped.Error()
	s.mu.Unlock()
	return wrapped
}

func derefAll[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, item := range in {
		if item != nil {
			out = append(out, *item)
		}
	}
	return out
}
