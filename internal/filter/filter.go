// Package filter computes the visible task subset for a view. Visible is a
// pure transform over the store's task slice; output preserves source
// order.
package filter

import (
	"strings"
	"time"

	"github.com/antiq-app/antiq/internal/dates"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/google/uuid"
)

// View is the rendering context a filter runs in
type View string

const (
	// ViewToday is the landing view: only tasks due today.
	ViewToday View = "today"
	// ViewAll lists every dated task, subject to the full filter chain.
	ViewAll View = "all"
	// ViewUntimed lists only tasks without a due timestamp.
	ViewUntimed View = "untimed"
	// ViewCalendar feeds the calendar grid: it spans dates, so only the
	// category filter applies.
	ViewCalendar View = "calendar"
)

// Config is the filter configuration for one evaluation
type Config struct {
	View        View
	Status      models.FilterStatus
	CategoryIDs []uuid.UUID
	DueRange    models.FilterDueRange
	Query       string
	Now         time.Time
}

// Visible returns the tasks that pass the filter chain, in source order.
func Visible(tasks []models.Task, cfg Config) []models.Task {
	var out []models.Task
	for _, task := range tasks {
		if passes(task, cfg) {
			out = append(out, task)
		}
	}
	return out
}

func passes(task models.Task, cfg Config) bool {
	switch cfg.View {
	case ViewUntimed:
		// The untimed list inverts the nil-due rule and skips the
		// status and due-range filters entirely.
		if task.DueAt != nil {
			return false
		}
		if !matchesCategory(task, cfg.CategoryIDs) {
			return false
		}
		return matchesQueryOrDefault(task, cfg.Query)

	case ViewCalendar:
		if task.DueAt == nil {
			return false
		}
		return matchesCategory(task, cfg.CategoryIDs)
	}

	if task.DueAt == nil {
		return false
	}
	if cfg.View == ViewToday && !dates.IsToday(task.DueAt, cfg.Now) {
		return false
	}
	if cfg.Status != "" && cfg.Status != models.FilterStatusAll && string(task.Status) != string(cfg.Status) {
		return false
	}
	if !matchesCategory(task, cfg.CategoryIDs) {
		return false
	}
	if !matchesDueRange(task, cfg.DueRange, cfg.Now) {
		return false
	}
	return matchesQueryOrDefault(task, cfg.Query)
}

func matchesCategory(task models.Task, ids []uuid.UUID) bool {
	if len(ids) == 0 {
		return true
	}
	if task.CategoryID == nil {
		return false
	}
	for _, id := range ids {
		if id == *task.CategoryID {
			return true
		}
	}
	return false
}

func matchesDueRange(task models.Task, dueRange models.FilterDueRange, now time.Time) bool {
	switch dueRange {
	case models.FilterDueToday:
		return dates.IsToday(task.DueAt, now)
	case models.FilterDueWeek:
		return dates.WithinNextWeek(task.DueAt, now)
	case models.FilterDueOverdue:
		return dates.IsOverdue(task.DueAt, now)
	default:
		return true
	}
}

// matchesQueryOrDefault applies the free-text search. A non-empty query is
// the final determinant: the task is visible iff title or description
// contains it, case-insensitively.
func matchesQueryOrDefault(task models.Task, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(task.Title), q) ||
		strings.Contains(strings.ToLower(task.Description), q)
}
