package models

import "github.com/google/uuid"

// FilterStatus is the status filter applied to task lists
type FilterStatus string

const (
	FilterStatusAll       FilterStatus = "all"
	FilterStatusOpen      FilterStatus = "open"
	FilterStatusSnoozed   FilterStatus = "snoozed"
	FilterStatusCompleted FilterStatus = "completed"
)

// FilterDueRange is the due-date range filter applied to task lists
type FilterDueRange string

const (
	FilterDueAll     FilterDueRange = "all"
	FilterDueToday   FilterDueRange = "today"
	FilterDueWeek    FilterDueRange = "week"
	FilterDueOverdue FilterDueRange = "overdue"
)

// Preferences holds the per-user settings persisted in the remote store.
// Only the category filter selection survives reloads; all other filter
// state is session-local.
type Preferences struct {
	FilterCategories []uuid.UUID `json:"filterCategories"`
}
