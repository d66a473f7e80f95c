package models

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the lifecycle state of a task
type TaskStatus string

const (
	TaskStatusOpen      TaskStatus = "open"
	TaskStatusSnoozed   TaskStatus = "snoozed"
	TaskStatusCompleted TaskStatus = "completed"
)

// Priority represents the urgency of a task
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// IntervalType represents how often a task recurs
type IntervalType string

const (
	IntervalNone    IntervalType = "none"
	IntervalDaily   IntervalType = "daily"
	IntervalWeekly  IntervalType = "weekly"
	IntervalMonthly IntervalType = "monthly"
	IntervalYearly  IntervalType = "yearly"
)

// IntervalMode controls whether a recurrence is anchored to the completion
// time (relative) or to the original due time (absolute)
type IntervalMode string

const (
	IntervalModeRelative IntervalMode = "relative"
	IntervalModeAbsolute IntervalMode = "absolute"
)

// Interval describes the recurrence of a task
type Interval struct {
	Type IntervalType `json:"type"`
	Mode IntervalMode `json:"mode"`
}

// Comment is an append-only note on a task. Comments are never edited or
// reordered once created.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment records file metadata on a task. Only name and size are kept;
// file bytes are never stored.
type Attachment struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Size int64     `json:"size"`
}

// Task represents a task/reminder item. A nil DueAt marks the task as
// untimed: it never appears in date-bounded or calendar views.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	UserID       uuid.UUID    `json:"-"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	CategoryID   *uuid.UUID   `json:"categoryId,omitempty"`
	DueAt        *time.Time   `json:"dueAt"`
	Status       TaskStatus   `json:"status"`
	Priority     Priority     `json:"priority"`
	Assignee     string       `json:"assignee,omitempty"`
	Interval     Interval     `json:"interval"`
	SnoozedUntil *time.Time   `json:"snoozedUntil,omitempty"`
	AllDay       bool         `json:"isAllDay"`
	Comments     []Comment    `json:"comments"`
	Attachments  []Attachment `json:"attachments"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// TaskDraft is the payload for creating a task. The server assigns the ID;
// comment and attachment lists start empty.
type TaskDraft struct {
	Title        string     `json:"title" validate:"required,min=1,max=500"`
	Description  string     `json:"description" validate:"max=10000"`
	CategoryID   *uuid.UUID `json:"categoryId,omitempty"`
	DueAt        *time.Time `json:"dueAt"`
	Status       TaskStatus `json:"status" validate:"task_status"`
	Priority     Priority   `json:"priority" validate:"priority"`
	Assignee     string     `json:"assignee,omitempty"`
	Interval     Interval   `json:"interval"`
	SnoozedUntil *time.Time `json:"snoozedUntil,omitempty"`
	AllDay       bool       `json:"isAllDay"`
}

// TaskPatch is a partial update. Nil fields are left unchanged.
type TaskPatch struct {
	Title        *string     `json:"title,omitempty"`
	Description  *string     `json:"description,omitempty"`
	CategoryID   *uuid.UUID  `json:"categoryId,omitempty"`
	DueAt        *time.Time  `json:"dueAt,omitempty"`
	Status       *TaskStatus `json:"status,omitempty"`
	Priority     *Priority   `json:"priority,omitempty"`
	Assignee     *string     `json:"assignee,omitempty"`
	Interval     *Interval   `json:"interval,omitempty"`
	SnoozedUntil *time.Time  `json:"snoozedUntil,omitempty"`
	AllDay       *bool       `json:"isAllDay,omitempty"`
}

// AttachmentMeta is the payload for adding an attachment.
type AttachmentMeta struct {
	Name string `json:"name" validate:"required,max=255"`
	Size int64  `json:"size" validate:"gte=0"`
}
