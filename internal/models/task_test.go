package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTaskStatus_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value TaskStatus
		valid bool
	}{
		{"open", TaskStatusOpen, true},
		{"snoozed", TaskStatusSnoozed, true},
		{"completed", TaskStatusCompleted, true},
		{"invalid", TaskStatus("pending"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			switch tt.value {
			case TaskStatusOpen, TaskStatusSnoozed, TaskStatusCompleted:
				if !tt.valid {
					t.Errorf("Expected %s to be invalid", tt.value)
				}
			default:
				if tt.valid {
					t.Errorf("Expected %s to be valid", tt.value)
				}
			}
		})
	}
}

func TestPriority_Values(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value Priority
		valid bool
	}{
		{"low", PriorityLow, true},
		{"normal", PriorityNormal, true},
		{"high", PriorityHigh, true},
		{"invalid", Priority("urgent"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			switch tt.value {
			case PriorityLow, PriorityNormal, PriorityHigh:
				if !tt.valid {
					t.Errorf("Expected %s to be invalid", tt.value)
				}
			default:
				if tt.valid {
					t.Errorf("Expected %s to be valid", tt.value)
				}
			}
		})
	}
}

func TestTask_JSONShape(t *testing.T) {
	t.Parallel()

	due := time.Date(2024, 3, 6, 9, 30, 0, 0, time.UTC)
	catID := uuid.New()
	task := Task{
		ID:          uuid.New(),
		UserID:      uuid.New(),
		Title:       "Arzttermin vereinbaren",
		Description: "Vormittags anrufen",
		CategoryID:  &catID,
		DueAt:       &due,
		Status:      TaskStatusOpen,
		Priority:    PriorityNormal,
		Interval:    Interval{Type: IntervalNone, Mode: IntervalModeRelative},
		Comments:    []Comment{},
		Attachments: []Attachment{},
	}

	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Failed to marshal task: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}

	// UserID must never leak onto the wire
	if _, ok := decoded["userId"]; ok {
		t.Error("Expected userId to be absent from JSON output")
	}
	for _, key := range []string{"id", "title", "categoryId", "dueAt", "status", "priority", "interval", "isAllDay", "comments", "attachments"} {
		key := key
		if _, ok := decoded[key]; !ok {
			t.Errorf("Expected key %q in JSON output", key)
		}
	}
}

func TestTask_UntimedOmitsNothing(t *testing.T) {
	t.Parallel()

	task := Task{ID: uuid.New(), Status: TaskStatusOpen, Priority: PriorityLow}
	data, err := json.Marshal(task)
	if err != nil {
		t.Fatalf("Failed to marshal task: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal task: %v", err)
	}

	// dueAt is deliberately not omitempty: null marks an untimed task
	if v, ok := decoded["dueAt"]; !ok || v != nil {
		t.Errorf("Expected dueAt to be present and null, got %v (present=%v)", v, ok)
	}
}
