package validation

import (
	"testing"

	"github.com/antiq-app/antiq/internal/models"
)

func TestValidateTaskStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"open", "snoozed", "completed"} {
		valid := valid
		if err := ValidateTaskStatus(valid); err != nil {
			t.Errorf("ValidateTaskStatus(%q) = %v, want nil", valid, err)
		}
	}
	for _, invalid := range []string{"", "done", "OPEN", "pending"} {
		invalid := invalid
		if err := ValidateTaskStatus(invalid); err == nil {
			t.Errorf("ValidateTaskStatus(%q) = nil, want error", invalid)
		}
	}
}

func TestValidatePriority(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"low", "normal", "high"} {
		valid := valid
		if err := ValidatePriority(valid); err != nil {
			t.Errorf("ValidatePriority(%q) = %v, want nil", valid, err)
		}
	}
	for _, invalid := range []string{"", "urgent", "High"} {
		invalid := invalid
		if err := ValidatePriority(invalid); err == nil {
			t.Errorf("ValidatePriority(%q) = nil, want error", invalid)
		}
	}
}

func TestValidateFilterEnums(t *testing.T) {
	t.Parallel()

	if err := ValidateFilterStatus("all"); err != nil {
		t.Errorf("ValidateFilterStatus(all) = %v, want nil", err)
	}
	if err := ValidateFilterStatus("archived"); err == nil {
		t.Error("ValidateFilterStatus(archived) = nil, want error")
	}
	if err := ValidateFilterDueRange("overdue"); err != nil {
		t.Errorf("ValidateFilterDueRange(overdue) = %v, want nil", err)
	}
	if err := ValidateFilterDueRange("month"); err == nil {
		t.Error("ValidateFilterDueRange(month) = nil, want error")
	}
}

func TestStructValidation(t *testing.T) {
	t.Parallel()

	draft := models.TaskDraft{
		Title:    "Arzttermin vereinbaren",
		Status:   "open",
		Priority: "normal",
	}
	if err := Validate.Struct(draft); err != nil {
		t.Errorf("Valid draft rejected: %v", err)
	}

	draft.Status = "paused"
	if err := Validate.Struct(draft); err == nil {
		t.Error("Draft with invalid status accepted")
	}

	draft.Status = "open"
	draft.Priority = "critical"
	if err := Validate.Struct(draft); err == nil {
		t.Error("Draft with invalid priority accepted")
	}

	draft.Priority = "normal"
	draft.Title = ""
	if err := Validate.Struct(draft); err == nil {
		t.Error("Draft without title accepted")
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"trims whitespace", "  Einkaufen  ", "Einkaufen"},
		{"keeps newline and tab", "a\n\tb", "a\n\tb"},
		{"strips control characters", "a\x00b\x1bc", "abc"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
