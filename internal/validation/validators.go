package validation

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/antiq-app/antiq/internal/models"
	"github.com/go-playground/validator/v10"
)

var (
	// Validate is a shared validator instance
	Validate *validator.Validate
)

func init() {
	Validate = validator.New()

	if err := Validate.RegisterValidation("task_status", validateTaskStatus); err != nil {
		panic(fmt.Sprintf("failed to register task_status validator: %v", err))
	}
	if err := Validate.RegisterValidation("priority", validatePriority); err != nil {
		panic(fmt.Sprintf("failed to register priority validator: %v", err))
	}
}

func validateTaskStatus(fl validator.FieldLevel) bool {
	return ValidateTaskStatus(fl.Field().String()) == nil
}

func validatePriority(fl validator.FieldLevel) bool {
	return ValidatePriority(fl.Field().String()) == nil
}

// SanitizeText sanitizes text input by trimming whitespace and removing
// control characters except newline and tab.
func SanitizeText(text string) string {
	text = strings.TrimSpace(text)

	var sanitized strings.Builder
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		sanitized.WriteRune(r)
	}

	return sanitized.String()
}

// ValidateTaskStatus validates a TaskStatus string value
func ValidateTaskStatus(value string) error {
	switch models.TaskStatus(value) {
	case models.TaskStatusOpen, models.TaskStatusSnoozed, models.TaskStatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid status: %s (must be 'open', 'snoozed', or 'completed')", value)
	}
}

// ValidatePriority validates a Priority string value
func ValidatePriority(value string) error {
	switch models.Priority(value) {
	case models.PriorityLow, models.PriorityNormal, models.PriorityHigh:
		return nil
	default:
		return fmt.Errorf("invalid priority: %s (must be 'low', 'normal', or 'high')", value)
	}
}

// ValidateIntervalType validates an IntervalType string value
func ValidateIntervalType(value string) error {
	switch models.IntervalType(value) {
	case models.IntervalNone, models.IntervalDaily, models.IntervalWeekly, models.IntervalMonthly, models.IntervalYearly:
		return nil
	default:
		return fmt.Errorf("invalid interval type: %s", value)
	}
}

// ValidateIntervalMode validates an IntervalMode string value
func ValidateIntervalMode(value string) error {
	switch models.IntervalMode(value) {
	case models.IntervalModeRelative, models.IntervalModeAbsolute:
		return nil
	default:
		return fmt.Errorf("invalid interval mode: %s (must be 'relative' or 'absolute')", value)
	}
}

// ValidateFilterStatus validates a FilterStatus string value
func ValidateFilterStatus(value string) error {
	switch models.FilterStatus(value) {
	case models.FilterStatusAll, models.FilterStatusOpen, models.FilterStatusSnoozed, models.FilterStatusCompleted:
		return nil
	default:
		return fmt.Errorf("invalid status filter: %s", value)
	}
}

// ValidateFilterDueRange validates a FilterDueRange string value
func ValidateFilterDueRange(value string) error {
	switch models.FilterDueRange(value) {
	case models.FilterDueAll, models.FilterDueToday, models.FilterDueWeek, models.FilterDueOverdue:
		return nil
	default:
		return fmt.Errorf("invalid due range filter: %s", value)
	}
}
