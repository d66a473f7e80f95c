package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/antiq-app/antiq/internal/api"
	"github.com/antiq-app/antiq/internal/models"
	"github.com/antiq-app/antiq/internal/store"
)

const (
	dueDateLayout     = "02.01.2006"
	dueDateTimeLayout = "02.01.2006 15:04"
)

// resolveTask accepts a full task id or an unambiguous id prefix.
func resolveTask(ctx context.Context, client api.Client, ref string) (*models.Task, error) {
	if id, err := uuid.Parse(ref); err == nil {
		task, err := client.GetTask(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("get task %s: %w", ref, err)
		}
		return task, nil
	}

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	var matches []*models.Task
	for _, task := range tasks {
		if strings.HasPrefix(task.ID.String(), strings.ToLower(ref)) {
			matches = append(matches, task)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no task matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d tasks, use a longer id prefix", ref, len(matches))
	}
}

// resolveCategory accepts a category id, an id prefix, or an exact name
// (case-insensitive).
func resolveCategory(ctx context.Context, client api.Client, ref string) (*models.Category, error) {
	categories, err := client.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	if id, err := uuid.Parse(ref); err == nil {
		for _, category := range categories {
			if category.ID == id {
				return category, nil
			}
		}
		return nil, fmt.Errorf("no category with id %s", ref)
	}

	for _, category := range categories {
		if strings.EqualFold(category.Name, ref) {
			return category, nil
		}
	}

	var matches []*models.Category
	for _, category := range categories {
		if strings.HasPrefix(category.ID.String(), strings.ToLower(ref)) {
			matches = append(matches, category)
		}
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no category matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%q matches %d categories, use the full name or id", ref, len(matches))
	}
}

// categoryLabels maps category ids to display names. Dangling references
// (deleted categories) resolve to the unknown label.
func categoryLabels(ctx context.Context, client api.Client) (func(*uuid.UUID) string, error) {
	categories, err := client.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	byID := make(map[uuid.UUID]string, len(categories))
	for _, category := range categories {
		byID[category.ID] = category.Name
	}
	return func(id *uuid.UUID) string {
		if id == nil {
			return ""
		}
		if name, ok := byID[*id]; ok {
			return name
		}
		return store.UnknownCategoryName
	}, nil
}

// parseDue parses "02.01.2006 15:04" or the date-only form, which implies
// an all-day task.
func parseDue(value string) (*time.Time, bool, error) {
	if t, err := time.ParseInLocation(dueDateTimeLayout, value, time.Local); err == nil {
		return &t, false, nil
	}
	if t, err := time.ParseInLocation(dueDateLayout, value, time.Local); err == nil {
		return &t, true, nil
	}
	return nil, false, fmt.Errorf("invalid due date %q, expected %q or %q", value, dueDateLayout, dueDateTimeLayout)
}

// derefTasks converts the client's pointer slice into the value slice the
// filter and calendar packages operate on.
func derefTasks(tasks []*models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if task != nil {
			out = append(out, *task)
		}
	}
	return out
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}
