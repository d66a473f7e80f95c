package models

import "github.com/google/uuid"

// Category groups tasks under a named, colored label. Inactive categories
// are hidden from selection UIs but tasks keep referencing them. Deleting a
// category leaves referencing tasks with a dangling id that renders as an
// unknown label.
type Category struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"-"`
	Name   string    `json:"name"`
	Color  string    `json:"color"`
	Active bool      `json:"active"`
}

// CategoryDraft is the payload for creating a category.
type CategoryDraft struct {
	Name   string `json:"name" validate:"required,min=1,max=100"`
	Color  string `json:"color" validate:"required,hexcolor"`
	Active bool   `json:"active"`
}

// CategoryPatch is a partial update. Nil fields are left unchanged.
type CategoryPatch struct {
	Name   *string `json:"name,omitempty"`
	Color  *string `json:"color,omitempty"`
	Active *bool   `json:"active,omitempty"`
}
