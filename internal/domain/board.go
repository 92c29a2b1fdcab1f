package domain

import (
	"strings"
	"time"
)

// Board is a named collaboration space owning a set of notes.
type Board struct {
	ID          BoardID
	Name        string
	Description string
	OwnerID     UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewBoard constructs a board owned by ownerID. The owner is immutable after
// creation.
func NewBoard(id BoardID, name, description string, ownerID UserID, now time.Time) (*Board, error) {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return nil, NewValidationError("board name is required")
	}
	return &Board{
		ID:          id,
		Name:        trimmedName,
		Description: description,
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateInfo renames the board and replaces its description.
func (b *Board) UpdateInfo(name, description string, now time.Time) error {
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return NewValidationError("board name is required")
	}
	b.Name = trimmedName
	b.Description = description
	b.UpdatedAt = now
	return nil
}
