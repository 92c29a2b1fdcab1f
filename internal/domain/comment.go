package domain

import (
	"strings"
	"time"
)

// Comment is an immutable annotation on a note. Comments are appended to the
// owning note and never edited or deleted independently.
type Comment struct {
	ID        string
	Author    string
	Text      string
	CreatedAt time.Time
}

// NewComment validates author and text and returns a Comment.
func NewComment(id, author, text string, now time.Time) (Comment, error) {
	if strings.TrimSpace(author) == "" {
		return Comment{}, NewValidationError("comment author is required")
	}
	if strings.TrimSpace(text) == "" {
		return Comment{}, NewValidationError("comment text is required")
	}
	return Comment{
		ID:        id,
		Author:    author,
		Text:      text,
		CreatedAt: now,
	}, nil
}
