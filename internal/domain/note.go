package domain

import (
	"fmt"
	"strings"
	"time"
)

// Position locates a note on the board canvas. Coordinates are non-negative.
type Position struct {
	X float64
	Y float64
}

// NewPosition validates coordinates and returns a Position.
func NewPosition(x, y float64) (Position, error) {
	if x < 0 || y < 0 {
		return Position{}, NewValidationError(fmt.Sprintf("position must be non-negative, got (%v, %v)", x, y))
	}
	return Position{X: x, Y: y}, nil
}

// Note is a positioned, versioned content card on a board. Version increments
// on every title, content or position mutation and acts as an
// optimistic-concurrency signal.
type Note struct {
	ID        NoteID
	BoardID   BoardID
	Title     string
	Content   string
	Position  Position
	UpdatedBy string
	Comments  []Comment
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
}

// NewNote constructs a note on the given board. The board binding is immutable.
func NewNote(id NoteID, boardID BoardID, title, content string, x, y float64, updatedBy string, now time.Time) (*Note, error) {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return nil, NewValidationError("note title is required")
	}
	if boardID == "" {
		return nil, NewValidationError("board id is required")
	}
	position, err := NewPosition(x, y)
	if err != nil {
		return nil, err
	}
	return &Note{
		ID:        id,
		BoardID:   boardID,
		Title:     trimmedTitle,
		Content:   content,
		Position:  position,
		UpdatedBy: updatedBy,
		Comments:  []Comment{},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   0,
	}, nil
}

// UpdateTitle replaces the title and bumps the version.
func (n *Note) UpdateTitle(title, updatedBy string, now time.Time) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return NewValidationError("note title is required")
	}
	n.Title = trimmed
	n.touch(updatedBy, now)
	return nil
}

// UpdateContent replaces the content and bumps the version.
func (n *Note) UpdateContent(content, updatedBy string, now time.Time) error {
	if strings.TrimSpace(content) == "" {
		return NewValidationError("note content is required")
	}
	n.Content = content
	n.touch(updatedBy, now)
	return nil
}

// MoveTo repositions the note and bumps the version.
func (n *Note) MoveTo(x, y float64, updatedBy string, now time.Time) error {
	position, err := NewPosition(x, y)
	if err != nil {
		return err
	}
	n.Position = position
	n.touch(updatedBy, now)
	return nil
}

// AddComment appends an immutable comment. Comments do not bump the version;
// they are annotations, not content edits.
func (n *Note) AddComment(comment Comment, now time.Time) {
	n.Comments = append(n.Comments, comment)
	n.UpdatedAt = now
}

func (n *Note) touch(updatedBy string, now time.Time) {
	n.UpdatedBy = updatedBy
	n.UpdatedAt = now
	n.Version++
}
