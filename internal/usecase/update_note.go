package usecase

import (
	"context"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// UpdateNote mutates a note's title, content or position on behalf of an
// editor. Every accepted mutation bumps the note version.
type UpdateNote struct {
	notes domain.NoteRepository
	clock Clock
}

// NewUpdateNote constructs the use case.
func NewUpdateNote(notes domain.NoteRepository, clock Clock) *UpdateNote {
	if clock == nil {
		clock = time.Now
	}
	return &UpdateNote{notes: notes, clock: clock}
}

// UpdateNoteInput carries the update-note event payload. Nil fields are left
// untouched; X and Y travel together or not at all. ExpectedVersion, when
// supplied, must match the stored version or
// the update is rejected with a concurrency error; when absent the write is
// last-write-wins.
type UpdateNoteInput struct {
	BoardID         domain.BoardID
	NoteID          domain.NoteID
	Title           *string
	Content         *string
	X               *float64
	Y               *float64
	ExpectedVersion *int64
	User            *domain.User
}

// Execute checks the editor role, the note's board binding and the optional
// expected version, then applies the requested mutations.
func (uc *UpdateNote) Execute(ctx context.Context, input UpdateNoteInput) (*domain.Note, error) {
	if input.User == nil {
		return nil, domain.NewValidationError("user is required")
	}
	if (input.X != nil) != (input.Y != nil) {
		return nil, domain.NewValidationError("position update requires both x and y")
	}
	if !input.User.CanEdit(input.BoardID) {
		return nil, domain.NewPermissionError("must be editor to update notes")
	}

	note, err := uc.notes.FindByID(ctx, input.NoteID)
	if err != nil {
		return nil, err
	}
	if note.BoardID != input.BoardID {
		return nil, domain.NewPermissionError("note does not belong to this board")
	}
	if input.ExpectedVersion != nil && *input.ExpectedVersion != note.Version {
		return nil, domain.NewConcurrencyError("note was modified by another editor")
	}

	now := uc.clock().UTC()
	if input.Title != nil {
		if err := note.UpdateTitle(*input.Title, input.User.Name, now); err != nil {
			return nil, err
		}
	}
	if input.Content != nil {
		if err := note.UpdateContent(*input.Content, input.User.Name, now); err != nil {
			return nil, err
		}
	}
	if input.X != nil && input.Y != nil {
		if err := note.MoveTo(*input.X, *input.Y, input.User.Name, now); err != nil {
			return nil, err
		}
	}

	if err := uc.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}
