package usecase

import (
	"context"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// CreateNote places a new note on a board on behalf of an editor.
type CreateNote struct {
	notes domain.NoteRepository
	ids   IDProvider
	clock Clock
}

// NewCreateNote constructs the use case.
func NewCreateNote(notes domain.NoteRepository, ids IDProvider, clock Clock) *CreateNote {
	if clock == nil {
		clock = time.Now
	}
	return &CreateNote{notes: notes, ids: ids, clock: clock}
}

// CreateNoteInput carries the create-note event payload.
type CreateNoteInput struct {
	BoardID domain.BoardID
	Title   string
	Content string
	X       float64
	Y       float64
	User    *domain.User
}

// Execute checks the editor role, validates the note and persists it.
func (uc *CreateNote) Execute(ctx context.Context, input CreateNoteInput) (*domain.Note, error) {
	if input.User == nil {
		return nil, domain.NewValidationError("user is required")
	}
	if !input.User.CanEdit(input.BoardID) {
		return nil, domain.NewPermissionError("must be editor to create notes")
	}
	rawID, err := uc.ids.NewID()
	if err != nil {
		return nil, err
	}
	note, err := domain.NewNote(
		domain.NoteID(rawID),
		input.BoardID,
		input.Title,
		input.Content,
		input.X,
		input.Y,
		input.User.Name,
		uc.clock().UTC(),
	)
	if err != nil {
		return nil, err
	}
	if err := uc.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}
