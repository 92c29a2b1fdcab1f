package usecase

import (
	"context"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// DeleteNote removes a note and its comments on behalf of an editor.
type DeleteNote struct {
	notes domain.NoteRepository
}

// NewDeleteNote constructs the use case.
func NewDeleteNote(notes domain.NoteRepository) *DeleteNote {
	return &DeleteNote{notes: notes}
}

// DeleteNoteInput carries the delete-note event payload.
type DeleteNoteInput struct {
	BoardID domain.BoardID
	NoteID  domain.NoteID
	User    *domain.User
}

// Execute checks the editor role and the note's board binding, then deletes
// the note; comments cascade.
func (uc *DeleteNote) Execute(ctx context.Context, input DeleteNoteInput) error {
	if input.User == nil {
		return domain.NewValidationError("user is required")
	}
	if !input.User.CanEdit(input.BoardID) {
		return domain.NewPermissionError("must be editor to delete notes")
	}

	note, err := uc.notes.FindByID(ctx, input.NoteID)
	if err != nil {
		return err
	}
	if note.BoardID != input.BoardID {
		return domain.NewPermissionError("note does not belong to this board")
	}

	return uc.notes.Delete(ctx, input.NoteID)
}
