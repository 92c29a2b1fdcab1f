package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// AddComment appends an immutable comment to a note. Any role on the board
// suffices; viewers may comment.
type AddComment struct {
	notes domain.NoteRepository
	ids   IDProvider
	clock Clock
}

// NewAddComment constructs the use case.
func NewAddComment(notes domain.NoteRepository, ids IDProvider, clock Clock) *AddComment {
	if clock == nil {
		clock = time.Now
	}
	return &AddComment{notes: notes, ids: ids, clock: clock}
}

// AddCommentInput carries the add-comment event payload.
type AddCommentInput struct {
	BoardID domain.BoardID
	NoteID  domain.NoteID
	Text    string
	User    *domain.User
}

// Execute checks board access and the note's board binding, then appends and
// persists the comment.
func (uc *AddComment) Execute(ctx context.Context, input AddCommentInput) (domain.Comment, error) {
	if input.User == nil {
		return domain.Comment{}, domain.NewValidationError("user is required")
	}
	if !input.User.CanView(input.BoardID) {
		return domain.Comment{}, domain.NewPermissionError("must have access to this board to comment")
	}
	if strings.TrimSpace(input.Text) == "" {
		return domain.Comment{}, domain.NewValidationError("comment text is required")
	}

	note, err := uc.notes.FindByID(ctx, input.NoteID)
	if err != nil {
		return domain.Comment{}, err
	}
	if note.BoardID != input.BoardID {
		return domain.Comment{}, domain.NewPermissionError("note does not belong to this board")
	}

	rawID, err := uc.ids.NewID()
	if err != nil {
		return domain.Comment{}, err
	}
	now := uc.clock().UTC()
	comment, err := domain.NewComment(rawID, input.User.Name, input.Text, now)
	if err != nil {
		return domain.Comment{}, err
	}
	note.AddComment(comment, now)

	if err := uc.notes.Update(ctx, note); err != nil {
		return domain.Comment{}, err
	}
	return comment, nil
}
