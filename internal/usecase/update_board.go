package usecase

import (
	"context"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// UpdateBoard renames a board or replaces its description. Owner-only; the
// owner binding itself is immutable.
type UpdateBoard struct {
	boards domain.BoardRepository
	clock  Clock
}

// NewUpdateBoard constructs the use case.
func NewUpdateBoard(boards domain.BoardRepository, clock Clock) *UpdateBoard {
	if clock == nil {
		clock = time.Now
	}
	return &UpdateBoard{boards: boards, clock: clock}
}

// UpdateBoardInput carries the board rename payload.
type UpdateBoardInput struct {
	BoardID     domain.BoardID
	Name        string
	Description string
	User        *domain.User
}

// Execute checks ownership and applies the rename.
func (uc *UpdateBoard) Execute(ctx context.Context, input UpdateBoardInput) (*domain.Board, error) {
	if input.User == nil {
		return nil, domain.NewValidationError("user is required")
	}
	board, err := uc.boards.FindByID(ctx, input.BoardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != input.User.ID {
		return nil, domain.NewPermissionError("only the board owner can update it")
	}
	if err := board.UpdateInfo(input.Name, input.Description, uc.clock().UTC()); err != nil {
		return nil, err
	}
	if err := uc.boards.Update(ctx, board); err != nil {
		return nil, err
	}
	return board, nil
}
