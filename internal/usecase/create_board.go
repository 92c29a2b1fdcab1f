package usecase

import (
	"context"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// CreateBoard creates a collaboration space owned by the caller and grants
// the caller an editor role on it.
type CreateBoard struct {
	boards domain.BoardRepository
	users  domain.UserRepository
	ids    IDProvider
	clock  Clock
}

// NewCreateBoard constructs the use case.
func NewCreateBoard(boards domain.BoardRepository, users domain.UserRepository, ids IDProvider, clock Clock) *CreateBoard {
	if clock == nil {
		clock = time.Now
	}
	return &CreateBoard{boards: boards, users: users, ids: ids, clock: clock}
}

// CreateBoardInput carries the create-board event payload.
type CreateBoardInput struct {
	Name        string
	Description string
	Owner       *domain.User
}

// Execute persists the board and the owner's editor role.
func (uc *CreateBoard) Execute(ctx context.Context, input CreateBoardInput) (*domain.Board, error) {
	if input.Owner == nil {
		return nil, domain.NewValidationError("board owner is required")
	}
	rawID, err := uc.ids.NewID()
	if err != nil {
		return nil, err
	}
	board, err := domain.NewBoard(domain.BoardID(rawID), input.Name, input.Description, input.Owner.ID, uc.clock().UTC())
	if err != nil {
		return nil, err
	}
	if err := uc.boards.Create(ctx, board); err != nil {
		return nil, err
	}
	input.Owner.GrantRole(board.ID, domain.RoleEditor)
	if err := uc.users.Save(ctx, input.Owner); err != nil {
		return nil, err
	}
	return board, nil
}
