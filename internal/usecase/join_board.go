package usecase

import (
	"context"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// JoinBoard records a role for the caller on an existing board. The viewer
// role is assigned by default; an explicit role may be supplied.
type JoinBoard struct {
	users  domain.UserRepository
	boards domain.BoardRepository
}

// NewJoinBoard constructs the use case.
func NewJoinBoard(users domain.UserRepository, boards domain.BoardRepository) *JoinBoard {
	return &JoinBoard{users: users, boards: boards}
}

// JoinBoardInput carries the join-board event payload. Role is optional.
type JoinBoardInput struct {
	ConnectionID string
	BoardID      domain.BoardID
	Role         domain.Role
}

// Execute resolves the caller and the board, grants the role and persists it.
// A caller already holding a role keeps it unless an explicit role is given.
func (uc *JoinBoard) Execute(ctx context.Context, input JoinBoardInput) (*domain.User, *domain.Board, error) {
	user, err := uc.users.FindByConnectionID(ctx, input.ConnectionID)
	if err != nil {
		return nil, nil, err
	}
	board, err := uc.boards.FindByID(ctx, input.BoardID)
	if err != nil {
		return nil, nil, err
	}

	role := input.Role
	if role == "" {
		if existing, ok := user.Roles[board.ID]; ok {
			role = existing
		} else {
			role = domain.RoleViewer
		}
	}
	user.GrantRole(board.ID, role)

	if err := uc.users.Save(ctx, user); err != nil {
		return nil, nil, err
	}
	return user, board, nil
}
