// Package service aggregates repository reads into the response payloads the
// gateway and REST layer emit. No mutation logic lives here.
package service

import (
	"context"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"github.com/corkboardhq/corkboard/backend/internal/registry"
)

// Boards assembles board payloads, joining persisted rows with live members.
type Boards struct {
	repo       domain.BoardRepository
	membership *registry.Membership
}

// NewBoards constructs the board aggregation service.
func NewBoards(repo domain.BoardRepository, membership *registry.Membership) *Boards {
	return &Boards{repo: repo, membership: membership}
}

// Get returns a single board.
func (s *Boards) Get(ctx context.Context, id domain.BoardID) (*domain.Board, error) {
	return s.repo.FindByID(ctx, id)
}

// ListWithMembers joins every persisted board with its live member list.
func (s *Boards) ListWithMembers(ctx context.Context) ([]registry.BoardSummary, error) {
	boards, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.membership.SnapshotWithMembers(boards), nil
}

// Notes assembles note payloads for board views.
type Notes struct {
	repo domain.NoteRepository
}

// NewNotes constructs the note aggregation service.
func NewNotes(repo domain.NoteRepository) *Notes {
	return &Notes{repo: repo}
}

// ListByBoard returns every note on the board, comments included.
func (s *Notes) ListByBoard(ctx context.Context, boardID domain.BoardID) ([]*domain.Note, error) {
	return s.repo.FindByBoard(ctx, boardID)
}

// Users assembles the global presence payload.
type Users struct {
	repo domain.UserRepository
}

// NewUsers constructs the user aggregation service.
func NewUsers(repo domain.UserRepository) *Users {
	return &Users{repo: repo}
}

// ListAll returns every identified session user.
func (s *Users) ListAll(ctx context.Context) ([]*domain.User, error) {
	return s.repo.FindAll(ctx)
}
