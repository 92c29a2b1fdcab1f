package usecase

import (
	"context"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// JoinSession binds a display name to a live connection, creating the
// persisted session user the rest of the protocol authorizes against.
type JoinSession struct {
	users domain.UserRepository
	clock Clock
}

// NewJoinSession constructs the use case.
func NewJoinSession(users domain.UserRepository, clock Clock) *JoinSession {
	if clock == nil {
		clock = time.Now
	}
	return &JoinSession{users: users, clock: clock}
}

// JoinSessionInput carries the join-session event payload.
type JoinSessionInput struct {
	ConnectionID string
	Name         string
}

// Execute creates and persists the user keyed by connection id.
func (uc *JoinSession) Execute(ctx context.Context, input JoinSessionInput) (*domain.User, error) {
	user, err := domain.NewUser(input.ConnectionID, input.Name, uc.clock().UTC())
	if err != nil {
		return nil, err
	}
	if err := uc.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
