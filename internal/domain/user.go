package domain

import (
	"strings"
	"time"
)

// User is an identified session participant. A connection id maps to at most
// one user at a time; the user carries a per-board role map which is the
// single source of authorization truth.
type User struct {
	ID           UserID
	Name         string
	ConnectionID string
	ConnectedAt  time.Time
	Roles        map[BoardID]Role
}

// NewUser constructs a user keyed by its connection identifier.
func NewUser(connectionID, name string, now time.Time) (*User, error) {
	if strings.TrimSpace(connectionID) == "" {
		return nil, NewValidationError("connection id is required")
	}
	trimmedName := strings.TrimSpace(name)
	if trimmedName == "" {
		return nil, NewValidationError("user name is required")
	}
	return &User{
		ID:           UserID(connectionID),
		Name:         trimmedName,
		ConnectionID: connectionID,
		ConnectedAt:  now,
		Roles:        make(map[BoardID]Role),
	}, nil
}

// RoleIn returns the user's role on the board, defaulting to viewer when no
// explicit entry exists. Membership itself is checked via CanView.
func (u *User) RoleIn(boardID BoardID) Role {
	if role, ok := u.Roles[boardID]; ok {
		return role
	}
	return RoleViewer
}

// GrantRole records a role for the board, replacing any previous entry.
func (u *User) GrantRole(boardID BoardID, role Role) {
	if u.Roles == nil {
		u.Roles = make(map[BoardID]Role)
	}
	u.Roles[boardID] = role
}

// CanEdit reports whether the user holds an editor role on the board.
func (u *User) CanEdit(boardID BoardID) bool {
	role, ok := u.Roles[boardID]
	return ok && role.CanEdit()
}

// CanView reports whether the user holds any role on the board. A user with
// no role entry is a non-member.
func (u *User) CanView(boardID BoardID) bool {
	_, ok := u.Roles[boardID]
	return ok
}
