package domain

import (
	"fmt"
	"strings"
)

// Role scopes a permission level to a (user, board) pair.
type Role string

const (
	// RoleViewer may read board contents and add comments.
	RoleViewer Role = "viewer"
	// RoleEditor may additionally create, update and delete notes.
	RoleEditor Role = "editor"
)

// ParseRole validates raw input and returns a Role.
func ParseRole(rawInput string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(rawInput))) {
	case RoleViewer:
		return RoleViewer, nil
	case RoleEditor:
		return RoleEditor, nil
	default:
		return "", NewValidationError(fmt.Sprintf("invalid role %q", rawInput))
	}
}

// CanEdit reports whether the role permits note mutations.
func (r Role) CanEdit() bool {
	return r == RoleEditor
}

// String returns the wire representation of the role.
func (r Role) String() string {
	return string(r)
}
