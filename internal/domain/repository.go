package domain

import "context"

// BoardRepository is the persistence contract for boards.
type BoardRepository interface {
	Create(ctx context.Context, board *Board) error
	FindByID(ctx context.Context, id BoardID) (*Board, error)
	FindAll(ctx context.Context) ([]*Board, error)
	Update(ctx context.Context, board *Board) error
	Delete(ctx context.Context, id BoardID) error
}

// NoteRepository is the persistence contract for notes. Comments travel with
// their owning note; deleting a note cascades to its comments.
type NoteRepository interface {
	Create(ctx context.Context, note *Note) error
	FindByID(ctx context.Context, id NoteID) (*Note, error)
	FindByBoard(ctx context.Context, boardID BoardID) ([]*Note, error)
	Update(ctx context.Context, note *Note) error
	Delete(ctx context.Context, id NoteID) error
}

// UserRepository is the persistence contract for session users. Lookups by
// connection id are required in addition to the primary id.
type UserRepository interface {
	Save(ctx context.Context, user *User) error
	FindByConnectionID(ctx context.Context, connectionID string) (*User, error)
	FindAll(ctx context.Context) ([]*User, error)
	DeleteByConnectionID(ctx context.Context, connectionID string) error
}
