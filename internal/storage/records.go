package storage

import "time"

// boardRecord is the persisted shape of a board.
type boardRecord struct {
	ID          string    `gorm:"column:id;primaryKey;size:190;not null"`
	Name        string    `gorm:"column:name;size:320;not null"`
	Description string    `gorm:"column:description;type:text;not null"`
	OwnerID     string    `gorm:"column:owner_id;size:190;not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
	UpdatedAt   time.Time `gorm:"column:updated_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (boardRecord) TableName() string {
	return "boards"
}

// noteRecord is the persisted shape of a note. Comments live in their own
// table keyed by note id.
type noteRecord struct {
	ID        string    `gorm:"column:id;primaryKey;size:190;not null"`
	BoardID   string    `gorm:"column:board_id;size:190;not null;index:idx_notes_board"`
	Title     string    `gorm:"column:title;size:320;not null"`
	Content   string    `gorm:"column:content;type:text;not null"`
	X         float64   `gorm:"column:x;not null"`
	Y         float64   `gorm:"column:y;not null"`
	UpdatedBy string    `gorm:"column:updated_by;size:320;not null"`
	Version   int64     `gorm:"column:version;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (noteRecord) TableName() string {
	return "notes"
}

// commentRecord is append-only; rows are removed only when the owning note is
// deleted.
type commentRecord struct {
	ID        string    `gorm:"column:id;primaryKey;size:190;not null"`
	NoteID    string    `gorm:"column:note_id;size:190;not null;index:idx_comments_note"`
	Author    string    `gorm:"column:author;size:320;not null"`
	Text      string    `gorm:"column:text;type:text;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (commentRecord) TableName() string {
	return "comments"
}

// userRecord is the persisted shape of a session user.
type userRecord struct {
	ID           string    `gorm:"column:id;primaryKey;size:190;not null"`
	Name         string    `gorm:"column:name;size:320;not null"`
	ConnectionID string    `gorm:"column:connection_id;size:190;not null;uniqueIndex:idx_users_connection"`
	ConnectedAt  time.Time `gorm:"column:connected_at;not null"`
}

// TableName provides the explicit table binding for GORM.
func (userRecord) TableName() string {
	return "users"
}

// roleRecord maps one (user, board) pair to a role.
type roleRecord struct {
	UserID  string `gorm:"column:user_id;primaryKey;size:190;not null"`
	BoardID string `gorm:"column:board_id;primaryKey;size:190;not null"`
	Role    string `gorm:"column:role;size:32;not null"`
}

// TableName provides the explicit table binding for GORM.
func (roleRecord) TableName() string {
	return "user_board_roles"
}
