package gateway

import (
	"encoding/json"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"github.com/corkboardhq/corkboard/backend/internal/registry"
)

// Inbound event names.
const (
	EventJoinSession = "join-session"
	EventCreateBoard = "create-board"
	EventListBoards  = "list-boards"
	EventJoinBoard   = "join-board"
	EventLeaveBoard  = "leave-board"
	EventCreateNote  = "create-note"
	EventUpdateNote  = "update-note"
	EventDeleteNote  = "delete-note"
	EventAddComment  = "add-comment"
)

// Outbound event names.
const (
	EventSessionJoined  = "session-joined"
	EventPresenceList   = "presence-list"
	EventBoardCreated   = "board-created"
	EventBoardList      = "board-list"
	EventBoardData      = "board-data"
	EventMemberJoined   = "member-joined"
	EventMemberLeft     = "member-left"
	EventMembersUpdated = "members-updated"
	EventNoteCreated    = "note-created"
	EventNoteUpdated    = "note-updated"
	EventNoteDeleted    = "note-deleted"
	EventCommentAdded   = "comment-added"
	EventError          = "error"
)

// Message is the JSON envelope every frame carries in both directions.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type joinSessionPayload struct {
	Name string `json:"name"`
}

type createBoardPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type joinBoardPayload struct {
	BoardID string `json:"boardId"`
	Role    string `json:"role,omitempty"`
}

type leaveBoardPayload struct {
	BoardID string `json:"boardId"`
}

type createNotePayload struct {
	BoardID string  `json:"boardId"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
}

type updateNotePayload struct {
	BoardID         string   `json:"boardId"`
	NoteID          string   `json:"noteId"`
	Title           *string  `json:"title,omitempty"`
	Content         *string  `json:"content,omitempty"`
	X               *float64 `json:"x,omitempty"`
	Y               *float64 `json:"y,omitempty"`
	ExpectedVersion *int64   `json:"expectedVersion,omitempty"`
}

type deleteNotePayload struct {
	BoardID string `json:"boardId"`
	NoteID  string `json:"noteId"`
}

type addCommentPayload struct {
	BoardID string `json:"boardId"`
	NoteID  string `json:"noteId"`
	Text    string `json:"text"`
}

type sessionJoinedPayload struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
}

type presenceUserPayload struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	IsOnline     bool   `json:"isOnline"`
}

type presenceListPayload struct {
	Users []presenceUserPayload `json:"users"`
}

type boardPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type boardSummaryPayload struct {
	boardPayload
	CreatorName string            `json:"creatorName"`
	Users       []registry.Member `json:"users"`
}

type boardListPayload struct {
	Boards []boardSummaryPayload `json:"boards"`
}

type boardDataPayload struct {
	Board boardPayload      `json:"board"`
	Notes []notePayload     `json:"notes"`
	Users []registry.Member `json:"users"`
}

type memberJoinedPayload struct {
	BoardID string          `json:"boardId"`
	User    registry.Member `json:"user"`
}

type memberLeftPayload struct {
	BoardID string `json:"boardId"`
	UserID  string `json:"userId"`
}

type membersUpdatedPayload struct {
	BoardID string            `json:"boardId"`
	Users   []registry.Member `json:"users"`
}

type commentPayload struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type notePayload struct {
	ID        string           `json:"id"`
	BoardID   string           `json:"boardId"`
	Title     string           `json:"title"`
	Content   string           `json:"content"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
	UpdatedBy string           `json:"updatedBy"`
	Comments  []commentPayload `json:"comments"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Version   int64            `json:"version"`
}

type noteEventPayload struct {
	BoardID string      `json:"boardId"`
	Note    notePayload `json:"note"`
}

type noteDeletedPayload struct {
	BoardID string `json:"boardId"`
	NoteID  string `json:"noteId"`
}

type commentAddedPayload struct {
	BoardID string         `json:"boardId"`
	NoteID  string         `json:"noteId"`
	Comment commentPayload `json:"comment"`
}

type errorPayload struct {
	Message string `json:"message"`
}

func toBoardPayload(board *domain.Board) boardPayload {
	return boardPayload{
		ID:          board.ID.String(),
		Name:        board.Name,
		Description: board.Description,
		OwnerID:     board.OwnerID.String(),
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
}

func toCommentPayload(comment domain.Comment) commentPayload {
	return commentPayload{
		ID:        comment.ID,
		Author:    comment.Author,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

func toNotePayload(note *domain.Note) notePayload {
	comments := make([]commentPayload, 0, len(note.Comments))
	for _, comment := range note.Comments {
		comments = append(comments, toCommentPayload(comment))
	}
	return notePayload{
		ID:        note.ID.String(),
		BoardID:   note.BoardID.String(),
		Title:     note.Title,
		Content:   note.Content,
		X:         note.Position.X,
		Y:         note.Position.Y,
		UpdatedBy: note.UpdatedBy,
		Comments:  comments,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
		Version:   note.Version,
	}
}
