package server

import (
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"github.com/corkboardhq/corkboard/backend/internal/registry"
)

type boardResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type boardSummaryResponse struct {
	boardResponse
	Users []registry.Member `json:"users"`
}

type commentResponse struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type noteResponse struct {
	ID        string            `json:"id"`
	BoardID   string            `json:"boardId"`
	Title     string            `json:"title"`
	Content   string            `json:"content"`
	X         float64           `json:"x"`
	Y         float64           `json:"y"`
	UpdatedBy string            `json:"updatedBy"`
	Comments  []commentResponse `json:"comments"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Version   int64             `json:"version"`
}

type userResponse struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	IsOnline     bool   `json:"isOnline"`
}

func toBoardResponse(board *domain.Board) boardResponse {
	return boardResponse{
		ID:          board.ID.String(),
		Name:        board.Name,
		Description: board.Description,
		OwnerID:     board.OwnerID.String(),
		CreatedAt:   board.CreatedAt,
		UpdatedAt:   board.UpdatedAt,
	}
}

func toCommentResponse(comment domain.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		Author:    comment.Author,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}
}

func toNoteResponse(note *domain.Note) noteResponse {
	comments := make([]commentResponse, 0, len(note.Comments))
	for _, comment := range note.Comments {
		comments = append(comments, toCommentResponse(comment))
	}
	return noteResponse{
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
