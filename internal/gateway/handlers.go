package gateway

import (
	"context"
	"encoding/json"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"github.com/corkboardhq/corkboard/backend/internal/registry"
	"github.com/corkboardhq/corkboard/backend/internal/usecase"
	"go.uber.org/zap"
)

var timeNow = time.Now

func parseBoardID(raw string) (domain.BoardID, error) {
	boardID, err := domain.NewBoardID(raw)
	if err != nil {
		return "", domain.NewValidationError("invalid board id")
	}
	return boardID, nil
}

func parseNoteID(raw string) (domain.NoteID, error) {
	noteID, err := domain.NewNoteID(raw)
	if err != nil {
		return "", domain.NewValidationError("invalid note id")
	}
	return noteID, nil
}

// enroll records the member in the board's room. A re-join may carry a
// changed role, so known connections get their role refreshed in place.
func (g *Gateway) enroll(boardID domain.BoardID, member registry.Member) {
	if !g.membership.UpdateRole(boardID, member.ConnectionID, member.Role) {
		g.membership.Add(boardID, member)
	}
}

func decodePayload(message Message, target interface{}) error {
	if len(message.Payload) == 0 {
		return domain.NewValidationError("event payload is required")
	}
	if err := json.Unmarshal(message.Payload, target); err != nil {
		return domain.NewValidationError("malformed event payload")
	}
	return nil
}

func (g *Gateway) handleJoinSession(ctx context.Context, sess *session, message Message) error {
	var payload joinSessionPayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	user, err := g.useCases.JoinSession.Execute(ctx, usecase.JoinSessionInput{
		ConnectionID: sess.id,
		Name:         payload.Name,
	})
	if err != nil {
		return err
	}
	sess.send(EventSessionJoined, sessionJoinedPayload{
		ConnectionID: user.ConnectionID,
		Name:         user.Name,
	})
	g.broadcastPresence(ctx)
	return nil
}

func (g *Gateway) handleCreateBoard(ctx context.Context, sess *session, message Message) error {
	var payload createBoardPayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	user, err := g.currentUser(ctx, sess)
	if err != nil {
		return err
	}
	board, err := g.useCases.CreateBoard.Execute(ctx, usecase.CreateBoardInput{
		Name:        payload.Name,
		Description: payload.Description,
		Owner:       user,
	})
	if err != nil {
		return err
	}

	// The creator is an editor-member of the new board from the start.
	g.hub.joinRoom(board.ID, sess)
	g.enroll(board.ID, registry.Member{
		ConnectionID: sess.id,
		Name:         user.Name,
		Role:         domain.RoleEditor,
	})

	g.hub.broadcastAll(EventBoardCreated, toBoardPayload(board))
	g.broadcastBoardList(ctx)
	return nil
}

func (g *Gateway) handleListBoards(ctx context.Context, sess *session) error {
	payload, err := g.boardListPayload(ctx)
	if err != nil {
		return err
	}
	sess.send(EventBoardList, payload)
	return nil
}

func (g *Gateway) handleJoinBoard(ctx context.Context, sess *session, message Message) error {
	var payload joinBoardPayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	boardID, err := parseBoardID(payload.BoardID)
	if err != nil {
		return err
	}
	var role domain.Role
	if payload.Role != "" {
		role, err = domain.ParseRole(payload.Role)
		if err != nil {
			return err
		}
	}

	user, board, err := g.useCases.JoinBoard.Execute(ctx, usecase.JoinBoardInput{
		ConnectionID: sess.id,
		BoardID:      boardID,
		Role:         role,
	})
	if err != nil {
		return err
	}

	member := registry.Member{
		ConnectionID: sess.id,
		Name:         user.Name,
		Role:         user.RoleIn(board.ID),
	}
	g.hub.joinRoom(board.ID, sess)
	g.enroll(board.ID, member)

	notes, err := g.notes.ListByBoard(ctx, board.ID)
	if err != nil {
		return err
	}
	notePayloads := make([]notePayload, 0, len(notes))
	for _, note := range notes {
		notePayloads = append(notePayloads, toNotePayload(note))
	}
	sess.send(EventBoardData, boardDataPayload{
		Board: toBoardPayload(board),
		Notes: notePayloads,
		Users: g.membership.Members(board.ID),
	})

	g.hub.broadcastRoom(board.ID, EventMemberJoined, memberJoinedPayload{
		BoardID: board.ID.String(),
		User:    member,
	})
	// Membership is re-read at broadcast time rather than captured above; a
	// disconnect may have interleaved with the storage reads.
	g.hub.broadcastRoom(board.ID, EventMembersUpdated, membersUpdatedPayload{
		BoardID: board.ID.String(),
		Users:   g.membership.Members(board.ID),
	})
	g.broadcastBoardList(ctx)
	return nil
}

func (g *Gateway) handleLeaveBoard(ctx context.Context, sess *session, message Message) error {
	var payload leaveBoardPayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	boardID, err := parseBoardID(payload.BoardID)
	if err != nil {
		return err
	}

	g.membership.Remove(boardID, sess.id)
	g.hub.leaveRoom(boardID, sess.id)

	g.hub.broadcastRoom(boardID, EventMemberLeft, memberLeftPayload{
		BoardID: boardID.String(),
		UserID:  sess.id,
	})
	g.broadcastBoardList(ctx)
	return nil
}

func (g *Gateway) handleCreateNote(ctx context.Context, sess *session, message Message) error {
	var payload createNotePayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	boardID, err := parseBoardID(payload.BoardID)
	if err != nil {
		return err
	}
	user, err := g.currentUser(ctx, sess)
	if err != nil {
		return err
	}
	note, err := g.useCases.CreateNote.Execute(ctx, usecase.CreateNoteInput{
		BoardID: boardID,
		Title:   payload.Title,
		Content: payload.Content,
		X:       payload.X,
		Y:       payload.Y,
		User:    user,
	})
	if err != nil {
		return err
	}
	g.hub.broadcastRoom(note.BoardID, EventNoteCreated, noteEventPayload{
		BoardID: note.BoardID.String(),
		Note:    toNotePayload(note),
	})
	return nil
}

func (g *Gateway) handleUpdateNote(ctx context.Context, sess *session, message Message) error {
	var payload updateNotePayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	boardID, err := parseBoardID(payload.BoardID)
	if err != nil {
		return err
	}
	noteID, err := parseNoteID(payload.NoteID)
	if err != nil {
		return err
	}
	user, err := g.currentUser(ctx, sess)
	if err != nil {
		return err
	}
	note, err := g.useCases.UpdateNote.Execute(ctx, usecase.UpdateNoteInput{
		BoardID:         boardID,
		NoteID:          noteID,
		Title:           payload.Title,
		Content:         payload.Content,
		X:               payload.X,
		Y:               payload.Y,
		ExpectedVersion: payload.ExpectedVersion,
		User:            user,
	})
	if err != nil {
		return err
	}
	g.hub.broadcastRoom(note.BoardID, EventNoteUpdated, noteEventPayload{
		BoardID: note.BoardID.String(),
		Note:    toNotePayload(note),
	})
	return nil
}

func (g *Gateway) handleDeleteNote(ctx context.Context, sess *session, message Message) error {
	var payload deleteNotePayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	boardID, err := parseBoardID(payload.BoardID)
	if err != nil {
		return err
	}
	noteID, err := parseNoteID(payload.NoteID)
	if err != nil {
		return err
	}
	user, err := g.currentUser(ctx, sess)
	if err != nil {
		return err
	}
	if err := g.useCases.DeleteNote.Execute(ctx, usecase.DeleteNoteInput{
		BoardID: boardID,
		NoteID:  noteID,
		User:    user,
	}); err != nil {
		return err
	}
	g.hub.broadcastRoom(boardID, EventNoteDeleted, noteDeletedPayload{
		BoardID: boardID.String(),
		NoteID:  noteID.String(),
	})
	return nil
}

func (g *Gateway) handleAddComment(ctx context.Context, sess *session, message Message) error {
	var payload addCommentPayload
	if err := decodePayload(message, &payload); err != nil {
		return err
	}
	boardID, err := parseBoardID(payload.BoardID)
	if err != nil {
		return err
	}
	noteID, err := parseNoteID(payload.NoteID)
	if err != nil {
		return err
	}
	user, err := g.currentUser(ctx, sess)
	if err != nil {
		return err
	}
	comment, err := g.useCases.AddComment.Execute(ctx, usecase.AddCommentInput{
		BoardID: boardID,
		NoteID:  noteID,
		Text:    payload.Text,
		User:    user,
	})
	if err != nil {
		return err
	}
	g.hub.broadcastRoom(boardID, EventCommentAdded, commentAddedPayload{
		BoardID: boardID.String(),
		NoteID:  noteID.String(),
		Comment: toCommentPayload(comment),
	})
	return nil
}

// broadcastPresence sends the global identified-connection list to everyone.
// Distinct from per-board member lists; both channels are kept.
func (g *Gateway) broadcastPresence(ctx context.Context) {
	users, err := g.presence.ListAll(ctx)
	if err != nil {
		g.logger.Error("failed to assemble presence list", zap.Error(err))
		return
	}
	payload := presenceListPayload{Users: make([]presenceUserPayload, 0, len(users))}
	for _, user := range users {
		payload.Users = append(payload.Users, presenceUserPayload{
			ConnectionID: user.ConnectionID,
			Name:         user.Name,
			IsOnline:     true,
		})
	}
	g.hub.broadcastAll(EventPresenceList, payload)
}

func (g *Gateway) broadcastBoardList(ctx context.Context) {
	payload, err := g.boardListPayload(ctx)
	if err != nil {
		g.logger.Error("failed to assemble board list", zap.Error(err))
		return
	}
	g.hub.broadcastAll(EventBoardList, payload)
}

func (g *Gateway) boardListPayload(ctx context.Context) (boardListPayload, error) {
	summaries, err := g.boards.ListWithMembers(ctx)
	if err != nil {
		return boardListPayload{}, err
	}
	users, err := g.presence.ListAll(ctx)
	if err != nil {
		return boardListPayload{}, err
	}
	namesByID := make(map[domain.UserID]string, len(users))
	for _, user := range users {
		namesByID[user.ID] = user.Name
	}

	payload := boardListPayload{Boards: make([]boardSummaryPayload, 0, len(summaries))}
	for _, summary := range summaries {
		payload.Boards = append(payload.Boards, boardSummaryPayload{
			boardPayload: toBoardPayload(summary.Board),
			CreatorName:  namesByID[summary.Board.OwnerID],
			Users:        summary.Members,
		})
	}
	return payload, nil
}
