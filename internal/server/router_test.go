package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"github.com/corkboardhq/corkboard/backend/internal/gateway"
	"github.com/corkboardhq/corkboard/backend/internal/registry"
	"github.com/corkboardhq/corkboard/backend/internal/service"
	"github.com/corkboardhq/corkboard/backend/internal/storage"
	"github.com/corkboardhq/corkboard/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type testEnv struct {
	handler http.Handler
	users   *storage.UserRepository
	health  *storage.Health
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "corkboard.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	boards := storage.NewBoardRepository(db)
	notes := storage.NewNoteRepository(db)
	users := storage.NewUserRepository(db)
	membership := registry.NewMembership()
	ids := usecase.NewUUIDProvider()
	health := storage.NewHealth()
	health.SetReachable(true)

	boardService := service.NewBoards(boards, membership)
	noteService := service.NewNotes(notes)
	presenceService := service.NewUsers(users)

	createBoard := usecase.NewCreateBoard(boards, users, ids, nil)
	updateBoard := usecase.NewUpdateBoard(boards, nil)
	createNote := usecase.NewCreateNote(notes, ids, nil)
	updateNote := usecase.NewUpdateNote(notes, nil)
	deleteNote := usecase.NewDeleteNote(notes)
	addComment := usecase.NewAddComment(notes, ids, nil)

	socketGateway, err := gateway.New(gateway.Dependencies{
		Membership: membership,
		Users:      users,
		UseCases: gateway.UseCases{
			JoinSession: usecase.NewJoinSession(users, nil),
			CreateBoard: createBoard,
			JoinBoard:   usecase.NewJoinBoard(users, boards),
			CreateNote:  createNote,
			UpdateNote:  updateNote,
			DeleteNote:  deleteNote,
			AddComment:  addComment,
		},
		Boards:   boardService,
		Notes:    noteService,
		Presence: presenceService,
		Logger:   zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build gateway: %v", err)
	}

	handler, err := NewHTTPHandler(Dependencies{
		Gateway: socketGateway,
		Users:   users,
		UseCases: UseCases{
			CreateBoard: createBoard,
			UpdateBoard: updateBoard,
			CreateNote:  createNote,
			UpdateNote:  updateNote,
			DeleteNote:  deleteNote,
			AddComment:  addComment,
		},
		Boards:   boardService,
		Notes:    noteService,
		Presence: presenceService,
		Health:   health,
		Logger:   zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("failed to build handler: %v", err)
	}

	return &testEnv{handler: handler, users: users, health: health}
}

func (env *testEnv) saveUser(t *testing.T, connectionID, name string, roles map[domain.BoardID]domain.Role) {
	t.Helper()
	user, err := domain.NewUser(connectionID, name, time.Now().UTC())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for boardID, role := range roles {
		user.GrantRole(boardID, role)
	}
	if err := env.users.Save(context.Background(), user); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	request := httptest.NewRequest(method, path, reader)
	request.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	env.handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	if err := json.Unmarshal(recorder.Body.Bytes(), target); err != nil {
		t.Fatalf("failed to decode response %q: %v", recorder.Body.String(), err)
	}
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodGet, "/health", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var healthy struct {
		Status   string `json:"status"`
		Database struct {
			Connected bool `json:"connected"`
		} `json:"database"`
	}
	decodeBody(t, recorder, &healthy)
	if healthy.Status != "healthy" || !healthy.Database.Connected {
		t.Fatalf("unexpected health payload: %+v", healthy)
	}

	env.health.SetReachable(false)
	recorder = env.do(t, http.MethodGet, "/health", nil)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 when storage unreachable, got %d", recorder.Code)
	}
	decodeBody(t, recorder, &healthy)
	if healthy.Status != "degraded" {
		t.Fatalf("expected degraded status, got %q", healthy.Status)
	}
}

func TestStatusEndpoint(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodGet, "/api/status", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var status struct {
		Database string `json:"database"`
	}
	decodeBody(t, recorder, &status)
	if status.Database != "connected" {
		t.Fatalf("expected connected, got %q", status.Database)
	}
}

func TestCreateBoardOverREST(t *testing.T) {
	env := newTestEnv(t)
	env.saveUser(t, "conn-1", "alice", nil)

	recorder := env.do(t, http.MethodPost, "/api/boards", map[string]string{
		"connectionId": "conn-1",
		"name":         "roadmap",
		"description":  "q3 planning",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var board struct {
		ID      string `json:"id"`
		Name    string `json:"name"`
		OwnerID string `json:"ownerId"`
	}
	decodeBody(t, recorder, &board)
	if board.Name != "roadmap" || board.OwnerID != "conn-1" {
		t.Fatalf("unexpected board: %+v", board)
	}

	recorder = env.do(t, http.MethodGet, "/api/boards", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var listing struct {
		Boards []struct {
			ID string `json:"id"`
		} `json:"boards"`
	}
	decodeBody(t, recorder, &listing)
	if len(listing.Boards) != 1 || listing.Boards[0].ID != board.ID {
		t.Fatalf("unexpected board list: %+v", listing)
	}
}

func TestCreateBoardValidation(t *testing.T) {
	env := newTestEnv(t)

	recorder := env.do(t, http.MethodPost, "/api/boards", map[string]string{"name": "roadmap"})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without connectionId, got %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodPost, "/api/boards", map[string]string{
		"connectionId": "conn-ghost",
		"name":         "roadmap",
	})
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown connection, got %d", recorder.Code)
	}
}

func TestNoteLifecycleOverREST(t *testing.T) {
	env := newTestEnv(t)
	env.saveUser(t, "conn-owner", "alice", nil)

	recorder := env.do(t, http.MethodPost, "/api/boards", map[string]string{
		"connectionId": "conn-owner",
		"name":         "roadmap",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", recorder.Code)
	}
	var board struct {
		ID string `json:"id"`
	}
	decodeBody(t, recorder, &board)

	// A viewer cannot create notes.
	env.saveUser(t, "conn-viewer", "bob", map[domain.BoardID]domain.Role{domain.BoardID(board.ID): domain.RoleViewer})
	recorder = env.do(t, http.MethodPost, "/api/notes", map[string]interface{}{
		"connectionId": "conn-viewer",
		"boardId":      board.ID,
		"title":        "sneaky",
	})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for viewer, got %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodPost, "/api/notes", map[string]interface{}{
		"connectionId": "conn-owner",
		"boardId":      board.ID,
		"title":        "ship it",
		"content":      "by friday",
		"x":            12.5,
		"y":            40.0,
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var note struct {
		ID      string `json:"id"`
		Version int64  `json:"version"`
	}
	decodeBody(t, recorder, &note)
	if note.Version != 0 {
		t.Fatalf("expected version 0, got %d", note.Version)
	}

	// Stale expected version conflicts.
	recorder = env.do(t, http.MethodPut, "/api/notes/"+note.ID, map[string]interface{}{
		"connectionId":    "conn-owner",
		"boardId":         board.ID,
		"title":           "revised",
		"expectedVersion": 5,
	})
	if recorder.Code != http.StatusConflict {
		t.Fatalf("expected 409 for stale version, got %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodPut, "/api/notes/"+note.ID, map[string]interface{}{
		"connectionId": "conn-owner",
		"boardId":      board.ID,
		"title":        "revised",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var updated struct {
		Title   string `json:"title"`
		Version int64  `json:"version"`
	}
	decodeBody(t, recorder, &updated)
	if updated.Title != "revised" || updated.Version != 1 {
		t.Fatalf("unexpected note after update: %+v", updated)
	}

	// Viewers may comment.
	recorder = env.do(t, http.MethodPost, "/api/notes/"+note.ID+"/comments", map[string]string{
		"connectionId": "conn-viewer",
		"boardId":      board.ID,
		"text":         "which friday",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var comment struct {
		Author string `json:"author"`
	}
	decodeBody(t, recorder, &comment)
	if comment.Author != "bob" {
		t.Fatalf("unexpected comment author: %q", comment.Author)
	}

	recorder = env.do(t, http.MethodGet, "/api/boards/"+board.ID, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var data struct {
		Notes []struct {
			Comments []struct {
				Text string `json:"text"`
			} `json:"comments"`
		} `json:"notes"`
	}
	decodeBody(t, recorder, &data)
	if len(data.Notes) != 1 || len(data.Notes[0].Comments) != 1 {
		t.Fatalf("unexpected board data: %+v", data)
	}

	recorder = env.do(t, http.MethodDelete, "/api/notes/"+note.ID+"?connectionId=conn-owner&boardId="+board.ID, nil)
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", recorder.Code, recorder.Body.String())
	}
	recorder = env.do(t, http.MethodGet, "/api/boards/"+board.ID, nil)
	decodeBody(t, recorder, &data)
	if len(data.Notes) != 0 {
		t.Fatalf("expected no notes after delete, got %+v", data.Notes)
	}
}

func TestUpdateBoardOwnerOnlyOverREST(t *testing.T) {
	env := newTestEnv(t)
	env.saveUser(t, "conn-owner", "alice", nil)

	recorder := env.do(t, http.MethodPost, "/api/boards", map[string]string{
		"connectionId": "conn-owner",
		"name":         "roadmap",
	})
	var board struct {
		ID string `json:"id"`
	}
	decodeBody(t, recorder, &board)

	env.saveUser(t, "conn-other", "bob", map[domain.BoardID]domain.Role{domain.BoardID(board.ID): domain.RoleEditor})
	recorder = env.do(t, http.MethodPut, "/api/boards/"+board.ID, map[string]string{
		"connectionId": "conn-other",
		"name":         "hijacked",
	})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner, got %d", recorder.Code)
	}

	recorder = env.do(t, http.MethodPut, "/api/boards/"+board.ID, map[string]string{
		"connectionId": "conn-owner",
		"name":         "renamed",
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", recorder.Code, recorder.Body.String())
	}
	var updated struct {
		Name string `json:"name"`
	}
	decodeBody(t, recorder, &updated)
	if updated.Name != "renamed" {
		t.Fatalf("unexpected board name: %q", updated.Name)
	}
}

func TestMalformedIdentifiersOverREST(t *testing.T) {
	env := newTestEnv(t)
	env.saveUser(t, "conn-1", "alice", nil)

	recorder := env.do(t, http.MethodPost, "/api/notes", map[string]interface{}{
		"connectionId": "conn-1",
		"boardId":      "   ",
		"title":        "orphan",
	})
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank board id, got %d", recorder.Code)
	}
	var failure struct {
		Error string `json:"error"`
	}
	decodeBody(t, recorder, &failure)
	if failure.Error != "invalid board id" {
		t.Fatalf("unexpected error message: %q", failure.Error)
	}

	recorder = env.do(t, http.MethodDelete, "/api/notes/%20?connectionId=conn-1&boardId=board-1", nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank note id, got %d", recorder.Code)
	}
	decodeBody(t, recorder, &failure)
	if failure.Error != "invalid note id" {
		t.Fatalf("unexpected error message: %q", failure.Error)
	}
}

func TestListUsersEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.saveUser(t, "conn-1", "alice", nil)
	env.saveUser(t, "conn-2", "bob", nil)

	recorder := env.do(t, http.MethodGet, "/api/users", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	var listing struct {
		Users []struct {
			Name     string `json:"name"`
			IsOnline bool   `json:"isOnline"`
		} `json:"users"`
	}
	decodeBody(t, recorder, &listing)
	if len(listing.Users) != 2 {
		t.Fatalf("expected two users, got %d", len(listing.Users))
	}
	for _, user := range listing.Users {
		if !user.IsOnline {
			t.Fatalf("expected online users, got %+v", listing.Users)
		}
	}
}
