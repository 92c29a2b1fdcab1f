// Package server assembles the HTTP surface: the websocket upgrade endpoint,
// the REST routes that drive the same use cases as the socket protocol, and
// the liveness endpoints.
package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"github.com/corkboardhq/corkboard/backend/internal/gateway"
	"github.com/corkboardhq/corkboard/backend/internal/service"
	"github.com/corkboardhq/corkboard/backend/internal/storage"
	"github.com/corkboardhq/corkboard/backend/internal/usecase"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errMissingGateway  = errors.New("gateway dependency required")
	errMissingUserRepo = errors.New("user repository dependency required")
	errMissingUseCases = errors.New("use case dependencies required")
	errMissingServices = errors.New("service dependencies required")
	errMissingHealth   = errors.New("health dependency required")
)

// UseCases bundles the operations the REST routes dispatch to.
type UseCases struct {
	CreateBoard *usecase.CreateBoard
	UpdateBoard *usecase.UpdateBoard
	CreateNote  *usecase.CreateNote
	UpdateNote  *usecase.UpdateNote
	DeleteNote  *usecase.DeleteNote
	AddComment  *usecase.AddComment
}

func (u UseCases) complete() bool {
	return u.CreateBoard != nil && u.UpdateBoard != nil && u.CreateNote != nil &&
		u.UpdateNote != nil && u.DeleteNote != nil && u.AddComment != nil
}

type Dependencies struct {
	Gateway  *gateway.Gateway
	Users    domain.UserRepository
	UseCases UseCases
	Boards   *service.Boards
	Notes    *service.Notes
	Presence *service.Users
	Health   *storage.Health
	Logger   *zap.Logger
}

// NewHTTPHandler validates dependencies and builds the router.
func NewHTTPHandler(deps Dependencies) (http.Handler, error) {
	if deps.Gateway == nil {
		return nil, errMissingGateway
	}
	if deps.Users == nil {
		return nil, errMissingUserRepo
	}
	if !deps.UseCases.complete() {
		return nil, errMissingUseCases
	}
	if deps.Boards == nil || deps.Notes == nil || deps.Presence == nil {
		return nil, errMissingServices
	}
	if deps.Health == nil {
		return nil, errMissingHealth
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}))

	handler := &httpHandler{
		users:    deps.Users,
		useCases: deps.UseCases,
		boards:   deps.Boards,
		notes:    deps.Notes,
		presence: deps.Presence,
		health:   deps.Health,
		logger:   logger,
	}

	router.GET("/ws", func(c *gin.Context) {
		deps.Gateway.HandleConnection(c.Writer, c.Request)
	})

	router.GET("/health", handler.handleHealth)

	api := router.Group("/api")
	api.GET("/status", handler.handleStatus)
	api.GET("/boards", handler.handleListBoards)
	api.POST("/boards", handler.handleCreateBoard)
	api.GET("/boards/:id", handler.handleBoardData)
	api.PUT("/boards/:id", handler.handleUpdateBoard)
	api.POST("/notes", handler.handleCreateNote)
	api.PUT("/notes/:id", handler.handleUpdateNote)
	api.DELETE("/notes/:id", handler.handleDeleteNote)
	api.POST("/notes/:id/comments", handler.handleAddComment)
	api.GET("/users", handler.handleListUsers)

	return router, nil
}

type httpHandler struct {
	users    domain.UserRepository
	useCases UseCases
	boards   *service.Boards
	notes    *service.Notes
	presence *service.Users
	health   *storage.Health
	logger   *zap.Logger
}

func (h *httpHandler) handleHealth(c *gin.Context) {
	reachable := h.health.Reachable()
	status := "healthy"
	code := http.StatusOK
	if !reachable {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"database":  gin.H{"connected": reachable},
	})
}

func (h *httpHandler) handleStatus(c *gin.Context) {
	database := "disconnected"
	if h.health.Reachable() {
		database = "connected"
	}
	c.JSON(http.StatusOK, gin.H{
		"database":  database,
		"timestamp": time.Now().UTC(),
	})
}

type createBoardRequest struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

func (h *httpHandler) handleCreateBoard(c *gin.Context) {
	var request createBoardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.fail(c, domain.NewValidationError("malformed request body"))
		return
	}
	caller, ok := h.resolveCaller(c, request.ConnectionID)
	if !ok {
		return
	}
	board, err := h.useCases.CreateBoard.Execute(c.Request.Context(), usecase.CreateBoardInput{
		Name:        request.Name,
		Description: request.Description,
		Owner:       caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBoardResponse(board))
}

type updateBoardRequest struct {
	ConnectionID string `json:"connectionId"`
	Name         string `json:"name"`
	Description  string `json:"description"`
}

func (h *httpHandler) handleUpdateBoard(c *gin.Context) {
	var request updateBoardRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.fail(c, domain.NewValidationError("malformed request body"))
		return
	}
	boardID, ok := h.parseBoardID(c, c.Param("id"))
	if !ok {
		return
	}
	caller, ok := h.resolveCaller(c, request.ConnectionID)
	if !ok {
		return
	}
	board, err := h.useCases.UpdateBoard.Execute(c.Request.Context(), usecase.UpdateBoardInput{
		BoardID:     boardID,
		Name:        request.Name,
		Description: request.Description,
		User:        caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toBoardResponse(board))
}

func (h *httpHandler) handleListBoards(c *gin.Context) {
	summaries, err := h.boards.ListWithMembers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	boards := make([]boardSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		boards = append(boards, boardSummaryResponse{
			boardResponse: toBoardResponse(summary.Board),
			Users:         summary.Members,
		})
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

func (h *httpHandler) handleBoardData(c *gin.Context) {
	ctx := c.Request.Context()
	boardID, ok := h.parseBoardID(c, c.Param("id"))
	if !ok {
		return
	}
	board, err := h.boards.Get(ctx, boardID)
	if err != nil {
		h.fail(c, err)
		return
	}
	notes, err := h.notes.ListByBoard(ctx, boardID)
	if err != nil {
		h.fail(c, err)
		return
	}
	noteResponses := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		noteResponses = append(noteResponses, toNoteResponse(note))
	}
	c.JSON(http.StatusOK, gin.H{
		"board": toBoardResponse(board),
		"notes": noteResponses,
	})
}

type createNoteRequest struct {
	ConnectionID string  `json:"connectionId"`
	BoardID      string  `json:"boardId"`
	Title        string  `json:"title"`
	Content      string  `json:"content"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

func (h *httpHandler) handleCreateNote(c *gin.Context) {
	var request createNoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.fail(c, domain.NewValidationError("malformed request body"))
		return
	}
	boardID, ok := h.parseBoardID(c, request.BoardID)
	if !ok {
		return
	}
	caller, ok := h.resolveCaller(c, request.ConnectionID)
	if !ok {
		return
	}
	note, err := h.useCases.CreateNote.Execute(c.Request.Context(), usecase.CreateNoteInput{
		BoardID: boardID,
		Title:   request.Title,
		Content: request.Content,
		X:       request.X,
		Y:       request.Y,
		User:    caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toNoteResponse(note))
}

type updateNoteRequest struct {
	ConnectionID    string   `json:"connectionId"`
	BoardID         string   `json:"boardId"`
	Title           *string  `json:"title,omitempty"`
	Content         *string  `json:"content,omitempty"`
	X               *float64 `json:"x,omitempty"`
	Y               *float64 `json:"y,omitempty"`
	ExpectedVersion *int64   `json:"expectedVersion,omitempty"`
}

func (h *httpHandler) handleUpdateNote(c *gin.Context) {
	var request updateNoteRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.fail(c, domain.NewValidationError("malformed request body"))
		return
	}
	boardID, ok := h.parseBoardID(c, request.BoardID)
	if !ok {
		return
	}
	noteID, ok := h.parseNoteID(c, c.Param("id"))
	if !ok {
		return
	}
	caller, ok := h.resolveCaller(c, request.ConnectionID)
	if !ok {
		return
	}
	note, err := h.useCases.UpdateNote.Execute(c.Request.Context(), usecase.UpdateNoteInput{
		BoardID:         boardID,
		NoteID:          noteID,
		Title:           request.Title,
		Content:         request.Content,
		X:               request.X,
		Y:               request.Y,
		ExpectedVersion: request.ExpectedVersion,
		User:            caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toNoteResponse(note))
}

func (h *httpHandler) handleDeleteNote(c *gin.Context) {
	boardID, ok := h.parseBoardID(c, c.Query("boardId"))
	if !ok {
		return
	}
	noteID, ok := h.parseNoteID(c, c.Param("id"))
	if !ok {
		return
	}
	caller, ok := h.resolveCaller(c, c.Query("connectionId"))
	if !ok {
		return
	}
	err := h.useCases.DeleteNote.Execute(c.Request.Context(), usecase.DeleteNoteInput{
		BoardID: boardID,
		NoteID:  noteID,
		User:    caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type addCommentRequest struct {
	ConnectionID string `json:"connectionId"`
	BoardID      string `json:"boardId"`
	Text         string `json:"text"`
}

func (h *httpHandler) handleAddComment(c *gin.Context) {
	var request addCommentRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		h.fail(c, domain.NewValidationError("malformed request body"))
		return
	}
	boardID, ok := h.parseBoardID(c, request.BoardID)
	if !ok {
		return
	}
	noteID, ok := h.parseNoteID(c, c.Param("id"))
	if !ok {
		return
	}
	caller, ok := h.resolveCaller(c, request.ConnectionID)
	if !ok {
		return
	}
	comment, err := h.useCases.AddComment.Execute(c.Request.Context(), usecase.AddCommentInput{
		BoardID: boardID,
		NoteID:  noteID,
		Text:    request.Text,
		User:    caller,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (h *httpHandler) handleListUsers(c *gin.Context) {
	users, err := h.presence.ListAll(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, userResponse{
			ConnectionID: user.ConnectionID,
			Name:         user.Name,
			IsOnline:     true,
		})
	}
	c.JSON(http.StatusOK, gin.H{"users": responses})
}

func (h *httpHandler) parseBoardID(c *gin.Context, raw string) (domain.BoardID, bool) {
	boardID, err := domain.NewBoardID(raw)
	if err != nil {
		h.fail(c, domain.NewValidationError("invalid board id"))
		return "", false
	}
	return boardID, true
}

func (h *httpHandler) parseNoteID(c *gin.Context, raw string) (domain.NoteID, bool) {
	noteID, err := domain.NewNoteID(raw)
	if err != nil {
		h.fail(c, domain.NewValidationError("invalid note id"))
		return "", false
	}
	return noteID, true
}

// resolveCaller loads the session user a REST client acts as. REST requests
// ride on an existing websocket identity; there is no separate credential.
func (h *httpHandler) resolveCaller(c *gin.Context, connectionID string) (*domain.User, bool) {
	if connectionID == "" {
		h.fail(c, domain.NewValidationError("connectionId is required"))
		return nil, false
	}
	user, err := h.users.FindByConnectionID(c.Request.Context(), connectionID)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return user, true
}

func (h *httpHandler) fail(c *gin.Context, err error) {
	code, message := statusForError(err)
	if code == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(code, gin.H{"error": message})
}

// statusForError maps the domain error taxonomy onto HTTP statuses. Foreign
// errors are storage failures and collapse into a 500.
func statusForError(err error) (int, string) {
	var domainErr *domain.Error
	if !errors.As(err, &domainErr) {
		return http.StatusInternalServerError, "internal error"
	}
	switch domainErr.Kind {
	case domain.KindValidation:
		return http.StatusBadRequest, domainErr.Message
	case domain.KindNotFound:
		return http.StatusNotFound, domainErr.Message
	case domain.KindPermission:
		return http.StatusForbidden, domainErr.Message
	case domain.KindConcurrency:
		return http.StatusConflict, domainErr.Message
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
