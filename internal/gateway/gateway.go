// Package gateway owns the per-connection session protocol: it upgrades
// websocket connections, routes inbound named events to use cases and fans
// the resulting events out to the right audience. Authorization decisions
// never happen here beyond resolving the caller; the use cases check roles
// against the persisted role map.
package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
	"github.com/corkboardhq/corkboard/backend/internal/registry"
	"github.com/corkboardhq/corkboard/backend/internal/service"
	"github.com/corkboardhq/corkboard/backend/internal/usecase"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	errMissingMembership = errors.New("membership registry dependency required")
	errMissingUserRepo   = errors.New("user repository dependency required")
	errMissingUseCases   = errors.New("use case dependencies required")
	errMissingServices   = errors.New("service dependencies required")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The REST router already allows any origin; the socket follows suit.
		return true
	},
}

// UseCases bundles the business operations the gateway dispatches to.
type UseCases struct {
	JoinSession *usecase.JoinSession
	CreateBoard *usecase.CreateBoard
	JoinBoard   *usecase.JoinBoard
	CreateNote  *usecase.CreateNote
	UpdateNote  *usecase.UpdateNote
	DeleteNote  *usecase.DeleteNote
	AddComment  *usecase.AddComment
}

func (u UseCases) complete() bool {
	return u.JoinSession != nil && u.CreateBoard != nil && u.JoinBoard != nil &&
		u.CreateNote != nil && u.UpdateNote != nil && u.DeleteNote != nil && u.AddComment != nil
}

// Dependencies wires the gateway at construction; the membership registry is
// injected, never reached through ambient state.
type Dependencies struct {
	Membership *registry.Membership
	Users      domain.UserRepository
	UseCases   UseCases
	Boards     *service.Boards
	Notes      *service.Notes
	Presence   *service.Users
	Logger     *zap.Logger
}

// Gateway multiplexes inbound events to use cases and broadcasts results.
type Gateway struct {
	hub        *hub
	membership *registry.Membership
	users      domain.UserRepository
	useCases   UseCases
	boards     *service.Boards
	notes      *service.Notes
	presence   *service.Users
	logger     *zap.Logger
}

// New validates dependencies and constructs the gateway.
func New(deps Dependencies) (*Gateway, error) {
	if deps.Membership == nil {
		return nil, errMissingMembership
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
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{
		hub:        newHub(),
		membership: deps.Membership,
		users:      deps.Users,
		useCases:   deps.UseCases,
		boards:     deps.Boards,
		notes:      deps.Notes,
		presence:   deps.Presence,
		logger:     logger,
	}, nil
}

// HandleConnection upgrades the request and runs the connection to completion.
func (g *Gateway) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	connectionID := uuid.NewString()
	sess := newSession(connectionID, conn, g.logger)
	g.hub.register(sess)
	go sess.writePump()

	g.logger.Info("connection established", zap.String("connection_id", connectionID))

	g.readLoop(sess)
	g.disconnect(sess)
}

func (g *Gateway) readLoop(sess *session) {
	conn := sess.conn
	conn.SetReadDeadline(timeNow().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(timeNow().Add(readTimeout))
		return nil
	})
	for {
		var message Message
		if err := conn.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.logger.Info("connection read failed",
					zap.String("connection_id", sess.id),
					zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(timeNow().Add(readTimeout))
		g.dispatch(sess, message)
	}
}

// dispatch runs one inbound event to completion before the next event from
// the same connection is read. Failures become a targeted error event; they
// never reach other connections and never crash the process.
func (g *Gateway) dispatch(sess *session, message Message) {
	ctx := context.Background()
	var err error
	switch message.Event {
	case EventJoinSession:
		err = g.handleJoinSession(ctx, sess, message)
	case EventCreateBoard:
		err = g.handleCreateBoard(ctx, sess, message)
	case EventListBoards:
		err = g.handleListBoards(ctx, sess)
	case EventJoinBoard:
		err = g.handleJoinBoard(ctx, sess, message)
	case EventLeaveBoard:
		err = g.handleLeaveBoard(ctx, sess, message)
	case EventCreateNote:
		err = g.handleCreateNote(ctx, sess, message)
	case EventUpdateNote:
		err = g.handleUpdateNote(ctx, sess, message)
	case EventDeleteNote:
		err = g.handleDeleteNote(ctx, sess, message)
	case EventAddComment:
		err = g.handleAddComment(ctx, sess, message)
	default:
		err = domain.NewValidationError("unknown event: " + message.Event)
	}
	if err != nil {
		g.logger.Info("event handling failed",
			zap.String("event", message.Event),
			zap.String("connection_id", sess.id),
			zap.Error(err))
		sess.sendError(clientMessage(err))
	}
}

// disconnect is the single authoritative cleanup routine, invoked exactly
// once per connection close. After hub.unregister returns true no other
// handler observes the connection as present.
func (g *Gateway) disconnect(sess *session) {
	if !g.hub.unregister(sess.id) {
		return
	}
	sess.close()
	g.membership.RemoveConnection(sess.id)

	ctx := context.Background()
	if err := g.users.DeleteByConnectionID(ctx, sess.id); err != nil {
		g.logger.Error("failed to remove session user",
			zap.String("connection_id", sess.id),
			zap.Error(err))
	}
	g.broadcastPresence(ctx)
	g.logger.Info("connection closed", zap.String("connection_id", sess.id))
}

func (g *Gateway) currentUser(ctx context.Context, sess *session) (*domain.User, error) {
	return g.users.FindByConnectionID(ctx, sess.id)
}

// clientMessage maps an error to the message sent to the acting client.
// Domain errors carry their own message; storage failures collapse into a
// generic one.
func clientMessage(err error) string {
	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "internal error"
}
