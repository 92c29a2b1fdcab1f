package gateway

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout    = 10 * time.Second
	pingInterval    = 30 * time.Second
	readTimeout     = 60 * time.Second
	outboundBacklog = 32
)

// session owns one websocket connection. Outbound frames pass through a
// buffered channel drained by a single write pump so concurrent broadcasts
// never interleave writes on the connection.
type session struct {
	id     string
	conn   *websocket.Conn
	out    chan []byte
	closed chan struct{}
	once   sync.Once
	logger *zap.Logger
}

func newSession(id string, conn *websocket.Conn, logger *zap.Logger) *session {
	return &session{
		id:     id,
		conn:   conn,
		out:    make(chan []byte, outboundBacklog),
		closed: make(chan struct{}),
		logger: logger,
	}
}

// send marshals one envelope and queues it. A slow consumer whose backlog is
// full loses the frame; presence and board state are best-effort and the next
// broadcast re-converges.
func (s *session) send(event string, payload interface{}) {
	raw, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("failed to encode event payload",
			zap.String("event", event),
			zap.String("connection_id", s.id),
			zap.Error(err))
		return
	}
	frame, err := json.Marshal(Message{Event: event, Payload: raw})
	if err != nil {
		s.logger.Error("failed to encode event envelope",
			zap.String("event", event),
			zap.String("connection_id", s.id),
			zap.Error(err))
		return
	}
	select {
	case <-s.closed:
	case s.out <- frame:
	default:
		s.logger.Warn("dropping event for slow consumer",
			zap.String("event", event),
			zap.String("connection_id", s.id))
	}
}

func (s *session) sendError(message string) {
	s.send(EventError, errorPayload{Message: message})
}

// close makes send a no-op and stops the write pump. Safe to call twice.
func (s *session) close() {
	s.once.Do(func() {
		close(s.closed)
	})
}

// writePump is the only goroutine writing to the connection. It drains the
// outbound channel and keeps the connection alive with pings.
func (s *session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer s.conn.Close()

	for {
		select {
		case <-s.closed:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			s.conn.WriteMessage(websocket.CloseMessage, nil)
			return
		case frame := <-s.out:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
