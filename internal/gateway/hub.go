package gateway

import (
	"sync"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// hub tracks live sessions and their room subscriptions. Rooms are broadcast
// groups keyed by board id; subscribing a connection to a board's room is
// what routes that board's events to it.
type hub struct {
	mu       sync.RWMutex
	sessions map[string]*session
	rooms    map[domain.BoardID]map[string]*session
}

func newHub() *hub {
	return &hub{
		sessions: make(map[string]*session),
		rooms:    make(map[domain.BoardID]map[string]*session),
	}
}

func (h *hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s.id] = s
}

// unregister removes the session from the hub and every room. It reports
// whether the session was still present, so disconnect cleanup runs exactly
// once per connection: after the first call no handler can observe the
// connection as present.
func (h *hub) unregister(connectionID string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[connectionID]; !ok {
		return false
	}
	delete(h.sessions, connectionID)
	for boardID, members := range h.rooms {
		delete(members, connectionID)
		if len(members) == 0 {
			delete(h.rooms, boardID)
		}
	}
	return true
}

func (h *hub) joinRoom(boardID domain.BoardID, s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.sessions[s.id]; !ok {
		// Session disconnected between the handler start and this call.
		return
	}
	if _, ok := h.rooms[boardID]; !ok {
		h.rooms[boardID] = make(map[string]*session)
	}
	h.rooms[boardID][s.id] = s
}

func (h *hub) leaveRoom(boardID domain.BoardID, connectionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members := h.rooms[boardID]
	if members == nil {
		return
	}
	delete(members, connectionID)
	if len(members) == 0 {
		delete(h.rooms, boardID)
	}
}

// broadcastRoom sends the event to every session currently subscribed to the
// board's room. Membership is re-read under the lock at call time; sends
// happen outside the lock against a copied slice.
func (h *hub) broadcastRoom(boardID domain.BoardID, event string, payload interface{}) {
	h.mu.RLock()
	members := h.rooms[boardID]
	copies := make([]*session, 0, len(members))
	for _, member := range members {
		copies = append(copies, member)
	}
	h.mu.RUnlock()
	for _, member := range copies {
		member.send(event, payload)
	}
}

// broadcastAll sends the event to every connected session.
func (h *hub) broadcastAll(event string, payload interface{}) {
	h.mu.RLock()
	copies := make([]*session, 0, len(h.sessions))
	for _, s := range h.sessions {
		copies = append(copies, s)
	}
	h.mu.RUnlock()
	for _, s := range copies {
		s.send(event, payload)
	}
}
