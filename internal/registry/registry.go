// Package registry tracks which connections are currently subscribed to which
// boards. The registry is a derived, best-effort broadcast-routing cache; it is
// never consulted for authorization, which always runs against the persisted
// role map.
package registry

import (
	"sync"

	"github.com/corkboardhq/corkboard/backend/internal/domain"
)

// Member is one live connection inside a board room.
type Member struct {
	ConnectionID string      `json:"connectionId"`
	Name         string      `json:"name"`
	Role         domain.Role `json:"role"`
}

// BoardSummary pairs a persisted board with its live members for list views.
type BoardSummary struct {
	Board   *domain.Board
	Members []Member
}

// Membership is the in-memory presence registry. All operations are safe for
// concurrent use and never fail: absent boards and members read as empty.
type Membership struct {
	mu     sync.RWMutex
	boards map[domain.BoardID][]Member
}

// NewMembership constructs an empty registry.
func NewMembership() *Membership {
	return &Membership{
		boards: make(map[domain.BoardID][]Member),
	}
}

// Add inserts member into the board's room. Adding the same connection id
// twice is a no-op; the board entry is created lazily on first join.
func (m *Membership) Add(boardID domain.BoardID, member Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.boards[boardID] {
		if existing.ConnectionID == member.ConnectionID {
			return
		}
	}
	m.boards[boardID] = append(m.boards[boardID], member)
}

// Remove drops the matching connection from the board's room. Empty rooms are
// garbage-collected. Absent boards and members are a no-op.
func (m *Membership) Remove(boardID domain.BoardID, connectionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removeLocked(boardID, connectionID)
}

// RemoveConnection drops the connection from every board it joined. Used on
// disconnect; the contract supports concurrent multi-board membership.
func (m *Membership) RemoveConnection(connectionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for boardID := range m.boards {
		m.removeLocked(boardID, connectionID)
	}
}

func (m *Membership) removeLocked(boardID domain.BoardID, connectionID string) {
	members := m.boards[boardID]
	for index, member := range members {
		if member.ConnectionID != connectionID {
			continue
		}
		members = append(members[:index], members[index+1:]...)
		if len(members) == 0 {
			delete(m.boards, boardID)
		} else {
			m.boards[boardID] = members
		}
		return
	}
}

// Members returns a copy of the board's current member list. Unknown boards
// read as empty, never as an error.
func (m *Membership) Members(boardID domain.BoardID) []Member {
	m.mu.RLock()
	defer m.mu.RUnlock()
	members := m.boards[boardID]
	copied := make([]Member, len(members))
	copy(copied, members)
	return copied
}

// UpdateRole changes the role of an existing member in place and reports
// whether a matching member was found.
func (m *Membership) UpdateRole(boardID domain.BoardID, connectionID string, role domain.Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	members := m.boards[boardID]
	for index := range members {
		if members[index].ConnectionID == connectionID {
			members[index].Role = role
			return true
		}
	}
	return false
}

// SnapshotWithMembers joins persisted board summaries with their live member
// lists for list-view broadcasts.
func (m *Membership) SnapshotWithMembers(boards []*domain.Board) []BoardSummary {
	m.mu.RLock()
	defer m.mu.RUnlock()
	summaries := make([]BoardSummary, 0, len(boards))
	for _, board := range boards {
		members := m.boards[board.ID]
		copied := make([]Member, len(members))
		copy(copied, members)
		summaries = append(summaries, BoardSummary{Board: board, Members: copied})
	}
	return summaries
}

// BoardCount reports the number of boards with at least one live member.
func (m *Membership) BoardCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.boards)
}
