package storage

import "sync/atomic"

// Health tracks whether the backing store is reachable. Set once at startup
// and flipped on connect failure; consumed by the liveness endpoint.
type Health struct {
	reachable atomic.Bool
}

// NewHealth constructs an unreachable health flag.
func NewHealth() *Health {
	return &Health{}
}

// SetReachable records the current storage reachability.
func (h *Health) SetReachable(reachable bool) {
	h.reachable.Store(reachable)
}

// Reachable reports the last recorded storage reachability.
func (h *Health) Reachable() bool {
	return h.reachable.Load()
}
