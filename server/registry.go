package server

import (
	"sync"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
)

// Registry tracks every authenticated session. All access to the underlying
// map goes through its methods.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Insert adds s, replacing any session already registered under s.ID.
func (r *Registry) Insert(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = s
}

// Remove deletes the session registered under id. ok is false if there was
// nothing to remove.
func (r *Registry) Remove(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	return s, ok
}

// Get returns the session registered under id.
func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// ForEach calls fn for every registered session under the read lock. fn must
// not call Insert, Remove or Mutate, and must not modify player state.
func (r *Registry) ForEach(fn func(*Session)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.sessions {
		fn(s)
	}
}

// Mutate calls fn for every registered session under the write lock. This is
// the only place player state may change.
func (r *Registry) Mutate(fn func(*Session)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.sessions {
		fn(s)
	}
}

// Players returns a snapshot of every registered player without maps.
func (r *Registry) Players() []tycoon.PlayerSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]tycoon.PlayerSnapshot, 0, len(r.sessions))
	for _, s := range r.sessions {
		players = append(players, s.Player.Snapshot(false))
	}
	return players
}

// Player returns a full snapshot, map included, of one registered player.
func (r *Registry) Player(id uuid.UUID) (tycoon.PlayerSnapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return tycoon.PlayerSnapshot{}, false
	}
	return s.Player.Snapshot(true), true
}
