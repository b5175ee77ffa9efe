package server

import (
	"context"
	"sync"
	"testing"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MockPlayerService struct {
	mu      sync.Mutex
	saves   [][]tycoon.PlayerSnapshot
	removed []uuid.UUID
	calls   []string
	err     error

	// when set, SavePlayers signals saving and then waits on release
	saving  chan struct{}
	release chan struct{}
}

func (m *MockPlayerService) SavePlayers(ctx context.Context, players []tycoon.PlayerSnapshot) error {
	if m.saving != nil {
		m.saving <- struct{}{}
		<-m.release
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves = append(m.saves, players)
	m.calls = append(m.calls, "save")
	return m.err
}

func (m *MockPlayerService) RemovePlayer(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, id)
	m.calls = append(m.calls, "remove")
	return m.err
}

func (m *MockPlayerService) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockPlayerService) Saves() [][]tycoon.PlayerSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]tycoon.PlayerSnapshot(nil), m.saves...)
}

func (m *MockPlayerService) Removed() []uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]uuid.UUID(nil), m.removed...)
}

func newTestHub(t *testing.T, players tycoon.PlayerService, opts Options) *Hub {
	t.Helper()
	return NewHub(players, opts, zap.NewNop())
}

func registerSessions(h *Hub, n int) []*Session {
	sessions := make([]*Session, n)
	for i := range sessions {
		sessions[i] = h.register(uuid.New())
	}
	return sessions
}

// drain empties a session's send queue without blocking.
func drain(s *Session) [][]byte {
	var out [][]byte
	for {
		select {
		case m := <-s.Outbound():
			out = append(out, m)
		default:
			return out
		}
	}
}
