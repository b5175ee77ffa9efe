package server

import (
	"errors"
	"sync"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
)

var (
	// ErrSessionClosed is returned by Send once the session has been closed.
	ErrSessionClosed = errors.New("session closed")
	// ErrSendQueueFull is returned by Send when the write pump has fallen
	// queueSize messages behind.
	ErrSendQueueFull = errors.New("send queue full")
)

// Session is the server side of one authenticated connection. The Registry
// owns it while it is registered. Player is guarded by the Registry lock:
// written only inside Registry.Mutate, read inside ForEach or Snapshot.
type Session struct {
	ID     uuid.UUID
	Player *tycoon.Player

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession returns an open session with a fresh player and a send queue
// holding up to queueSize messages.
func NewSession(id uuid.UUID, queueSize int) *Session {
	return &Session{
		ID:     id,
		Player: tycoon.NewPlayer(id),
		send:   make(chan []byte, queueSize),
		done:   make(chan struct{}),
	}
}

// Send queues an encoded event for the write pump. It never blocks.
func (s *Session) Send(message []byte) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.send <- message:
		return nil
	case <-s.done:
		return ErrSessionClosed
	default:
		return ErrSendQueueFull
	}
}

// Close stops the session. The send channel itself is never closed so a
// racing Send cannot panic.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed once the session has been closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Outbound is the consumer side of the send queue.
func (s *Session) Outbound() <-chan []byte {
	return s.send
}
