package server

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBroadcastSendsIdenticalBytes(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 20).Draw(rt, "sessions")
		h := newTestHub(t, nil, Options{})
		sessions := registerSessions(h, n)

		delivered := h.Dispatcher().Broadcast(ErrorEvent{Reason: "maintenance"})
		if delivered != n {
			rt.Fatalf("delivered %d, want %d", delivered, n)
		}

		want, _ := EncodeEvent(ErrorEvent{Reason: "maintenance"})
		for _, s := range sessions {
			got := drain(s)
			if len(got) != 1 {
				rt.Fatalf("session %s got %d messages", s.ID, len(got))
			}
			if string(got[0]) != string(want) {
				rt.Fatalf("session %s got %s", s.ID, got[0])
			}
		}
	})
}

func TestBroadcastSharesOneEncoding(t *testing.T) {
	h := newTestHub(t, nil, Options{})
	sessions := registerSessions(h, 3)

	h.Dispatcher().Broadcast(UpdateEvent{})

	first := drain(sessions[0])
	require.Len(t, first, 1)
	for _, s := range sessions[1:] {
		got := drain(s)
		require.Len(t, got, 1)
		// same backing array, not just equal bytes
		assert.Same(t, &first[0][0], &got[0][0])
	}
}

func TestBroadcastEvictsFailedSessions(t *testing.T) {
	players := &MockPlayerService{}
	h := newTestHub(t, players, Options{SendQueueSize: 1})
	sessions := registerSessions(h, 3)

	closed := sessions[0]
	closed.Close()
	full := sessions[1]
	require.NoError(t, full.Send([]byte("filler")))

	delivered := h.Dispatcher().Broadcast(UpdateEvent{})

	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, h.Registry().Len())
	_, ok := h.Registry().Get(sessions[2].ID)
	assert.True(t, ok)

	// the full session is closed as part of eviction
	assert.ErrorIs(t, full.Send([]byte("x")), ErrSessionClosed)

	m := h.Metrics()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sendFailures.WithLabelValues("closed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sendFailures.WithLabelValues("queue_full")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sessionsDisconnected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.activeSessions))

	assert.Eventually(t, func() bool { return len(players.Removed()) == 2 }, time.Second, 10*time.Millisecond)
}

func TestUnicast(t *testing.T) {
	h := newTestHub(t, nil, Options{})
	sessions := registerSessions(h, 2)

	h.Dispatcher().Unicast(sessions[0].ID, LoginEvent{UserID: "x"})

	got := drain(sessions[0])
	require.Len(t, got, 1)
	assert.Equal(t, `{"type":"login","data":{"user_id":"x"}}`, string(got[0]))
	assert.Empty(t, drain(sessions[1]))
}

func TestUnicastUnknownSessionIsNoop(t *testing.T) {
	h := newTestHub(t, nil, Options{})
	sessions := registerSessions(h, 1)

	h.Dispatcher().Unicast(uuid.New(), UpdateEvent{})

	assert.Empty(t, drain(sessions[0]))
	assert.Equal(t, 1, h.Registry().Len())
}

func TestUnicastEvictsClosedSession(t *testing.T) {
	h := newTestHub(t, nil, Options{})
	s := registerSessions(h, 1)[0]
	s.Close()

	h.Dispatcher().Unicast(s.ID, UpdateEvent{})

	_, ok := h.Registry().Get(s.ID)
	assert.False(t, ok)
}
