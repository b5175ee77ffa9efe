package server

import (
	"context"
	"sync"
	"time"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Ticker advances every player's state at a fixed period and sends each
// player its new balance.
type Ticker struct {
	registry     *Registry
	dispatcher   *Dispatcher
	players      tycoon.PlayerService
	metrics      *Metrics
	log          *zap.Logger
	period       time.Duration
	moneyPerTick int
	storeTimeout time.Duration

	// serializes Tick so two ticks never interleave
	mu sync.Mutex
}

// Run fires a tick every period until ctx is cancelled. The timer is only
// re-armed once a tick's work has been issued, so a slow tick delays the
// next one instead of dropping or stacking it.
func (t *Ticker) Run(ctx context.Context) {
	timer := time.NewTimer(t.period)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			t.log.Info("stopping ticker")
			return
		case <-timer.C:
			t.Tick(ctx)
			timer.Reset(t.period)
		}
	}
}

// Tick runs one fire. Every player earns and has its update encoded in the
// same write-locked pass, so a session registered mid-tick is neither paid
// nor sent anything for it. The updates are then queued and the balances
// mirrored to the player service.
func (t *Ticker) Tick(ctx context.Context) {
	t.mu.Lock()
	defer t.mu.Unlock()

	start := time.Now()

	var (
		batch   []outbound
		players []tycoon.PlayerSnapshot
	)
	t.registry.Mutate(func(s *Session) {
		s.Player.Earn(t.moneyPerTick)
		players = append(players, s.Player.Snapshot(false))

		e := NewUpdateEvent(s.Player.Money)
		message, err := EncodeEvent(e)
		if err != nil {
			t.log.Error("error encoding update", zap.Stringer("session", s.ID), zap.Error(err))
			t.metrics.RecordSendFailure(err)
			return
		}
		batch = append(batch, outbound{session: s, event: e, message: message})
	})

	t.dispatcher.deliver(fanoutTick, batch)

	t.metrics.RecordTick(time.Since(start))

	t.savePlayers(ctx, players)
}

func (t *Ticker) savePlayers(ctx context.Context, players []tycoon.PlayerSnapshot) {
	if len(players) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, t.storeTimeout)
	defer cancel()

	if err := t.players.SavePlayers(ctx, players); err != nil {
		t.log.Warn("error saving players", zap.Int("players", len(players)), zap.Error(err))
	}
}

// forget drops a removed player from the player service. It waits out any
// tick in progress so a save never writes the player back after removal.
func (t *Ticker) forget(id uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), t.storeTimeout)
	defer cancel()

	if err := t.players.RemovePlayer(ctx, id); err != nil {
		t.log.Warn("error removing player", zap.Stringer("session", id), zap.Error(err))
	}
}
