package server

import (
	"context"
	"time"

	"github.com/dylanconnolly/tycoon-be/tycoon"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Options tune a Hub. Zero values fall back to DefaultOptions.
type Options struct {
	TickPeriod     time.Duration
	MoneyPerTick   int
	SendQueueSize  int
	WriteWait      time.Duration
	PongWait       time.Duration
	MaxMessageSize int64
	AllowedOrigins []string
	StoreTimeout   time.Duration
}

func DefaultOptions() Options {
	return Options{
		TickPeriod:     500 * time.Millisecond,
		MoneyPerTick:   1,
		SendQueueSize:  256,
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		MaxMessageSize: 512,
		AllowedOrigins: []string{"*"},
		StoreTimeout:   250 * time.Millisecond,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TickPeriod <= 0 {
		o.TickPeriod = d.TickPeriod
	}
	if o.MoneyPerTick == 0 {
		o.MoneyPerTick = d.MoneyPerTick
	}
	if o.SendQueueSize <= 0 {
		o.SendQueueSize = d.SendQueueSize
	}
	if o.WriteWait <= 0 {
		o.WriteWait = d.WriteWait
	}
	if o.PongWait <= 0 {
		o.PongWait = d.PongWait
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = d.MaxMessageSize
	}
	if len(o.AllowedOrigins) == 0 {
		o.AllowedOrigins = d.AllowedOrigins
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = d.StoreTimeout
	}
	return o
}

// Hub ties together the session registry, the dispatcher and the tick loop.
type Hub struct {
	opts       Options
	registry   *Registry
	dispatcher *Dispatcher
	ticker     *Ticker
	players    tycoon.PlayerService
	metrics    *Metrics
	log        *zap.Logger
}

func NewHub(players tycoon.PlayerService, opts Options, log *zap.Logger) *Hub {
	if players == nil {
		players = tycoon.NopPlayerService{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	opts = opts.withDefaults()

	h := &Hub{
		opts:     opts,
		registry: NewRegistry(),
		players:  players,
		metrics:  NewMetrics(),
		log:      log,
	}
	h.dispatcher = NewDispatcher(h.registry, h.metrics, log, h.unregister)
	h.ticker = &Ticker{
		registry:     h.registry,
		dispatcher:   h.dispatcher,
		players:      players,
		metrics:      h.metrics,
		log:          log.Named("ticker"),
		period:       opts.TickPeriod,
		moneyPerTick: opts.MoneyPerTick,
		storeTimeout: opts.StoreTimeout,
	}

	return h
}

// Run drives the tick loop until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	h.log.Info("starting tick loop", zap.Duration("period", h.opts.TickPeriod))
	h.ticker.Run(ctx)
}

// Tick fires a single tick immediately.
func (h *Hub) Tick(ctx context.Context) {
	h.ticker.Tick(ctx)
}

func (h *Hub) Registry() *Registry { return h.registry }

func (h *Hub) Dispatcher() *Dispatcher { return h.dispatcher }

func (h *Hub) Metrics() *Metrics { return h.metrics }

// register creates and registers a session for a freshly logged in client.
func (h *Hub) register(id uuid.UUID) *Session {
	s := NewSession(id, h.opts.SendQueueSize)
	h.registry.Insert(s)
	h.metrics.RecordSessionCreated(h.registry.Len())
	h.log.Info("session registered", zap.Stringer("session", id))
	return s
}

// unregister closes s and removes it from the registry. Safe to call any
// number of times from the reader, the writer and the dispatcher.
func (h *Hub) unregister(s *Session) {
	s.Close()

	if _, ok := h.registry.Remove(s.ID); !ok {
		return
	}
	h.metrics.RecordSessionDisconnected(h.registry.Len())
	h.log.Info("session unregistered", zap.Stringer("session", s.ID))

	go h.ticker.forget(s.ID)
}
