package server

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	fanoutBroadcast = "broadcast"
	fanoutTick      = "tick"
)

// Dispatcher queues events on registered sessions. Delivery is best effort:
// a session whose queue rejects an event is evicted and the rest still get
// theirs.
type Dispatcher struct {
	registry *Registry
	metrics  *Metrics
	log      *zap.Logger
	evict    func(*Session)
}

func NewDispatcher(registry *Registry, metrics *Metrics, log *zap.Logger, evict func(*Session)) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		metrics:  metrics,
		log:      log,
		evict:    evict,
	}
}

// Broadcast encodes e once and queues the same bytes on every session.
// It returns the number of sessions the event was queued on.
func (d *Dispatcher) Broadcast(e Event) int {
	message, err := EncodeEvent(e)
	if err != nil {
		d.log.Error("error encoding broadcast", zap.Error(err))
		d.metrics.RecordSendFailure(err)
		return 0
	}

	var batch []outbound
	d.registry.ForEach(func(s *Session) {
		batch = append(batch, outbound{session: s, event: e, message: message})
	})
	return d.deliver(fanoutBroadcast, batch)
}

// Unicast queues e on the session registered under id. Unknown ids are
// ignored.
func (d *Dispatcher) Unicast(id uuid.UUID, e Event) {
	s, ok := d.registry.Get(id)
	if !ok {
		return
	}

	message, err := EncodeEvent(e)
	if err != nil {
		d.log.Error("error encoding event", zap.Stringer("session", id), zap.Error(err))
		d.metrics.RecordSendFailure(err)
		return
	}

	if err := s.Send(message); err != nil {
		d.log.Warn("error queueing event, evicting session", zap.Stringer("session", id), zap.Error(err))
		d.metrics.RecordSendFailure(err)
		d.evict(s)
		return
	}
	d.metrics.RecordEventSent(e.Type())
}

// outbound is one encoded event bound for one session.
type outbound struct {
	session *Session
	event   Event
	message []byte
}

// deliver queues every message in batch. It must be called without the
// registry lock held since eviction takes the write lock.
func (d *Dispatcher) deliver(kind string, batch []outbound) int {
	delivered := 0
	for _, o := range batch {
		if err := o.session.Send(o.message); err != nil {
			d.log.Warn("error queueing event, evicting session", zap.Stringer("session", o.session.ID), zap.Error(err))
			d.metrics.RecordSendFailure(err)
			d.evict(o.session)
			continue
		}
		d.metrics.RecordEventSent(o.event.Type())
		delivered++
	}

	d.metrics.RecordFanout(kind, delivered)
	return delivered
}
