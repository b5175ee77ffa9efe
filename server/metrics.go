package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for one Hub. Each Hub gets its own
// registry so tests can build as many hubs as they like.
type Metrics struct {
	registry *prometheus.Registry

	// Session metrics
	activeSessions       prometheus.Gauge
	sessionsCreated      prometheus.Counter
	sessionsDisconnected prometheus.Counter
	handshakeFailures    prometheus.Counter

	// Delivery metrics
	eventsSent      *prometheus.CounterVec // by event type
	sendFailures    *prometheus.CounterVec // by reason
	broadcastFanout *prometheus.HistogramVec

	// Tick metrics
	ticks        prometheus.Counter
	tickDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		activeSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "tycoon_active_sessions",
				Help: "Current number of registered sessions",
			},
		),
		sessionsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tycoon_sessions_created_total",
				Help: "Total number of sessions that completed login",
			},
		),
		sessionsDisconnected: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tycoon_sessions_disconnected_total",
				Help: "Total number of sessions removed from the registry",
			},
		),
		handshakeFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tycoon_handshake_failures_total",
				Help: "Total number of frames rejected before login",
			},
		),
		eventsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tycoon_events_sent_total",
				Help: "Total number of events queued for clients by type",
			},
			[]string{"type"},
		),
		sendFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tycoon_send_failures_total",
				Help: "Total number of failed enqueues by reason",
			},
			[]string{"reason"},
		),
		broadcastFanout: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tycoon_broadcast_fanout",
				Help:    "Number of sessions that received each fan-out",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2000, 5000},
			},
			[]string{"kind"}, // "broadcast" or "tick"
		),
		ticks: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "tycoon_ticks_total",
				Help: "Total number of ticks fired",
			},
		),
		tickDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tycoon_tick_duration_seconds",
				Help:    "Time taken to mutate and dispatch one tick",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// Handler serves this hub's metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordSessionCreated(active int) {
	m.sessionsCreated.Inc()
	m.activeSessions.Set(float64(active))
}

func (m *Metrics) RecordSessionDisconnected(active int) {
	m.sessionsDisconnected.Inc()
	m.activeSessions.Set(float64(active))
}

func (m *Metrics) RecordHandshakeFailure() {
	m.handshakeFailures.Inc()
}

func (m *Metrics) RecordEventSent(t EventType) {
	m.eventsSent.WithLabelValues(string(t)).Inc()
}

func (m *Metrics) RecordSendFailure(err error) {
	m.sendFailures.WithLabelValues(sendFailureReason(err)).Inc()
}

func (m *Metrics) RecordFanout(kind string, recipients int) {
	m.broadcastFanout.WithLabelValues(kind).Observe(float64(recipients))
}

func (m *Metrics) RecordTick(d time.Duration) {
	m.ticks.Inc()
	m.tickDuration.Observe(d.Seconds())
}

func sendFailureReason(err error) string {
	switch {
	case errors.Is(err, ErrSessionClosed):
		return "closed"
	case errors.Is(err, ErrSendQueueFull):
		return "queue_full"
	default:
		return "encode"
	}
}
