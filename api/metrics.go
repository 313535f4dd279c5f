package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/seenimoa/stockgraph/pkg/models"
)

// Metrics holds the server's Prometheus collectors. Each server owns its
// registry so several servers can coexist in one process (tests).
type Metrics struct {
	registry     *prometheus.Registry
	renders      *prometheus.CounterVec
	renderErrors *prometheus.CounterVec
	wsSessions   prometheus.Gauge
	wsMessages   *prometheus.CounterVec
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockgraph",
			Name:      "renders_total",
			Help:      "Charts rendered, by kind and output format.",
		}, []string{"kind", "format"}),
		renderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockgraph",
			Name:      "render_errors_total",
			Help:      "Render requests rejected, by stage.",
		}, []string{"stage"}),
		wsSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stockgraph",
			Name:      "ws_sessions",
			Help:      "Open WebSocket render sessions.",
		}),
		wsMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stockgraph",
			Name:      "ws_messages_total",
			Help:      "WebSocket session messages received, by type.",
		}, []string{"type"}),
	}
	m.registry.MustRegister(
		m.renders,
		m.renderErrors,
		m.wsSessions,
		m.wsMessages,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Rendered counts one successful render.
func (m *Metrics) Rendered(kind models.Kind, format string) {
	m.renders.WithLabelValues(string(kind), format).Inc()
}

// RenderFailed counts one rejected render request.
func (m *Metrics) RenderFailed(stage string) {
	m.renderErrors.WithLabelValues(stage).Inc()
}

// SessionOpened and SessionClosed track live WebSocket sessions.
func (m *Metrics) SessionOpened() { m.wsSessions.Inc() }

// SessionClosed decrements the live session gauge.
func (m *Metrics) SessionClosed() { m.wsSessions.Dec() }

// Message counts one received WebSocket message.
func (m *Metrics) Message(msgType string) {
	m.wsMessages.WithLabelValues(msgType).Inc()
}
