package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics
type Metrics struct {
	deliveryAttempts      *prometheus.CounterVec
	deliveryOutcomes      *prometheus.CounterVec
	deliveryFallbackDepth prometheus.Histogram
	notificationsCreated  *prometheus.CounterVec
	websocketClients      prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		deliveryAttempts: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "email_delivery_attempts_total",
				Help: "Provider attempts by result (sent or error kind)",
			},
			[]string{"provider", "result"},
		),
		deliveryOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "email_deliveries_total",
				Help: "Final delivery outcomes across the fallback chain",
			},
			[]string{"outcome"},
		),
		deliveryFallbackDepth: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "email_delivery_fallback_depth",
				Help:    "Number of providers attempted before the chain resolved",
				Buckets: []float64{1, 2, 3},
			},
		),
		notificationsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "admin_notifications_created_total",
				Help: "Admin notifications created by type and severity",
			},
			[]string{"type", "severity"},
		),
		websocketClients: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_websocket_clients",
				Help: "Currently connected dashboard WebSocket clients",
			},
		),
	}
}

// RecordAttempt records one provider attempt; result is "sent" or the
// error kind. Implements delivery.MetricsRecorder.
func (m *Metrics) RecordAttempt(provider string, result string) {
	m.deliveryAttempts.WithLabelValues(provider, result).Inc()
}

// RecordOutcome records the final chain outcome and its depth.
// Implements delivery.MetricsRecorder.
func (m *Metrics) RecordOutcome(delivered bool, attempts int) {
	outcome := "sent"
	if !delivered {
		outcome = "failed"
	}
	m.deliveryOutcomes.WithLabelValues(outcome).Inc()
	m.deliveryFallbackDepth.Observe(float64(attempts))
}

// RecordNotificationCreated records an admin notification create
func (m *Metrics) RecordNotificationCreated(ntype, severity string) {
	m.notificationsCreated.WithLabelValues(ntype, severity).Inc()
}

// WebSocketClientConnected adjusts the connected client gauge
func (m *Metrics) WebSocketClientConnected(delta int) {
	m.websocketClients.Add(float64(delta))
}

// MetricsHandler exposes the Prometheus endpoint
type MetricsHandler struct {
	metrics *Metrics
}

// NewMetricsHandler creates a new MetricsHandler
func NewMetricsHandler(metrics *Metrics) *MetricsHandler {
	return &MetricsHandler{metrics: metrics}
}

// Handler returns the Prometheus HTTP handler
func (h *MetricsHandler) Handler() http.Handler {
	return promhttp.Handler()
}
