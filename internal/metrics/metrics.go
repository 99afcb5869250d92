package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_core_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_core_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	ActiveWebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sentinel_core_websocket_connections_active",
			Help: "Number of active WebSocket event subscribers",
		},
	)

	EventBroadcastsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_core_event_broadcasts_total",
			Help: "Total number of event notifications broadcast to subscribers",
		},
		[]string{"type"}, // new_event, event_updated
	)

	WebSocketPrunesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_core_websocket_prunes_total",
			Help: "Subscribers removed after a failed delivery",
		},
	)
)
