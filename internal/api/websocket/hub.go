package websocket

import (
	"sync"
	"time"

	"github.com/sentinelai/sentinel-core/internal/metrics"
	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

// Conn is the subset of *websocket.Conn the hub writes to. Tests substitute
// failing connections to exercise pruning.
type Conn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Hub tracks the currently-open event subscribers and fans notification
// payloads out to them, best-effort. Handlers run on preemptive goroutines,
// so the client set is guarded by a mutex around register, unregister and
// the iterate-and-prune walk in broadcast.
type Hub struct {
	mu           sync.Mutex
	clients      map[Conn]bool
	writeTimeout time.Duration
	logger       logger.Logger
}

// Message is the envelope broadcast to every subscriber.
type Message struct {
	Type  string      `json:"type"`
	Event interface{} `json:"event"`
}

const (
	MessageNewEvent     = "new_event"
	MessageEventUpdated = "event_updated"
)

func NewHub(writeTimeout time.Duration, log logger.Logger) *Hub {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Hub{
		clients:      make(map[Conn]bool),
		writeTimeout: writeTimeout,
		logger:       log,
	}
}

// Register adds a subscriber after its upgrade handshake completed.
func (h *Hub) Register(c Conn) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	metrics.ActiveWebSocketConnections.Inc()
	h.logger.Info("WebSocket subscriber connected", "subscribers", h.Count())
}

// Unregister removes a subscriber. No-op when the hub already pruned it.
func (h *Hub) Unregister(c Conn) {
	h.mu.Lock()
	_, ok := h.clients[c]
	if ok {
		delete(h.clients, c)
	}
	h.mu.Unlock()
	if ok {
		metrics.ActiveWebSocketConnections.Dec()
		h.logger.Info("WebSocket subscriber disconnected", "subscribers", h.Count())
	}
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastEventCreated notifies subscribers that an event was inserted.
func (h *Hub) BroadcastEventCreated(ev *models.Event) {
	h.broadcast(Message{
		Type: MessageNewEvent,
		Event: map[string]interface{}{
			"id":           ev.ID,
			"event_id":     ev.EventID,
			"title":        ev.Title,
			"severity":     ev.Severity,
			"status":       ev.Status,
			"trigger_date": ev.TriggerDate.Format(time.RFC3339),
		},
	})
}

// BroadcastEventUpdated notifies subscribers that an event changed.
func (h *Hub) BroadcastEventUpdated(ev *models.Event) {
	h.broadcast(Message{
		Type: MessageEventUpdated,
		Event: map[string]interface{}{
			"id":              ev.ID,
			"status":          ev.Status,
			"acknowledged_by": ev.AcknowledgedBy,
		},
	})
}

// broadcast attempts delivery to every subscriber present at the time of
// the call. A failed write removes exactly that subscriber; the walk always
// reaches the remaining members. Failures are never surfaced to the caller
// that triggered the broadcast.
func (h *Hub) broadcast(msg Message) {
	metrics.EventBroadcastsTotal.WithLabelValues(msg.Type).Inc()

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		_ = c.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if err := c.WriteJSON(msg); err != nil {
			h.logger.Warn("WebSocket delivery failed, pruning subscriber", "type", msg.Type, "error", err)
			delete(h.clients, c)
			_ = c.Close()
			metrics.ActiveWebSocketConnections.Dec()
			metrics.WebSocketPrunesTotal.Inc()
		}
	}
}
