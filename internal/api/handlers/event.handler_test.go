package handlers

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelai/sentinel-core/internal/api/websocket"
	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

// recordingConn captures hub deliveries for assertions.
type recordingConn struct {
	mu       sync.Mutex
	messages []websocket.Message
}

func (c *recordingConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, v.(websocket.Message))
	return nil
}

func (c *recordingConn) SetWriteDeadline(time.Time) error { return nil }
func (c *recordingConn) Close() error                     { return nil }

func (c *recordingConn) received() []websocket.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]websocket.Message(nil), c.messages...)
}

func newEventRouter(events *fakeEventStore, violations *fakeViolationStore, hub *websocket.Hub) *gin.Engine {
	h := NewEventHandler(events, violations, hub, logger.NewNop())
	router := gin.New()
	router.GET("/api/events", h.List)
	router.POST("/api/events", h.Create)
	router.GET("/api/events/stats/summary", h.Stats)
	router.GET("/api/events/:id", h.Get)
	router.PUT("/api/events/:id", h.Update)
	router.GET("/api/events/:id/violations", h.ListViolations)
	return router
}

func seedEvents(store *fakeEventStore, n int) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		store.events = append(store.events, models.Event{
			ID:          store.nextID,
			EventID:     "evt-" + string(rune('a'+i)),
			Type:        models.EventTypeLLMRequest,
			Severity:    models.SeverityLow,
			Status:      models.EventStatusOpen,
			Title:       "Sample event",
			TriggerDate: base.Add(time.Duration(i) * time.Hour),
			CreatedAt:   base,
		})
		store.nextID++
	}
}

func TestEventCreateBroadcastsNewEvent(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	conn := &recordingConn{}
	hub.Register(conn)
	defer hub.Unregister(conn)

	store := newFakeEventStore()
	router := newEventRouter(store, newFakeViolationStore(), hub)

	w := perform(t, router, http.MethodPost, "/api/events", gin.H{
		"event_id":     "evt-1001",
		"event_type":   "llm_request",
		"title":        "Sensitive prompt detected",
		"severity":     "high",
		"trigger_date": "2024-03-01T12:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	messages := conn.received()
	require.Len(t, messages, 1)
	assert.Equal(t, websocket.MessageNewEvent, messages[0].Type)
	payload := messages[0].Event.(map[string]interface{})
	assert.Equal(t, "evt-1001", payload["event_id"])
	assert.Equal(t, models.SeverityHigh, payload["severity"])
}

func TestEventCreateDuplicateExternalID(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	store := newFakeEventStore()
	router := newEventRouter(store, newFakeViolationStore(), hub)

	body := gin.H{
		"event_id":     "evt-dup",
		"event_type":   "llm_request",
		"title":        "First",
		"trigger_date": "2024-03-01T12:00:00Z",
	}
	w := perform(t, router, http.MethodPost, "/api/events", body)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(t, router, http.MethodPost, "/api/events", body)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEventCreateDefaults(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	store := newFakeEventStore()
	router := newEventRouter(store, newFakeViolationStore(), hub)

	w := perform(t, router, http.MethodPost, "/api/events", gin.H{
		"event_id":     "evt-defaults",
		"event_type":   "system_event",
		"title":        "No severity supplied",
		"trigger_date": "2024-03-01T12:00:00Z",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "low", data["severity"])
	assert.Equal(t, "open", data["status"])
}

func TestEventUpdateStampsAcknowledgment(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	conn := &recordingConn{}
	hub.Register(conn)
	defer hub.Unregister(conn)

	store := newFakeEventStore()
	seedEvents(store, 1)
	router := newEventRouter(store, newFakeViolationStore(), hub)

	w := perform(t, router, http.MethodPut, "/api/events/1", gin.H{
		"status":          "acknowledged",
		"acknowledged_by": 7,
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "acknowledged", data["status"])
	assert.EqualValues(t, 7, data["acknowledged_by"])
	assert.NotEmpty(t, data["acknowledged_date"])

	messages := conn.received()
	require.Len(t, messages, 1)
	assert.Equal(t, websocket.MessageEventUpdated, messages[0].Type)
}

func TestEventUpdateWithoutActorLeavesAckDateEmpty(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	store := newFakeEventStore()
	seedEvents(store, 1)
	router := newEventRouter(store, newFakeViolationStore(), hub)

	w := perform(t, router, http.MethodPut, "/api/events/1", gin.H{
		"status": "resolved",
	})
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.Equal(t, "resolved", data["status"])
	_, hasAckDate := data["acknowledged_date"]
	assert.False(t, hasAckDate)
}

func TestEventListNewestFirst(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	store := newFakeEventStore()
	seedEvents(store, 3)
	router := newEventRouter(store, newFakeViolationStore(), hub)

	w := perform(t, router, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	events := data["events"].([]interface{})
	require.Len(t, events, 3)
	first := events[0].(map[string]interface{})
	assert.EqualValues(t, 3, first["id"])
}

func TestEventGetNotFound(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	router := newEventRouter(newFakeEventStore(), newFakeViolationStore(), hub)

	w := perform(t, router, http.MethodGet, "/api/events/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventViolationsRequireExistingEvent(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	events := newFakeEventStore()
	seedEvents(events, 1)
	violations := newFakeViolationStore()
	violations.violations = append(violations.violations, models.Violation{
		ID:       1,
		Type:     models.ViolationTypeDataLeak,
		Severity: models.SeverityHigh,
		Status:   models.ViolationStatusDetected,
		EventID:  1,
		PolicyID: 1,
	})
	router := newEventRouter(events, violations, hub)

	w := perform(t, router, http.MethodGet, "/api/events/1/violations", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.EqualValues(t, 1, data["total"])

	w = perform(t, router, http.MethodGet, "/api/events/42/violations", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEventStatsSummary(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	store := newFakeEventStore()
	seedEvents(store, 2)
	store.events[1].Severity = models.SeverityCritical
	store.events[1].Status = models.EventStatusClosed
	router := newEventRouter(store, newFakeViolationStore(), hub)

	w := perform(t, router, http.MethodGet, "/api/events/stats/summary", nil)
	require.Equal(t, http.StatusOK, w.Code)

	data := decodeData(t, w)
	assert.EqualValues(t, 2, data["total_events"])
	assert.EqualValues(t, 1, data["open_events"])
	assert.EqualValues(t, 1, data["critical_events"])
}
