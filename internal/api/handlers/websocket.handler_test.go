package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelai/sentinel-core/internal/api/websocket"
	"github.com/sentinelai/sentinel-core/internal/config"
	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

func dialWebSocket(t *testing.T, srv *httptest.Server) *gorilla.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events/ws"
	conn, _, err := gorilla.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	return conn
}

func TestWebSocketServeRegistersAndDelivers(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	cfg := config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024, MaxMessageSize: 4096}
	h := NewWebSocketHandler(hub, cfg, logger.NewNop())
	router := gin.New()
	router.GET("/api/events/ws", h.Serve)

	srv := httptest.NewServer(router)
	defer srv.Close()

	conn := dialWebSocket(t, srv)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.Count() == 1 },
		time.Second, 10*time.Millisecond, "subscriber not registered")

	hub.BroadcastEventCreated(&models.Event{
		ID:          1,
		EventID:     "evt-ws",
		Title:       "Broadcast check",
		Severity:    models.SeverityHigh,
		Status:      models.EventStatusOpen,
		TriggerDate: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg struct {
		Type  string                 `json:"type"`
		Event map[string]interface{} `json:"event"`
	}
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, websocket.MessageNewEvent, msg.Type)
	assert.Equal(t, "evt-ws", msg.Event["event_id"])
	assert.Equal(t, "high", msg.Event["severity"])
}

func TestWebSocketServeUnregistersOnDisconnect(t *testing.T) {
	hub := websocket.NewHub(time.Second, logger.NewNop())
	cfg := config.WebSocketConfig{ReadBufferSize: 1024, WriteBufferSize: 1024}
	h := NewWebSocketHandler(hub, cfg, logger.NewNop())
	router := gin.New()
	router.GET("/api/events/ws", h.Serve)

	srv := httptest.NewServer(router)
	defer srv.Close()

	first := dialWebSocket(t, srv)
	second := dialWebSocket(t, srv)
	defer second.Close()

	require.Eventually(t, func() bool { return hub.Count() == 2 },
		time.Second, 10*time.Millisecond, "subscribers not registered")

	require.NoError(t, first.Close())
	require.Eventually(t, func() bool { return hub.Count() == 1 },
		time.Second, 10*time.Millisecond, "closed subscriber not unregistered")
}
