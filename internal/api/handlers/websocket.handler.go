package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	gorilla "github.com/gorilla/websocket"

	"github.com/sentinelai/sentinel-core/internal/api/websocket"
	"github.com/sentinelai/sentinel-core/internal/config"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

// WebSocketHandler upgrades dashboard clients onto the event broadcast hub.
type WebSocketHandler struct {
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
	maxMsg   int64
	logger   logger.Logger
}

func NewWebSocketHandler(hub *websocket.Hub, cfg config.WebSocketConfig, logger logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// The dashboard UI is served from a different origin in dev,
			// so origin checks are left to the CORS layer.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		maxMsg: cfg.MaxMessageSize,
		logger: logger,
	}
}

// GET /api/events/ws
func (h *WebSocketHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", "remote", c.ClientIP(), "error", err)
		return
	}
	if h.maxMsg > 0 {
		conn.SetReadLimit(h.maxMsg)
	}

	h.hub.Register(conn)
	h.logger.Info("WebSocket client connected", "remote", c.ClientIP())

	// Clients only listen; the read loop exists to notice disconnects and
	// consume pings.
	defer func() {
		h.hub.Unregister(conn)
		_ = conn.Close()
		h.logger.Info("WebSocket client disconnected", "remote", c.ClientIP())
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
