package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sentinelai/sentinel-core/internal/api/websocket"
	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/internal/storage"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

type EventHandler struct {
	events     storage.EventStore
	violations storage.ViolationStore
	hub        *websocket.Hub
	logger     logger.Logger
}

func NewEventHandler(events storage.EventStore, violations storage.ViolationStore, hub *websocket.Hub, logger logger.Logger) *EventHandler {
	return &EventHandler{
		events:     events,
		violations: violations,
		hub:        hub,
		logger:     logger,
	}
}

// GET /api/events - list events, newest first, with optional filters
func (h *EventHandler) List(c *gin.Context) {
	filter := models.EventFilter{
		Skip:  queryInt(c, "skip", 0),
		Limit: queryInt(c, "limit", 100),
	}
	if !validPagination(c, filter.Skip, filter.Limit) {
		return
	}
	if s := c.Query("status"); s != "" {
		status := models.EventStatus(s)
		if !status.Valid() {
			badRequest(c, "invalid status filter")
			return
		}
		filter.Status = &status
	}
	if s := c.Query("severity"); s != "" {
		severity := models.Severity(s)
		if !severity.Valid() {
			badRequest(c, "invalid severity filter")
			return
		}
		filter.Severity = &severity
	}
	if raw := c.Query("policy_id"); raw != "" {
		policyID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "invalid policy_id filter")
			return
		}
		filter.PolicyID = &policyID
	}

	events, err := h.events.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list events", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"events": events, "total": len(events)},
	})
}

// GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ev, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		h.respondEventError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": ev})
}

// POST /api/events - create an event and broadcast new_event
func (h *EventHandler) Create(c *gin.Context) {
	var req models.EventCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	req.Defaults()
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	ev := models.Event{
		EventID:          req.EventID,
		Type:             req.Type,
		Severity:         req.Severity,
		Status:           req.Status,
		Title:            req.Title,
		Description:      req.Description,
		EventData:        req.EventData,
		ModelName:        req.ModelName,
		RequestTokens:    req.RequestTokens,
		ResponseTokens:   req.ResponseTokens,
		CompletionReason: req.CompletionReason,
		RequestTemp:      req.RequestTemp,
		RequestMaxTokens: req.RequestMaxTokens,
		TriggerDate:      req.TriggerDate,
		DurationMS:       req.DurationMS,
		PolicyID:         req.PolicyID,
		UserID:           req.UserID,
	}

	if err := h.events.Create(c.Request.Context(), &ev); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"status": "error", "error": "Event id already exists"})
			return
		}
		h.logger.Error("Failed to create event", "eventId", req.EventID, "error", err)
		internalError(c)
		return
	}

	h.hub.BroadcastEventCreated(&ev)

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": ev})
}

// PUT /api/events/:id - partial update and broadcast event_updated.
// Supplying acknowledged_by stamps the acknowledgment time server-side.
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var patch models.EventPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	ev, err := h.events.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.respondEventError(c, err)
		return
	}

	h.hub.BroadcastEventUpdated(ev)

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": ev})
}

// GET /api/events/:id/violations
func (h *EventHandler) ListViolations(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.events.Get(c.Request.Context(), id); err != nil {
		h.respondEventError(c, err)
		return
	}

	violations, err := h.violations.ListByEvent(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to list event violations", "eventId", id, "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"violations": violations, "total": len(violations)},
	})
}

// GET /api/events/stats/summary
func (h *EventHandler) Stats(c *gin.Context) {
	stats, err := h.events.Stats(c.Request.Context(), time.Now().UTC())
	if err != nil {
		h.logger.Error("Failed to compute event stats", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": stats})
}

func (h *EventHandler) respondEventError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Event not found"})
		return
	}
	h.logger.Error("Event store error", "error", err)
	internalError(c)
}
