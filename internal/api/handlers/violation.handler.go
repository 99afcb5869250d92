package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/internal/storage"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

type ViolationHandler struct {
	violations storage.ViolationStore
	logger     logger.Logger
}

func NewViolationHandler(violations storage.ViolationStore, logger logger.Logger) *ViolationHandler {
	return &ViolationHandler{violations: violations, logger: logger}
}

// GET /api/violations - list violations, newest first, with optional filters
func (h *ViolationHandler) List(c *gin.Context) {
	filter := models.ViolationFilter{
		Skip:  queryInt(c, "skip", 0),
		Limit: queryInt(c, "limit", 100),
	}
	if !validPagination(c, filter.Skip, filter.Limit) {
		return
	}
	if s := c.Query("status"); s != "" {
		status := models.ViolationStatus(s)
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

	violations, err := h.violations.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list violations", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"violations": violations, "total": len(violations)},
	})
}

// GET /api/violations/:id
func (h *ViolationHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	v, err := h.violations.Get(c.Request.Context(), id)
	if err != nil {
		h.respondViolationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": v})
}

// PUT /api/violations/:id - partial update with the same acknowledgment
// stamping rule as events
func (h *ViolationHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var patch models.ViolationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	v, err := h.violations.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.respondViolationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": v})
}

// GET /api/violations/stats/summary
func (h *ViolationHandler) Stats(c *gin.Context) {
	stats, err := h.violations.Stats(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to compute violation stats", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": stats})
}

func (h *ViolationHandler) respondViolationError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Violation not found"})
		return
	}
	h.logger.Error("Violation store error", "error", err)
	internalError(c)
}
