package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/internal/storage"
	"github.com/sentinelai/sentinel-core/pkg/cache"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

const statsCacheTTL = 15 * time.Second

type DashboardHandler struct {
	stats  storage.StatsStore
	cache  cache.Cache
	logger logger.Logger
}

func NewDashboardHandler(stats storage.StatsStore, cache cache.Cache, logger logger.Logger) *DashboardHandler {
	return &DashboardHandler{stats: stats, cache: cache, logger: logger}
}

// GET /api/dashboard/stats - headline counters, cached briefly since the UI
// polls this endpoint
func (h *DashboardHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	if cached, err := h.cache.Get(ctx, "dashboard:stats"); err == nil {
		var stats models.DashboardStats
		if json.Unmarshal(cached, &stats) == nil {
			c.JSON(http.StatusOK, gin.H{"status": "success", "data": stats})
			return
		}
	}

	stats, err := h.stats.DashboardStats(ctx, time.Now().UTC())
	if err != nil {
		h.logger.Error("Failed to compute dashboard stats", "error", err)
		internalError(c)
		return
	}

	if err := h.cache.Set(ctx, "dashboard:stats", stats, statsCacheTTL); err != nil {
		h.logger.Warn("Failed to cache dashboard stats", "error", err)
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": stats})
}

// GET /api/dashboard/events/timeline?days=7 - daily event counts with a
// per-severity breakdown
func (h *DashboardHandler) EventsTimeline(c *gin.Context) {
	days := queryInt(c, "days", 7)
	if days < 1 {
		badRequest(c, "days must be positive")
		return
	}

	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := h.stats.EventsTimeline(c.Request.Context(), since)
	if err != nil {
		h.logger.Error("Failed to build events timeline", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"timeline": models.BuildTimeline(rows), "days": days},
	})
}

// GET /api/dashboard/violations/by-category
func (h *DashboardHandler) ViolationsByCategory(c *gin.Context) {
	counts, err := h.stats.ViolationsByType(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to group violations by type", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"categories": counts}})
}

// GET /api/dashboard/policies/by-status
func (h *DashboardHandler) PoliciesByStatus(c *gin.Context) {
	counts, err := h.stats.PoliciesByStatus(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to group policies by status", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"statuses": counts}})
}

// GET /api/dashboard/recent-activity?limit=10 - events and violations merged
// newest first
func (h *DashboardHandler) RecentActivity(c *gin.Context) {
	limit := queryInt(c, "limit", 10)
	if limit < 1 {
		badRequest(c, "limit must be positive")
		return
	}
	ctx := c.Request.Context()

	events, err := h.stats.RecentEvents(ctx, limit)
	if err != nil {
		h.logger.Error("Failed to load recent events", "error", err)
		internalError(c)
		return
	}
	violations, err := h.stats.RecentViolations(ctx, limit)
	if err != nil {
		h.logger.Error("Failed to load recent violations", "error", err)
		internalError(c)
		return
	}

	activity := models.MergeRecentActivity(events, violations, limit)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"activity": activity}})
}

// GET /api/dashboard/performance-metrics
func (h *DashboardHandler) PerformanceMetrics(c *gin.Context) {
	ctx := c.Request.Context()

	avgDuration, err := h.stats.AvgEventDuration(ctx)
	if err != nil {
		h.logger.Error("Failed to compute average event duration", "error", err)
		internalError(c)
		return
	}
	rows, err := h.stats.PolicyPerformance(ctx)
	if err != nil {
		h.logger.Error("Failed to compute policy performance", "error", err)
		internalError(c)
		return
	}

	metrics := models.BuildPerformanceMetrics(avgDuration, rows)
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": metrics})
}
