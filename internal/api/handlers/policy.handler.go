package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/internal/storage"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

type PolicyHandler struct {
	policies  storage.PolicyStore
	templates storage.TemplateStore
	logger    logger.Logger
}

func NewPolicyHandler(policies storage.PolicyStore, templates storage.TemplateStore, logger logger.Logger) *PolicyHandler {
	return &PolicyHandler{
		policies:  policies,
		templates: templates,
		logger:    logger,
	}
}

// GET /api/policies - list policies with optional status/category filters
func (h *PolicyHandler) List(c *gin.Context) {
	filter := models.PolicyFilter{
		Skip:  queryInt(c, "skip", 0),
		Limit: queryInt(c, "limit", 100),
	}
	if !validPagination(c, filter.Skip, filter.Limit) {
		return
	}
	if s := c.Query("status"); s != "" {
		status := models.PolicyStatus(s)
		if !status.Valid() {
			badRequest(c, "invalid status filter")
			return
		}
		filter.Status = &status
	}
	if cat := c.Query("category"); cat != "" {
		category := models.PolicyCategory(cat)
		if !category.Valid() {
			badRequest(c, "invalid category filter")
			return
		}
		filter.Category = &category
	}

	policies, err := h.policies.List(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list policies", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"policies": policies, "total": len(policies)},
	})
}

// GET /api/policies/:id
func (h *PolicyHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	policy, err := h.policies.Get(c.Request.Context(), id)
	if err != nil {
		h.respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": policy})
}

// POST /api/policies - create a policy, deriving cost/latency estimates
// from the performance mode
func (h *PolicyHandler) Create(c *gin.Context) {
	var req models.PolicyCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	req.Defaults()
	if err := req.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	cost, latency := req.PerformanceMode.Estimate()
	policy := models.Policy{
		Name:                  req.Name,
		Definition:            req.Definition,
		Category:              req.Category,
		Status:                req.Status,
		Severity:              req.Severity,
		PerformanceMode:       req.PerformanceMode,
		EstimatedCostPerEvent: cost,
		EstimatedLatencyMS:    latency,
		InterventionType:      req.InterventionType,
		InterventionConfig:    req.InterventionConfig,
		CreatedBy:             actorID(c),
	}

	if err := h.policies.Create(c.Request.Context(), &policy); err != nil {
		h.logger.Error("Failed to create policy", "name", req.Name, "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "data": policy})
}

// PUT /api/policies/:id - partial update, only supplied fields change
func (h *PolicyHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var patch models.PolicyPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := patch.Validate(); err != nil {
		badRequest(c, err.Error())
		return
	}

	policy, err := h.policies.Update(c.Request.Context(), id, patch)
	if err != nil {
		h.respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": policy})
}

// DELETE /api/policies/:id - refused while events or violations still
// reference the policy
func (h *PolicyHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.policies.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, storage.ErrPolicyInUse) {
			c.JSON(http.StatusConflict, gin.H{
				"status": "error",
				"error":  "Policy is still referenced by events or violations",
			})
			return
		}
		h.respondPolicyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "data": gin.H{"message": "Policy deleted successfully"}})
}

// GET /api/policies/templates
func (h *PolicyHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templates.ListActive(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list policy templates", "error", err)
		internalError(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"templates": templates, "total": len(templates)},
	})
}

// POST /api/policies/:id/test - stub evaluator, fixed result
func (h *PolicyHandler) Test(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if _, err := h.policies.Get(c.Request.Context(), id); err != nil {
		h.respondPolicyError(c, err)
		return
	}

	result := models.PolicyTestResult{
		PolicyID:           id,
		TestPassed:         true,
		ConfidenceScore:    0.85,
		EvaluationTimeMS:   150,
		ViolationsDetected: 0,
		Details:            "Mock evaluation completed successfully",
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": result})
}

func (h *PolicyHandler) respondPolicyError(c *gin.Context, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"status": "error", "error": "Policy not found"})
		return
	}
	h.logger.Error("Policy store error", "error", err)
	internalError(c)
}

// ---- shared handler helpers ----

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}

// queryInt parses an integer query parameter. Negative values are
// returned as-is so the caller's range guard rejects them instead of
// silently swapping in the default.
func queryInt(c *gin.Context, name string, def int) int {
	raw := c.Query(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func validPagination(c *gin.Context, skip, limit int) bool {
	if skip < 0 || limit < 0 {
		badRequest(c, "skip and limit must be non-negative")
		return false
	}
	return true
}

func actorID(c *gin.Context) *int64 {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(int64); ok && id > 0 {
			return &id
		}
	}
	return nil
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"status": "error", "error": msg})
}

func internalError(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "error": "Internal server error"})
}
