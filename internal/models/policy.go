package models

import "time"

// BaseCostPerEvent is the per-event evaluation cost at the balanced mode.
const BaseCostPerEvent = 240.0

type Policy struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Definition string         `json:"definition"`
	Category   PolicyCategory `json:"category"`
	Status     PolicyStatus   `json:"status"`
	Severity   Severity       `json:"severity"`

	PerformanceMode       PerformanceMode `json:"performance_mode"`
	EstimatedCostPerEvent float64         `json:"estimated_cost_per_event"`
	EstimatedLatencyMS    float64         `json:"estimated_latency_ms"`

	InterventionType   string `json:"intervention_type"` // notification, block, redact
	InterventionConfig string `json:"intervention_config,omitempty"`

	CreatedBy *int64     `json:"created_by,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Estimate returns the fixed (cost, latency) trade-off for a performance
// mode. Rows written before mode validation existed may carry an unknown
// value; those fall back to the balanced estimates.
func (m PerformanceMode) Estimate() (costPerEvent, latencyMS float64) {
	switch m {
	case ModeFast:
		return BaseCostPerEvent * 0.5, 50
	case ModeRobust:
		return BaseCostPerEvent * 2.0, 200
	case ModeBalanced:
		return BaseCostPerEvent, 100
	default:
		return BaseCostPerEvent, 100
	}
}

// PolicyCreate is the request body for creating a policy. Cost and latency
// estimates are derived server-side from the performance mode.
type PolicyCreate struct {
	Name               string          `json:"name" binding:"required"`
	Definition         string          `json:"definition" binding:"required"`
	Category           PolicyCategory  `json:"category" binding:"required"`
	Status             PolicyStatus    `json:"status"`
	Severity           Severity        `json:"severity"`
	PerformanceMode    PerformanceMode `json:"performance_mode"`
	InterventionType   string          `json:"intervention_type"`
	InterventionConfig string          `json:"intervention_config"`
}

// Defaults fills zero-valued optional fields the way the schema does.
func (c *PolicyCreate) Defaults() {
	if c.Status == "" {
		c.Status = PolicyStatusDraft
	}
	if c.Severity == "" {
		c.Severity = SeverityMedium
	}
	if c.PerformanceMode == "" {
		c.PerformanceMode = ModeBalanced
	}
	if c.InterventionType == "" {
		c.InterventionType = "notification"
	}
}

func (c *PolicyCreate) Validate() error {
	if !c.Category.Valid() {
		return &EnumError{Field: "category", Value: string(c.Category)}
	}
	if !c.Status.Valid() {
		return &EnumError{Field: "status", Value: string(c.Status)}
	}
	if !c.Severity.Valid() {
		return &EnumError{Field: "severity", Value: string(c.Severity)}
	}
	if !c.PerformanceMode.Valid() {
		return &EnumError{Field: "performance_mode", Value: string(c.PerformanceMode)}
	}
	return nil
}

// PolicyPatch is a partial update; nil fields are left untouched.
type PolicyPatch struct {
	Name               *string          `json:"name"`
	Definition         *string          `json:"definition"`
	Category           *PolicyCategory  `json:"category"`
	Status             *PolicyStatus    `json:"status"`
	Severity           *Severity        `json:"severity"`
	PerformanceMode    *PerformanceMode `json:"performance_mode"`
	InterventionType   *string          `json:"intervention_type"`
	InterventionConfig *string          `json:"intervention_config"`
}

func (p *PolicyPatch) Validate() error {
	if p.Category != nil && !p.Category.Valid() {
		return &EnumError{Field: "category", Value: string(*p.Category)}
	}
	if p.Status != nil && !p.Status.Valid() {
		return &EnumError{Field: "status", Value: string(*p.Status)}
	}
	if p.Severity != nil && !p.Severity.Valid() {
		return &EnumError{Field: "severity", Value: string(*p.Severity)}
	}
	if p.PerformanceMode != nil && !p.PerformanceMode.Valid() {
		return &EnumError{Field: "performance_mode", Value: string(*p.PerformanceMode)}
	}
	return nil
}

// Apply merges the supplied fields into the policy. Changing the
// performance mode re-derives both estimates so they never go stale
// against the mode.
func (p *PolicyPatch) Apply(policy *Policy) {
	if p.Name != nil {
		policy.Name = *p.Name
	}
	if p.Definition != nil {
		policy.Definition = *p.Definition
	}
	if p.Category != nil {
		policy.Category = *p.Category
	}
	if p.Status != nil {
		policy.Status = *p.Status
	}
	if p.Severity != nil {
		policy.Severity = *p.Severity
	}
	if p.PerformanceMode != nil {
		policy.PerformanceMode = *p.PerformanceMode
		policy.EstimatedCostPerEvent, policy.EstimatedLatencyMS = policy.PerformanceMode.Estimate()
	}
	if p.InterventionType != nil {
		policy.InterventionType = *p.InterventionType
	}
	if p.InterventionConfig != nil {
		policy.InterventionConfig = *p.InterventionConfig
	}
}

// PolicyFilter narrows policy listings.
type PolicyFilter struct {
	Status   *PolicyStatus
	Category *PolicyCategory
	Skip     int
	Limit    int
}

// PolicyTestResult is the fixed response of the test-evaluate stub.
type PolicyTestResult struct {
	PolicyID           int64   `json:"policy_id"`
	TestPassed         bool    `json:"test_passed"`
	ConfidenceScore    float64 `json:"confidence_score"`
	EvaluationTimeMS   int     `json:"evaluation_time_ms"`
	ViolationsDetected int     `json:"violations_detected"`
	Details            string  `json:"details"`
}

// EnumError reports a value outside a closed enumeration.
type EnumError struct {
	Field string
	Value string
}

func (e *EnumError) Error() string {
	return "invalid value " + e.Value + " for " + e.Field
}
