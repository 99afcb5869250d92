package models

import "time"

type Violation struct {
	ID       int64           `json:"id"`
	Type     ViolationType   `json:"violation_type"`
	Severity Severity        `json:"severity"`
	Status   ViolationStatus `json:"status"`

	Title           string  `json:"title,omitempty"`
	Description     string  `json:"description,omitempty"`
	Details         string  `json:"details,omitempty"` // raw JSON
	ConfidenceScore float64 `json:"confidence_score"`  // 0.0 to 1.0

	LegalAdviceScore        *float64 `json:"legal_advice_score,omitempty"`
	ControversialTopicScore *float64 `json:"controversial_topics_score,omitempty"`
	CodePromptScore         *float64 `json:"code_prompt_score,omitempty"`
	SafePromptScore         *float64 `json:"safe_prompt_score,omitempty"`

	EventID  int64 `json:"event_id"`
	PolicyID int64 `json:"policy_id"`

	AcknowledgedBy   *int64     `json:"acknowledged_by,omitempty"`
	AcknowledgedDate *time.Time `json:"acknowledged_date,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// ViolationPatch is a partial update; nil fields are left untouched.
// Same acknowledgment stamping rule as EventPatch.
type ViolationPatch struct {
	Status          *ViolationStatus `json:"status"`
	Severity        *Severity        `json:"severity"`
	Title           *string          `json:"title"`
	Description     *string          `json:"description"`
	ConfidenceScore *float64         `json:"confidence_score"`
	AcknowledgedBy  *int64           `json:"acknowledged_by"`
}

func (p *ViolationPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return &EnumError{Field: "status", Value: string(*p.Status)}
	}
	if p.Severity != nil && !p.Severity.Valid() {
		return &EnumError{Field: "severity", Value: string(*p.Severity)}
	}
	if p.ConfidenceScore != nil && (*p.ConfidenceScore < 0 || *p.ConfidenceScore > 1) {
		return &EnumError{Field: "confidence_score", Value: "out of [0,1]"}
	}
	return nil
}

func (p *ViolationPatch) Apply(v *Violation, now time.Time) {
	if p.Status != nil {
		v.Status = *p.Status
	}
	if p.Severity != nil {
		v.Severity = *p.Severity
	}
	if p.Title != nil {
		v.Title = *p.Title
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.ConfidenceScore != nil {
		v.ConfidenceScore = *p.ConfidenceScore
	}
	if p.AcknowledgedBy != nil {
		v.AcknowledgedBy = p.AcknowledgedBy
		v.AcknowledgedDate = &now
	}
}

type ViolationFilter struct {
	Status   *ViolationStatus
	Severity *Severity
	Skip     int
	Limit    int
}

type ViolationStats struct {
	TotalViolations    int64 `json:"total_violations"`
	OpenViolations     int64 `json:"open_violations"`
	CriticalViolations int64 `json:"critical_violations"`
	HighViolations     int64 `json:"high_violations"`
}
