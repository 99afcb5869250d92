package models

// Closed enumerations for every tagged field in the schema. Request binding
// rejects values outside these sets so storage only ever sees declared values.

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// Severities lists all severity values in ascending order. Dashboard
// timeline buckets are initialized from this set.
func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

type PolicyStatus string

const (
	PolicyStatusDraft        PolicyStatus = "draft"
	PolicyStatusOpen         PolicyStatus = "open"
	PolicyStatusAcknowledged PolicyStatus = "acknowledged"
	PolicyStatusClosed       PolicyStatus = "closed"
)

func (s PolicyStatus) Valid() bool {
	switch s {
	case PolicyStatusDraft, PolicyStatusOpen, PolicyStatusAcknowledged, PolicyStatusClosed:
		return true
	}
	return false
}

type PolicyCategory string

const (
	CategoryDataSecurity      PolicyCategory = "data_security"
	CategoryPrivacy           PolicyCategory = "privacy"
	CategoryCompliance        PolicyCategory = "compliance"
	CategoryGovernance        PolicyCategory = "governance"
	CategoryIncidentDetection PolicyCategory = "incident_detection"
	CategoryContentFiltering  PolicyCategory = "content_filtering"
)

func (c PolicyCategory) Valid() bool {
	switch c {
	case CategoryDataSecurity, CategoryPrivacy, CategoryCompliance,
		CategoryGovernance, CategoryIncidentDetection, CategoryContentFiltering:
		return true
	}
	return false
}

type PerformanceMode string

const (
	ModeFast     PerformanceMode = "fast"
	ModeBalanced PerformanceMode = "balanced"
	ModeRobust   PerformanceMode = "robust"
)

func (m PerformanceMode) Valid() bool {
	switch m {
	case ModeFast, ModeBalanced, ModeRobust:
		return true
	}
	return false
}

type EventType string

const (
	EventTypeLLMRequest      EventType = "llm_request"
	EventTypeLLMResponse     EventType = "llm_response"
	EventTypePolicyViolation EventType = "policy_violation"
	EventTypeIntervention    EventType = "intervention"
	EventTypeSystemEvent     EventType = "system_event"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeLLMRequest, EventTypeLLMResponse, EventTypePolicyViolation,
		EventTypeIntervention, EventTypeSystemEvent:
		return true
	}
	return false
}

type EventStatus string

const (
	EventStatusOpen         EventStatus = "open"
	EventStatusAcknowledged EventStatus = "acknowledged"
	EventStatusResolved     EventStatus = "resolved"
	EventStatusClosed       EventStatus = "closed"
)

func (s EventStatus) Valid() bool {
	switch s {
	case EventStatusOpen, EventStatusAcknowledged, EventStatusResolved, EventStatusClosed:
		return true
	}
	return false
}

type ViolationType string

const (
	ViolationTypeDataLeak            ViolationType = "data_leak"
	ViolationTypePromptInjection     ViolationType = "prompt_injection"
	ViolationTypePolicyBreach        ViolationType = "policy_breach"
	ViolationTypeContentViolation    ViolationType = "content_violation"
	ViolationTypeSecurityIncident    ViolationType = "security_incident"
	ViolationTypeComplianceViolation ViolationType = "compliance_violation"
)

func (t ViolationType) Valid() bool {
	switch t {
	case ViolationTypeDataLeak, ViolationTypePromptInjection, ViolationTypePolicyBreach,
		ViolationTypeContentViolation, ViolationTypeSecurityIncident, ViolationTypeComplianceViolation:
		return true
	}
	return false
}

type ViolationStatus string

const (
	ViolationStatusDetected      ViolationStatus = "detected"
	ViolationStatusAcknowledged  ViolationStatus = "acknowledged"
	ViolationStatusInvestigating ViolationStatus = "investigating"
	ViolationStatusResolved      ViolationStatus = "resolved"
	ViolationStatusFalsePositive ViolationStatus = "false_positive"
)

func (s ViolationStatus) Valid() bool {
	switch s {
	case ViolationStatusDetected, ViolationStatusAcknowledged, ViolationStatusInvestigating,
		ViolationStatusResolved, ViolationStatusFalsePositive:
		return true
	}
	return false
}

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleAnalyst UserRole = "analyst"
	RoleViewer  UserRole = "viewer"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleAnalyst, RoleViewer:
		return true
	}
	return false
}
