package models

// PolicyTemplate is reusable definition boilerplate offered by the UI when
// authoring a new policy.
type PolicyTemplate struct {
	ID                     int64           `json:"id"`
	Name                   string          `json:"name"`
	Category               PolicyCategory  `json:"category"`
	Description            string          `json:"description"`
	TemplateCode           string          `json:"template_code"`
	DefaultSeverity        Severity        `json:"default_severity"`
	DefaultPerformanceMode PerformanceMode `json:"default_performance_mode"`
	Tags                   string          `json:"tags,omitempty"` // comma-separated
	IsActive               bool            `json:"is_active"`
}
