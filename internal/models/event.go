package models

import "time"

type Event struct {
	ID       int64       `json:"id"`
	EventID  string      `json:"event_id"` // external id, unique
	Type     EventType   `json:"event_type"`
	Severity Severity    `json:"severity"`
	Status   EventStatus `json:"status"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	EventData   string `json:"event_data,omitempty"` // raw JSON request/response details

	ModelName         string   `json:"model_name,omitempty"`
	RequestTokens     *int     `json:"request_tokens,omitempty"`
	ResponseTokens    *int     `json:"response_tokens,omitempty"`
	CompletionReason  string   `json:"completion_reason,omitempty"`
	RequestTemp       *float64 `json:"request_temperature,omitempty"`
	RequestMaxTokens  *int     `json:"request_max_tokens,omitempty"`

	TriggerDate time.Time `json:"trigger_date"`
	DurationMS  *float64  `json:"duration_ms,omitempty"`

	PolicyID         *int64     `json:"policy_id,omitempty"`
	UserID           *int64     `json:"user_id,omitempty"`
	AcknowledgedBy   *int64     `json:"acknowledged_by,omitempty"`
	AcknowledgedDate *time.Time `json:"acknowledged_date,omitempty"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type EventCreate struct {
	EventID  string      `json:"event_id" binding:"required"`
	Type     EventType   `json:"event_type" binding:"required"`
	Severity Severity    `json:"severity"`
	Status   EventStatus `json:"status"`

	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	EventData   string `json:"event_data"`

	ModelName        string   `json:"model_name"`
	RequestTokens    *int     `json:"request_tokens"`
	ResponseTokens   *int     `json:"response_tokens"`
	CompletionReason string   `json:"completion_reason"`
	RequestTemp      *float64 `json:"request_temperature"`
	RequestMaxTokens *int     `json:"request_max_tokens"`

	TriggerDate time.Time `json:"trigger_date" binding:"required"`
	DurationMS  *float64  `json:"duration_ms"`

	PolicyID *int64 `json:"policy_id"`
	UserID   *int64 `json:"user_id"`
}

func (c *EventCreate) Defaults() {
	if c.Severity == "" {
		c.Severity = SeverityLow
	}
	if c.Status == "" {
		c.Status = EventStatusOpen
	}
}

func (c *EventCreate) Validate() error {
	if !c.Type.Valid() {
		return &EnumError{Field: "event_type", Value: string(c.Type)}
	}
	if !c.Severity.Valid() {
		return &EnumError{Field: "severity", Value: string(c.Severity)}
	}
	if !c.Status.Valid() {
		return &EnumError{Field: "status", Value: string(c.Status)}
	}
	return nil
}

// EventPatch is a partial update; nil fields are left untouched.
// Supplying AcknowledgedBy stamps AcknowledgedDate in the same merge, so an
// acknowledging actor can never be recorded without a timestamp.
type EventPatch struct {
	Status         *EventStatus `json:"status"`
	Severity       *Severity    `json:"severity"`
	Title          *string      `json:"title"`
	Description    *string      `json:"description"`
	AcknowledgedBy *int64       `json:"acknowledged_by"`
}

func (p *EventPatch) Validate() error {
	if p.Status != nil && !p.Status.Valid() {
		return &EnumError{Field: "status", Value: string(*p.Status)}
	}
	if p.Severity != nil && !p.Severity.Valid() {
		return &EnumError{Field: "severity", Value: string(*p.Severity)}
	}
	return nil
}

func (p *EventPatch) Apply(ev *Event, now time.Time) {
	if p.Status != nil {
		ev.Status = *p.Status
	}
	if p.Severity != nil {
		ev.Severity = *p.Severity
	}
	if p.Title != nil {
		ev.Title = *p.Title
	}
	if p.Description != nil {
		ev.Description = *p.Description
	}
	if p.AcknowledgedBy != nil {
		ev.AcknowledgedBy = p.AcknowledgedBy
		ev.AcknowledgedDate = &now
	}
}

type EventFilter struct {
	Status   *EventStatus
	Severity *Severity
	PolicyID *int64
	Skip     int
	Limit    int
}

type EventStats struct {
	TotalEvents    int64 `json:"total_events"`
	OpenEvents     int64 `json:"open_events"`
	EventsLast24h  int64 `json:"events_last_24h"`
	CriticalEvents int64 `json:"critical_events"`
}
