package storage

import (
	"context"
	"errors"
	"time"

	"github.com/sentinelai/sentinel-core/internal/models"
)

var (
	// ErrNotFound is returned when a referenced id is absent.
	ErrNotFound = errors.New("not found")
	// ErrPolicyInUse is returned when deleting a policy still referenced by
	// events or violations.
	ErrPolicyInUse = errors.New("policy is referenced by events or violations")
	// ErrDuplicate is returned on unique constraint conflicts
	// (external event id, username, email).
	ErrDuplicate = errors.New("duplicate record")
)

type PolicyStore interface {
	List(ctx context.Context, f models.PolicyFilter) ([]models.Policy, error)
	Get(ctx context.Context, id int64) (*models.Policy, error)
	Create(ctx context.Context, p *models.Policy) error
	Update(ctx context.Context, id int64, patch models.PolicyPatch) (*models.Policy, error)
	// Delete refuses with ErrPolicyInUse while events or violations still
	// reference the policy.
	Delete(ctx context.Context, id int64) error
}

type TemplateStore interface {
	ListActive(ctx context.Context) ([]models.PolicyTemplate, error)
	Create(ctx context.Context, t *models.PolicyTemplate) error
}

type EventStore interface {
	List(ctx context.Context, f models.EventFilter) ([]models.Event, error)
	Get(ctx context.Context, id int64) (*models.Event, error)
	Create(ctx context.Context, ev *models.Event) error
	Update(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error)
	Stats(ctx context.Context, now time.Time) (*models.EventStats, error)
}

type ViolationStore interface {
	List(ctx context.Context, f models.ViolationFilter) ([]models.Violation, error)
	Get(ctx context.Context, id int64) (*models.Violation, error)
	Create(ctx context.Context, v *models.Violation) error
	Update(ctx context.Context, id int64, patch models.ViolationPatch) (*models.Violation, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.Violation, error)
	Stats(ctx context.Context) (*models.ViolationStats, error)
}

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, u *models.User) error
}

// StatsStore serves the dashboard aggregation endpoints.
type StatsStore interface {
	DashboardStats(ctx context.Context, now time.Time) (*models.DashboardStats, error)
	EventsTimeline(ctx context.Context, since time.Time) ([]models.TimelineRow, error)
	ViolationsByType(ctx context.Context) ([]models.CategoryCount, error)
	PoliciesByStatus(ctx context.Context) ([]models.StatusCount, error)
	RecentEvents(ctx context.Context, limit int) ([]models.Event, error)
	RecentViolations(ctx context.Context, limit int) ([]models.Violation, error)
	AvgEventDuration(ctx context.Context) (float64, error)
	PolicyPerformance(ctx context.Context) ([]models.PerformanceModeRow, error)
}

// Stores bundles every store handed to the API server.
type Stores struct {
	Policies   PolicyStore
	Templates  TemplateStore
	Events     EventStore
	Violations ViolationStore
	Users      UserStore
	Stats      StatsStore
}
