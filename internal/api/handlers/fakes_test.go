package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/internal/storage"
)

// In-memory store fakes backing the handler tests. Each keeps its rows in a
// slice and mimics the ordering and error contract of the Postgres
// repositories.

type fakePolicyStore struct {
	policies []models.Policy
	nextID   int64
	inUse    map[int64]bool
	err      error
}

func newFakePolicyStore() *fakePolicyStore {
	return &fakePolicyStore{nextID: 1, inUse: make(map[int64]bool)}
}

func (s *fakePolicyStore) List(_ context.Context, f models.PolicyFilter) ([]models.Policy, error) {
	if s.err != nil {
		return nil, s.err
	}
	matched := make([]models.Policy, 0, len(s.policies))
	for _, p := range s.policies {
		if f.Status != nil && p.Status != *f.Status {
			continue
		}
		if f.Category != nil && p.Category != *f.Category {
			continue
		}
		matched = append(matched, p)
	}
	return paginate(matched, f.Skip, f.Limit), nil
}

func (s *fakePolicyStore) Get(_ context.Context, id int64) (*models.Policy, error) {
	if s.err != nil {
		return nil, s.err
	}
	for i := range s.policies {
		if s.policies[i].ID == id {
			p := s.policies[i]
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakePolicyStore) Create(_ context.Context, p *models.Policy) error {
	if s.err != nil {
		return s.err
	}
	p.ID = s.nextID
	s.nextID++
	p.CreatedAt = time.Now().UTC()
	s.policies = append(s.policies, *p)
	return nil
}

func (s *fakePolicyStore) Update(ctx context.Context, id int64, patch models.PolicyPatch) (*models.Policy, error) {
	for i := range s.policies {
		if s.policies[i].ID == id {
			patch.Apply(&s.policies[i])
			now := time.Now().UTC()
			s.policies[i].UpdatedAt = &now
			p := s.policies[i]
			return &p, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakePolicyStore) Delete(_ context.Context, id int64) error {
	for i := range s.policies {
		if s.policies[i].ID == id {
			if s.inUse[id] {
				return storage.ErrPolicyInUse
			}
			s.policies = append(s.policies[:i], s.policies[i+1:]...)
			return nil
		}
	}
	return storage.ErrNotFound
}

type fakeTemplateStore struct {
	templates []models.PolicyTemplate
}

func (s *fakeTemplateStore) ListActive(context.Context) ([]models.PolicyTemplate, error) {
	active := make([]models.PolicyTemplate, 0, len(s.templates))
	for _, t := range s.templates {
		if t.IsActive {
			active = append(active, t)
		}
	}
	return active, nil
}

func (s *fakeTemplateStore) Create(_ context.Context, t *models.PolicyTemplate) error {
	t.ID = int64(len(s.templates) + 1)
	s.templates = append(s.templates, *t)
	return nil
}

type fakeEventStore struct {
	events []models.Event
	nextID int64
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{nextID: 1}
}

func (s *fakeEventStore) List(_ context.Context, f models.EventFilter) ([]models.Event, error) {
	matched := make([]models.Event, 0, len(s.events))
	for _, ev := range s.events {
		if f.Status != nil && ev.Status != *f.Status {
			continue
		}
		if f.Severity != nil && ev.Severity != *f.Severity {
			continue
		}
		if f.PolicyID != nil && (ev.PolicyID == nil || *ev.PolicyID != *f.PolicyID) {
			continue
		}
		matched = append(matched, ev)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].TriggerDate.After(matched[j].TriggerDate)
	})
	return paginate(matched, f.Skip, f.Limit), nil
}

func (s *fakeEventStore) Get(_ context.Context, id int64) (*models.Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			ev := s.events[i]
			return &ev, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeEventStore) Create(_ context.Context, ev *models.Event) error {
	for _, existing := range s.events {
		if existing.EventID == ev.EventID {
			return storage.ErrDuplicate
		}
	}
	ev.ID = s.nextID
	s.nextID++
	ev.CreatedAt = time.Now().UTC()
	s.events = append(s.events, *ev)
	return nil
}

func (s *fakeEventStore) Update(_ context.Context, id int64, patch models.EventPatch) (*models.Event, error) {
	for i := range s.events {
		if s.events[i].ID == id {
			now := time.Now().UTC()
			patch.Apply(&s.events[i], now)
			s.events[i].UpdatedAt = &now
			ev := s.events[i]
			return &ev, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeEventStore) Stats(_ context.Context, now time.Time) (*models.EventStats, error) {
	stats := &models.EventStats{}
	for _, ev := range s.events {
		stats.TotalEvents++
		if ev.Status == models.EventStatusOpen {
			stats.OpenEvents++
		}
		if now.Sub(ev.TriggerDate) <= 24*time.Hour {
			stats.EventsLast24h++
		}
		if ev.Severity == models.SeverityCritical {
			stats.CriticalEvents++
		}
	}
	return stats, nil
}

type fakeViolationStore struct {
	violations []models.Violation
	nextID     int64
}

func newFakeViolationStore() *fakeViolationStore {
	return &fakeViolationStore{nextID: 1}
}

func (s *fakeViolationStore) List(_ context.Context, f models.ViolationFilter) ([]models.Violation, error) {
	matched := make([]models.Violation, 0, len(s.violations))
	for _, v := range s.violations {
		if f.Status != nil && v.Status != *f.Status {
			continue
		}
		if f.Severity != nil && v.Severity != *f.Severity {
			continue
		}
		matched = append(matched, v)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, f.Skip, f.Limit), nil
}

func (s *fakeViolationStore) Get(_ context.Context, id int64) (*models.Violation, error) {
	for i := range s.violations {
		if s.violations[i].ID == id {
			v := s.violations[i]
			return &v, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeViolationStore) Create(_ context.Context, v *models.Violation) error {
	v.ID = s.nextID
	s.nextID++
	v.CreatedAt = time.Now().UTC()
	s.violations = append(s.violations, *v)
	return nil
}

func (s *fakeViolationStore) Update(_ context.Context, id int64, patch models.ViolationPatch) (*models.Violation, error) {
	for i := range s.violations {
		if s.violations[i].ID == id {
			now := time.Now().UTC()
			patch.Apply(&s.violations[i], now)
			s.violations[i].UpdatedAt = &now
			v := s.violations[i]
			return &v, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeViolationStore) ListByEvent(_ context.Context, eventID int64) ([]models.Violation, error) {
	matched := make([]models.Violation, 0)
	for _, v := range s.violations {
		if v.EventID == eventID {
			matched = append(matched, v)
		}
	}
	return matched, nil
}

func (s *fakeViolationStore) Stats(context.Context) (*models.ViolationStats, error) {
	stats := &models.ViolationStats{}
	for _, v := range s.violations {
		stats.TotalViolations++
		if v.Status == models.ViolationStatusDetected || v.Status == models.ViolationStatusInvestigating {
			stats.OpenViolations++
		}
		if v.Severity == models.SeverityCritical {
			stats.CriticalViolations++
		}
		if v.Severity == models.SeverityHigh {
			stats.HighViolations++
		}
	}
	return stats, nil
}

type fakeUserStore struct {
	users  []models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{nextID: 1}
}

func (s *fakeUserStore) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for i := range s.users {
		if s.users[i].Username == username {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	for i := range s.users {
		if s.users[i].ID == id {
			u := s.users[i]
			return &u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (s *fakeUserStore) Count(context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *fakeUserStore) Create(_ context.Context, u *models.User) error {
	for _, existing := range s.users {
		if existing.Username == u.Username {
			return storage.ErrDuplicate
		}
	}
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now().UTC()
	s.users = append(s.users, *u)
	return nil
}

type fakeStatsStore struct {
	dashboard    models.DashboardStats
	timelineRows []models.TimelineRow
	byType       []models.CategoryCount
	byStatus     []models.StatusCount
	recentEvents []models.Event
	recentViols  []models.Violation
	avgDuration  float64
	performance  []models.PerformanceModeRow
}

func (s *fakeStatsStore) DashboardStats(context.Context, time.Time) (*models.DashboardStats, error) {
	d := s.dashboard
	return &d, nil
}

func (s *fakeStatsStore) EventsTimeline(context.Context, time.Time) ([]models.TimelineRow, error) {
	return s.timelineRows, nil
}

func (s *fakeStatsStore) ViolationsByType(context.Context) ([]models.CategoryCount, error) {
	return s.byType, nil
}

func (s *fakeStatsStore) PoliciesByStatus(context.Context) ([]models.StatusCount, error) {
	return s.byStatus, nil
}

func (s *fakeStatsStore) RecentEvents(_ context.Context, limit int) ([]models.Event, error) {
	if limit < len(s.recentEvents) {
		return s.recentEvents[:limit], nil
	}
	return s.recentEvents, nil
}

func (s *fakeStatsStore) RecentViolations(_ context.Context, limit int) ([]models.Violation, error) {
	if limit < len(s.recentViols) {
		return s.recentViols[:limit], nil
	}
	return s.recentViols, nil
}

func (s *fakeStatsStore) AvgEventDuration(context.Context) (float64, error) {
	return s.avgDuration, nil
}

func (s *fakeStatsStore) PolicyPerformance(context.Context) ([]models.PerformanceModeRow, error) {
	return s.performance, nil
}

func paginate[T any](rows []T, skip, limit int) []T {
	if skip >= len(rows) {
		return []T{}
	}
	rows = rows[skip:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}
