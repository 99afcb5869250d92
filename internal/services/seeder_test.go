package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/internal/storage"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

// Fakes embed the store interfaces and implement only what the seeder
// touches; an unexpected call panics and fails the test loudly.

type fakeUsers struct {
	storage.UserStore
	users []models.User
}

func (f *fakeUsers) Count(context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	u.ID = int64(len(f.users) + 1)
	f.users = append(f.users, *u)
	return nil
}

type fakeTemplates struct {
	storage.TemplateStore
	templates []models.PolicyTemplate
}

func (f *fakeTemplates) Create(_ context.Context, t *models.PolicyTemplate) error {
	t.ID = int64(len(f.templates) + 1)
	f.templates = append(f.templates, *t)
	return nil
}

type fakePolicies struct {
	storage.PolicyStore
	policies []models.Policy
}

func (f *fakePolicies) Create(_ context.Context, p *models.Policy) error {
	p.ID = int64(len(f.policies) + 1)
	f.policies = append(f.policies, *p)
	return nil
}

type fakeEvents struct {
	storage.EventStore
	events []models.Event
}

func (f *fakeEvents) Create(_ context.Context, ev *models.Event) error {
	ev.ID = int64(len(f.events) + 1)
	f.events = append(f.events, *ev)
	return nil
}

type fakeViolations struct {
	storage.ViolationStore
	violations []models.Violation
}

func (f *fakeViolations) Create(_ context.Context, v *models.Violation) error {
	v.ID = int64(len(f.violations) + 1)
	f.violations = append(f.violations, *v)
	return nil
}

func newSeedStores() (*storage.Stores, *fakeUsers, *fakePolicies, *fakeEvents, *fakeViolations, *fakeTemplates) {
	users := &fakeUsers{}
	templates := &fakeTemplates{}
	policies := &fakePolicies{}
	events := &fakeEvents{}
	violations := &fakeViolations{}
	stores := &storage.Stores{
		Policies:   policies,
		Templates:  templates,
		Events:     events,
		Violations: violations,
		Users:      users,
	}
	return stores, users, policies, events, violations, templates
}

func TestSeederPopulatesEmptyDatabase(t *testing.T) {
	stores, users, policies, events, violations, templates := newSeedStores()
	seeder := NewSeeder(stores, logger.NewNop())

	require.NoError(t, seeder.Run(context.Background()))

	assert.Len(t, users.users, 4)
	assert.Len(t, templates.templates, 4)
	assert.Len(t, policies.policies, 10)
	assert.Len(t, events.events, 50)
	assert.Len(t, violations.violations, 20)

	// estimates always derive from the performance mode
	for _, p := range policies.policies {
		cost, latency := p.PerformanceMode.Estimate()
		assert.Equal(t, cost, p.EstimatedCostPerEvent)
		assert.Equal(t, latency, p.EstimatedLatencyMS)
	}

	// every violation points at a seeded event and its policy
	for _, v := range violations.violations {
		require.GreaterOrEqual(t, v.EventID, int64(1))
		require.LessOrEqual(t, v.EventID, int64(len(events.events)))
		ev := events.events[v.EventID-1]
		require.NotNil(t, ev.PolicyID)
		assert.Equal(t, *ev.PolicyID, v.PolicyID)
		assert.GreaterOrEqual(t, v.ConfidenceScore, 0.6)
		assert.LessOrEqual(t, v.ConfidenceScore, 0.95)
	}
}

func TestSeederSkipsNonEmptyDatabase(t *testing.T) {
	stores, users, policies, _, _, _ := newSeedStores()
	users.users = append(users.users, models.User{ID: 1, Username: "existing"})
	seeder := NewSeeder(stores, logger.NewNop())

	require.NoError(t, seeder.Run(context.Background()))
	assert.Len(t, users.users, 1)
	assert.Empty(t, policies.policies)
}
