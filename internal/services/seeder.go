package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/internal/storage"
	"github.com/sentinelai/sentinel-core/pkg/logger"
)

// bcrypt of "secret", shared by every demo account
const seedPasswordHash = "$2b$12$EixZaYVK1fsbw1ZfbX3OXePaWxn96p36WQoeG6Lruj3vjPGga31lW"

// Seeder populates an empty database with demo accounts, templates,
// policies and a month of synthetic event traffic.
type Seeder struct {
	stores *storage.Stores
	logger logger.Logger
	rand   *rand.Rand
}

func NewSeeder(stores *storage.Stores, log logger.Logger) *Seeder {
	return &Seeder{
		stores: stores,
		logger: log,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run seeds once. Any existing user marks the database as already seeded.
func (s *Seeder) Run(ctx context.Context) error {
	count, err := s.stores.Users.Count(ctx)
	if err != nil {
		return fmt.Errorf("seed precheck: %w", err)
	}
	if count > 0 {
		s.logger.Debug("Database already seeded, skipping")
		return nil
	}

	users, err := s.seedUsers(ctx)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := s.seedTemplates(ctx); err != nil {
		return fmt.Errorf("seed templates: %w", err)
	}
	policies, err := s.seedPolicies(ctx)
	if err != nil {
		return fmt.Errorf("seed policies: %w", err)
	}
	events, err := s.seedEvents(ctx, policies, users)
	if err != nil {
		return fmt.Errorf("seed events: %w", err)
	}
	if err := s.seedViolations(ctx, events); err != nil {
		return fmt.Errorf("seed violations: %w", err)
	}

	s.logger.Info("Database seeded", "users", len(users), "policies", len(policies), "events", len(events))
	return nil
}

func (s *Seeder) seedUsers(ctx context.Context) ([]models.User, error) {
	users := []models.User{
		{Username: "admin", Email: "admin@sentinelai.ai", HashedPassword: seedPasswordHash, Role: models.RoleAdmin},
		{Username: "jimmy.sanchez", Email: "jimmy@sentinelai.ai", HashedPassword: seedPasswordHash, Role: models.RoleAnalyst},
		{Username: "george.torres", Email: "george@sentinelai.ai", HashedPassword: seedPasswordHash, Role: models.RoleAnalyst},
		{Username: "clarence.bell", Email: "clarence@sentinelai.ai", HashedPassword: seedPasswordHash, Role: models.RoleViewer},
	}
	for i := range users {
		if err := s.stores.Users.Create(ctx, &users[i]); err != nil {
			return nil, err
		}
	}
	return users, nil
}

func (s *Seeder) seedTemplates(ctx context.Context) error {
	templates := []models.PolicyTemplate{
		{
			Name:         "Prompt Injection Prevention",
			Category:     models.CategoryDataSecurity,
			Description:  "Protect against malicious attempts to manipulate the LLM via prompt injection.",
			TemplateCode: "response.completion has sentinelai.sunshine_acceptable_use_violation and scope.app is Sunshine",
			Tags:         "injection,manipulation,security",
		},
		{
			Name:            "Data Leakage Prevention",
			Category:        models.CategoryPrivacy,
			Description:     "Prevent unauthorized exposure and leakage of sensitive data.",
			TemplateCode:    "response.completion has sentinelai.data_leakage and scope.app is DataApp",
			DefaultSeverity: models.SeverityHigh,
			Tags:            "leakage,data protection,unauthorized access",
		},
		{
			Name:            "Legal Compliance Monitoring",
			Category:        models.CategoryCompliance,
			Description:     "Ensure compliance with relevant laws and regulations.",
			TemplateCode:    "response.completion has sentinelai.legal_compliance and scope.app is LegalBot",
			DefaultSeverity: models.SeverityHigh,
			Tags:            "legal compliance,monitoring,regulation",
		},
		{
			Name:         "Intellectual Property Protection",
			Category:     models.CategoryGovernance,
			Description:  "Safeguard intellectual property in LLM outputs.",
			TemplateCode: "response.completion has sentinelai.ip_protection and scope.app is IPGuard",
			Tags:         "IP protection,intellectual property,copyright",
		},
	}
	for i := range templates {
		if templates[i].DefaultSeverity == "" {
			templates[i].DefaultSeverity = models.SeverityMedium
		}
		templates[i].DefaultPerformanceMode = models.ModeBalanced
		templates[i].IsActive = true
		if err := s.stores.Templates.Create(ctx, &templates[i]); err != nil {
			return err
		}
	}
	return nil
}

type seedPolicy struct {
	name       string
	definition string
	category   models.PolicyCategory
	status     models.PolicyStatus
	severity   models.Severity
	mode       models.PerformanceMode
	action     string
	createdBy  int64
}

func (s *Seeder) seedPolicies(ctx context.Context) ([]models.Policy, error) {
	rows := []seedPolicy{
		{"Sunshine Acceptable Use Policy", "response.completion has sentinelai.sunshine_acceptable_use_violation and scope.app is Sunshine", models.CategoryDataSecurity, models.PolicyStatusOpen, models.SeverityLow, models.ModeBalanced, "notification", 1},
		{"Legal Compliance Monitoring Policy", "response.completion has sentinelai.legal_compliance and scope.app is LegalBot", models.CategoryCompliance, models.PolicyStatusOpen, models.SeverityLow, models.ModeBalanced, "notification", 2},
		{"Incident Detection and Response Policy", "response.completion has sentinelai.incident_detection and scope.app is SecurityBot", models.CategoryIncidentDetection, models.PolicyStatusAcknowledged, models.SeverityMedium, models.ModeRobust, "block", 2},
		{"Prompt Injection Prevention Policy", "response.completion has sentinelai.prompt_injection and scope.app is ChatBot", models.CategoryDataSecurity, models.PolicyStatusOpen, models.SeverityMedium, models.ModeBalanced, "redact", 1},
		{"Governance Policy Enforcement Policy", "response.completion has sentinelai.governance_policy and scope.app is PolicyBot", models.CategoryGovernance, models.PolicyStatusAcknowledged, models.SeverityMedium, models.ModeBalanced, "notification", 3},
		{"Intellectual Property Protection Policy", "response.completion has sentinelai.ip_protection and scope.app is ContentBot", models.CategoryGovernance, models.PolicyStatusOpen, models.SeverityLow, models.ModeFast, "notification", 4},
		{"Security and Data Protection Policy", "response.completion has sentinelai.data_protection and scope.app is DataBot", models.CategoryPrivacy, models.PolicyStatusOpen, models.SeverityLow, models.ModeBalanced, "notification", 4},
		{"Data Leakage Prevention Policy", "response.completion has sentinelai.data_leakage and scope.app is SecureBot", models.CategoryPrivacy, models.PolicyStatusOpen, models.SeverityLow, models.ModeBalanced, "block", 1},
		{"CSR Compliance Policy", "response.completion has sentinelai.csr_compliance and scope.app is CSRBot", models.CategoryCompliance, models.PolicyStatusOpen, models.SeverityLow, models.ModeBalanced, "notification", 3},
		{"Data Minimization Policy", "response.completion has sentinelai.data_minimization and scope.app is MinimalBot", models.CategoryPrivacy, models.PolicyStatusAcknowledged, models.SeverityMedium, models.ModeBalanced, "redact", 2},
	}

	policies := make([]models.Policy, 0, len(rows))
	for _, row := range rows {
		cost, latency := row.mode.Estimate()
		createdBy := row.createdBy
		p := models.Policy{
			Name:                  row.name,
			Definition:            row.definition,
			Category:              row.category,
			Status:                row.status,
			Severity:              row.severity,
			PerformanceMode:       row.mode,
			EstimatedCostPerEvent: cost,
			EstimatedLatencyMS:    latency,
			InterventionType:      row.action,
			CreatedBy:             &createdBy,
		}
		if err := s.stores.Policies.Create(ctx, &p); err != nil {
			return nil, err
		}
		policies = append(policies, p)
	}
	return policies, nil
}

func (s *Seeder) seedEvents(ctx context.Context, policies []models.Policy, users []models.User) ([]models.Event, error) {
	eventTypes := []models.EventType{
		models.EventTypeLLMRequest, models.EventTypeLLMResponse, models.EventTypePolicyViolation,
		models.EventTypeIntervention, models.EventTypeSystemEvent,
	}
	severities := models.Severities()
	statuses := []models.EventStatus{
		models.EventStatusOpen, models.EventStatusAcknowledged,
		models.EventStatusResolved, models.EventStatusClosed,
	}
	topics := []string{"Policy Violation", "Data Leak", "Prompt Injection", "Compliance Issue"}
	modelNames := []string{"gpt-3.5-turbo-0125", "gpt-4", "claude-3"}

	now := time.Now().UTC()
	events := make([]models.Event, 0, 50)
	for i := 0; i < 50; i++ {
		triggered := now.
			Add(-time.Duration(s.rand.Intn(31)) * 24 * time.Hour).
			Add(-time.Duration(s.rand.Intn(24)) * time.Hour).
			Add(-time.Duration(s.rand.Intn(60)) * time.Minute)

		policyID := policies[s.rand.Intn(len(policies))].ID
		userID := users[s.rand.Intn(len(users))].ID
		requestTokens := 50 + s.rand.Intn(451)
		responseTokens := 20 + s.rand.Intn(181)
		duration := 50 + s.rand.Float64()*250

		ev := models.Event{
			EventID:        fmt.Sprintf("evt_%s", uuid.New().String()[:8]),
			Type:           eventTypes[s.rand.Intn(len(eventTypes))],
			Severity:       severities[s.rand.Intn(len(severities))],
			Status:         statuses[s.rand.Intn(len(statuses))],
			Title:          fmt.Sprintf("Event %d: %s", i+1, topics[s.rand.Intn(len(topics))]),
			Description:    fmt.Sprintf("Automated detection of potential issue in AI interaction %d", i+1),
			ModelName:      modelNames[s.rand.Intn(len(modelNames))],
			RequestTokens:  &requestTokens,
			ResponseTokens: &responseTokens,
			TriggerDate:    triggered,
			DurationMS:     &duration,
			PolicyID:       &policyID,
			UserID:         &userID,
		}
		if err := s.stores.Events.Create(ctx, &ev); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, nil
}

func (s *Seeder) seedViolations(ctx context.Context, events []models.Event) error {
	violationTypes := []models.ViolationType{
		models.ViolationTypeDataLeak, models.ViolationTypePromptInjection, models.ViolationTypePolicyBreach,
		models.ViolationTypeContentViolation, models.ViolationTypeSecurityIncident, models.ViolationTypeComplianceViolation,
	}
	severities := models.Severities()
	statuses := []models.ViolationStatus{
		models.ViolationStatusDetected, models.ViolationStatusAcknowledged, models.ViolationStatusInvestigating,
		models.ViolationStatusResolved, models.ViolationStatusFalsePositive,
	}

	// first 20 events keep the demo data manageable
	limit := 20
	if len(events) < limit {
		limit = len(events)
	}
	for i, ev := range events[:limit] {
		legal := 0.1 + s.rand.Float64()*0.8
		controversial := 0.1 + s.rand.Float64()*0.7
		code := 0.1 + s.rand.Float64()*0.6
		safe := 0.2 + s.rand.Float64()*0.7

		v := models.Violation{
			Type:                    violationTypes[s.rand.Intn(len(violationTypes))],
			Severity:                severities[s.rand.Intn(len(severities))],
			Status:                  statuses[s.rand.Intn(len(statuses))],
			Title:                   fmt.Sprintf("Violation %d: %s", i+1, ev.Title),
			Description:             fmt.Sprintf("Policy violation detected in event %s", ev.EventID),
			ConfidenceScore:         0.6 + s.rand.Float64()*0.35,
			LegalAdviceScore:        &legal,
			ControversialTopicScore: &controversial,
			CodePromptScore:         &code,
			SafePromptScore:         &safe,
			EventID:                 ev.ID,
			PolicyID:                *ev.PolicyID,
		}
		if err := s.stores.Violations.Create(ctx, &v); err != nil {
			return err
		}
	}
	return nil
}
