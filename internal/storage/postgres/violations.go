package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sentinelai/sentinel-core/internal/models"
)

type ViolationRepo struct {
	client *Client
}

func NewViolationRepo(c *Client) *ViolationRepo {
	return &ViolationRepo{client: c}
}

const violationColumns = `id, violation_type, severity, status, title, description, details,
	confidence_score, legal_advice_score, controversial_topics_score, code_prompt_score,
	safe_prompt_score, event_id, policy_id, acknowledged_by, acknowledged_date,
	created_at, updated_at`

func scanViolation(row interface{ Scan(...interface{}) error }) (*models.Violation, error) {
	var v models.Violation
	var title, description, details *string
	err := row.Scan(&v.ID, &v.Type, &v.Severity, &v.Status, &title, &description, &details,
		&v.ConfidenceScore, &v.LegalAdviceScore, &v.ControversialTopicScore,
		&v.CodePromptScore, &v.SafePromptScore, &v.EventID, &v.PolicyID,
		&v.AcknowledgedBy, &v.AcknowledgedDate, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if title != nil {
		v.Title = *title
	}
	if description != nil {
		v.Description = *description
	}
	if details != nil {
		v.Details = *details
	}
	return &v, nil
}

func (r *ViolationRepo) List(ctx context.Context, f models.ViolationFilter) ([]models.Violation, error) {
	query := `SELECT ` + violationColumns + ` FROM violations`
	args := []interface{}{}
	where := ""
	if f.Status != nil {
		args = append(args, *f.Status)
		where = fmt.Sprintf(" WHERE status=$%d", len(args))
	}
	if f.Severity != nil {
		args = append(args, *f.Severity)
		if where == "" {
			where = fmt.Sprintf(" WHERE severity=$%d", len(args))
		} else {
			where += fmt.Sprintf(" AND severity=$%d", len(args))
		}
	}
	args = append(args, f.Skip, f.Limit)
	query += where + fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", len(args)-1, len(args))

	rows, err := r.client.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.Violation{}
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *v)
	}
	return results, rows.Err()
}

func (r *ViolationRepo) Get(ctx context.Context, id int64) (*models.Violation, error) {
	row := r.client.Pool.QueryRow(ctx, `SELECT `+violationColumns+` FROM violations WHERE id=$1`, id)
	v, err := scanViolation(row)
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (r *ViolationRepo) Create(ctx context.Context, v *models.Violation) error {
	row := r.client.Pool.QueryRow(ctx, `
		INSERT INTO violations (violation_type, severity, status, title, description, details,
			confidence_score, legal_advice_score, controversial_topics_score, code_prompt_score,
			safe_prompt_score, event_id, policy_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id, created_at`,
		v.Type, v.Severity, v.Status, nullIfEmpty(v.Title), nullIfEmpty(v.Description),
		nullIfEmpty(v.Details), v.ConfidenceScore, v.LegalAdviceScore,
		v.ControversialTopicScore, v.CodePromptScore, v.SafePromptScore,
		v.EventID, v.PolicyID,
	)
	if err := row.Scan(&v.ID, &v.CreatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *ViolationRepo) Update(ctx context.Context, id int64, patch models.ViolationPatch) (*models.Violation, error) {
	v, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	patch.Apply(v, now)
	v.UpdatedAt = &now

	_, err = r.client.Pool.Exec(ctx, `
		UPDATE violations
		SET status=$1, severity=$2, title=$3, description=$4, confidence_score=$5,
			acknowledged_by=$6, acknowledged_date=$7, updated_at=$8
		WHERE id=$9`,
		v.Status, v.Severity, nullIfEmpty(v.Title), nullIfEmpty(v.Description),
		v.ConfidenceScore, v.AcknowledgedBy, v.AcknowledgedDate, now, id,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return v, nil
}

func (r *ViolationRepo) ListByEvent(ctx context.Context, eventID int64) ([]models.Violation, error) {
	rows, err := r.client.Pool.Query(ctx,
		`SELECT `+violationColumns+` FROM violations WHERE event_id=$1 ORDER BY created_at DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.Violation{}
	for rows.Next() {
		v, err := scanViolation(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *v)
	}
	return results, rows.Err()
}

func (r *ViolationRepo) Stats(ctx context.Context) (*models.ViolationStats, error) {
	var s models.ViolationStats
	err := r.client.Pool.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE status IN ('detected', 'investigating')),
			count(*) FILTER (WHERE severity = 'critical'),
			count(*) FILTER (WHERE severity = 'high')
		FROM violations`,
	).Scan(&s.TotalViolations, &s.OpenViolations, &s.CriticalViolations, &s.HighViolations)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
