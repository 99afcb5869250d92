package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sentinelai/sentinel-core/internal/models"
	"github.com/sentinelai/sentinel-core/internal/storage"
)

type PolicyRepo struct {
	client *Client
}

func NewPolicyRepo(c *Client) *PolicyRepo {
	return &PolicyRepo{client: c}
}

const policyColumns = `id, name, definition, category, status, severity, performance_mode,
	estimated_cost_per_event, estimated_latency_ms, intervention_type, intervention_config,
	created_by, created_at, updated_at`

func (r *PolicyRepo) List(ctx context.Context, f models.PolicyFilter) ([]models.Policy, error) {
	query := `SELECT ` + policyColumns + ` FROM policies`
	args := []interface{}{}
	where := ""
	if f.Status != nil {
		args = append(args, *f.Status)
		where = fmt.Sprintf(" WHERE status=$%d", len(args))
	}
	if f.Category != nil {
		args = append(args, *f.Category)
		if where == "" {
			where = fmt.Sprintf(" WHERE category=$%d", len(args))
		} else {
			where += fmt.Sprintf(" AND category=$%d", len(args))
		}
	}
	args = append(args, f.Skip, f.Limit)
	query += where + fmt.Sprintf(" ORDER BY id OFFSET $%d LIMIT $%d", len(args)-1, len(args))

	rows, err := r.client.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.Policy{}
	for rows.Next() {
		var p models.Policy
		var interventionConfig *string
		if err := rows.Scan(&p.ID, &p.Name, &p.Definition, &p.Category, &p.Status, &p.Severity,
			&p.PerformanceMode, &p.EstimatedCostPerEvent, &p.EstimatedLatencyMS,
			&p.InterventionType, &interventionConfig, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if interventionConfig != nil {
			p.InterventionConfig = *interventionConfig
		}
		results = append(results, p)
	}
	return results, rows.Err()
}

func (r *PolicyRepo) Get(ctx context.Context, id int64) (*models.Policy, error) {
	row := r.client.Pool.QueryRow(ctx, `SELECT `+policyColumns+` FROM policies WHERE id=$1`, id)
	var p models.Policy
	var interventionConfig *string
	if err := row.Scan(&p.ID, &p.Name, &p.Definition, &p.Category, &p.Status, &p.Severity,
		&p.PerformanceMode, &p.EstimatedCostPerEvent, &p.EstimatedLatencyMS,
		&p.InterventionType, &interventionConfig, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapError(err)
	}
	if interventionConfig != nil {
		p.InterventionConfig = *interventionConfig
	}
	return &p, nil
}

func (r *PolicyRepo) Create(ctx context.Context, p *models.Policy) error {
	row := r.client.Pool.QueryRow(ctx, `
		INSERT INTO policies (name, definition, category, status, severity, performance_mode,
			estimated_cost_per_event, estimated_latency_ms, intervention_type, intervention_config, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		RETURNING id, created_at`,
		p.Name, p.Definition, p.Category, p.Status, p.Severity, p.PerformanceMode,
		p.EstimatedCostPerEvent, p.EstimatedLatencyMS, p.InterventionType,
		nullIfEmpty(p.InterventionConfig), p.CreatedBy,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *PolicyRepo) Update(ctx context.Context, id int64, patch models.PolicyPatch) (*models.Policy, error) {
	p, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(p)
	now := time.Now().UTC()
	p.UpdatedAt = &now

	_, err = r.client.Pool.Exec(ctx, `
		UPDATE policies
		SET name=$1, definition=$2, category=$3, status=$4, severity=$5, performance_mode=$6,
			estimated_cost_per_event=$7, estimated_latency_ms=$8,
			intervention_type=$9, intervention_config=$10, updated_at=$11
		WHERE id=$12`,
		p.Name, p.Definition, p.Category, p.Status, p.Severity, p.PerformanceMode,
		p.EstimatedCostPerEvent, p.EstimatedLatencyMS,
		p.InterventionType, nullIfEmpty(p.InterventionConfig), now, id,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *PolicyRepo) Delete(ctx context.Context, id int64) error {
	var referenced bool
	err := r.client.Pool.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM events WHERE policy_id=$1)
			OR EXISTS(SELECT 1 FROM violations WHERE policy_id=$1)`, id).Scan(&referenced)
	if err != nil {
		return err
	}
	if referenced {
		return storage.ErrPolicyInUse
	}

	tag, err := r.client.Pool.Exec(ctx, `DELETE FROM policies WHERE id=$1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
