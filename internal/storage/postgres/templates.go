package postgres

import (
	"context"

	"github.com/sentinelai/sentinel-core/internal/models"
)

type TemplateRepo struct {
	client *Client
}

func NewTemplateRepo(c *Client) *TemplateRepo {
	return &TemplateRepo{client: c}
}

func (r *TemplateRepo) ListActive(ctx context.Context) ([]models.PolicyTemplate, error) {
	rows, err := r.client.Pool.Query(ctx, `
		SELECT id, name, category, description, template_code, default_severity,
			default_performance_mode, tags, is_active
		FROM policy_templates WHERE is_active ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.PolicyTemplate{}
	for rows.Next() {
		var t models.PolicyTemplate
		var tags *string
		if err := rows.Scan(&t.ID, &t.Name, &t.Category, &t.Description, &t.TemplateCode,
			&t.DefaultSeverity, &t.DefaultPerformanceMode, &tags, &t.IsActive); err != nil {
			return nil, err
		}
		if tags != nil {
			t.Tags = *tags
		}
		results = append(results, t)
	}
	return results, rows.Err()
}

func (r *TemplateRepo) Create(ctx context.Context, t *models.PolicyTemplate) error {
	row := r.client.Pool.QueryRow(ctx, `
		INSERT INTO policy_templates (name, category, description, template_code,
			default_severity, default_performance_mode, tags, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id`,
		t.Name, t.Category, t.Description, t.TemplateCode,
		t.DefaultSeverity, t.DefaultPerformanceMode, nullIfEmpty(t.Tags), t.IsActive,
	)
	return row.Scan(&t.ID)
}
