package postgres

import (
	"context"
	"time"

	"github.com/sentinelai/sentinel-core/internal/models"
)

// StatsRepo serves the dashboard aggregate queries. Grouping rows to chart
// buckets happens in internal/models; this layer only runs the SQL.
type StatsRepo struct {
	client *Client
}

func NewStatsRepo(c *Client) *StatsRepo {
	return &StatsRepo{client: c}
}

func (r *StatsRepo) DashboardStats(ctx context.Context, now time.Time) (*models.DashboardStats, error) {
	var s models.DashboardStats
	yesterday := now.Add(-24 * time.Hour)
	err := r.client.Pool.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM policies),
			(SELECT count(*) FROM policies WHERE status = 'open'),
			(SELECT count(*) FROM events),
			(SELECT count(*) FROM violations WHERE status IN ('detected', 'investigating')),
			(SELECT count(*) FROM events WHERE trigger_date >= $1),
			(SELECT count(*) FROM violations WHERE severity = 'critical')`,
		yesterday,
	).Scan(&s.TotalPolicies, &s.ActivePolicies, &s.TotalEvents,
		&s.OpenViolations, &s.EventsLast24h, &s.CriticalViolations)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *StatsRepo) EventsTimeline(ctx context.Context, since time.Time) ([]models.TimelineRow, error) {
	rows, err := r.client.Pool.Query(ctx, `
		SELECT to_char(date(trigger_date), 'YYYY-MM-DD'), severity, count(*)
		FROM events
		WHERE trigger_date >= $1
		GROUP BY date(trigger_date), severity
		ORDER BY 1`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.TimelineRow{}
	for rows.Next() {
		var row models.TimelineRow
		if err := rows.Scan(&row.Date, &row.Severity, &row.Count); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func (r *StatsRepo) ViolationsByType(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := r.client.Pool.Query(ctx, `
		SELECT violation_type, count(*) FROM violations GROUP BY violation_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (r *StatsRepo) PoliciesByStatus(ctx context.Context) ([]models.StatusCount, error) {
	rows, err := r.client.Pool.Query(ctx, `
		SELECT status, count(*) FROM policies GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.StatusCount{}
	for rows.Next() {
		var c models.StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, err
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func (r *StatsRepo) RecentEvents(ctx context.Context, limit int) ([]models.Event, error) {
	return NewEventRepo(r.client).List(ctx, models.EventFilter{Limit: limit})
}

func (r *StatsRepo) RecentViolations(ctx context.Context, limit int) ([]models.Violation, error) {
	return NewViolationRepo(r.client).List(ctx, models.ViolationFilter{Limit: limit})
}

func (r *StatsRepo) AvgEventDuration(ctx context.Context) (float64, error) {
	var avg *float64
	err := r.client.Pool.QueryRow(ctx, `SELECT avg(duration_ms) FROM events`).Scan(&avg)
	if err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *StatsRepo) PolicyPerformance(ctx context.Context) ([]models.PerformanceModeRow, error) {
	rows, err := r.client.Pool.Query(ctx, `
		SELECT performance_mode,
			coalesce(avg(estimated_latency_ms), 0),
			coalesce(avg(estimated_cost_per_event), 0),
			count(*)
		FROM policies GROUP BY performance_mode`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.PerformanceModeRow{}
	for rows.Next() {
		var row models.PerformanceModeRow
		if err := rows.Scan(&row.Mode, &row.AvgLatency, &row.AvgCost, &row.Count); err != nil {
			return nil, err
		}
		results = append(results, row)
	}
	return results, rows.Err()
}
