package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/sentinelai/sentinel-core/internal/models"
)

type EventRepo struct {
	client *Client
}

func NewEventRepo(c *Client) *EventRepo {
	return &EventRepo{client: c}
}

const eventColumns = `id, event_id, event_type, severity, status, title, description, event_data,
	model_name, request_tokens, response_tokens, completion_reason, request_temperature,
	request_max_tokens, trigger_date, duration_ms, policy_id, user_id,
	acknowledged_by, acknowledged_date, created_at, updated_at`

func scanEvent(row interface{ Scan(...interface{}) error }) (*models.Event, error) {
	var ev models.Event
	var description, eventData, modelName, completionReason *string
	err := row.Scan(&ev.ID, &ev.EventID, &ev.Type, &ev.Severity, &ev.Status, &ev.Title,
		&description, &eventData, &modelName, &ev.RequestTokens, &ev.ResponseTokens,
		&completionReason, &ev.RequestTemp, &ev.RequestMaxTokens, &ev.TriggerDate,
		&ev.DurationMS, &ev.PolicyID, &ev.UserID, &ev.AcknowledgedBy, &ev.AcknowledgedDate,
		&ev.CreatedAt, &ev.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if description != nil {
		ev.Description = *description
	}
	if eventData != nil {
		ev.EventData = *eventData
	}
	if modelName != nil {
		ev.ModelName = *modelName
	}
	if completionReason != nil {
		ev.CompletionReason = *completionReason
	}
	return &ev, nil
}

func (r *EventRepo) List(ctx context.Context, f models.EventFilter) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events`
	args := []interface{}{}
	where := ""
	appendCond := func(cond string, v interface{}) {
		args = append(args, v)
		if where == "" {
			where = fmt.Sprintf(" WHERE %s=$%d", cond, len(args))
		} else {
			where += fmt.Sprintf(" AND %s=$%d", cond, len(args))
		}
	}
	if f.Status != nil {
		appendCond("status", *f.Status)
	}
	if f.Severity != nil {
		appendCond("severity", *f.Severity)
	}
	if f.PolicyID != nil {
		appendCond("policy_id", *f.PolicyID)
	}
	args = append(args, f.Skip, f.Limit)
	query += where + fmt.Sprintf(" ORDER BY trigger_date DESC OFFSET $%d LIMIT $%d", len(args)-1, len(args))

	rows, err := r.client.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, *ev)
	}
	return results, rows.Err()
}

func (r *EventRepo) Get(ctx context.Context, id int64) (*models.Event, error) {
	row := r.client.Pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id)
	ev, err := scanEvent(row)
	if err != nil {
		return nil, mapError(err)
	}
	return ev, nil
}

func (r *EventRepo) Create(ctx context.Context, ev *models.Event) error {
	row := r.client.Pool.QueryRow(ctx, `
		INSERT INTO events (event_id, event_type, severity, status, title, description, event_data,
			model_name, request_tokens, response_tokens, completion_reason, request_temperature,
			request_max_tokens, trigger_date, duration_ms, policy_id, user_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
		RETURNING id, created_at`,
		ev.EventID, ev.Type, ev.Severity, ev.Status, ev.Title,
		nullIfEmpty(ev.Description), nullIfEmpty(ev.EventData), nullIfEmpty(ev.ModelName),
		ev.RequestTokens, ev.ResponseTokens, nullIfEmpty(ev.CompletionReason),
		ev.RequestTemp, ev.RequestMaxTokens, ev.TriggerDate, ev.DurationMS,
		ev.PolicyID, ev.UserID,
	)
	if err := row.Scan(&ev.ID, &ev.CreatedAt); err != nil {
		return mapError(err)
	}
	return nil
}

func (r *EventRepo) Update(ctx context.Context, id int64, patch models.EventPatch) (*models.Event, error) {
	ev, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	patch.Apply(ev, now)
	ev.UpdatedAt = &now

	_, err = r.client.Pool.Exec(ctx, `
		UPDATE events
		SET status=$1, severity=$2, title=$3, description=$4,
			acknowledged_by=$5, acknowledged_date=$6, updated_at=$7
		WHERE id=$8`,
		ev.Status, ev.Severity, ev.Title, nullIfEmpty(ev.Description),
		ev.AcknowledgedBy, ev.AcknowledgedDate, now, id,
	)
	if err != nil {
		return nil, mapError(err)
	}
	return ev, nil
}

func (r *EventRepo) Stats(ctx context.Context, now time.Time) (*models.EventStats, error) {
	var s models.EventStats
	yesterday := now.Add(-24 * time.Hour)
	err := r.client.Pool.QueryRow(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE status = 'open'),
			count(*) FILTER (WHERE trigger_date >= $1),
			count(*) FILTER (WHERE severity = 'critical')
		FROM events`, yesterday,
	).Scan(&s.TotalEvents, &s.OpenEvents, &s.EventsLast24h, &s.CriticalEvents)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
