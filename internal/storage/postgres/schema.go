package postgres

import "context"

// Migrate creates the schema when it does not exist yet. Single-node
// bootstrap, same role as the original create_all on startup.
func (c *Client) Migrate(ctx context.Context) error {
	_, err := c.Pool.Exec(ctx, schemaDDL)
	return err
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS users (
	id              BIGSERIAL PRIMARY KEY,
	username        TEXT NOT NULL UNIQUE,
	email           TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	role            TEXT NOT NULL DEFAULT 'viewer',
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at      TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS policies (
	id                       BIGSERIAL PRIMARY KEY,
	name                     TEXT NOT NULL,
	definition               TEXT NOT NULL,
	category                 TEXT NOT NULL,
	status                   TEXT NOT NULL DEFAULT 'draft',
	severity                 TEXT NOT NULL DEFAULT 'medium',
	performance_mode         TEXT NOT NULL DEFAULT 'balanced',
	estimated_cost_per_event DOUBLE PRECISION NOT NULL DEFAULT 0,
	estimated_latency_ms     DOUBLE PRECISION NOT NULL DEFAULT 0,
	intervention_type        TEXT NOT NULL DEFAULT 'notification',
	intervention_config      TEXT,
	created_by               BIGINT REFERENCES users(id),
	created_at               TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at               TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_policies_name ON policies(name);
CREATE INDEX IF NOT EXISTS idx_policies_status ON policies(status);

CREATE TABLE IF NOT EXISTS policy_templates (
	id                       BIGSERIAL PRIMARY KEY,
	name                     TEXT NOT NULL,
	category                 TEXT NOT NULL,
	description              TEXT NOT NULL,
	template_code            TEXT NOT NULL,
	default_severity         TEXT NOT NULL DEFAULT 'medium',
	default_performance_mode TEXT NOT NULL DEFAULT 'balanced',
	tags                     TEXT,
	is_active                BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS events (
	id                  BIGSERIAL PRIMARY KEY,
	event_id            TEXT NOT NULL UNIQUE,
	event_type          TEXT NOT NULL,
	severity            TEXT NOT NULL DEFAULT 'low',
	status              TEXT NOT NULL DEFAULT 'open',
	title               TEXT NOT NULL,
	description         TEXT,
	event_data          TEXT,
	model_name          TEXT,
	request_tokens      INTEGER,
	response_tokens     INTEGER,
	completion_reason   TEXT,
	request_temperature DOUBLE PRECISION,
	request_max_tokens  INTEGER,
	trigger_date        TIMESTAMPTZ NOT NULL,
	duration_ms         DOUBLE PRECISION,
	policy_id           BIGINT REFERENCES policies(id),
	user_id             BIGINT REFERENCES users(id),
	acknowledged_by     BIGINT REFERENCES users(id),
	acknowledged_date   TIMESTAMPTZ,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at          TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_events_trigger_date ON events(trigger_date DESC);
CREATE INDEX IF NOT EXISTS idx_events_status ON events(status);
CREATE INDEX IF NOT EXISTS idx_events_policy_id ON events(policy_id);

CREATE TABLE IF NOT EXISTS violations (
	id                         BIGSERIAL PRIMARY KEY,
	violation_type             TEXT NOT NULL,
	severity                   TEXT NOT NULL,
	status                     TEXT NOT NULL DEFAULT 'detected',
	title                      TEXT,
	description                TEXT,
	details                    TEXT,
	confidence_score           DOUBLE PRECISION NOT NULL DEFAULT 0,
	legal_advice_score         DOUBLE PRECISION,
	controversial_topics_score DOUBLE PRECISION,
	code_prompt_score          DOUBLE PRECISION,
	safe_prompt_score          DOUBLE PRECISION,
	event_id                   BIGINT NOT NULL REFERENCES events(id),
	policy_id                  BIGINT NOT NULL REFERENCES policies(id),
	acknowledged_by            BIGINT REFERENCES users(id),
	acknowledged_date          TIMESTAMPTZ,
	created_at                 TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at                 TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS idx_violations_created_at ON violations(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_violations_event_id ON violations(event_id);
CREATE INDEX IF NOT EXISTS idx_violations_status ON violations(status);
`
