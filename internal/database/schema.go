package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer runs a single statement. *pgxpool.Pool satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// schema creates the recorder tables. Every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS recording_sessions (
		id         UUID PRIMARY KEY,
		device     TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL,
		stopped_at TIMESTAMPTZ
	)`,
	`CREATE TABLE IF NOT EXISTS gaze_samples (
		session_id  UUID NOT NULL REFERENCES recording_sessions (id),
		received_at TIMESTAMPTZ NOT NULL,
		x           DOUBLE PRECISION NOT NULL,
		y           DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS positioning_samples (
		session_id    UUID NOT NULL REFERENCES recording_sessions (id),
		received_at   TIMESTAMPTZ NOT NULL,
		left_x        DOUBLE PRECISION NOT NULL,
		left_y        DOUBLE PRECISION NOT NULL,
		right_x       DOUBLE PRECISION NOT NULL,
		right_y       DOUBLE PRECISION NOT NULL,
		quality_depth SMALLINT NOT NULL,
		quality_sides SMALLINT NOT NULL,
		quality_x     SMALLINT NOT NULL,
		quality_y     SMALLINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS trigger_events (
		session_id   UUID NOT NULL REFERENCES recording_sessions (id),
		received_at  TIMESTAMPTZ NOT NULL,
		single_click BOOLEAN NOT NULL,
		double_click BOOLEAN NOT NULL,
		hold_click   BOOLEAN NOT NULL,
		fixation     BOOLEAN NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS gaze_samples_session_idx ON gaze_samples (session_id, received_at)`,
	`CREATE INDEX IF NOT EXISTS positioning_samples_session_idx ON positioning_samples (session_id, received_at)`,
	`CREATE INDEX IF NOT EXISTS trigger_events_session_idx ON trigger_events (session_id, received_at)`,
}

// Migrate creates the recorder tables if they do not exist.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
