package db

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS delay_observations (
		id                BIGSERIAL PRIMARY KEY,
		observed_at       TIMESTAMPTZ NOT NULL,
		stop_code         INTEGER     NOT NULL,
		line              TEXT,
		route             TEXT,
		service_id        TEXT,
		trip_id           TEXT,
		running           BOOLEAN     NOT NULL DEFAULT FALSE,
		scheduled_minutes INTEGER,
		real_time_minutes INTEGER
	)`,
	`CREATE INDEX IF NOT EXISTS delay_observations_observed_at_idx ON delay_observations (observed_at)`,
	`CREATE INDEX IF NOT EXISTS delay_observations_stop_line_idx ON delay_observations (stop_code, line)`,
}

// EnsureSchema creates the delay observation table and its indexes when
// missing.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	db.logger.Debug("Database schema ensured")
	return nil
}
