package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/busurbano-data/internal/common/db"
	"github.com/busurbano-data/internal/common/logger"
	"github.com/busurbano-data/pkg/gtfs-static/models"
)

const observationTable = "delay_observations"

var observationColumns = []string{
	"observed_at",
	"stop_code",
	"line",
	"route",
	"service_id",
	"trip_id",
	"running",
	"scheduled_minutes",
	"real_time_minutes",
}

// Postgres caps bind parameters per statement at 65535.
const maxRowsPerStatement = 65535 / 9

// Statistics summarises the stored observations.
type Statistics struct {
	TotalObservations int64
	FirstObservation  *time.Time
	LastObservation   *time.Time
	UniqueStops       int64
	UniqueLines       int64
}

// Store writes delay observations to PostgreSQL.
type Store struct {
	db     *db.DB
	logger logger.Logger
}

func New(database *db.DB) *Store {
	return &Store{db: database, logger: database.Logger()}
}

// Insert stores observations in one transaction and returns how many rows
// were written.
func (s *Store) Insert(ctx context.Context, observations []models.DelayObservation) (int, error) {
	if len(observations) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for start := 0; start < len(observations); start += maxRowsPerStatement {
		end := min(start+maxRowsPerStatement, len(observations))
		chunk := observations[start:end]

		query := buildInsertQuery(observationTable, observationColumns, len(chunk))
		if _, err := tx.ExecContext(ctx, query, observationArgs(chunk)...); err != nil {
			return 0, fmt.Errorf("executing batch insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing observations: %w", err)
	}
	s.logger.Debug("Inserted observations", "count", len(observations))
	return len(observations), nil
}

// Stats reads totals, the observation time range and distinct stops and
// lines.
func (s *Store) Stats(ctx context.Context) (Statistics, error) {
	var stats Statistics
	var first, last sql.NullTime

	err := s.db.DB().QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			MIN(observed_at),
			MAX(observed_at),
			COUNT(DISTINCT stop_code),
			COUNT(DISTINCT line)
		FROM delay_observations
	`).Scan(&stats.TotalObservations, &first, &last, &stats.UniqueStops, &stats.UniqueLines)
	if err != nil {
		return stats, fmt.Errorf("querying statistics: %w", err)
	}

	if first.Valid {
		stats.FirstObservation = &first.Time
	}
	if last.Valid {
		stats.LastObservation = &last.Time
	}
	return stats, nil
}

func buildInsertQuery(table string, columns []string, rows int) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("INSERT INTO %s (%s) VALUES ",
		table,
		strings.Join(columns, ", ")))

	fieldCount := len(columns)
	for i := 0; i < rows; i++ {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < fieldCount; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(fmt.Sprintf("$%d", i*fieldCount+j+1))
		}
		sb.WriteString(")")
	}

	return sb.String()
}

func observationArgs(observations []models.DelayObservation) []any {
	args := make([]any, 0, len(observations)*len(observationColumns))
	for _, o := range observations {
		args = append(args,
			o.ObservedAt.UTC(),
			o.StopCode,
			nullString(o.Line),
			nullString(o.Route),
			nullString(o.ServiceID),
			nullString(o.TripID),
			o.Running,
			o.ScheduledMinutes,
			o.RealTimeMinutes,
		)
	}
	return args
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
