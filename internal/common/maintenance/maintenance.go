package maintenance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/busurbano-data/internal/common/logger"
)

const DefaultBatchSize = 5000

// Execer is the part of *sql.DB the maintenance tasks need.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// PurgeResult summarises one retention purge.
type PurgeResult struct {
	Cutoff         time.Time
	RecordsDeleted int64
	Batches        int
	Duration       time.Duration
}

// Maintenance handles database cleanup operations
type Maintenance struct {
	db     Execer
	logger logger.Logger
	now    func() time.Time
}

func New(db Execer, logger logger.Logger) *Maintenance {
	return &Maintenance{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

const purgeBatchQuery = `
	DELETE FROM delay_observations
	WHERE id IN (
		SELECT id FROM delay_observations
		WHERE observed_at < $1
		LIMIT $2
	)`

// PurgeDelayObservations deletes observations older than retentionDays in
// batches of batchSize rows, so no single statement holds locks for long.
// A retention of zero or less keeps everything.
func (m *Maintenance) PurgeDelayObservations(ctx context.Context, retentionDays, batchSize int) (PurgeResult, error) {
	start := m.now()
	result := PurgeResult{Cutoff: start.AddDate(0, 0, -retentionDays).UTC()}
	if retentionDays <= 0 {
		m.logger.Debug("Retention disabled, skipping purge")
		return result, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	m.logger.Info("Starting purge of old delay observations",
		"retention_days", retentionDays,
		"cutoff", result.Cutoff,
		"batch_size", batchSize)

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		res, err := m.db.ExecContext(ctx, purgeBatchQuery, result.Cutoff, batchSize)
		if err != nil {
			return result, fmt.Errorf("deleting batch %d: %w", result.Batches+1, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return result, fmt.Errorf("reading deleted row count: %w", err)
		}

		result.Batches++
		result.RecordsDeleted += n
		m.logger.Debug("Processed batch", "batch", result.Batches, "records_deleted", n)

		if n < int64(batchSize) {
			break
		}
	}

	result.Duration = m.now().Sub(start)
	m.logger.Info("Delay observation purge completed",
		"total_records_deleted", result.RecordsDeleted,
		"total_batches", result.Batches,
		"duration", result.Duration)

	if result.RecordsDeleted > 0 {
		if err := m.Vacuum(ctx); err != nil {
			m.logger.Warn("Failed to vacuum after purge", "error", err)
		}
	}
	return result, nil
}

// Vacuum runs VACUUM ANALYZE on the observation table. It must not run
// inside a transaction.
func (m *Maintenance) Vacuum(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, "VACUUM ANALYZE delay_observations"); err != nil {
		return fmt.Errorf("vacuuming delay_observations: %w", err)
	}
	return nil
}
