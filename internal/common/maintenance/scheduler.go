package maintenance

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/busurbano-data/internal/common/logger"
)

// CleanupScheduler runs the retention purge periodically
type CleanupScheduler struct {
	maintenance *Maintenance
	logger      logger.Logger
	config      SchedulerConfig
	onPurge     func(PurgeResult)

	mu        sync.RWMutex
	isRunning bool
	cancelFn  context.CancelFunc
	done      chan struct{}
	lastRun   time.Time
}

// SchedulerConfig contains configuration for the cleanup scheduler
type SchedulerConfig struct {
	Interval      time.Duration // How often to purge
	InitialDelay  time.Duration // Wait before the first purge
	RetentionDays int           // Days of observations to keep
	BatchSize     int           // Rows deleted per statement
}

// DefaultSchedulerConfig purges daily, keeping 90 days.
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{
		Interval:      24 * time.Hour,
		InitialDelay:  time.Minute,
		RetentionDays: 90,
		BatchSize:     DefaultBatchSize,
	}
}

// NewCleanupScheduler creates a new cleanup scheduler. onPurge, if not nil,
// is called after every successful purge.
func NewCleanupScheduler(m *Maintenance, logger logger.Logger, config SchedulerConfig, onPurge func(PurgeResult)) *CleanupScheduler {
	return &CleanupScheduler{
		maintenance: m,
		logger:      logger,
		config:      config,
		onPurge:     onPurge,
	}
}

// Start begins the cleanup scheduling
func (s *CleanupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cleanup scheduler is already running")
	}
	if s.config.Interval <= 0 {
		return fmt.Errorf("cleanup interval must be positive")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancelFn = cancel
	s.done = make(chan struct{})
	s.isRunning = true

	s.logger.Info("Starting cleanup scheduler",
		"interval", s.config.Interval,
		"retention_days", s.config.RetentionDays,
		"batch_size", s.config.BatchSize)

	go s.loop(ctx, s.done)
	return nil
}

// Stop stops the cleanup scheduler and waits for a running purge to finish.
func (s *CleanupScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.logger.Info("Stopping cleanup scheduler")
	s.cancelFn()
	s.isRunning = false
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("Cleanup scheduler stopped")
}

// IsRunning returns whether the scheduler is active
func (s *CleanupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// LastRun returns when the last successful purge finished.
func (s *CleanupScheduler) LastRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRun
}

func (s *CleanupScheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	initialDelay := time.NewTimer(s.config.InitialDelay)
	defer initialDelay.Stop()
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-initialDelay.C:
			s.Trigger(ctx)
		case <-ticker.C:
			s.Trigger(ctx)
		}
	}
}

// Trigger runs one purge now.
func (s *CleanupScheduler) Trigger(ctx context.Context) {
	result, err := s.maintenance.PurgeDelayObservations(ctx, s.config.RetentionDays, s.config.BatchSize)
	if err != nil {
		s.logger.Error("Delay observation purge failed", "error", err)
		return
	}

	s.mu.Lock()
	s.lastRun = time.Now()
	s.mu.Unlock()

	if s.onPurge != nil {
		s.onPurge(result)
	}
}
