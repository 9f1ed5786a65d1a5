package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RetentionConfig controls scheduled pruning of expired audit data.
type RetentionConfig struct {
	// RetentionDays is how many days of audit data to keep. Zero disables
	// pruning.
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a standard cron expression (e.g. "0 3 * * *" for
	// daily at 3 AM). Empty disables the scheduler.
	PruneSchedule string `yaml:"prune_schedule"`
}

// RetentionScheduler runs retention pruning against a Pruner-capable store
// on a cron schedule.
type RetentionScheduler struct {
	config RetentionConfig
	pruner Pruner
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewRetentionScheduler creates a scheduler over the given pruner.
func NewRetentionScheduler(cfg RetentionConfig, pruner Pruner, logger *slog.Logger) *RetentionScheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &RetentionScheduler{
		config: cfg,
		pruner: pruner,
		cron:   cron.New(),
		logger: logger.With("component", "audit.retention"),
	}
}

// Start begins scheduled pruning. It is a no-op when retention or the
// schedule is unconfigured. The scheduler stops when ctx is cancelled.
func (s *RetentionScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.config.RetentionDays <= 0 || s.config.PruneSchedule == "" {
		s.logger.Info("audit retention not configured, skipping scheduler")
		return nil
	}

	if _, err := cron.ParseStandard(s.config.PruneSchedule); err != nil {
		return fmt.Errorf("invalid prune schedule %q: %w", s.config.PruneSchedule, err)
	}

	if _, err := s.cron.AddFunc(s.config.PruneSchedule, s.runPruning); err != nil {
		return fmt.Errorf("failed to schedule audit pruning: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("audit retention scheduler started",
		"schedule", s.config.PruneSchedule,
		"retention_days", s.config.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// runPruning executes one pruning pass.
func (s *RetentionScheduler) runPruning() {
	cutoff := time.Now().UTC().AddDate(0, 0, -s.config.RetentionDays)

	removed, err := s.pruner.PruneBefore(cutoff)
	if err != nil {
		s.logger.Error("audit pruning failed", "error", err)
		return
	}
	if removed > 0 {
		s.logger.Info("audit pruning completed",
			"removed", removed,
			"cutoff", cutoff.Format(partitionDate),
		)
	}
}

// Stop halts the scheduler and waits for any in-flight pruning run.
func (s *RetentionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info("audit retention scheduler stopped")
}
