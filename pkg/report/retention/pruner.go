package retention

import (
	"context"
	"fmt"
	"time"

	"catalog-hq/marcval/pkg/report"
	"catalog-hq/marcval/pkg/telemetry/logging"
)

// Config contains configuration for the retention pruner.
type Config struct {
	// RetentionDays is how many days of reports to keep. 0 means keep
	// reports forever (no pruning).
	RetentionDays int

	// Schedule is a cron expression for scheduled pruning.
	// Example: "0 3 * * *" (daily at 3 AM).
	Schedule string

	// Logger receives pruning events. Default: discard.
	Logger *logging.Logger
}

// DefaultConfig returns the default retention configuration.
func DefaultConfig() *Config {
	return &Config{
		RetentionDays: 30,
		Schedule:      "0 3 * * *",
	}
}

// Pruner enforces the retention policy on a report store.
type Pruner struct {
	store     report.Store
	config    *Config
	logger    *logging.Logger
	scheduler *Scheduler

	// now is swapped in tests.
	now func() time.Time
}

// NewPruner creates a retention pruner for the given store.
func NewPruner(store report.Store, config *Config) *Pruner {
	if config == nil {
		config = DefaultConfig()
	}
	logger := config.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	p := &Pruner{
		store:  store,
		config: config,
		logger: logger.With("component", "report.retention"),
		now:    time.Now,
	}
	p.scheduler = NewScheduler(p)
	return p
}

// Prune deletes reports older than the retention period and returns how
// many were deleted. With RetentionDays zero it does nothing.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	if p.config.RetentionDays <= 0 {
		return 0, nil
	}

	cutoff := p.now().UTC().AddDate(0, 0, -p.config.RetentionDays)
	deleted, err := p.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune failed: %w", err)
	}

	if deleted > 0 {
		p.logger.Info("pruned reports",
			"deleted", deleted,
			"retention_days", p.config.RetentionDays,
		)
	}
	return deleted, nil
}

// Start begins scheduled pruning. The scheduler stops when ctx is
// canceled.
func (p *Pruner) Start(ctx context.Context) error {
	return p.scheduler.Start(ctx)
}

// Stop stops scheduled pruning and waits for a running job to finish.
func (p *Pruner) Stop() {
	p.scheduler.Stop()
}
