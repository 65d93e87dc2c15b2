package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the system-wide batch on a fixed cadence.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	log    *slog.Logger
}

// NewScheduler creates a Scheduler that runs a full batch every interval.
func NewScheduler(
	r *Runner,
	checkInterval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:   c,
		runner: r,
		log:    log,
	}

	if _, err := c.AddFunc(
		"@every "+checkInterval.String(),
		s.runBatch,
	); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins running scheduled batches.
func (s *Scheduler) Start() {
	s.log.Info("scheduler started")
	s.cron.Start()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

func (s *Scheduler) runBatch() {
	ctx := context.Background()
	s.log.Info("scheduled batch starting")

	report, err := s.runner.Run(ctx, nil)
	if err != nil {
		if errors.Is(err, ErrBatchRunning) {
			// Previous scheduled run still going; skip this tick.
			s.log.Warn("scheduled batch skipped, previous run still in flight")
			return
		}
		s.log.Error("scheduled batch failed", "error", err)
		return
	}

	s.log.Info("scheduled batch finished", "ok", report.OK, "failed", report.Failed)
}
