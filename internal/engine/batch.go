package engine

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/jockelind/lagerkoll/internal/metrics"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// ErrBatchRunning is returned when an actor triggers a batch while their
// previous one is still in flight.
var ErrBatchRunning = errors.New("batch already running for actor")

// RunBatch checks every active item in scope sequentially. A nil ownerID
// means all active items in the system. Per-item failures are counted, not
// propagated; every item in scope is attempted.
func (c *Checker) RunBatch(ctx context.Context, ownerID *int64) (domain.BatchReport, error) {
	start := time.Now()
	defer func() {
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	var report domain.BatchReport

	items, err := c.store.ListActiveItems(ctx, ownerID)
	if err != nil {
		return report, fmt.Errorf("listing active items: %w", err)
	}

	for i := range items {
		if err := c.checkOne(ctx, &items[i]); err != nil {
			report.Failed++
			continue
		}
		report.OK++
	}

	c.log.Info("batch complete",
		"actor", ActorKey(ownerID),
		"ok", report.OK,
		"failed", report.Failed,
	)
	return report, nil
}

// checkOne wraps a single check so that a panic in one item cannot
// truncate the batch.
func (c *Checker) checkOne(ctx context.Context, item *domain.Item) (err error) {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			c.log.Error("panic during item check",
				"item_id", item.ID,
				"panic", r,
				"stack", string(buf[:n]),
			)
			err = fmt.Errorf("panic during check: %v", r)
		}
	}()
	return c.Check(ctx, item)
}

// Runner deduplicates batch triggers per actor: while an actor has a batch
// in flight, further triggers from the same actor are rejected rather than
// queued.
type Runner struct {
	checker *Checker
	tracker *RunTracker
}

// NewRunner creates a Runner around the checker and tracker.
func NewRunner(c *Checker, t *RunTracker) *Runner {
	return &Runner{checker: c, tracker: t}
}

// Run executes one batch for the actor scope, holding the actor's running
// mark for the duration. Returns ErrBatchRunning when the actor already
// has one in flight. The mark is always cleared, panics included.
func (r *Runner) Run(ctx context.Context, ownerID *int64) (domain.BatchReport, error) {
	actor := ActorKey(ownerID)

	if !r.tracker.TryStart(actor) {
		metrics.BatchRejectedTotal.Inc()
		return domain.BatchReport{}, ErrBatchRunning
	}
	defer r.tracker.Finish(actor)

	return r.checker.RunBatch(ctx, ownerID)
}

// Status reports whether the actor has a batch in flight and when it started.
func (r *Runner) Status(ownerID *int64) (bool, time.Time) {
	return r.tracker.Running(ActorKey(ownerID))
}
