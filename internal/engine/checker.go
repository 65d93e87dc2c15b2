package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jockelind/lagerkoll/internal/availability"
	"github.com/jockelind/lagerkoll/internal/metrics"
	"github.com/jockelind/lagerkoll/internal/notify"
	"github.com/jockelind/lagerkoll/internal/store"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// ErrCheckInFlight is returned when a check is requested for an item that
// already has one running, e.g. a manual trigger racing a scheduled batch.
var ErrCheckInFlight = errors.New("check already in flight for item")

// Checker performs availability checks for single items: it queries the
// source, records an append-only snapshot plus the item's cached state in
// one transaction, and fires edge-triggered threshold notifications.
type Checker struct {
	store    store.Store
	source   availability.Source
	notifier notify.Notifier
	log      *slog.Logger

	mu       sync.Mutex
	inflight map[int64]struct{}
}

// NewChecker creates a Checker with injected dependencies.
func NewChecker(
	s store.Store,
	src availability.Source,
	n notify.Notifier,
	opts ...CheckerOption,
) *Checker {
	c := &Checker{
		store:    s,
		source:   src,
		notifier: n,
		log:      slog.Default(),
		inflight: make(map[int64]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CheckerOption configures the Checker.
type CheckerOption func(*Checker)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) CheckerOption {
	return func(c *Checker) {
		c.log = l
	}
}

// Check runs one availability check for the item. Success and failure both
// append a snapshot; only the returned error distinguishes them. A nil
// return means the snapshot and the item's cached fields were committed.
func (c *Checker) Check(ctx context.Context, item *domain.Item) error {
	if !c.markInFlight(item.ID) {
		return ErrCheckInFlight
	}
	defer c.clearInFlight(item.ID)

	start := time.Now()
	defer func() {
		metrics.CheckDuration.Observe(time.Since(start).Seconds())
	}()
	metrics.ChecksTotal.Inc()

	// Previous stock drives the edge-triggered threshold detection and must
	// be captured before anything is overwritten.
	previous := item.LastStock

	records, fetchErr := c.source.Fetch(ctx, item.RegionCode, item.ProductID, item.StoreFilter())
	now := time.Now().UTC()

	if fetchErr != nil || len(records) == 0 {
		msg := "no data"
		if fetchErr != nil {
			msg = fetchErr.Error()
		}
		return c.recordFailure(ctx, item, msg, now)
	}

	total, probability := Summarize(records)

	raw, err := json.Marshal(records)
	if err != nil {
		// Records came from a JSON decode, so this should not happen; keep
		// the snapshot without the raw payload rather than failing the check.
		c.log.Error("marshaling raw availability payload failed", "item_id", item.ID, "error", err)
		raw = nil
	}

	snap := &domain.Snapshot{
		ItemID:             item.ID,
		Timestamp:          now,
		TotalStock:         &total,
		ProbabilitySummary: probability,
		Raw:                raw,
	}
	upd := &store.CheckUpdate{
		ItemID:      item.ID,
		Stock:       &total,
		Probability: probability,
		CheckedAt:   now,
	}
	if err := c.store.RecordCheck(ctx, snap, upd); err != nil {
		metrics.CheckFailuresTotal.Inc()
		return fmt.Errorf("recording check: %w", err)
	}

	item.LastStock = &total
	item.LastProbability = &probability
	item.LastCheckedAt = &now

	c.evaluateThresholds(ctx, item, previous, total, probability, now)

	c.log.Debug("check complete",
		"item_id", item.ID,
		"product_id", item.ProductID,
		"total_stock", total,
		"probability", probability,
	)
	return nil
}

func (c *Checker) recordFailure(
	ctx context.Context,
	item *domain.Item,
	msg string,
	now time.Time,
) error {
	metrics.CheckFailuresTotal.Inc()

	summary := domain.ErrorSummaryPrefix + msg
	snap := &domain.Snapshot{
		ItemID:             item.ID,
		Timestamp:          now,
		ProbabilitySummary: summary,
	}
	upd := &store.CheckUpdate{
		ItemID:      item.ID,
		Probability: summary,
		CheckedAt:   now,
	}
	if err := c.store.RecordCheck(ctx, snap, upd); err != nil {
		return fmt.Errorf("recording failed check: %w", err)
	}

	item.LastStock = nil
	item.LastProbability = &summary
	item.LastCheckedAt = &now

	c.log.Warn("check failed",
		"item_id", item.ID,
		"product_id", item.ProductID,
		"error", msg,
	)
	return errors.New(msg)
}

// evaluateThresholds fires edge-triggered above/below notifications. Both
// directions are evaluated independently and may both fire on the same
// check. Notification delivery failures are logged, never surfaced.
func (c *Checker) evaluateThresholds(
	ctx context.Context,
	item *domain.Item,
	previous *int,
	total int,
	probability string,
	now time.Time,
) {
	if item.NotifyAboveEnabled && item.NotifyAboveThreshold != nil {
		threshold := *item.NotifyAboveThreshold
		wasBelow := previous == nil || *previous < threshold
		if wasBelow && total >= threshold {
			c.fire(ctx, item, store.DirectionAbove, threshold, total, probability, now)
		}
	}

	if item.NotifyBelowEnabled && item.NotifyBelowThreshold != nil {
		threshold := *item.NotifyBelowThreshold
		wasAbove := previous == nil || *previous >= threshold
		if wasAbove && total < threshold {
			c.fire(ctx, item, store.DirectionBelow, threshold, total, probability, now)
		}
	}
}

func (c *Checker) fire(
	ctx context.Context,
	item *domain.Item,
	dir store.Direction,
	threshold, total int,
	probability string,
	now time.Time,
) {
	recipients, err := c.store.ListAlertRecipients(ctx, item.UserID)
	if err != nil {
		c.log.Error("resolving alert recipients failed", "item_id", item.ID, "error", err)
		metrics.NotificationFailuresTotal.Inc()
		return
	}
	if len(recipients) == 0 {
		// No owner email and no admin emails: nothing to send, not an error.
		return
	}

	msg := buildStockAlert(item, dir, threshold, total, probability, now)
	msg.Recipients = recipients

	if err := c.notifier.Send(ctx, msg); err != nil {
		c.log.Error("sending stock alert failed",
			"item_id", item.ID,
			"direction", dir,
			"error", err,
		)
		metrics.NotificationFailuresTotal.Inc()
		return
	}

	metrics.AlertsFiredTotal.Inc()

	if err := c.store.MarkNotified(ctx, item.ID, dir, now); err != nil {
		c.log.Error("stamping notification timestamp failed",
			"item_id", item.ID,
			"direction", dir,
			"error", err,
		)
	}
	switch dir {
	case store.DirectionAbove:
		item.LastNotifiedAboveAt = &now
	case store.DirectionBelow:
		item.LastNotifiedBelowAt = &now
	}
}

func buildStockAlert(
	item *domain.Item,
	dir store.Direction,
	threshold, total int,
	probability string,
	now time.Time,
) notify.Message {
	var subject, verdict string
	switch dir {
	case store.DirectionAbove:
		subject = fmt.Sprintf("Stock above alert: %s (%s)", item.Name, item.ProductID)
		verdict = fmt.Sprintf("rose to or above %d and is now at %d", threshold, total)
	case store.DirectionBelow:
		subject = fmt.Sprintf("Stock below alert: %s (%s)", item.Name, item.ProductID)
		verdict = fmt.Sprintf("fell below %d and is now at %d", threshold, total)
	}

	stores := item.StoreIDs
	if stores == "" {
		stores = "All stores in region"
	}

	body := fmt.Sprintf(
		"Stock for item '%s' (product %s) %s.\n\n"+
			"Region: %s\n"+
			"Stores filter: %s\n"+
			"Probability summary: %s\n"+
			"Time (UTC): %s\n"+
			"Threshold: %d\n",
		item.Name, item.ProductID, verdict,
		item.RegionCode,
		stores,
		probability,
		now.Format("2006-01-02 15:04"),
		threshold,
	)

	return notify.Message{Subject: subject, Body: body}
}

func (c *Checker) markInFlight(itemID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.inflight[itemID]; ok {
		return false
	}
	c.inflight[itemID] = struct{}{}
	return true
}

func (c *Checker) clearInFlight(itemID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, itemID)
}
