package engine

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jockelind/lagerkoll/internal/availability"
	"github.com/jockelind/lagerkoll/internal/notify"
	"github.com/jockelind/lagerkoll/internal/store"
	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// quietLogger returns a logger that discards output for tests.
func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore is an in-memory store.Store for engine tests.
type fakeStore struct {
	mu         sync.Mutex
	items      map[int64]*domain.Item
	snapshots  []domain.Snapshot
	recipients []string

	recordErr     error
	recipientsErr error

	notified []notifiedStamp
}

type notifiedStamp struct {
	ItemID    int64
	Direction store.Direction
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: make(map[int64]*domain.Item)}
}

func (f *fakeStore) addItem(it *domain.Item) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[it.ID] = it
}

func (f *fakeStore) snapshotsFor(itemID int64) []domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Snapshot
	for _, s := range f.snapshots {
		if s.ItemID == itemID {
			out = append(out, s)
		}
	}
	return out
}

func (f *fakeStore) CreateItem(_ context.Context, it *domain.Item) error {
	f.addItem(it)
	return nil
}

func (f *fakeStore) GetItem(_ context.Context, id int64) (*domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return it, nil
}

func (f *fakeStore) GetItemByProductID(_ context.Context, productID string) (*domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ProductID == productID {
			return it, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListItems(_ context.Context, _ *store.ItemQuery) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Item, 0, len(f.items))
	for _, it := range f.items {
		out = append(out, *it)
	}
	return out, nil
}

func (f *fakeStore) ListActiveItems(_ context.Context, ownerID *int64) ([]domain.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Item
	for _, it := range f.items {
		if !it.Active {
			continue
		}
		if ownerID != nil && it.UserID != *ownerID {
			continue
		}
		out = append(out, *it)
	}
	// Deterministic order for batch assertions.
	for i := range out {
		for j := i + 1; j < len(out); j++ {
			if out[j].ID < out[i].ID {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateItem(_ context.Context, it *domain.Item) error {
	f.addItem(it)
	return nil
}

func (f *fakeStore) SetItemActive(_ context.Context, id int64, active bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	it, ok := f.items[id]
	if !ok {
		return store.ErrNotFound
	}
	it.Active = active
	return nil
}

func (f *fakeStore) DeleteItem(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, id)
	return nil
}

func (f *fakeStore) RecordCheck(_ context.Context, snap *domain.Snapshot, upd *store.CheckUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recordErr != nil {
		return f.recordErr
	}
	snap.ID = int64(len(f.snapshots) + 1)
	f.snapshots = append(f.snapshots, *snap)
	if it, ok := f.items[upd.ItemID]; ok {
		it.LastStock = upd.Stock
		p := upd.Probability
		it.LastProbability = &p
		at := upd.CheckedAt
		it.LastCheckedAt = &at
	}
	return nil
}

func (f *fakeStore) MarkNotified(_ context.Context, itemID int64, dir store.Direction, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, notifiedStamp{ItemID: itemID, Direction: dir})
	if it, ok := f.items[itemID]; ok {
		ts := at
		switch dir {
		case store.DirectionAbove:
			it.LastNotifiedAboveAt = &ts
		case store.DirectionBelow:
			it.LastNotifiedBelowAt = &ts
		}
	}
	return nil
}

func (f *fakeStore) ListSnapshots(_ context.Context, itemID int64, _ int) ([]domain.Snapshot, error) {
	return f.snapshotsFor(itemID), nil
}

func (f *fakeStore) CountSnapshots(_ context.Context, itemID int64) (int, error) {
	return len(f.snapshotsFor(itemID)), nil
}

func (f *fakeStore) CreateUser(_ context.Context, _ *domain.User) error { return nil }

func (f *fakeStore) GetUser(_ context.Context, _ int64) (*domain.User, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) ListUsers(_ context.Context) ([]domain.User, error) { return nil, nil }

func (f *fakeStore) ListAlertRecipients(_ context.Context, _ int64) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.recipientsErr != nil {
		return nil, f.recipientsErr
	}
	return f.recipients, nil
}

func (f *fakeStore) GetDashboardSummary(_ context.Context, _ *int64) (*domain.DashboardSummary, error) {
	return &domain.DashboardSummary{}, nil
}

func (f *fakeStore) Migrate(_ context.Context) error { return nil }
func (f *fakeStore) Ping(_ context.Context) error    { return nil }

// fakeSource dispatches Fetch to a configurable function.
type fakeSource struct {
	fetch  func(region, productID string, storeIDs []string) ([]availability.StoreStock, error)
	stores func(region string) ([]availability.StoreInfo, error)
}

func (f *fakeSource) Fetch(
	_ context.Context,
	region, productID string,
	storeIDs []string,
) ([]availability.StoreStock, error) {
	return f.fetch(region, productID, storeIDs)
}

func (f *fakeSource) Stores(_ context.Context, region string) ([]availability.StoreInfo, error) {
	if f.stores == nil {
		return nil, nil
	}
	return f.stores(region)
}

// fakeNotifier records sent messages.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, msg notify.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeNotifier) messages() []notify.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]notify.Message, len(f.sent))
	copy(out, f.sent)
	return out
}
