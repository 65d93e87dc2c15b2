// Package store defines the datastore abstraction for lagerkoll.
// All business logic depends on the Store interface, never on concrete
// implementations. This enables fake-based testing without a running database.
package store

import (
	"context"
	"errors"
	"time"

	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// ItemQuery defines optional filters for item listing queries.
type ItemQuery struct {
	UserID     *int64
	ActiveOnly bool
	Search     string // matches name or product id, case-insensitive
	Limit      int    // default 50
	Offset     int
	OrderBy    string // "name", "added_at", "last_checked_at", "last_stock"
}

// CheckUpdate carries the cached-observation fields written back to an item
// after a check attempt. A nil Stock records a failed check.
type CheckUpdate struct {
	ItemID      int64
	Stock       *int
	Probability string
	CheckedAt   time.Time
}

// Direction identifies which threshold edge a notification crossed.
type Direction string

// Threshold directions.
const (
	DirectionAbove Direction = "above"
	DirectionBelow Direction = "below"
)

// Store defines all data access operations for lagerkoll.
type Store interface {
	// Items
	CreateItem(ctx context.Context, it *domain.Item) error
	GetItem(ctx context.Context, id int64) (*domain.Item, error)
	GetItemByProductID(ctx context.Context, productID string) (*domain.Item, error)
	ListItems(ctx context.Context, q *ItemQuery) ([]domain.Item, error)
	ListActiveItems(ctx context.Context, ownerID *int64) ([]domain.Item, error)
	UpdateItem(ctx context.Context, it *domain.Item) error
	SetItemActive(ctx context.Context, id int64, active bool) error
	DeleteItem(ctx context.Context, id int64) error

	// Checks. RecordCheck commits the snapshot insert and the item
	// cached-field update as a single transaction.
	RecordCheck(ctx context.Context, snap *domain.Snapshot, upd *CheckUpdate) error
	MarkNotified(ctx context.Context, itemID int64, dir Direction, at time.Time) error
	ListSnapshots(ctx context.Context, itemID int64, limit int) ([]domain.Snapshot, error)
	CountSnapshots(ctx context.Context, itemID int64) (int, error)

	// Users
	CreateUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	// ListAlertRecipients resolves the notification recipient set for an
	// item owner: the owner's email if set, plus every admin with an email.
	ListAlertRecipients(ctx context.Context, ownerID int64) ([]string, error)

	// Dashboard
	GetDashboardSummary(ctx context.Context, ownerID *int64) (*domain.DashboardSummary, error)

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
