package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/jockelind/lagerkoll/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// PostgresStore methods require live Postgres and are covered by the
// integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// rowScanner abstracts pgx.Row and pgx.Rows for shared scan helpers.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner, it *domain.Item) error {
	err := row.Scan(
		&it.ID, &it.Name, &it.ProductID, &it.RegionCode, &it.StoreIDs,
		&it.Active, &it.UserID,
		&it.LastStock, &it.LastProbability, &it.LastCheckedAt,
		&it.NotifyAboveEnabled, &it.NotifyAboveThreshold, &it.LastNotifiedAboveAt,
		&it.NotifyBelowEnabled, &it.NotifyBelowThreshold, &it.LastNotifiedBelowAt,
		&it.AddedAt, &it.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// CreateItem inserts a new tracked item and fills in its generated fields.
func (s *PostgresStore) CreateItem(ctx context.Context, it *domain.Item) error {
	args := pgx.NamedArgs{
		"name":                   it.Name,
		"product_id":             it.ProductID,
		"region_code":            it.RegionCode,
		"store_ids":              it.StoreIDs,
		"active":                 it.Active,
		"user_id":                it.UserID,
		"notify_above_enabled":   it.NotifyAboveEnabled,
		"notify_above_threshold": it.NotifyAboveThreshold,
		"notify_below_enabled":   it.NotifyBelowEnabled,
		"notify_below_threshold": it.NotifyBelowThreshold,
	}

	if err := s.pool.QueryRow(ctx, queryCreateItem, args).
		Scan(&it.ID, &it.AddedAt, &it.UpdatedAt); err != nil {
		return fmt.Errorf("creating item: %w", err)
	}
	return nil
}

// GetItem retrieves an item by its id.
func (s *PostgresStore) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	it := &domain.Item{}
	if err := scanItem(s.pool.QueryRow(ctx, queryGetItem, id), it); err != nil {
		return nil, err
	}
	return it, nil
}

// GetItemByProductID retrieves the first item tracking the given product id.
func (s *PostgresStore) GetItemByProductID(
	ctx context.Context,
	productID string,
) (*domain.Item, error) {
	it := &domain.Item{}
	if err := scanItem(s.pool.QueryRow(ctx, queryGetItemByProductID, productID), it); err != nil {
		return nil, err
	}
	return it, nil
}

// ListItems queries items with optional filters.
func (s *PostgresStore) ListItems(ctx context.Context, q *ItemQuery) ([]domain.Item, error) {
	sql, args := q.ToSQL()

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ListActiveItems returns all active items, optionally scoped to one owner.
func (s *PostgresStore) ListActiveItems(
	ctx context.Context,
	ownerID *int64,
) ([]domain.Item, error) {
	rows, err := s.pool.Query(ctx, queryListActiveItems, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying active items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]domain.Item, error) {
	var items []domain.Item
	for rows.Next() {
		var it domain.Item
		if err := scanItem(rows, &it); err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating items: %w", err)
	}
	return items, nil
}

// UpdateItem updates an item's configuration fields.
func (s *PostgresStore) UpdateItem(ctx context.Context, it *domain.Item) error {
	args := pgx.NamedArgs{
		"id":                     it.ID,
		"name":                   it.Name,
		"product_id":             it.ProductID,
		"region_code":            it.RegionCode,
		"store_ids":              it.StoreIDs,
		"active":                 it.Active,
		"notify_above_enabled":   it.NotifyAboveEnabled,
		"notify_above_threshold": it.NotifyAboveThreshold,
		"notify_below_enabled":   it.NotifyBelowEnabled,
		"notify_below_threshold": it.NotifyBelowThreshold,
	}

	tag, err := s.pool.Exec(ctx, queryUpdateItem, args)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetItemActive toggles an item's active flag.
func (s *PostgresStore) SetItemActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.pool.Exec(ctx, querySetItemActive, id, active)
	if err != nil {
		return fmt.Errorf("setting item active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes an item. Its snapshots are deleted by the
// ON DELETE CASCADE constraint.
func (s *PostgresStore) DeleteItem(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, queryDeleteItem, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// RecordCheck inserts the snapshot and updates the item's cached observation
// fields in one transaction. Either both land or neither does.
func (s *PostgresStore) RecordCheck(
	ctx context.Context,
	snap *domain.Snapshot,
	upd *CheckUpdate,
) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning check transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	args := pgx.NamedArgs{
		"item_id":             snap.ItemID,
		"timestamp":           snap.Timestamp,
		"total_stock":         snap.TotalStock,
		"probability_summary": snap.ProbabilitySummary,
		"raw":                 snap.Raw,
	}
	if err := tx.QueryRow(ctx, queryInsertSnapshot, args).Scan(&snap.ID); err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}

	if _, err := tx.Exec(ctx, queryUpdateItemCheck,
		upd.ItemID, upd.Stock, upd.Probability, upd.CheckedAt,
	); err != nil {
		return fmt.Errorf("updating item observation: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing check: %w", err)
	}
	return nil
}

// MarkNotified stamps the last-notified timestamp for the given direction.
func (s *PostgresStore) MarkNotified(
	ctx context.Context,
	itemID int64,
	dir Direction,
	at time.Time,
) error {
	query := queryMarkNotifiedAbove
	if dir == DirectionBelow {
		query = queryMarkNotifiedBelow
	}

	if _, err := s.pool.Exec(ctx, query, itemID, at); err != nil {
		return fmt.Errorf("marking notified %s: %w", dir, err)
	}
	return nil
}

// ListSnapshots returns the newest snapshots for an item, most recent first.
func (s *PostgresStore) ListSnapshots(
	ctx context.Context,
	itemID int64,
	limit int,
) ([]domain.Snapshot, error) {
	if limit <= 0 {
		limit = defaultLimit
	}

	rows, err := s.pool.Query(ctx, queryListSnapshots, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying snapshots: %w", err)
	}
	defer rows.Close()

	var snaps []domain.Snapshot
	for rows.Next() {
		var sn domain.Snapshot
		if err := rows.Scan(
			&sn.ID, &sn.ItemID, &sn.Timestamp,
			&sn.TotalStock, &sn.ProbabilitySummary, &sn.Raw,
		); err != nil {
			return nil, fmt.Errorf("scanning snapshot: %w", err)
		}
		snaps = append(snaps, sn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating snapshots: %w", err)
	}

	return snaps, nil
}

// CountSnapshots returns the number of snapshots recorded for an item.
func (s *PostgresStore) CountSnapshots(ctx context.Context, itemID int64) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, queryCountSnapshots, itemID).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting snapshots: %w", err)
	}
	return n, nil
}

// CreateUser inserts a new user.
func (s *PostgresStore) CreateUser(ctx context.Context, u *domain.User) error {
	args := pgx.NamedArgs{
		"username": u.Username,
		"role":     string(u.Role),
		"email":    u.Email,
	}

	if err := s.pool.QueryRow(ctx, queryCreateUser, args).
		Scan(&u.ID, &u.CreatedAt); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by id.
func (s *PostgresStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	u := &domain.User{}
	err := s.pool.QueryRow(ctx, queryGetUser, id).
		Scan(&u.ID, &u.Username, &u.Role, &u.Email, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

// ListUsers returns all users ordered by username.
func (s *PostgresStore) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.pool.Query(ctx, queryListUsers)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role, &u.Email, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

// ListAlertRecipients resolves the distinct notification addresses for an
// item owner: the owner's email plus all admin emails.
func (s *PostgresStore) ListAlertRecipients(
	ctx context.Context,
	ownerID int64,
) ([]string, error) {
	rows, err := s.pool.Query(ctx, queryListAlertRecipients, ownerID)
	if err != nil {
		return nil, fmt.Errorf("querying alert recipients: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scanning recipient: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recipients: %w", err)
	}

	return emails, nil
}

// GetDashboardSummary computes aggregate item counts, optionally scoped to
// one owner.
func (s *PostgresStore) GetDashboardSummary(
	ctx context.Context,
	ownerID *int64,
) (*domain.DashboardSummary, error) {
	sum := &domain.DashboardSummary{}
	err := s.pool.QueryRow(ctx, queryDashboardSummary, ownerID).Scan(
		&sum.ItemsTotal, &sum.ItemsActive, &sum.ItemsInactive,
		&sum.ItemsInStock, &sum.ItemsOutOfStock, &sum.ItemsUnknownStock,
		&sum.ItemsNotifyEnabled, &sum.LastCheckedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("querying dashboard summary: %w", err)
	}
	return sum, nil
}
