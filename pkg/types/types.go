// Package domain defines the core business types for lagerkoll.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ErrorSummaryPrefix marks the probability summary of a failed check.
// A snapshot's total stock is null exactly when its summary carries this prefix.
const ErrorSummaryPrefix = "ERROR: "

// Role represents a user's permission level.
type Role string

// Role constants.
const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is an account that owns tracked items and may receive alerts.
// There is no authentication here; users exist to scope items and to
// resolve notification recipients.
type User struct {
	ID        int64     `json:"id"              db:"id"`
	Username  string    `json:"username"        db:"username"`
	Role      Role      `json:"role"            db:"role"`
	Email     *string   `json:"email,omitempty" db:"email"`
	CreatedAt time.Time `json:"created_at"      db:"created_at"`
}

// IsAdmin reports whether the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Item is a tracked product: an external product id checked in one region,
// optionally narrowed to a set of stores.
type Item struct {
	ID         int64  `json:"id"                  db:"id"`
	Name       string `json:"name"                db:"name"`
	ProductID  string `json:"product_id"          db:"product_id"`
	RegionCode string `json:"region_code"         db:"region_code"`
	StoreIDs   string `json:"store_ids,omitempty" db:"store_ids"` // comma-separated; empty means all stores in region
	Active     bool   `json:"active"              db:"active"`
	UserID     int64  `json:"user_id"             db:"user_id"`

	// Cached last observation. LastCheckedAt is null iff the item has
	// never produced a snapshot.
	LastStock       *int       `json:"last_stock,omitempty"       db:"last_stock"`
	LastProbability *string    `json:"last_probability,omitempty" db:"last_probability"`
	LastCheckedAt   *time.Time `json:"last_checked_at,omitempty"  db:"last_checked_at"`

	// Threshold notification configuration. Above and below are
	// independently configurable.
	NotifyAboveEnabled   bool       `json:"notify_above_enabled"             db:"notify_above_enabled"`
	NotifyAboveThreshold *int       `json:"notify_above_threshold,omitempty" db:"notify_above_threshold"`
	LastNotifiedAboveAt  *time.Time `json:"last_notified_above_at,omitempty" db:"last_notified_above_at"`
	NotifyBelowEnabled   bool       `json:"notify_below_enabled"             db:"notify_below_enabled"`
	NotifyBelowThreshold *int       `json:"notify_below_threshold,omitempty" db:"notify_below_threshold"`
	LastNotifiedBelowAt  *time.Time `json:"last_notified_below_at,omitempty" db:"last_notified_below_at"`

	AddedAt   time.Time `json:"added_at"   db:"added_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// StoreFilter returns the store ids to check, parsed from the stored
// comma-separated list. Nil means "all stores in the region".
func (i *Item) StoreFilter() []string {
	if strings.TrimSpace(i.StoreIDs) == "" {
		return nil
	}
	parts := strings.Split(i.StoreIDs, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			ids = append(ids, s)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// Snapshot is one immutable stock observation for an item. Rows are
// append-only; a null TotalStock records a failed check.
type Snapshot struct {
	ID                 int64           `json:"id"            db:"id"`
	ItemID             int64           `json:"item_id"       db:"item_id"`
	Timestamp          time.Time       `json:"timestamp"     db:"timestamp"`
	TotalStock         *int            `json:"total_stock"   db:"total_stock"`
	ProbabilitySummary string          `json:"probability_summary" db:"probability_summary"`
	Raw                json.RawMessage `json:"raw,omitempty" db:"raw"`
}

// Failed reports whether this snapshot recorded a failed check.
func (s *Snapshot) Failed() bool {
	return strings.HasPrefix(s.ProbabilitySummary, ErrorSummaryPrefix)
}

// BatchReport summarizes one batch pass over active items.
type BatchReport struct {
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

// Checked returns the total number of items attempted.
func (r BatchReport) Checked() int {
	return r.OK + r.Failed
}

// DashboardSummary holds precomputed aggregate counts for the dashboard view.
type DashboardSummary struct {
	ItemsTotal         int        `json:"items_total"          db:"items_total"`
	ItemsActive        int        `json:"items_active"         db:"items_active"`
	ItemsInactive      int        `json:"items_inactive"       db:"items_inactive"`
	ItemsInStock       int        `json:"items_in_stock"       db:"items_in_stock"`
	ItemsOutOfStock    int        `json:"items_out_of_stock"   db:"items_out_of_stock"`
	ItemsUnknownStock  int        `json:"items_unknown_stock"  db:"items_unknown_stock"`
	ItemsNotifyEnabled int        `json:"items_notify_enabled" db:"items_notify_enabled"`
	LastCheckedAt      *time.Time `json:"last_checked_at,omitempty" db:"last_checked_at"`
}
