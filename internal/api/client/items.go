package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// itemRequest contains only the fields the API accepts for create/update.
type itemRequest struct {
	Name                 string `json:"name,omitempty"`
	ProductID            string `json:"product_id,omitempty"`
	RegionCode           string `json:"region_code,omitempty"`
	StoreIDs             string `json:"store_ids,omitempty"`
	Active               bool   `json:"active"`
	UserID               int64  `json:"user_id,omitempty"`
	NotifyAboveEnabled   bool   `json:"notify_above_enabled"`
	NotifyAboveThreshold *int   `json:"notify_above_threshold,omitempty"`
	NotifyBelowEnabled   bool   `json:"notify_below_enabled"`
	NotifyBelowThreshold *int   `json:"notify_below_threshold,omitempty"`
}

func toItemRequest(it *domain.Item) itemRequest {
	return itemRequest{
		Name:                 it.Name,
		ProductID:            it.ProductID,
		RegionCode:           it.RegionCode,
		StoreIDs:             it.StoreIDs,
		Active:               it.Active,
		UserID:               it.UserID,
		NotifyAboveEnabled:   it.NotifyAboveEnabled,
		NotifyAboveThreshold: it.NotifyAboveThreshold,
		NotifyBelowEnabled:   it.NotifyBelowEnabled,
		NotifyBelowThreshold: it.NotifyBelowThreshold,
	}
}

// ItemFilter narrows ListItems results.
type ItemFilter struct {
	UserID     *int64
	ActiveOnly bool
	Search     string
}

// ListItems returns tracked items, optionally filtered.
func (c *Client) ListItems(ctx context.Context, f *ItemFilter) ([]domain.Item, error) {
	q := url.Values{}
	if f != nil {
		if f.UserID != nil {
			q.Set("user_id", strconv.FormatInt(*f.UserID, 10))
		}
		if f.ActiveOnly {
			q.Set("active", "true")
		}
		if f.Search != "" {
			q.Set("search", f.Search)
		}
	}

	path := "/api/v1/items"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var items []domain.Item
	if err := c.get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// GetItem returns a single tracked item by ID.
func (c *Client) GetItem(ctx context.Context, id int64) (*domain.Item, error) {
	var it domain.Item
	if err := c.get(ctx, fmt.Sprintf("/api/v1/items/%d", id), &it); err != nil {
		return nil, err
	}
	return &it, nil
}

// CreateItem creates a new tracked item.
func (c *Client) CreateItem(ctx context.Context, it *domain.Item) (*domain.Item, error) {
	var created domain.Item
	if err := c.post(ctx, "/api/v1/items", toItemRequest(it), &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateItem updates an existing tracked item.
func (c *Client) UpdateItem(ctx context.Context, it *domain.Item) (*domain.Item, error) {
	var updated domain.Item
	if err := c.put(ctx, fmt.Sprintf("/api/v1/items/%d", it.ID), toItemRequest(it), &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetItemActive activates or deactivates a tracked item.
func (c *Client) SetItemActive(ctx context.Context, id int64, active bool) error {
	body := map[string]bool{"active": active}
	return c.put(ctx, fmt.Sprintf("/api/v1/items/%d/active", id), body, nil)
}

// DeleteItem deletes a tracked item and its snapshot history.
func (c *Client) DeleteItem(ctx context.Context, id int64) error {
	return c.del(ctx, fmt.Sprintf("/api/v1/items/%d", id), nil)
}

// History holds one page of an item's snapshot history.
type History struct {
	Snapshots []domain.Snapshot `json:"snapshots"`
	Total     int               `json:"total"`
}

// GetHistory returns the newest snapshots for an item.
func (c *Client) GetHistory(ctx context.Context, id int64, limit int) (*History, error) {
	path := fmt.Sprintf("/api/v1/items/%d/history", id)
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var h History
	if err := c.get(ctx, path, &h); err != nil {
		return nil, err
	}
	return &h, nil
}
