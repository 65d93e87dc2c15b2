package client

import (
	"context"
	"fmt"
	"strconv"
	"time"

	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// CheckResult is the outcome of a single-item check.
type CheckResult struct {
	OK          bool   `json:"ok"`
	Error       string `json:"error,omitempty"`
	TotalStock  *int   `json:"total_stock,omitempty"`
	Probability string `json:"probability,omitempty"`
}

// CheckItem triggers a check for one item and returns the outcome.
func (c *Client) CheckItem(ctx context.Context, id int64) (*CheckResult, error) {
	var res CheckResult
	if err := c.post(ctx, fmt.Sprintf("/api/v1/items/%d/check", id), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// RunBatch triggers a batch over all active items, optionally scoped to one
// owner, and returns the ok/failed counts.
func (c *Client) RunBatch(ctx context.Context, userID *int64) (*domain.BatchReport, error) {
	path := "/api/v1/check"
	if userID != nil {
		path += "?user_id=" + strconv.FormatInt(*userID, 10)
	}

	var report domain.BatchReport
	if err := c.post(ctx, path, nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// BatchStatus reports whether a batch is running for the scope.
type BatchStatus struct {
	Running bool       `json:"running"`
	Since   *time.Time `json:"since,omitempty"`
}

// GetBatchStatus polls the batch status for a scope.
func (c *Client) GetBatchStatus(ctx context.Context, userID *int64) (*BatchStatus, error) {
	path := "/api/v1/check/status"
	if userID != nil {
		path += "?user_id=" + strconv.FormatInt(*userID, 10)
	}

	var st BatchStatus
	if err := c.get(ctx, path, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
