package client

import (
	"context"
	"strconv"

	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// GetDashboardSummary returns aggregate item counts, optionally scoped to
// one owner.
func (c *Client) GetDashboardSummary(ctx context.Context, userID *int64) (*domain.DashboardSummary, error) {
	path := "/api/v1/dashboard"
	if userID != nil {
		path += "?user_id=" + strconv.FormatInt(*userID, 10)
	}

	var s domain.DashboardSummary
	if err := c.get(ctx, path, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
