package client

import (
	"context"
	"fmt"

	domain "github.com/jockelind/lagerkoll/pkg/types"
)

// ListUsers returns all users.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/api/v1/users", &users); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser returns a single user by ID.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, fmt.Sprintf("/api/v1/users/%d", id), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser creates a new user.
func (c *Client) CreateUser(ctx context.Context, u *domain.User) (*domain.User, error) {
	var created domain.User
	if err := c.post(ctx, "/api/v1/users", u, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
