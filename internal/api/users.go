package api

import (
	"context"
	"net/http"

	"github.com/taskdeck/taskdeck/internal/models"
)

// UserPayload is the body of a user create or update request. Password is
// omitted when blank so an update keeps the current password.
type UserPayload struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password,omitempty"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	ManagerID string `json:"managerId,omitempty"`
}

// ListUsers returns all user accounts. Admin only on the server side.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// ListManagedUsers returns the users managed by the current user.
func (c *Client) ListManagedUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/managed", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// CreateUser creates a new user account.
func (c *Client) CreateUser(ctx context.Context, payload UserPayload) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/users", payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser replaces the user identified by id.
func (c *Client) UpdateUser(ctx context.Context, id string, payload UserPayload) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/api/users/"+id, payload, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser deletes the user identified by id.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+id, nil, nil)
}
