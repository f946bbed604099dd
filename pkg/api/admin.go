package api

import (
	"context"
	"net/http"
)

// CreateAdmin registers a user with the ADMIN role. Requires an admin session.
func (c *Client) CreateAdmin(ctx context.Context, u NewUser) error {
	return c.doJSON(ctx, request{method: http.MethodPost, path: "/admin/create-admin-user", auth: true, body: u}, nil)
}

// ListUsers returns every account. Requires an admin session.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.doJSON(ctx, request{method: http.MethodGet, path: "/admin/all-users", auth: true}, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []User{}
	}
	return out, nil
}
