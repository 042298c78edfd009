package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bookblitz/storefront/types"
)

// Users lists every backend account. Admin only.
func (c *Client) Users(ctx context.Context) ([]types.UserRecord, error) {
	var users []types.UserRecord
	err := c.do(ctx, http.MethodGet, "/users", nil, nil, &users)
	return users, err
}

// SetUserRole changes an account's authorization tier. Admin only.
func (c *Client) SetUserRole(ctx context.Context, id, role string) (types.ModifyAck, error) {
	var ack types.ModifyAck
	err := c.do(ctx, http.MethodPatch, "/users/"+url.PathEscape(id), nil,
		map[string]string{"role": role}, &ack)
	return ack, err
}

// UserRole looks up the role associated with an account email.
func (c *Client) UserRole(ctx context.Context, email string) (string, error) {
	var resp types.RoleResponse
	err := c.do(ctx, http.MethodGet, "/users/"+url.PathEscape(email)+"/role", nil, nil, &resp)
	if err != nil {
		return "", err
	}
	if resp.Role == "" {
		return types.RoleUser, nil
	}
	return resp.Role, nil
}

// AddUser mirrors a freshly registered identity into the backend with
// the default role.
func (c *Client) AddUser(ctx context.Context, user types.UserRecord) error {
	return c.do(ctx, http.MethodPost, "/add-user", nil, user, nil)
}
