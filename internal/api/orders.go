package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bookblitz/storefront/types"
)

// PlaceOrder records a new pending order.
func (c *Client) PlaceOrder(ctx context.Context, order types.Order) error {
	return c.do(ctx, http.MethodPost, "/orders", nil, order, nil)
}

// Orders lists the orders placed by the given customer email.
func (c *Client) Orders(ctx context.Context, email string) ([]types.Order, error) {
	var orders []types.Order
	err := c.do(ctx, http.MethodGet, "/orders", url.Values{"email": {email}}, nil, &orders)
	return orders, err
}

// SetOrderStatus updates an order's payment status (customer route).
func (c *Client) SetOrderStatus(ctx context.Context, id, status string) (types.ModifyAck, error) {
	var ack types.ModifyAck
	err := c.do(ctx, http.MethodPatch, "/orders/"+url.PathEscape(id), nil,
		map[string]string{"status": status}, &ack)
	return ack, err
}

// LibrarianOrders lists orders for books owned by the given librarian.
func (c *Client) LibrarianOrders(ctx context.Context, email string) ([]types.Order, error) {
	var orders []types.Order
	err := c.do(ctx, http.MethodGet, "/librarian/orders", url.Values{"email": {email}}, nil, &orders)
	return orders, err
}

// SetFulfillment updates an order's fulfillment status (librarian route).
func (c *Client) SetFulfillment(ctx context.Context, id, fulfillment string) (types.ModifyAck, error) {
	var ack types.ModifyAck
	err := c.do(ctx, http.MethodPatch, "/librarian/orders/"+url.PathEscape(id), nil,
		map[string]string{"fulfillment": fulfillment}, &ack)
	return ack, err
}

// Invoices lists payment records for the given customer email.
func (c *Client) Invoices(ctx context.Context, email string) ([]types.Invoice, error) {
	var invoices []types.Invoice
	err := c.do(ctx, http.MethodGet, "/invoices", url.Values{"email": {email}}, nil, &invoices)
	return invoices, err
}
