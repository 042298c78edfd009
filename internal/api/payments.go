package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/bookblitz/storefront/types"
)

// CheckoutRequest is the payload for creating a checkout session. Field
// names follow the payment collaborator's contract.
type CheckoutRequest struct {
	Cost        float64 `json:"cost"`
	ParcelID    string  `json:"parcelId"`
	SenderEmail string  `json:"senderEmail"`
	ParcelName  string  `json:"parcelName"`
}

// CheckoutSession is the provider-hosted payment page to redirect to.
type CheckoutSession struct {
	URL string `json:"url"`
}

// CreateCheckoutSession asks the backend to open a payment session.
func (c *Client) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, error) {
	var session CheckoutSession
	err := c.do(ctx, http.MethodPost, "/payment-checkout-session", nil, req, &session)
	return session, err
}

// ConfirmPayment reports a returned payment session to the backend,
// which marks the order paid and writes the invoice.
func (c *Client) ConfirmPayment(ctx context.Context, sessionID string) (types.ModifyAck, error) {
	var ack types.ModifyAck
	err := c.do(ctx, http.MethodPatch, "/payment-success",
		url.Values{"session_id": {sessionID}}, nil, &ack)
	return ack, err
}
