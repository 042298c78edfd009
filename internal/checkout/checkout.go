// Package checkout drives the redirect-based payment flow: open a
// provider session, hand the customer its URL, and confirm the session
// when they come back.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bookblitz/storefront/internal/api"
	"github.com/bookblitz/storefront/types"
)

// ErrNoSessionURL means the backend accepted the request but returned
// no redirect URL, so checkout cannot proceed.
var ErrNoSessionURL = errors.New("checkout session has no redirect URL")

// Result of confirming a returned payment session.
type Result int

const (
	// Pending means the backend has not (yet) recorded the payment.
	// Callers decide whether to poll again or give up.
	Pending Result = iota

	// Confirmed means the order was marked paid and invoiced.
	Confirmed
)

// PaymentAPI is the slice of the backend client the flow needs.
type PaymentAPI interface {
	CreateCheckoutSession(ctx context.Context, req api.CheckoutRequest) (api.CheckoutSession, error)
	ConfirmPayment(ctx context.Context, sessionID string) (types.ModifyAck, error)
}

// Flow orchestrates checkout against a secured backend client.
type Flow struct {
	backend PaymentAPI
	log     *slog.Logger
}

// NewFlow constructs a checkout flow.
func NewFlow(backend PaymentAPI, log *slog.Logger) *Flow {
	if log == nil {
		log = slog.Default()
	}
	return &Flow{backend: backend, log: log.With("component", "checkout")}
}

// Begin opens a payment session for the order and returns the URL the
// customer must be sent to. No polling happens client-side.
func (f *Flow) Begin(ctx context.Context, order types.Order) (string, error) {
	if !order.Payable() {
		return "", fmt.Errorf("order %s is %s, not payable", order.ID, order.Status)
	}

	session, err := f.backend.CreateCheckoutSession(ctx, api.CheckoutRequest{
		Cost:        order.Price,
		ParcelID:    order.ID,
		SenderEmail: order.Email,
		ParcelName:  order.Title,
	})
	if err != nil {
		return "", err
	}
	if session.URL == "" {
		return "", ErrNoSessionURL
	}
	return session.URL, nil
}

// Confirm reports one returned session to the backend. Confirmed only
// when the backend acknowledges a modification.
func (f *Flow) Confirm(ctx context.Context, sessionID string) (Result, error) {
	ack, err := f.backend.ConfirmPayment(ctx, sessionID)
	if err != nil {
		return Pending, err
	}
	if ack.ModifiedCount > 0 {
		return Confirmed, nil
	}
	return Pending, nil
}

// AwaitConfirmation polls Confirm until the payment is recorded or ctx
// expires. Callers bound the wait through ctx.
func (f *Flow) AwaitConfirmation(ctx context.Context, sessionID string, interval time.Duration) error {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		result, err := f.Confirm(ctx, sessionID)
		if err != nil {
			f.log.Warn("payment confirmation attempt failed", "session", sessionID, "error", err)
		} else if result == Confirmed {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("payment for session %s not confirmed: %w", sessionID, ctx.Err())
		case <-ticker.C:
		}
	}
}
