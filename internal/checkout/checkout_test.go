package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookblitz/storefront/internal/api"
	"github.com/bookblitz/storefront/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePaymentAPI struct {
	sessionURL   string
	sessionErr   error
	lastRequest  api.CheckoutRequest
	ack          types.ModifyAck
	ackErr       error
	confirmCalls int
}

func (f *fakePaymentAPI) CreateCheckoutSession(ctx context.Context, req api.CheckoutRequest) (api.CheckoutSession, error) {
	f.lastRequest = req
	return api.CheckoutSession{URL: f.sessionURL}, f.sessionErr
}

func (f *fakePaymentAPI) ConfirmPayment(ctx context.Context, sessionID string) (types.ModifyAck, error) {
	f.confirmCalls++
	return f.ack, f.ackErr
}

func pendingOrder() types.Order {
	return types.Order{
		ID:     "ord-1",
		Email:  "a@b.com",
		Title:  "The Go Programming Language",
		Price:  32.5,
		Status: types.OrderPending,
	}
}

func TestBeginBuildsProviderPayload(t *testing.T) {
	backend := &fakePaymentAPI{sessionURL: "https://pay.example/s/abc"}
	flow := NewFlow(backend, nil)

	url, err := flow.Begin(context.Background(), pendingOrder())
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example/s/abc", url)

	assert.Equal(t, api.CheckoutRequest{
		Cost:        32.5,
		ParcelID:    "ord-1",
		SenderEmail: "a@b.com",
		ParcelName:  "The Go Programming Language",
	}, backend.lastRequest)
}

func TestBeginRejectsNonPayableOrder(t *testing.T) {
	flow := NewFlow(&fakePaymentAPI{sessionURL: "https://pay.example"}, nil)

	paid := pendingOrder()
	paid.Status = types.OrderPaid
	_, err := flow.Begin(context.Background(), paid)
	require.Error(t, err)
}

func TestBeginFailsWithoutRedirectURL(t *testing.T) {
	flow := NewFlow(&fakePaymentAPI{sessionURL: ""}, nil)
	_, err := flow.Begin(context.Background(), pendingOrder())
	assert.ErrorIs(t, err, ErrNoSessionURL)
}

func TestConfirmIsAcknowledgmentGated(t *testing.T) {
	backend := &fakePaymentAPI{ack: types.ModifyAck{ModifiedCount: 0}}
	flow := NewFlow(backend, nil)

	result, err := flow.Confirm(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, Pending, result)

	backend.ack = types.ModifyAck{ModifiedCount: 1}
	result, err = flow.Confirm(context.Background(), "sess-1")
	require.NoError(t, err)
	assert.Equal(t, Confirmed, result)
}

func TestAwaitConfirmationBoundedByContext(t *testing.T) {
	backend := &fakePaymentAPI{ackErr: errors.New("not yet")}
	flow := NewFlow(backend, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := flow.AwaitConfirmation(ctx, "sess-1", 10*time.Millisecond)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Greater(t, backend.confirmCalls, 1, "kept polling until the deadline")
}

func TestAwaitConfirmationReturnsOnSuccess(t *testing.T) {
	backend := &fakePaymentAPI{ack: types.ModifyAck{ModifiedCount: 1}}
	flow := NewFlow(backend, nil)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, flow.AwaitConfirmation(ctx, "sess-1", 10*time.Millisecond))
	assert.Equal(t, 1, backend.confirmCalls)
}
