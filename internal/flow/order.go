package flow

import (
	"context"
	"errors"
	"time"

	"github.com/bookblitz/storefront/internal/identity"
	"github.com/bookblitz/storefront/types"
)

// ErrSignInRequired means an order was attempted without a session.
var ErrSignInRequired = errors.New("sign in to purchase this book")

// PlaceOrder records a single-copy pending order for the signed-in
// identity, mirroring the detail-page purchase payload.
func (f *Flow) PlaceOrder(ctx context.Context, book types.Book, who *identity.Identity) (types.Order, error) {
	if who == nil {
		return types.Order{}, ErrSignInRequired
	}

	name := who.DisplayName
	if name == "" {
		name = "Anonymous"
	}

	order := types.Order{
		UID:         who.UID,
		Email:       who.Email,
		Name:        name,
		BookID:      book.ID,
		ISBN:        book.ISBN,
		Title:       book.Title,
		Price:       book.Price,
		Quantity:    1,
		TotalAmount: book.Price,
		Status:      types.OrderPending,
		Fulfillment: types.FulfillmentPending,
		OrderDate:   time.Now().UTC().Format(time.RFC3339),
	}
	if err := f.backend.PlaceOrder(ctx, order); err != nil {
		return types.Order{}, err
	}
	return order, nil
}
