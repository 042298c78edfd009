package types

// Payment states of an order.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderCancelled = "cancelled"
)

// Fulfillment states of an order.
const (
	FulfillmentPending   = "pending"
	FulfillmentShipped   = "shipped"
	FulfillmentDelivered = "delivered"
	FulfillmentCancelled = "cancelled"
)

// Order links a purchased book to the identity that bought it. The
// customer mutates payment status (cancel, pay); the owning librarian
// mutates fulfillment status.
type Order struct {
	ID          string  `json:"_id"`
	UID         string  `json:"uid"`
	Email       string  `json:"email"`
	Name        string  `json:"name"`
	BookID      string  `json:"bookId"`
	ISBN        string  `json:"isbn"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	TotalAmount float64 `json:"totalAmount"`

	// Status is the payment state: pending, paid or cancelled.
	Status string `json:"status"`

	// Fulfillment is the shipping state: pending, shipped, delivered
	// or cancelled.
	Fulfillment string `json:"fulfillment"`

	// OrderDate is the creation timestamp in RFC 3339 form.
	OrderDate string `json:"orderDate"`
}

// Payable reports whether the customer may still pay or cancel.
func (o Order) Payable() bool {
	return o.Status == OrderPending
}

// Invoice records a completed payment transaction. Invoices are created
// by the payment collaborator and are read-only to clients.
type Invoice struct {
	PaymentID string  `json:"paymentID"`
	Book      string  `json:"book"`
	Email     string  `json:"email"`
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Date      string  `json:"date"`
}

// ModifyAck is the backend's acknowledgment for update operations.
// Local state must only change when ModifiedCount is positive.
type ModifyAck struct {
	ModifiedCount int `json:"modifiedCount"`
}

// DeleteAck is the backend's acknowledgment for delete operations.
type DeleteAck struct {
	DeletedCount int `json:"deletedCount"`
}
