package domain

// PaymentStatus is the backend-owned payment state of an order.
// PENDING is the only non-terminal value.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

// Terminal reports whether no further backend transition will occur.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

type PaymentMethod string

const (
	PaymentMethodMpesa PaymentMethod = "MPESA"
	PaymentMethodCash  PaymentMethod = "CASH"
)

// Order identity (OrderID, CartID) is immutable; PaymentStatus is mutated
// only by the backend and observed via polling.
type Order struct {
	OrderID           int64         `json:"orderId"`
	CartID            int64         `json:"cartId"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	CheckoutRequestID string        `json:"checkoutRequestId,omitempty"`
	Total             float64       `json:"total"`
	PaymentMethod     PaymentMethod `json:"paymentMethod"`
}
