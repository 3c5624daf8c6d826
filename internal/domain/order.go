package domain

import "time"

type OrderStatus string

const (
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidOrderStatus reports whether s belongs to the closed set of order states.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusReceived, OrderStatusServed, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from s to next.
// Re-applying the current status is a no-op; served and cancelled are terminal.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	if !ValidOrderStatus(s) || !ValidOrderStatus(next) {
		return false
	}
	if s == next {
		return true
	}
	return s == OrderStatusReceived
}

type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodMomoUSSD    PaymentMethod = "momo_ussd"
	PaymentMethodRevolutLink PaymentMethod = "revolut_link"
)

func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodMomoUSSD, PaymentMethodRevolutLink:
		return true
	}
	return false
}

type PaymentStatus string

// Payment verification happens outside the engine; orders start pending.
const PaymentStatusPending PaymentStatus = "pending"

// Order is an accepted submission billed at server-resolved prices.
// TotalAmount is always recomputed from the lines; client prices are never trusted.
type Order struct {
	ID              string
	VenueID         string
	TableIdentifier string
	Status          OrderStatus
	PaymentMethod   PaymentMethod
	PaymentStatus   PaymentStatus
	TotalAmount     float64
	Lines           []OrderLine
	IdempotencyKey  string
	SessionID       string
	CreatedAt       time.Time
}

// OrderLine carries the unit price snapshot taken at submission time.
type OrderLine struct {
	ID         string
	MenuItemID string
	UnitPrice  float64
	Quantity   int
	Notes      string
}

func (l OrderLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
