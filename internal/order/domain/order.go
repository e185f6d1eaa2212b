package domain

import (
	"time"

	"github.com/google/uuid"
)

// Order is the immutable record of a successful placement. TotalCents is
// supplied by the caller; the engine does not price orders.
type Order struct {
	ID          string
	OrderNumber string
	ProductID   string
	CustomerID  string
	Quantity    int
	TotalCents  int64
	CreatedAt   time.Time
}

func NewOrder(orderNumber, productID, customerID string, quantity int, totalCents int64) Order {
	return Order{
		ID:          uuid.NewString(),
		OrderNumber: orderNumber,
		ProductID:   productID,
		CustomerID:  customerID,
		Quantity:    quantity,
		TotalCents:  totalCents,
		CreatedAt:   time.Now().UTC(),
	}
}
