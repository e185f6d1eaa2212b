package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrOrderNumberExhausted means no unique order number could be reserved
	// within the attempt budget. The whole placement rolls back; callers may
	// retry the entire call.
	ErrOrderNumberExhausted = errors.New("failed to generate unique order number")

	// ErrDuplicateOrderNumber is the storage-level uniqueness backstop firing
	// at insert time. Also a retryable conflict.
	ErrDuplicateOrderNumber = errors.New("order number already taken")

	ErrOrderNotFound = errors.New("order not found")

	ErrInvalidQuantity   = errors.New("quantity must be at least 1")
	ErrInvalidTotalPrice = errors.New("total price must not be negative")
	ErrMissingProductID  = errors.New("product id is required")
	ErrMissingCustomerID = errors.New("customer id is required")
)

// InsufficientStockError reports a placement that asked for more than the
// warehouse holds. Remaining is the untouched stock level at the time of
// the check.
type InsufficientStockError struct {
	ProductID string
	Remaining int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock for product %s: remaining %d, requested %d", e.ProductID, e.Remaining, e.Requested)
}
