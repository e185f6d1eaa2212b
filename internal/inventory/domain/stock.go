package domain

import (
	"errors"
	"time"
)

type Status string

const (
	StatusOK  Status = "OK"
	StatusLow Status = "LOW"
	StatusOut Status = "OUT"
)

// LowWatermark is the remaining count below which stock is flagged LOW.
const LowWatermark = 10

var (
	ErrStockNotFound    = errors.New("stock record missing for product")
	ErrAlreadyStocked   = errors.New("stock entry already exists for product")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

type StockEntry struct {
	ID        string
	ProductID string
	Remaining int
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DeriveStatus classifies a remaining count. It is the only way a Status
// may be computed; stored status values are overwritten with this result
// on every write.
func DeriveStatus(remaining int) Status {
	switch {
	case remaining == 0:
		return StatusOut
	case remaining < LowWatermark:
		return StatusLow
	default:
		return StatusOK
	}
}
