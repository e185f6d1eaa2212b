package application

import (
	"context"

	activity "github.com/rmehta2304/warehouse-order-system/internal/activity/domain"
	inventory "github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
	"github.com/rmehta2304/warehouse-order-system/internal/order/domain"
)

// Ledgers are the transaction-scoped collaborators of a single placement.
// Every implementation must back them with the same transaction so that a
// failure anywhere rolls back everything.
type Ledgers struct {
	Stock    StockLedger
	Orders   OrderLedger
	Activity ActivityLog
	Catalog  CatalogReader
}

// TxRunner runs fn inside one transaction. If fn returns an error the
// transaction is rolled back and the error is returned unchanged;
// otherwise the transaction commits before InTx returns.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, led Ledgers) error) error
}

type StockLedger interface {
	// Get locks and returns the stock row for productID, or
	// inventory.ErrStockNotFound.
	Get(ctx context.Context, productID string) (inventory.StockEntry, error)
	Update(ctx context.Context, productID string, remaining int, status inventory.Status) error
}

type OrderLedger interface {
	NumberExists(ctx context.Context, orderNumber string) (bool, error)
	// Create inserts the order, returning domain.ErrDuplicateOrderNumber if
	// the unique constraint on the order number fires.
	Create(ctx context.Context, o domain.Order) error
}

type ActivityLog interface {
	Append(ctx context.Context, action activity.Action, description string) error
}

type CatalogReader interface {
	// ProductName resolves the display name used in activity descriptions.
	ProductName(ctx context.Context, productID string) (string, error)
}

// OrderReader serves the plain read side, outside any placement transaction.
type OrderReader interface {
	Get(ctx context.Context, id string) (domain.Order, error)
	List(ctx context.Context, limit int) ([]domain.Order, error)
}
