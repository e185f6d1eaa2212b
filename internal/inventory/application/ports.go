package application

import (
	"context"

	"github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
)

type StockRepository interface {
	// Provision creates the one stock row a product is allowed, or returns
	// domain.ErrAlreadyStocked.
	Provision(ctx context.Context, e domain.StockEntry) error
	// Restock adds delta to the remaining count and re-derives the status,
	// in one transaction together with its activity entry.
	Restock(ctx context.Context, productID string, delta int) (domain.StockEntry, error)
	Get(ctx context.Context, productID string) (domain.StockEntry, error)
	List(ctx context.Context) ([]domain.StockEntry, error)
}
