package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rmehta2304/warehouse-order-system/internal/inventory/domain"
)

type Service struct {
	log  *slog.Logger
	repo StockRepository
}

func NewService(log *slog.Logger, repo StockRepository) *Service {
	return &Service{log: log, repo: repo}
}

// Provision creates the stock entry for a product. The status is derived
// from the initial count, never taken from the caller.
func (s *Service) Provision(ctx context.Context, productID string, remaining int) (domain.StockEntry, error) {
	if remaining < 0 {
		return domain.StockEntry{}, domain.ErrNegativeQuantity
	}
	now := time.Now().UTC()
	e := domain.StockEntry{
		ID:        uuid.NewString(),
		ProductID: productID,
		Remaining: remaining,
		Status:    domain.DeriveStatus(remaining),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Provision(ctx, e); err != nil {
		return domain.StockEntry{}, err
	}
	s.log.Info("stock provisioned", "product_id", productID, "remaining", remaining)
	return e, nil
}

func (s *Service) Restock(ctx context.Context, productID string, delta int) (domain.StockEntry, error) {
	if delta < 1 {
		return domain.StockEntry{}, domain.ErrNegativeQuantity
	}
	e, err := s.repo.Restock(ctx, productID, delta)
	if err != nil {
		return domain.StockEntry{}, err
	}
	s.log.Info("stock restocked", "product_id", productID, "delta", delta, "remaining", e.Remaining)
	return e, nil
}

func (s *Service) Get(ctx context.Context, productID string) (domain.StockEntry, error) {
	return s.repo.Get(ctx, productID)
}

func (s *Service) List(ctx context.Context) ([]domain.StockEntry, error) {
	return s.repo.List(ctx)
}
