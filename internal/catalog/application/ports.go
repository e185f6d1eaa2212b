package application

import (
	"context"

	"github.com/rmehta2304/warehouse-order-system/internal/catalog/domain"
)

type ProductRepository interface {
	Create(ctx context.Context, p domain.Product) error
	Get(ctx context.Context, id string) (domain.Product, error)
	FindByCode(ctx context.Context, code string) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Update(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, id string) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer) error
	Get(ctx context.Context, id string) (domain.Customer, error)
	FindByName(ctx context.Context, name string) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) error
	Delete(ctx context.Context, id string) error
}
