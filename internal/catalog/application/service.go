package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/rmehta2304/warehouse-order-system/internal/catalog/domain"
)

var (
	ErrMissingProductCode  = errors.New("product code is required")
	ErrMissingProductName  = errors.New("product name is required")
	ErrMissingCustomerName = errors.New("customer name is required")
)

type Service struct {
	log       *slog.Logger
	products  ProductRepository
	customers CustomerRepository
}

func NewService(log *slog.Logger, products ProductRepository, customers CustomerRepository) *Service {
	return &Service{log: log, products: products, customers: customers}
}

func (s *Service) CreateProduct(ctx context.Context, code, name string) (domain.Product, error) {
	if code == "" {
		return domain.Product{}, ErrMissingProductCode
	}
	if name == "" {
		return domain.Product{}, ErrMissingProductName
	}
	if _, err := s.products.FindByCode(ctx, code); err == nil {
		return domain.Product{}, domain.ErrDuplicateProductCode
	} else if !errors.Is(err, domain.ErrProductNotFound) {
		return domain.Product{}, err
	}

	p := domain.NewProduct(code, name)
	if err := s.products.Create(ctx, p); err != nil {
		return domain.Product{}, err
	}
	s.log.Info("product created", "product_id", p.ID, "code", p.Code)
	return p, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (domain.Product, error) {
	return s.products.Get(ctx, id)
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.products.List(ctx)
}

func (s *Service) UpdateProduct(ctx context.Context, id, code, name string) (domain.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if code != "" {
		p.Code = code
	}
	if name != "" {
		p.Name = name
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.products.Update(ctx, p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes a catalog row only. Stock and order ledgers keep
// their history; cleanup there is an administrative concern.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	return s.products.Delete(ctx, id)
}

func (s *Service) CreateCustomer(ctx context.Context, name string, region domain.Region) (domain.Customer, error) {
	if name == "" {
		return domain.Customer{}, ErrMissingCustomerName
	}
	if _, err := s.customers.FindByName(ctx, name); err == nil {
		return domain.Customer{}, domain.ErrDuplicateCustomerName
	} else if !errors.Is(err, domain.ErrCustomerNotFound) {
		return domain.Customer{}, err
	}

	c := domain.NewCustomer(name, region)
	if err := s.customers.Create(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	s.log.Info("customer created", "customer_id", c.ID, "name", c.Name)
	return c, nil
}

func (s *Service) GetCustomer(ctx context.Context, id string) (domain.Customer, error) {
	return s.customers.Get(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.customers.List(ctx)
}

func (s *Service) UpdateCustomer(ctx context.Context, id, name string, region domain.Region) (domain.Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		return domain.Customer{}, err
	}
	if name != "" {
		c.Name = name
	}
	if region != "" {
		c.Region = region
	}
	c.UpdatedAt = time.Now().UTC()
	if err := s.customers.Update(ctx, c); err != nil {
		return domain.Customer{}, err
	}
	return c, nil
}

func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	return s.customers.Delete(ctx, id)
}
