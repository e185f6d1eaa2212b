package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrDuplicateProductCode = errors.New("product code already exists")
)

type Product struct {
	ID        string
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewProduct(code, name string) Product {
	now := time.Now().UTC()
	return Product{
		ID:        uuid.NewString(),
		Code:      code,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
