package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrDuplicateCustomerName = errors.New("customer already exists")
	ErrUnknownRegion         = errors.New("unknown region")
)

type Region string

const (
	RegionNA   Region = "NA"
	RegionEU   Region = "EU"
	RegionAPAC Region = "APAC"
)

func ParseRegion(s string) (Region, error) {
	switch Region(s) {
	case RegionNA, RegionEU, RegionAPAC:
		return Region(s), nil
	}
	return "", ErrUnknownRegion
}

type Customer struct {
	ID        string
	Name      string
	Region    Region
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewCustomer(name string, region Region) Customer {
	now := time.Now().UTC()
	return Customer{
		ID:        uuid.NewString(),
		Name:      name,
		Region:    region,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
