package adapters

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ordermgmt/internal/orders/ports"
	apperrors "ordermgmt/pkg/errors"
)

// customerRow is a read-only projection of the customers table owned by
// the customers context, used for order precondition checks.
type customerRow struct {
	ID             uuid.UUID
	CustomerNumber string
	CompanyName    string
	LastName       string
	Status         string
	CreditLimit    decimal.Decimal
}

func (customerRow) TableName() string {
	return "customers"
}

// GormCustomerStore reads customer data for order checks
type GormCustomerStore struct {
	db *gorm.DB
}

// NewGormCustomerStore creates a new customer store
func NewGormCustomerStore(db *gorm.DB) *GormCustomerStore {
	return &GormCustomerStore{db: db}
}

// GetByID returns the order-relevant slice of a customer
func (s *GormCustomerStore) GetByID(ctx context.Context, id uuid.UUID) (*ports.CustomerInfo, error) {
	var row customerRow

	result := s.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("customer", id)
		}
		return nil, apperrors.NewInternal("failed to read customer", result.Error)
	}

	name := row.CompanyName
	if name == "" {
		name = row.LastName
	}

	return &ports.CustomerInfo{
		ID:             row.ID,
		CustomerNumber: row.CustomerNumber,
		Name:           name,
		Blocked:        row.Status == "BLOCKED",
		CreditLimit:    row.CreditLimit,
	}, nil
}
