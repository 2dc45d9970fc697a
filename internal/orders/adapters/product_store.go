package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ordermgmt/internal/orders/domain"
	apperrors "ordermgmt/pkg/errors"
)

// productRow is a read-only projection of the products table owned by
// the products context, used for pricing and stock checks.
type productRow struct {
	ID            uuid.UUID
	ProductNumber string
	Name          string
	BasePrice     decimal.Decimal
	TaxRate       decimal.Decimal
	UnitOfMeasure string
	StockQuantity int
	IsActive      bool
	CreatedAt     time.Time
}

func (productRow) TableName() string {
	return "products"
}

// GormProductStore reads product data for order pricing
type GormProductStore struct {
	db *gorm.DB
}

// NewGormProductStore creates a new product store
func NewGormProductStore(db *gorm.DB) *GormProductStore {
	return &GormProductStore{db: db}
}

// GetByID returns the pricing-relevant slice of a product
func (s *GormProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductInfo, error) {
	var row productRow

	result := s.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("product", id)
		}
		return nil, apperrors.NewInternal("failed to read product", result.Error)
	}

	return &domain.ProductInfo{
		ID:            row.ID,
		ProductNumber: row.ProductNumber,
		Name:          row.Name,
		BasePrice:     row.BasePrice,
		TaxRate:       row.TaxRate,
		UnitOfMeasure: row.UnitOfMeasure,
		StockQuantity: row.StockQuantity,
		IsActive:      row.IsActive,
	}, nil
}
