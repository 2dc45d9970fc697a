package adapters

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ordermgmt/internal/customers/ports"
	apperrors "ordermgmt/pkg/errors"
)

// orderRow is a read-only projection of the orders table owned by the
// orders context, used for customer statistics.
type orderRow struct {
	Status      string
	GrossAmount decimal.Decimal
	OrderDate   time.Time
}

// GormOrderReader reads order summaries for customer statistics
type GormOrderReader struct {
	db *gorm.DB
}

// NewGormOrderReader creates a new order reader
func NewGormOrderReader(db *gorm.DB) *GormOrderReader {
	return &GormOrderReader{db: db}
}

// ListByCustomer returns summaries of all orders of a customer
func (r *GormOrderReader) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]ports.OrderSummary, error) {
	var rows []orderRow

	result := r.db.WithContext(ctx).
		Table("orders").
		Select("status", "gross_amount", "order_date").
		Where("customer_id = ?", customerID).
		Find(&rows)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to read customer orders", result.Error)
	}

	summaries := make([]ports.OrderSummary, len(rows))
	for i, row := range rows {
		summaries[i] = ports.OrderSummary{
			Status:      row.Status,
			GrossAmount: row.GrossAmount,
			OrderDate:   row.OrderDate,
		}
	}

	return summaries, nil
}
