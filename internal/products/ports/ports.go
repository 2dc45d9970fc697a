package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/products/domain"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// Create creates a new product. The product number column carries a
	// unique index; a duplicate number surfaces as a conflict error.
	Create(ctx context.Context, product *domain.Product) error

	// GetByID retrieves a product by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)

	// Update updates an existing product
	Update(ctx context.Context, product *domain.Product) error

	// HighestProductNumber returns the highest assigned product number,
	// or "" when no product exists yet
	HighestProductNumber(ctx context.Context) (string, error)

	// ListLowStock returns active products whose stock has reached the
	// minimum level
	ListLowStock(ctx context.Context) ([]*domain.Product, error)

	// InsertPriceHistory appends an immutable price history entry
	InsertPriceHistory(ctx context.Context, entry *domain.PriceHistoryEntry) error

	// ListPriceHistory returns a product's price history, newest first
	ListPriceHistory(ctx context.Context, productID uuid.UUID) ([]*domain.PriceHistoryEntry, error)

	// Transaction runs fn against a repository bound to a single
	// all-or-nothing transaction
	Transaction(ctx context.Context, fn func(repo ProductRepository) error) error
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// PublishPriceChanged publishes a product price-changed event
	PublishPriceChanged(ctx context.Context, product *domain.Product, oldPrice, newPrice decimal.Decimal) error

	// PublishStockAdjusted publishes a product stock-adjusted event
	PublishStockAdjusted(ctx context.Context, product *domain.Product, oldStock, newStock int, reason string) error
}
