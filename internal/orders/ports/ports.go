package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/orders/domain"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// Create creates a new order. The order number column carries a unique
	// index; a duplicate number surfaces as a conflict error.
	Create(ctx context.Context, order *domain.Order) error

	// GetByID retrieves an order by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)

	// Update updates an existing order
	Update(ctx context.Context, order *domain.Order) error

	// UpdateTotals persists derived totals onto an order
	UpdateTotals(ctx context.Context, orderID uuid.UUID, totals domain.Totals) error

	// HighestOrderNumber returns the highest assigned order number with the
	// given prefix, or "" when none exists yet
	HighestOrderNumber(ctx context.Context, prefix string) (string, error)

	// ListByCustomer returns all orders of a customer
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error)

	// ListAll returns all orders
	ListAll(ctx context.Context) ([]*domain.Order, error)

	// CreateItem creates a new order item
	CreateItem(ctx context.Context, item *domain.OrderItem) error

	// GetItem retrieves an order item by ID
	GetItem(ctx context.Context, id uuid.UUID) (*domain.OrderItem, error)

	// ListItems returns all items of an order, ordered by item number
	ListItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)

	// UpdateItem updates an existing order item
	UpdateItem(ctx context.Context, item *domain.OrderItem) error

	// DeleteItem deletes an order item
	DeleteItem(ctx context.Context, id uuid.UUID) error

	// HighestItemNumber returns the highest item number within an order,
	// or 0 when the order has no items yet
	HighestItemNumber(ctx context.Context, orderID uuid.UUID) (int, error)

	// DecrementProductStock atomically subtracts quantity from a product's
	// stock. A decrement that would drive the stock negative is rejected
	// with a validation error naming the product.
	DecrementProductStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// Transaction runs fn against a repository bound to a single
	// all-or-nothing transaction
	Transaction(ctx context.Context, fn func(repo OrderRepository) error) error
}

// ProductStore reads product data owned by the products context
type ProductStore interface {
	// GetByID returns the pricing-relevant slice of a product
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductInfo, error)
}

// CustomerInfo is the read model of a customer used for order checks
type CustomerInfo struct {
	ID             uuid.UUID
	CustomerNumber string
	Name           string
	Blocked        bool
	CreditLimit    decimal.Decimal
}

// CustomerStore reads customer data owned by the customers context
type CustomerStore interface {
	// GetByID returns the order-relevant slice of a customer
	GetByID(ctx context.Context, id uuid.UUID) (*CustomerInfo, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// PublishOrderCreated publishes an order created event
	PublishOrderCreated(ctx context.Context, order *domain.Order) error

	// PublishOrderConfirmed publishes an order confirmed event
	PublishOrderConfirmed(ctx context.Context, order *domain.Order) error

	// PublishOrderCancelled publishes an order cancelled event
	PublishOrderCancelled(ctx context.Context, order *domain.Order) error

	// PublishOrderDelivered publishes an order delivered event
	PublishOrderDelivered(ctx context.Context, order *domain.Order) error
}
