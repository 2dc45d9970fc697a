package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/customers/domain"
)

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	// Create creates a new customer. The customer number column carries a
	// unique index; a duplicate number surfaces as a conflict error.
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByID retrieves a customer by ID
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)

	// Update updates an existing customer
	Update(ctx context.Context, customer *domain.Customer) error

	// HighestCustomerNumber returns the highest assigned customer number,
	// or "" when no customer exists yet
	HighestCustomerNumber(ctx context.Context) (string, error)

	// CreateAddress creates a new address for a customer
	CreateAddress(ctx context.Context, address *domain.Address) error

	// ListAddresses returns all addresses of a customer
	ListAddresses(ctx context.Context, customerID uuid.UUID) ([]*domain.Address, error)

	// ClearOtherDefaults unsets isDefault on every address of the customer
	// with the same address type, except the given address
	ClearOtherDefaults(ctx context.Context, customerID, addressID uuid.UUID, addressType domain.AddressType) error

	// Transaction runs fn against a repository bound to a single
	// all-or-nothing transaction
	Transaction(ctx context.Context, fn func(repo CustomerRepository) error) error
}

// OrderSummary is the read model of an order used for customer statistics
type OrderSummary struct {
	Status      string
	GrossAmount decimal.Decimal
	OrderDate   time.Time
}

// OrderReader reads order data owned by the orders context
type OrderReader interface {
	// ListByCustomer returns summaries of all orders of a customer
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]OrderSummary, error)
}

// EventPublisher defines the interface for publishing domain events
type EventPublisher interface {
	// PublishCustomerCreated publishes a customer created event
	PublishCustomerCreated(ctx context.Context, customer *domain.Customer) error

	// PublishCustomerBlocked publishes a customer blocked event
	PublishCustomerBlocked(ctx context.Context, customer *domain.Customer) error
}
