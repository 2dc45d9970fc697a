package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ordermgmt/internal/customers/domain"
	"ordermgmt/internal/customers/ports"
	apperrors "ordermgmt/pkg/errors"
	"ordermgmt/pkg/sequence"
)

// CustomerModel is the GORM model for customers (persistence layer)
type CustomerModel struct {
	ID             uuid.UUID             `gorm:"type:uuid;primaryKey"`
	CustomerNumber string                `gorm:"size:20;uniqueIndex;not null"`
	CompanyName    string                `gorm:"size:255"`
	FirstName      string                `gorm:"size:100"`
	LastName       string                `gorm:"size:100"`
	Email          string                `gorm:"size:255"`
	Status         domain.CustomerStatus `gorm:"size:20;not null;default:'ACTIVE'"`
	CreditLimit    decimal.Decimal       `gorm:"type:decimal(15,2);not null;default:0"`
	Currency       string                `gorm:"size:3;not null;default:'EUR'"`
	CreatedAt      time.Time             `gorm:"autoCreateTime"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// AddressModel is the GORM model for customer addresses
type AddressModel struct {
	ID          uuid.UUID          `gorm:"type:uuid;primaryKey"`
	CustomerID  uuid.UUID          `gorm:"type:uuid;index;not null"`
	AddressType domain.AddressType `gorm:"size:20;not null"`
	Street      string             `gorm:"size:255"`
	City        string             `gorm:"size:100"`
	PostalCode  string             `gorm:"size:20"`
	Country     string             `gorm:"size:2"`
	IsDefault   bool               `gorm:"not null;default:false"`
	CreatedAt   time.Time          `gorm:"autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (AddressModel) TableName() string {
	return "customer_addresses"
}

// PostgresCustomerRepository implements CustomerRepository using PostgreSQL
type PostgresCustomerRepository struct {
	db *gorm.DB
}

// NewPostgresCustomerRepository creates a new PostgreSQL customer repository
func NewPostgresCustomerRepository(db *gorm.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

// Migrate runs auto-migration for the customer models
func (r *PostgresCustomerRepository) Migrate() error {
	return r.db.AutoMigrate(&CustomerModel{}, &AddressModel{})
}

// Create creates a new customer
func (r *PostgresCustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	model := toCustomerModel(customer)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict("customer number " + customer.CustomerNumber + " already exists")
		}
		return apperrors.NewInternal("failed to create customer", result.Error)
	}

	customer.CreatedAt = model.CreatedAt
	customer.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByID retrieves a customer by ID
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	var model CustomerModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewCustomerNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get customer", result.Error)
	}

	return toCustomerDomain(&model), nil
}

// Update updates an existing customer
func (r *PostgresCustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	model := toCustomerModel(customer)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update customer", result.Error)
	}

	customer.UpdatedAt = model.UpdatedAt
	return nil
}

// HighestCustomerNumber returns the highest assigned customer number
func (r *PostgresCustomerRepository) HighestCustomerNumber(ctx context.Context) (string, error) {
	var model CustomerModel

	result := r.db.WithContext(ctx).
		Where("customer_number LIKE ?", sequence.CustomerPrefix+"%").
		Order("customer_number DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.NewInternal("failed to query customer numbers", result.Error)
	}

	return model.CustomerNumber, nil
}

// CreateAddress creates a new address for a customer
func (r *PostgresCustomerRepository) CreateAddress(ctx context.Context, address *domain.Address) error {
	model := toAddressModel(address)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to create address", result.Error)
	}

	address.CreatedAt = model.CreatedAt
	address.UpdatedAt = model.UpdatedAt
	return nil
}

// ListAddresses returns all addresses of a customer
func (r *PostgresCustomerRepository) ListAddresses(ctx context.Context, customerID uuid.UUID) ([]*domain.Address, error) {
	var models []AddressModel

	result := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list addresses", result.Error)
	}

	addresses := make([]*domain.Address, len(models))
	for i, model := range models {
		addresses[i] = toAddressDomain(&model)
	}

	return addresses, nil
}

// ClearOtherDefaults unsets isDefault on sibling addresses of the same
// customer and address type
func (r *PostgresCustomerRepository) ClearOtherDefaults(ctx context.Context, customerID, addressID uuid.UUID, addressType domain.AddressType) error {
	result := r.db.WithContext(ctx).
		Model(&AddressModel{}).
		Where("customer_id = ? AND address_type = ? AND id <> ?", customerID, addressType, addressID).
		Update("is_default", false)
	if result.Error != nil {
		return apperrors.NewInternal("failed to clear default addresses", result.Error)
	}
	return nil
}

// Transaction runs fn against a repository bound to a single transaction
func (r *PostgresCustomerRepository) Transaction(ctx context.Context, fn func(repo ports.CustomerRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresCustomerRepository{db: tx})
	})
}

// toCustomerModel converts a domain entity to a GORM model
func toCustomerModel(customer *domain.Customer) *CustomerModel {
	return &CustomerModel{
		ID:             customer.ID,
		CustomerNumber: customer.CustomerNumber,
		CompanyName:    customer.CompanyName,
		FirstName:      customer.FirstName,
		LastName:       customer.LastName,
		Email:          customer.Email,
		Status:         customer.Status,
		CreditLimit:    customer.CreditLimit,
		Currency:       customer.Currency,
		CreatedAt:      customer.CreatedAt,
		UpdatedAt:      customer.UpdatedAt,
	}
}

// toCustomerDomain converts a GORM model to a domain entity
func toCustomerDomain(model *CustomerModel) *domain.Customer {
	return &domain.Customer{
		ID:             model.ID,
		CustomerNumber: model.CustomerNumber,
		CompanyName:    model.CompanyName,
		FirstName:      model.FirstName,
		LastName:       model.LastName,
		Email:          model.Email,
		Status:         model.Status,
		CreditLimit:    model.CreditLimit,
		Currency:       model.Currency,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}

func toAddressModel(address *domain.Address) *AddressModel {
	return &AddressModel{
		ID:          address.ID,
		CustomerID:  address.CustomerID,
		AddressType: address.AddressType,
		Street:      address.Street,
		City:        address.City,
		PostalCode:  address.PostalCode,
		Country:     address.Country,
		IsDefault:   address.IsDefault,
		CreatedAt:   address.CreatedAt,
		UpdatedAt:   address.UpdatedAt,
	}
}

func toAddressDomain(model *AddressModel) *domain.Address {
	return &domain.Address{
		ID:          model.ID,
		CustomerID:  model.CustomerID,
		AddressType: model.AddressType,
		Street:      model.Street,
		City:        model.City,
		PostalCode:  model.PostalCode,
		Country:     model.Country,
		IsDefault:   model.IsDefault,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}
