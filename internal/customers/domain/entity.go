package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerStatus represents the lifecycle status of a customer
type CustomerStatus string

const (
	CustomerStatusActive  CustomerStatus = "ACTIVE"
	CustomerStatusBlocked CustomerStatus = "BLOCKED"
)

// DefaultCurrency is used when a customer is created without one
// (single-currency setup).
const DefaultCurrency = "EUR"

// EmailRegex is the pattern for validating emails
var EmailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Customer represents the customer domain entity
type Customer struct {
	ID             uuid.UUID
	CustomerNumber string
	CompanyName    string
	FirstName      string
	LastName       string
	Email          string
	Status         CustomerStatus
	CreditLimit    decimal.Decimal
	Currency       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate validates the customer entity
func (c *Customer) Validate() error {
	if c.Email != "" && !EmailRegex.MatchString(c.Email) {
		return NewInvalidEmail(c.Email)
	}
	if c.CreditLimit.IsNegative() {
		return ErrNegativeCreditLimit
	}
	return nil
}

// NewCustomer creates a new customer with validation. Status defaults to
// ACTIVE, currency to the single configured currency.
func NewCustomer(companyName, firstName, lastName, email string, creditLimit decimal.Decimal) (*Customer, error) {
	customer := &Customer{
		ID:          uuid.New(),
		CompanyName: companyName,
		FirstName:   firstName,
		LastName:    lastName,
		Email:       email,
		Status:      CustomerStatusActive,
		CreditLimit: creditLimit,
		Currency:    DefaultCurrency,
	}

	if err := customer.Validate(); err != nil {
		return nil, err
	}

	return customer, nil
}

// DisplayName returns the name used in user-facing messages
func (c *Customer) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.LastName
}

// IsBlocked reports whether the customer is blocked
func (c *Customer) IsBlocked() bool {
	return c.Status == CustomerStatusBlocked
}

// Block marks the customer as blocked
func (c *Customer) Block() {
	c.Status = CustomerStatusBlocked
}

// Unblock marks the customer as active again
func (c *Customer) Unblock() {
	c.Status = CustomerStatusActive
}

// AddressType classifies a customer address
type AddressType string

const (
	AddressTypeBilling  AddressType = "BILLING"
	AddressTypeShipping AddressType = "SHIPPING"
)

// Address belongs to exactly one customer. Within one (customer, type)
// group at most one address may be the default.
type Address struct {
	ID          uuid.UUID
	CustomerID  uuid.UUID
	AddressType AddressType
	Street      string
	City        string
	PostalCode  string
	Country     string
	IsDefault   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate validates the address entity
func (a *Address) Validate() error {
	if a.CustomerID == uuid.Nil {
		return ErrAddressCustomerRequired
	}
	switch a.AddressType {
	case AddressTypeBilling, AddressTypeShipping:
	default:
		return ErrInvalidAddressType
	}
	return nil
}

// NewAddress creates a new address with validation
func NewAddress(customerID uuid.UUID, addressType AddressType, street, city, postalCode, country string, isDefault bool) (*Address, error) {
	address := &Address{
		ID:          uuid.New(),
		CustomerID:  customerID,
		AddressType: addressType,
		Street:      street,
		City:        city,
		PostalCode:  postalCode,
		Country:     country,
		IsDefault:   isDefault,
	}

	if err := address.Validate(); err != nil {
		return nil, err
	}

	return address, nil
}
