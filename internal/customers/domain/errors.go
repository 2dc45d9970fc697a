package domain

import (
	"fmt"

	"github.com/google/uuid"

	"ordermgmt/pkg/errors"
)

// Domain-specific errors
var (
	ErrNegativeCreditLimit     = errors.NewValidation("credit limit cannot be negative", nil)
	ErrAddressCustomerRequired = errors.NewValidation("address requires a customer", nil)
	ErrInvalidAddressType      = errors.NewValidation("address type must be BILLING or SHIPPING", nil)
)

// NewInvalidEmail creates a validation error naming the rejected address
func NewInvalidEmail(email string) error {
	return errors.NewValidation(fmt.Sprintf("invalid email format: %s", email), nil)
}

// NewCustomerNotFound creates a not found error with the customer ID
func NewCustomerNotFound(id uuid.UUID) error {
	return errors.NewNotFound("customer", id)
}
