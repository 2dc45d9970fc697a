package domain

import (
	"fmt"

	"github.com/google/uuid"

	apperrors "ordermgmt/pkg/errors"
)

// Validation errors
var (
	ErrQuantityNotPositive = apperrors.NewValidation("quantity must be greater than zero", nil)
	ErrDiscountOutOfRange  = apperrors.NewValidation("discount must be between 0 and 100 percent", nil)
	ErrNegativeUnitPrice   = apperrors.NewValidation("unit price cannot be negative", nil)
)

// NewOrderNotFound creates a not found error for an order
func NewOrderNotFound(id uuid.UUID) *apperrors.AppError {
	return apperrors.NewNotFound("order", id)
}

// NewItemNotFound creates a not found error for an order item
func NewItemNotFound(id uuid.UUID) *apperrors.AppError {
	return apperrors.NewNotFound("order item", id)
}

// NewInvalidTransition creates a validation error for a disallowed
// state transition
func NewInvalidTransition(action string, status OrderStatus) *apperrors.AppError {
	return apperrors.NewValidation(
		fmt.Sprintf("order cannot be %s in status %s", action, status), nil)
}

// NewCustomerBlocked creates a validation error naming the blocked customer
func NewCustomerBlocked(name string) *apperrors.AppError {
	return apperrors.NewValidation(
		fmt.Sprintf("customer %q is blocked and cannot place orders", name), nil)
}

// NewProductInactive creates a validation error naming the inactive product
func NewProductInactive(name string) *apperrors.AppError {
	return apperrors.NewValidation(
		fmt.Sprintf("product %q is no longer available", name), nil)
}

// NewInsufficientStock creates a validation error naming the short product
func NewInsufficientStock(name string, available, requested int) *apperrors.AppError {
	return apperrors.NewValidation(
		fmt.Sprintf("insufficient stock for product %q: %d available, %d requested", name, available, requested), nil)
}
