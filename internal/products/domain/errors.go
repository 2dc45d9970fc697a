package domain

import (
	"fmt"

	"github.com/google/uuid"

	"ordermgmt/pkg/errors"
)

// Domain-specific errors
var (
	ErrNameRequired  = errors.NewValidation("product name is required", nil)
	ErrNegativePrice = errors.NewValidation("base price cannot be negative", nil)
	ErrNegativeStock = errors.NewValidation("stock quantity cannot be negative", nil)
)

// NewProductNotFound creates a not found error with the product ID
func NewProductNotFound(id uuid.UUID) error {
	return errors.NewNotFound("product", id)
}

// NewStockWouldGoNegative creates a validation error naming the current stock
func NewStockWouldGoNegative(currentStock int) error {
	return errors.NewValidation(
		fmt.Sprintf("stock quantity cannot become negative (current: %d)", currentStock), nil)
}

// NewProductInactive creates a validation error naming the product
func NewProductInactive(name string) error {
	return errors.NewValidation(
		fmt.Sprintf("product %q is no longer available", name), nil)
}
