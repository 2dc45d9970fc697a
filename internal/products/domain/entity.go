package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the tax rate in percent applied when neither the
// product nor the caller supplies one.
var DefaultTaxRate = decimal.NewFromInt(19)

// DefaultCurrency is used when a product is created without one
// (single-currency setup).
const DefaultCurrency = "EUR"

// Product represents the product domain entity
type Product struct {
	ID            uuid.UUID
	ProductNumber string
	Name          string
	Description   string
	BasePrice     decimal.Decimal
	Currency      string
	TaxRate       decimal.Decimal
	UnitOfMeasure string
	StockQuantity int
	MinStockLevel int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate validates the product entity
func (p *Product) Validate() error {
	if p.Name == "" {
		return ErrNameRequired
	}
	if p.BasePrice.IsNegative() {
		return ErrNegativePrice
	}
	if p.StockQuantity < 0 {
		return ErrNegativeStock
	}
	return nil
}

// NewProduct creates a new product with validation. Products start active;
// tax rate and currency fall back to the defaults when unset.
func NewProduct(name, description string, basePrice decimal.Decimal, taxRate *decimal.Decimal, unitOfMeasure string, stockQuantity, minStockLevel int) (*Product, error) {
	rate := DefaultTaxRate
	if taxRate != nil {
		rate = *taxRate
	}

	product := &Product{
		ID:            uuid.New(),
		Name:          name,
		Description:   description,
		BasePrice:     basePrice,
		Currency:      DefaultCurrency,
		TaxRate:       rate,
		UnitOfMeasure: unitOfMeasure,
		StockQuantity: stockQuantity,
		MinStockLevel: minStockLevel,
		IsActive:      true,
	}

	if err := product.Validate(); err != nil {
		return nil, err
	}

	return product, nil
}

// AdjustStock applies a stock delta. A delta that would drive the stock
// negative is rejected and the stock stays unchanged.
func (p *Product) AdjustStock(delta int) error {
	newStock := p.StockQuantity + delta
	if newStock < 0 {
		return NewStockWouldGoNegative(p.StockQuantity)
	}
	p.StockQuantity = newStock
	return nil
}

// IsLowOnStock reports whether the stock has reached the minimum level
func (p *Product) IsLowOnStock() bool {
	return p.StockQuantity <= p.MinStockLevel
}

// Activate makes the product orderable again
func (p *Product) Activate() {
	p.IsActive = true
}

// Deactivate removes the product from ordering; existing order lines
// keep referencing it
func (p *Product) Deactivate() {
	p.IsActive = false
}

// PriceHistoryEntry is an immutable record of a superseded product price.
// Entries are only ever inserted, never updated or deleted.
type PriceHistoryEntry struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Price     decimal.Decimal
	Currency  string
	ValidFrom time.Time
	ValidTo   time.Time
	ChangedBy string
	CreatedAt time.Time
}

// NewPriceHistoryEntry captures the price a product had before a change.
// validFrom is the previous modification (or creation) timestamp, validTo
// the moment of the change.
func NewPriceHistoryEntry(product *Product, validTo time.Time, changedBy string) *PriceHistoryEntry {
	validFrom := product.UpdatedAt
	if validFrom.IsZero() {
		validFrom = product.CreatedAt
	}
	if validFrom.IsZero() {
		validFrom = validTo
	}

	return &PriceHistoryEntry{
		ID:        uuid.New(),
		ProductID: product.ID,
		Price:     product.BasePrice,
		Currency:  product.Currency,
		ValidFrom: validFrom,
		ValidTo:   validTo,
		ChangedBy: changedBy,
	}
}
