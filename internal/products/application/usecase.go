package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordermgmt/internal/products/domain"
	"ordermgmt/internal/products/ports"
	"ordermgmt/pkg/errors"
	"ordermgmt/pkg/logger"
	"ordermgmt/pkg/sequence"
)

// ProductUseCase handles product business logic
type ProductUseCase struct {
	repo        ports.ProductRepository
	publisher   ports.EventPublisher
	log         *logger.Logger
	seqAttempts int
	now         func() time.Time
}

// NewProductUseCase creates a new product use case
func NewProductUseCase(
	repo ports.ProductRepository,
	publisher ports.EventPublisher,
	log *logger.Logger,
	sequenceRetries int,
) *ProductUseCase {
	if sequenceRetries < 1 {
		sequenceRetries = 1
	}
	return &ProductUseCase{
		repo:        repo,
		publisher:   publisher,
		log:         log,
		seqAttempts: sequenceRetries,
		now:         time.Now,
	}
}

// CreateProductInput represents the input for creating a product
type CreateProductInput struct {
	ProductNumber string // assigned from the sequence when empty
	Name          string
	Description   string
	BasePrice     decimal.Decimal
	TaxRate       *decimal.Decimal
	UnitOfMeasure string
	StockQuantity int
	MinStockLevel int
}

// CreateProductOutput represents the output of creating a product
type CreateProductOutput struct {
	Product *domain.Product
}

// CreateProduct creates a new product, assigning the next product number
// when none is supplied. See CustomerUseCase.CreateCustomer for the
// conflict-retry rationale.
func (uc *ProductUseCase) CreateProduct(ctx context.Context, input CreateProductInput) (*CreateProductOutput, error) {
	product, err := domain.NewProduct(input.Name, input.Description, input.BasePrice,
		input.TaxRate, input.UnitOfMeasure, input.StockQuantity, input.MinStockLevel)
	if err != nil {
		return nil, err
	}

	assignNumber := input.ProductNumber == ""
	product.ProductNumber = input.ProductNumber

	for attempt := 0; attempt < uc.seqAttempts; attempt++ {
		if assignNumber {
			highest, err := uc.repo.HighestProductNumber(ctx)
			if err != nil {
				return nil, err
			}
			product.ProductNumber, err = sequence.NextProductNumber(highest)
			if err != nil {
				return nil, err
			}
		}

		err = uc.repo.Create(ctx, product)
		if err == nil {
			break
		}
		if assignNumber && errors.Is(err, errors.CodeConflict) {
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to assign product number")
	}

	uc.log.WithContext(ctx).Info("product created",
		zap.String("product_number", product.ProductNumber),
	)

	return &CreateProductOutput{Product: product}, nil
}

// GetProductInput represents the input for getting a product
type GetProductInput struct {
	ID uuid.UUID
}

// GetProductOutput represents the output of getting a product
type GetProductOutput struct {
	Product *domain.Product
}

// GetProduct retrieves a product by ID
func (uc *ProductUseCase) GetProduct(ctx context.Context, input GetProductInput) (*GetProductOutput, error) {
	product, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetProductOutput{Product: product}, nil
}

// UpdateProductInput represents the input for updating a product.
// Nil fields are left unchanged.
type UpdateProductInput struct {
	ID            uuid.UUID
	Name          *string
	Description   *string
	BasePrice     *decimal.Decimal
	TaxRate       *decimal.Decimal
	UnitOfMeasure *string
	MinStockLevel *int
}

// UpdateProductOutput represents the output of updating a product
type UpdateProductOutput struct {
	Product *domain.Product
}

// UpdateProduct applies the supplied fields. When the update changes the
// base price, the superseded price is first recorded as an immutable
// history entry within the same transaction; an unchanged or absent price
// records nothing.
func (uc *ProductUseCase) UpdateProduct(ctx context.Context, input UpdateProductInput) (*UpdateProductOutput, error) {
	var updated *domain.Product
	var oldPrice decimal.Decimal
	priceChanged := false

	err := uc.repo.Transaction(ctx, func(repo ports.ProductRepository) error {
		product, err := repo.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}

		if input.BasePrice != nil && !product.BasePrice.Equal(*input.BasePrice) {
			entry := domain.NewPriceHistoryEntry(product, uc.now(), logger.GetUserID(ctx))
			if err := repo.InsertPriceHistory(ctx, entry); err != nil {
				return err
			}
			oldPrice = product.BasePrice
			priceChanged = true
			product.BasePrice = *input.BasePrice
		}

		if input.Name != nil {
			product.Name = *input.Name
		}
		if input.Description != nil {
			product.Description = *input.Description
		}
		if input.TaxRate != nil {
			product.TaxRate = *input.TaxRate
		}
		if input.UnitOfMeasure != nil {
			product.UnitOfMeasure = *input.UnitOfMeasure
		}
		if input.MinStockLevel != nil {
			product.MinStockLevel = *input.MinStockLevel
		}

		if err := product.Validate(); err != nil {
			return err
		}

		if err := repo.Update(ctx, product); err != nil {
			return err
		}

		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	if priceChanged && uc.publisher != nil {
		if err := uc.publisher.PublishPriceChanged(ctx, updated, oldPrice, updated.BasePrice); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish price changed event",
				zap.Error(err),
				zap.String("product_number", updated.ProductNumber),
			)
		}
	}

	return &UpdateProductOutput{Product: updated}, nil
}

// AdjustStockInput represents the input for adjusting stock
type AdjustStockInput struct {
	ID       uuid.UUID
	Quantity int // delta, may be negative
	Reason   string
}

// AdjustStockOutput represents the output of adjusting stock
type AdjustStockOutput struct {
	Product *domain.Product
}

// AdjustStock applies a stock delta, rejecting any adjustment that would
// drive the stock negative, and writes an audit log entry.
func (uc *ProductUseCase) AdjustStock(ctx context.Context, input AdjustStockInput) (*AdjustStockOutput, error) {
	product, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	oldStock := product.StockQuantity
	if err := product.AdjustStock(input.Quantity); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	reason := input.Reason
	if reason == "" {
		reason = "no reason given"
	}

	uc.log.WithContext(ctx).Info("stock adjusted",
		zap.String("product_number", product.ProductNumber),
		zap.Int("old_stock", oldStock),
		zap.Int("new_stock", product.StockQuantity),
		zap.String("reason", reason),
	)

	if uc.publisher != nil {
		if err := uc.publisher.PublishStockAdjusted(ctx, product, oldStock, product.StockQuantity, reason); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish stock adjusted event",
				zap.Error(err),
				zap.String("product_number", product.ProductNumber),
			)
		}
	}

	return &AdjustStockOutput{Product: product}, nil
}

// SetActiveInput represents the input for activating or deactivating a product
type SetActiveInput struct {
	ID uuid.UUID
}

// SetActiveOutput represents the output of activating or deactivating a product
type SetActiveOutput struct {
	Product *domain.Product
}

// Activate makes a product orderable again
func (uc *ProductUseCase) Activate(ctx context.Context, input SetActiveInput) (*SetActiveOutput, error) {
	return uc.setActive(ctx, input.ID, true)
}

// Deactivate removes a product from ordering
func (uc *ProductUseCase) Deactivate(ctx context.Context, input SetActiveInput) (*SetActiveOutput, error) {
	return uc.setActive(ctx, input.ID, false)
}

func (uc *ProductUseCase) setActive(ctx context.Context, id uuid.UUID, active bool) (*SetActiveOutput, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		product.Activate()
	} else {
		product.Deactivate()
	}

	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}

	return &SetActiveOutput{Product: product}, nil
}

// LowStockProducts returns active products at or below their minimum stock level
func (uc *ProductUseCase) LowStockProducts(ctx context.Context) ([]*domain.Product, error) {
	return uc.repo.ListLowStock(ctx)
}

// PriceHistoryInput represents the input for reading a product's price history
type PriceHistoryInput struct {
	ProductID uuid.UUID
}

// PriceHistory returns a product's price history, newest first
func (uc *ProductUseCase) PriceHistory(ctx context.Context, input PriceHistoryInput) ([]*domain.PriceHistoryEntry, error) {
	if _, err := uc.repo.GetByID(ctx, input.ProductID); err != nil {
		return nil, err
	}
	return uc.repo.ListPriceHistory(ctx, input.ProductID)
}

// NextProductNumber returns the number the next product would receive.
// The number is not reserved; assignment happens on creation.
func (uc *ProductUseCase) NextProductNumber(ctx context.Context) (string, error) {
	highest, err := uc.repo.HighestProductNumber(ctx)
	if err != nil {
		return "", err
	}
	return sequence.NextProductNumber(highest)
}
