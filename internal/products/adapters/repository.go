package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ordermgmt/internal/products/domain"
	"ordermgmt/internal/products/ports"
	apperrors "ordermgmt/pkg/errors"
	"ordermgmt/pkg/sequence"
)

// ProductModel is the GORM model for products (persistence layer)
type ProductModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductNumber string          `gorm:"size:20;uniqueIndex;not null"`
	Name          string          `gorm:"size:255;not null"`
	Description   string          `gorm:"type:text"`
	BasePrice     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	Currency      string          `gorm:"size:3;not null;default:'EUR'"`
	TaxRate       decimal.Decimal `gorm:"type:decimal(5,2);not null;default:19"`
	UnitOfMeasure string          `gorm:"size:10"`
	StockQuantity int             `gorm:"not null;default:0"`
	MinStockLevel int             `gorm:"not null;default:0"`
	IsActive      bool            `gorm:"not null;default:true"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// PriceHistoryModel is the GORM model for price history entries
type PriceHistoryModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID       `gorm:"type:uuid;index;not null"`
	Price     decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency  string          `gorm:"size:3;not null"`
	ValidFrom time.Time       `gorm:"not null"`
	ValidTo   time.Time       `gorm:"not null"`
	ChangedBy string          `gorm:"size:255;not null"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

// TableName returns the table name for GORM
func (PriceHistoryModel) TableName() string {
	return "product_price_history"
}

// PostgresProductRepository implements ProductRepository using PostgreSQL
type PostgresProductRepository struct {
	db *gorm.DB
}

// NewPostgresProductRepository creates a new PostgreSQL product repository
func NewPostgresProductRepository(db *gorm.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

// Migrate runs auto-migration for the product models
func (r *PostgresProductRepository) Migrate() error {
	return r.db.AutoMigrate(&ProductModel{}, &PriceHistoryModel{})
}

// Create creates a new product
func (r *PostgresProductRepository) Create(ctx context.Context, product *domain.Product) error {
	model := toProductModel(product)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict("product number " + product.ProductNumber + " already exists")
		}
		return apperrors.NewInternal("failed to create product", result.Error)
	}

	product.CreatedAt = model.CreatedAt
	product.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByID retrieves a product by ID
func (r *PostgresProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	var model ProductModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewProductNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get product", result.Error)
	}

	return toProductDomain(&model), nil
}

// Update updates an existing product
func (r *PostgresProductRepository) Update(ctx context.Context, product *domain.Product) error {
	model := toProductModel(product)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update product", result.Error)
	}

	product.UpdatedAt = model.UpdatedAt
	return nil
}

// HighestProductNumber returns the highest assigned product number
func (r *PostgresProductRepository) HighestProductNumber(ctx context.Context) (string, error) {
	var model ProductModel

	result := r.db.WithContext(ctx).
		Where("product_number LIKE ?", sequence.ProductPrefix+"%").
		Order("product_number DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.NewInternal("failed to query product numbers", result.Error)
	}

	return model.ProductNumber, nil
}

// ListLowStock returns active products at or below their minimum stock level
func (r *PostgresProductRepository) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	var models []ProductModel

	result := r.db.WithContext(ctx).
		Where("is_active = ? AND stock_quantity <= min_stock_level", true).
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list low stock products", result.Error)
	}

	products := make([]*domain.Product, len(models))
	for i, model := range models {
		products[i] = toProductDomain(&model)
	}

	return products, nil
}

// InsertPriceHistory appends an immutable price history entry
func (r *PostgresProductRepository) InsertPriceHistory(ctx context.Context, entry *domain.PriceHistoryEntry) error {
	model := &PriceHistoryModel{
		ID:        entry.ID,
		ProductID: entry.ProductID,
		Price:     entry.Price,
		Currency:  entry.Currency,
		ValidFrom: entry.ValidFrom,
		ValidTo:   entry.ValidTo,
		ChangedBy: entry.ChangedBy,
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to insert price history entry", result.Error)
	}

	entry.CreatedAt = model.CreatedAt
	return nil
}

// ListPriceHistory returns a product's price history, newest first
func (r *PostgresProductRepository) ListPriceHistory(ctx context.Context, productID uuid.UUID) ([]*domain.PriceHistoryEntry, error) {
	var models []PriceHistoryModel

	result := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("valid_from DESC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list price history", result.Error)
	}

	entries := make([]*domain.PriceHistoryEntry, len(models))
	for i, model := range models {
		entries[i] = &domain.PriceHistoryEntry{
			ID:        model.ID,
			ProductID: model.ProductID,
			Price:     model.Price,
			Currency:  model.Currency,
			ValidFrom: model.ValidFrom,
			ValidTo:   model.ValidTo,
			ChangedBy: model.ChangedBy,
			CreatedAt: model.CreatedAt,
		}
	}

	return entries, nil
}

// Transaction runs fn against a repository bound to a single transaction
func (r *PostgresProductRepository) Transaction(ctx context.Context, fn func(repo ports.ProductRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresProductRepository{db: tx})
	})
}

// toProductModel converts a domain entity to a GORM model
func toProductModel(product *domain.Product) *ProductModel {
	return &ProductModel{
		ID:            product.ID,
		ProductNumber: product.ProductNumber,
		Name:          product.Name,
		Description:   product.Description,
		BasePrice:     product.BasePrice,
		Currency:      product.Currency,
		TaxRate:       product.TaxRate,
		UnitOfMeasure: product.UnitOfMeasure,
		StockQuantity: product.StockQuantity,
		MinStockLevel: product.MinStockLevel,
		IsActive:      product.IsActive,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// toProductDomain converts a GORM model to a domain entity
func toProductDomain(model *ProductModel) *domain.Product {
	return &domain.Product{
		ID:            model.ID,
		ProductNumber: model.ProductNumber,
		Name:          model.Name,
		Description:   model.Description,
		BasePrice:     model.BasePrice,
		Currency:      model.Currency,
		TaxRate:       model.TaxRate,
		UnitOfMeasure: model.UnitOfMeasure,
		StockQuantity: model.StockQuantity,
		MinStockLevel: model.MinStockLevel,
		IsActive:      model.IsActive,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}
