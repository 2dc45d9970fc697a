package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"ordermgmt/internal/orders/domain"
	"ordermgmt/internal/orders/ports"
	apperrors "ordermgmt/pkg/errors"
)

// OrderModel is the GORM model for orders (persistence layer)
type OrderModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderNumber   string          `gorm:"size:20;uniqueIndex;not null"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	OrderDate     time.Time       `gorm:"not null"`
	Status        string          `gorm:"size:20;not null;default:'NEW'"`
	Currency      string          `gorm:"size:3;not null;default:'EUR'"`
	NetAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TaxAmount     decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	GrossAmount   decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	InternalNotes string          `gorm:"type:text"`
	CreatedAt     time.Time       `gorm:"autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderItemModel is the GORM model for order items
type OrderItemModel struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID       `gorm:"type:uuid;index;not null"`
	ProductID         uuid.UUID       `gorm:"type:uuid;index;not null"`
	ItemNumber        int             `gorm:"not null"`
	Quantity          int             `gorm:"not null"`
	UnitOfMeasure     string          `gorm:"size:10"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Discount          decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxRate           decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	NetAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	TaxAmount         decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0"`
	DeliveredQuantity int             `gorm:"not null;default:0"`
	DeliveryStatus    string          `gorm:"size:10;not null;default:'OPEN'"`
	CreatedAt         time.Time       `gorm:"autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (OrderItemModel) TableName() string {
	return "order_items"
}

// stockRow is the slice of the products table the stock decrement touches
type stockRow struct {
	ID            uuid.UUID
	Name          string
	StockQuantity int
}

func (stockRow) TableName() string {
	return "products"
}

// PostgresOrderRepository implements OrderRepository using PostgreSQL
type PostgresOrderRepository struct {
	db *gorm.DB
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository
func NewPostgresOrderRepository(db *gorm.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

// Migrate runs auto-migration for the order models
func (r *PostgresOrderRepository) Migrate() error {
	return r.db.AutoMigrate(&OrderModel{}, &OrderItemModel{})
}

// Create creates a new order
func (r *PostgresOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict("order number " + order.OrderNumber + " already exists")
		}
		return apperrors.NewInternal("failed to create order", result.Error)
	}

	order.CreatedAt = model.CreatedAt
	order.UpdatedAt = model.UpdatedAt
	return nil
}

// GetByID retrieves an order by ID
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	var model OrderModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewOrderNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order", result.Error)
	}

	return toOrderDomain(&model), nil
}

// Update updates an existing order
func (r *PostgresOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update order", result.Error)
	}

	order.UpdatedAt = model.UpdatedAt
	return nil
}

// UpdateTotals persists derived totals onto an order
func (r *PostgresOrderRepository) UpdateTotals(ctx context.Context, orderID uuid.UUID, totals domain.Totals) error {
	result := r.db.WithContext(ctx).
		Model(&OrderModel{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"net_amount":   totals.Net,
			"tax_amount":   totals.Tax,
			"gross_amount": totals.Gross,
		})
	if result.Error != nil {
		return apperrors.NewInternal("failed to update order totals", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewOrderNotFound(orderID)
	}
	return nil
}

// HighestOrderNumber returns the highest assigned order number with the
// given prefix
func (r *PostgresOrderRepository) HighestOrderNumber(ctx context.Context, prefix string) (string, error) {
	var model OrderModel

	result := r.db.WithContext(ctx).
		Where("order_number LIKE ?", prefix+"%").
		Order("order_number DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", apperrors.NewInternal("failed to query order numbers", result.Error)
	}

	return model.OrderNumber, nil
}

// ListByCustomer returns all orders of a customer
func (r *PostgresOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	var models []OrderModel

	result := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("order_date DESC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list customer orders", result.Error)
	}

	return toOrderDomainSlice(models), nil
}

// ListAll returns all orders
func (r *PostgresOrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	var models []OrderModel

	result := r.db.WithContext(ctx).Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list orders", result.Error)
	}

	return toOrderDomainSlice(models), nil
}

// CreateItem creates a new order item
func (r *PostgresOrderRepository) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	model := toItemModel(item)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to create order item", result.Error)
	}

	item.CreatedAt = model.CreatedAt
	item.UpdatedAt = model.UpdatedAt
	return nil
}

// GetItem retrieves an order item by ID
func (r *PostgresOrderRepository) GetItem(ctx context.Context, id uuid.UUID) (*domain.OrderItem, error) {
	var model OrderItemModel

	result := r.db.WithContext(ctx).First(&model, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewItemNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get order item", result.Error)
	}

	return toItemDomain(&model), nil
}

// ListItems returns all items of an order, ordered by item number
func (r *PostgresOrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	var models []OrderItemModel

	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("item_number ASC").
		Find(&models)
	if result.Error != nil {
		return nil, apperrors.NewInternal("failed to list order items", result.Error)
	}

	items := make([]*domain.OrderItem, len(models))
	for i, model := range models {
		items[i] = toItemDomain(&model)
	}

	return items, nil
}

// UpdateItem updates an existing order item
func (r *PostgresOrderRepository) UpdateItem(ctx context.Context, item *domain.OrderItem) error {
	model := toItemModel(item)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update order item", result.Error)
	}

	item.UpdatedAt = model.UpdatedAt
	return nil
}

// DeleteItem deletes an order item
func (r *PostgresOrderRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&OrderItemModel{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.NewInternal("failed to delete order item", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewItemNotFound(id)
	}
	return nil
}

// HighestItemNumber returns the highest item number within an order
func (r *PostgresOrderRepository) HighestItemNumber(ctx context.Context, orderID uuid.UUID) (int, error) {
	var model OrderItemModel

	result := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("item_number DESC").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, apperrors.NewInternal("failed to query item numbers", result.Error)
	}

	return model.ItemNumber, nil
}

// DecrementProductStock atomically subtracts quantity from a product's
// stock. The guard sits in the WHERE clause, so a concurrent decrement
// cannot drive the stock negative either.
func (r *PostgresOrderRepository) DecrementProductStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	result := r.db.WithContext(ctx).
		Model(&stockRow{}).
		Where("id = ? AND stock_quantity >= ?", productID, quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", quantity))
	if result.Error != nil {
		return apperrors.NewInternal("failed to decrement product stock", result.Error)
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var row stockRow
	lookup := r.db.WithContext(ctx).First(&row, "id = ?", productID)
	if lookup.Error != nil {
		if errors.Is(lookup.Error, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("product", productID)
		}
		return apperrors.NewInternal("failed to read product stock", lookup.Error)
	}

	return domain.NewInsufficientStock(row.Name, row.StockQuantity, quantity)
}

// Transaction runs fn against a repository bound to a single transaction
func (r *PostgresOrderRepository) Transaction(ctx context.Context, fn func(repo ports.OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresOrderRepository{db: tx})
	})
}

// toOrderModel converts a domain entity to a GORM model
func toOrderModel(order *domain.Order) *OrderModel {
	return &OrderModel{
		ID:            order.ID,
		OrderNumber:   order.OrderNumber,
		CustomerID:    order.CustomerID,
		OrderDate:     order.OrderDate,
		Status:        string(order.Status),
		Currency:      order.Currency,
		NetAmount:     order.NetAmount,
		TaxAmount:     order.TaxAmount,
		GrossAmount:   order.GrossAmount,
		InternalNotes: order.InternalNotes,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

// toOrderDomain converts a GORM model to a domain entity
func toOrderDomain(model *OrderModel) *domain.Order {
	return &domain.Order{
		ID:            model.ID,
		OrderNumber:   model.OrderNumber,
		CustomerID:    model.CustomerID,
		OrderDate:     model.OrderDate,
		Status:        domain.OrderStatus(model.Status),
		Currency:      model.Currency,
		NetAmount:     model.NetAmount,
		TaxAmount:     model.TaxAmount,
		GrossAmount:   model.GrossAmount,
		InternalNotes: model.InternalNotes,
		CreatedAt:     model.CreatedAt,
		UpdatedAt:     model.UpdatedAt,
	}
}

func toOrderDomainSlice(models []OrderModel) []*domain.Order {
	orders := make([]*domain.Order, len(models))
	for i, model := range models {
		orders[i] = toOrderDomain(&model)
	}
	return orders
}

// toItemModel converts a domain entity to a GORM model
func toItemModel(item *domain.OrderItem) *OrderItemModel {
	return &OrderItemModel{
		ID:                item.ID,
		OrderID:           item.OrderID,
		ProductID:         item.ProductID,
		ItemNumber:        item.ItemNumber,
		Quantity:          item.Quantity,
		UnitOfMeasure:     item.UnitOfMeasure,
		UnitPrice:         item.UnitPrice,
		Discount:          item.Discount,
		TaxRate:           item.TaxRate,
		NetAmount:         item.NetAmount,
		TaxAmount:         item.TaxAmount,
		DeliveredQuantity: item.DeliveredQuantity,
		DeliveryStatus:    string(item.DeliveryStatus),
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

// toItemDomain converts a GORM model to a domain entity
func toItemDomain(model *OrderItemModel) *domain.OrderItem {
	return &domain.OrderItem{
		ID:                model.ID,
		OrderID:           model.OrderID,
		ProductID:         model.ProductID,
		ItemNumber:        model.ItemNumber,
		Quantity:          model.Quantity,
		UnitOfMeasure:     model.UnitOfMeasure,
		UnitPrice:         model.UnitPrice,
		Discount:          model.Discount,
		TaxRate:           model.TaxRate,
		NetAmount:         model.NetAmount,
		TaxAmount:         model.TaxAmount,
		DeliveredQuantity: model.DeliveredQuantity,
		DeliveryStatus:    domain.DeliveryStatus(model.DeliveryStatus),
		CreatedAt:         model.CreatedAt,
		UpdatedAt:         model.UpdatedAt,
	}
}
