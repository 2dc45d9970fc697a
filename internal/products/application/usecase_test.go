package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/products/domain"
	"ordermgmt/internal/products/ports"
	"ordermgmt/pkg/errors"
	"ordermgmt/pkg/logger"
)

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	products map[uuid.UUID]*domain.Product
	history  []*domain.PriceHistoryEntry
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *MockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	for _, existing := range m.products {
		if existing.ProductNumber == product.ProductNumber {
			return errors.NewConflict("product number " + product.ProductNumber + " already exists")
		}
	}
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, domain.NewProductNotFound(id)
	}
	copied := *product
	return &copied, nil
}

func (m *MockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *MockProductRepository) HighestProductNumber(ctx context.Context) (string, error) {
	highest := ""
	for _, product := range m.products {
		if product.ProductNumber > highest {
			highest = product.ProductNumber
		}
	}
	return highest, nil
}

func (m *MockProductRepository) ListLowStock(ctx context.Context) ([]*domain.Product, error) {
	var result []*domain.Product
	for _, product := range m.products {
		if product.IsActive && product.IsLowOnStock() {
			copied := *product
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockProductRepository) InsertPriceHistory(ctx context.Context, entry *domain.PriceHistoryEntry) error {
	copied := *entry
	m.history = append(m.history, &copied)
	return nil
}

func (m *MockProductRepository) ListPriceHistory(ctx context.Context, productID uuid.UUID) ([]*domain.PriceHistoryEntry, error) {
	var result []*domain.PriceHistoryEntry
	for _, entry := range m.history {
		if entry.ProductID == productID {
			copied := *entry
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockProductRepository) Transaction(ctx context.Context, fn func(repo ports.ProductRepository) error) error {
	return fn(m)
}

// MockProductPublisher is a mock implementation of EventPublisher
type MockProductPublisher struct {
	priceChanges  int
	stockAdjusted int
}

func (m *MockProductPublisher) PublishPriceChanged(ctx context.Context, product *domain.Product, oldPrice, newPrice decimal.Decimal) error {
	m.priceChanges++
	return nil
}

func (m *MockProductPublisher) PublishStockAdjusted(ctx context.Context, product *domain.Product, oldStock, newStock int, reason string) error {
	m.stockAdjusted++
	return nil
}

func newTestUseCase(repo *MockProductRepository) (*ProductUseCase, *MockProductPublisher) {
	publisher := &MockProductPublisher{}
	log := logger.New("test", "debug")
	return NewProductUseCase(repo, publisher, log, 3), publisher
}

func createProduct(t *testing.T, useCase *ProductUseCase, name string, price string, stock int) *domain.Product {
	t.Helper()
	output, err := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name:          name,
		BasePrice:     decimal.RequireFromString(price),
		StockQuantity: stock,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return output.Product
}

func TestCreateProduct_AssignsSequentialNumbers(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, _ := newTestUseCase(repo)

	first := createProduct(t, useCase, "Widget", "9.99", 100)
	if first.ProductNumber != "PRD-001" {
		t.Errorf("expected PRD-001, got %s", first.ProductNumber)
	}
	if !first.IsActive {
		t.Error("expected new product to be active")
	}

	second := createProduct(t, useCase, "Gadget", "19.99", 50)
	if second.ProductNumber != "PRD-002" {
		t.Errorf("expected PRD-002, got %s", second.ProductNumber)
	}
}

func TestCreateProduct_DefaultTaxRate(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, _ := newTestUseCase(repo)

	product := createProduct(t, useCase, "Widget", "9.99", 100)
	if !product.TaxRate.Equal(decimal.NewFromInt(19)) {
		t.Errorf("expected default tax rate 19, got %s", product.TaxRate)
	}
}

func TestAdjustStock_RejectsNegativeResult(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, _ := newTestUseCase(repo)

	product := createProduct(t, useCase, "Widget", "9.99", 5)

	_, err := useCase.AdjustStock(context.Background(), AdjustStockInput{
		ID:       product.ID,
		Quantity: -6,
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), product.ID)
	if stored.StockQuantity != 5 {
		t.Errorf("expected stock unchanged at 5, got %d", stored.StockQuantity)
	}
}

func TestAdjustStock_AppliesDelta(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, publisher := newTestUseCase(repo)

	product := createProduct(t, useCase, "Widget", "9.99", 5)

	output, err := useCase.AdjustStock(context.Background(), AdjustStockInput{
		ID:       product.ID,
		Quantity: -5,
		Reason:   "inventory correction",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output.Product.StockQuantity != 0 {
		t.Errorf("expected stock 0, got %d", output.Product.StockQuantity)
	}
	if publisher.stockAdjusted != 1 {
		t.Errorf("expected 1 stock adjusted event, got %d", publisher.stockAdjusted)
	}
}

func TestUpdateProduct_RecordsPriceHistory(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, publisher := newTestUseCase(repo)

	changedAt := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	useCase.now = func() time.Time { return changedAt }

	product := createProduct(t, useCase, "Widget", "10.00", 100)

	newPrice := decimal.RequireFromString("12.50")
	output, err := useCase.UpdateProduct(context.Background(), UpdateProductInput{
		ID:        product.ID,
		BasePrice: &newPrice,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !output.Product.BasePrice.Equal(newPrice) {
		t.Errorf("expected price 12.50, got %s", output.Product.BasePrice)
	}

	if len(repo.history) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(repo.history))
	}
	entry := repo.history[0]
	if !entry.Price.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("expected recorded price 10.00 (the superseded one), got %s", entry.Price)
	}
	if !entry.ValidTo.Equal(changedAt) {
		t.Errorf("expected validTo %v, got %v", changedAt, entry.ValidTo)
	}
	if entry.ChangedBy != logger.SystemUser {
		t.Errorf("expected changedBy %q, got %q", logger.SystemUser, entry.ChangedBy)
	}
	if publisher.priceChanges != 1 {
		t.Errorf("expected 1 price changed event, got %d", publisher.priceChanges)
	}
}

func TestUpdateProduct_RecordsActingUser(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, _ := newTestUseCase(repo)

	product := createProduct(t, useCase, "Widget", "10.00", 100)

	ctx := logger.WithUserIDContext(context.Background(), "jdoe")
	newPrice := decimal.RequireFromString("11.00")
	if _, err := useCase.UpdateProduct(ctx, UpdateProductInput{ID: product.ID, BasePrice: &newPrice}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(repo.history) != 1 || repo.history[0].ChangedBy != "jdoe" {
		t.Errorf("expected history entry changed by jdoe, got %+v", repo.history)
	}
}

func TestUpdateProduct_NoHistoryWhenPriceUnchanged(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, publisher := newTestUseCase(repo)

	product := createProduct(t, useCase, "Widget", "10.00", 100)

	samePrice := decimal.RequireFromString("10.00")
	if _, err := useCase.UpdateProduct(context.Background(), UpdateProductInput{ID: product.ID, BasePrice: &samePrice}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	name := "Widget Pro"
	if _, err := useCase.UpdateProduct(context.Background(), UpdateProductInput{ID: product.ID, Name: &name}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(repo.history) != 0 {
		t.Errorf("expected no history entries, got %d", len(repo.history))
	}
	if publisher.priceChanges != 0 {
		t.Errorf("expected no price changed events, got %d", publisher.priceChanges)
	}
}

func TestActivateDeactivate(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, _ := newTestUseCase(repo)

	product := createProduct(t, useCase, "Widget", "10.00", 100)

	deactivated, err := useCase.Deactivate(context.Background(), SetActiveInput{ID: product.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deactivated.Product.IsActive {
		t.Error("expected product to be inactive")
	}

	activated, err := useCase.Activate(context.Background(), SetActiveInput{ID: product.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !activated.Product.IsActive {
		t.Error("expected product to be active again")
	}
}

func TestLowStockProducts(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, _ := newTestUseCase(repo)

	low, err := useCase.CreateProduct(context.Background(), CreateProductInput{
		Name:          "Nearly gone",
		BasePrice:     decimal.RequireFromString("1.00"),
		StockQuantity: 2,
		MinStockLevel: 5,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	createProduct(t, useCase, "Plenty", "1.00", 100)

	products, err := useCase.LowStockProducts(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(products) != 1 || products[0].ID != low.Product.ID {
		t.Errorf("expected only the low stock product, got %d products", len(products))
	}
}

func TestNextProductNumber_DoesNotReserve(t *testing.T) {
	repo := NewMockProductRepository()
	useCase, _ := newTestUseCase(repo)

	number, err := useCase.NextProductNumber(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if number != "PRD-001" {
		t.Errorf("expected PRD-001, got %s", number)
	}

	// the dry run must not consume the number
	product := createProduct(t, useCase, "Widget", "9.99", 1)
	if product.ProductNumber != "PRD-001" {
		t.Errorf("expected PRD-001, got %s", product.ProductNumber)
	}
}
