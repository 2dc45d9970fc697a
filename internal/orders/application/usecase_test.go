package application

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ordermgmt/internal/orders/domain"
	"ordermgmt/internal/orders/ports"
	"ordermgmt/pkg/errors"
	"ordermgmt/pkg/logger"
)

// MockProductStore is a mock implementation of ProductStore
type MockProductStore struct {
	products map[uuid.UUID]*domain.ProductInfo
}

func NewMockProductStore() *MockProductStore {
	return &MockProductStore{products: make(map[uuid.UUID]*domain.ProductInfo)}
}

func (m *MockProductStore) Add(product *domain.ProductInfo) {
	m.products[product.ID] = product
}

func (m *MockProductStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProductInfo, error) {
	product, ok := m.products[id]
	if !ok {
		return nil, errors.NewNotFound("product", id)
	}
	copied := *product
	return &copied, nil
}

// MockCustomerStore is a mock implementation of CustomerStore
type MockCustomerStore struct {
	customers map[uuid.UUID]*ports.CustomerInfo
}

func NewMockCustomerStore() *MockCustomerStore {
	return &MockCustomerStore{customers: make(map[uuid.UUID]*ports.CustomerInfo)}
}

func (m *MockCustomerStore) Add(customer *ports.CustomerInfo) {
	m.customers[customer.ID] = customer
}

func (m *MockCustomerStore) GetByID(ctx context.Context, id uuid.UUID) (*ports.CustomerInfo, error) {
	customer, ok := m.customers[id]
	if !ok {
		return nil, errors.NewNotFound("customer", id)
	}
	copied := *customer
	return &copied, nil
}

// MockOrderRepository is a mock implementation of OrderRepository. Stock
// decrements run against the product store's map, mirroring the shared
// products table.
type MockOrderRepository struct {
	orders      map[uuid.UUID]*domain.Order
	items       map[uuid.UUID]*domain.OrderItem
	products    *MockProductStore
	failCreates int
}

func NewMockOrderRepository(products *MockProductStore) *MockOrderRepository {
	return &MockOrderRepository{
		orders:   make(map[uuid.UUID]*domain.Order),
		items:    make(map[uuid.UUID]*domain.OrderItem),
		products: products,
	}
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	if m.failCreates > 0 {
		m.failCreates--
		return errors.NewConflict("order number " + order.OrderNumber + " already exists")
	}
	for _, existing := range m.orders {
		if existing.OrderNumber == order.OrderNumber {
			return errors.NewConflict("order number " + order.OrderNumber + " already exists")
		}
	}
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, domain.NewOrderNotFound(id)
	}
	copied := *order
	return &copied, nil
}

func (m *MockOrderRepository) Update(ctx context.Context, order *domain.Order) error {
	copied := *order
	m.orders[order.ID] = &copied
	return nil
}

func (m *MockOrderRepository) UpdateTotals(ctx context.Context, orderID uuid.UUID, totals domain.Totals) error {
	order, ok := m.orders[orderID]
	if !ok {
		return domain.NewOrderNotFound(orderID)
	}
	order.NetAmount = totals.Net
	order.TaxAmount = totals.Tax
	order.GrossAmount = totals.Gross
	return nil
}

func (m *MockOrderRepository) HighestOrderNumber(ctx context.Context, prefix string) (string, error) {
	highest := ""
	for _, order := range m.orders {
		if strings.HasPrefix(order.OrderNumber, prefix) && order.OrderNumber > highest {
			highest = order.OrderNumber
		}
	}
	return highest, nil
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range m.orders {
		if order.CustomerID == customerID {
			copied := *order
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *MockOrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	var result []*domain.Order
	for _, order := range m.orders {
		copied := *order
		result = append(result, &copied)
	}
	return result, nil
}

func (m *MockOrderRepository) CreateItem(ctx context.Context, item *domain.OrderItem) error {
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *MockOrderRepository) GetItem(ctx context.Context, id uuid.UUID) (*domain.OrderItem, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, domain.NewItemNotFound(id)
	}
	copied := *item
	return &copied, nil
}

func (m *MockOrderRepository) ListItems(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	var result []*domain.OrderItem
	for _, item := range m.items {
		if item.OrderID == orderID {
			copied := *item
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ItemNumber < result[j].ItemNumber })
	return result, nil
}

func (m *MockOrderRepository) UpdateItem(ctx context.Context, item *domain.OrderItem) error {
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *MockOrderRepository) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.items[id]; !ok {
		return domain.NewItemNotFound(id)
	}
	delete(m.items, id)
	return nil
}

func (m *MockOrderRepository) HighestItemNumber(ctx context.Context, orderID uuid.UUID) (int, error) {
	highest := 0
	for _, item := range m.items {
		if item.OrderID == orderID && item.ItemNumber > highest {
			highest = item.ItemNumber
		}
	}
	return highest, nil
}

func (m *MockOrderRepository) DecrementProductStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	product, ok := m.products.products[productID]
	if !ok {
		return errors.NewNotFound("product", productID)
	}
	if product.StockQuantity < quantity {
		return domain.NewInsufficientStock(product.Name, product.StockQuantity, quantity)
	}
	product.StockQuantity -= quantity
	return nil
}

func (m *MockOrderRepository) Transaction(ctx context.Context, fn func(repo ports.OrderRepository) error) error {
	return fn(m)
}

// MockOrderPublisher is a mock implementation of EventPublisher
type MockOrderPublisher struct {
	created   int
	confirmed int
	cancelled int
	delivered int
}

func (m *MockOrderPublisher) PublishOrderCreated(ctx context.Context, order *domain.Order) error {
	m.created++
	return nil
}

func (m *MockOrderPublisher) PublishOrderConfirmed(ctx context.Context, order *domain.Order) error {
	m.confirmed++
	return nil
}

func (m *MockOrderPublisher) PublishOrderCancelled(ctx context.Context, order *domain.Order) error {
	m.cancelled++
	return nil
}

func (m *MockOrderPublisher) PublishOrderDelivered(ctx context.Context, order *domain.Order) error {
	m.delivered++
	return nil
}

type testFixture struct {
	useCase   *OrderUseCase
	repo      *MockOrderRepository
	products  *MockProductStore
	customers *MockCustomerStore
	publisher *MockOrderPublisher
}

func newFixture() *testFixture {
	products := NewMockProductStore()
	customers := NewMockCustomerStore()
	repo := NewMockOrderRepository(products)
	publisher := &MockOrderPublisher{}
	log := logger.New("test", "debug")

	useCase := NewOrderUseCase(repo, products, customers, publisher, log, 3)
	useCase.now = func() time.Time {
		return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	}

	return &testFixture{
		useCase:   useCase,
		repo:      repo,
		products:  products,
		customers: customers,
		publisher: publisher,
	}
}

func (f *testFixture) addCustomer(blocked bool) *ports.CustomerInfo {
	customer := &ports.CustomerInfo{
		ID:             uuid.New(),
		CustomerNumber: "KD-10001",
		Name:           "ACME GmbH",
		Blocked:        blocked,
		CreditLimit:    decimal.NewFromInt(10000),
	}
	f.customers.Add(customer)
	return customer
}

func (f *testFixture) addProduct(name string, price string, stock int) *domain.ProductInfo {
	product := &domain.ProductInfo{
		ID:            uuid.New(),
		ProductNumber: "PRD-001",
		Name:          name,
		BasePrice:     decimal.RequireFromString(price),
		TaxRate:       decimal.NewFromInt(19),
		UnitOfMeasure: "PCE",
		StockQuantity: stock,
		IsActive:      true,
	}
	f.products.Add(product)
	return product
}

func (f *testFixture) createOrder(t *testing.T, customerID uuid.UUID, items ...OrderItemInput) *CreateOrderOutput {
	t.Helper()
	output, err := f.useCase.CreateOrder(context.Background(), CreateOrderInput{
		CustomerID: customerID,
		Items:      items,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	return output
}

func TestCreateOrder_AssignsYearScopedNumbers(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)

	first := f.createOrder(t, customer.ID)
	if first.Order.OrderNumber != "ORD-2025-0001" {
		t.Errorf("expected ORD-2025-0001, got %s", first.Order.OrderNumber)
	}
	if first.Order.Status != domain.StatusNew {
		t.Errorf("expected status NEW, got %s", first.Order.Status)
	}

	second := f.createOrder(t, customer.ID)
	if second.Order.OrderNumber != "ORD-2025-0002" {
		t.Errorf("expected ORD-2025-0002, got %s", second.Order.OrderNumber)
	}

	if f.publisher.created != 2 {
		t.Errorf("expected 2 created events, got %d", f.publisher.created)
	}
}

func TestCreateOrder_SequenceResetsPerYear(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)

	lastYear := domain.NewOrder(customer.ID, time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC))
	lastYear.OrderNumber = "ORD-2024-0042"
	if err := f.repo.Create(context.Background(), lastYear); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	output := f.createOrder(t, customer.ID)
	if output.Order.OrderNumber != "ORD-2025-0001" {
		t.Errorf("expected ORD-2025-0001, got %s", output.Order.OrderNumber)
	}
}

func TestCreateOrder_RetriesOnNumberConflict(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	f.repo.failCreates = 1

	output := f.createOrder(t, customer.ID)
	if output.Order.OrderNumber != "ORD-2025-0001" {
		t.Errorf("expected ORD-2025-0001, got %s", output.Order.OrderNumber)
	}
}

func TestCreateOrder_BlockedCustomerRejected(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(true)

	_, err := f.useCase.CreateOrder(context.Background(), CreateOrderInput{CustomerID: customer.ID})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "ACME GmbH") {
		t.Errorf("expected error to name the customer, got %v", err)
	}

	// unblocking lifts the rejection
	f.customers.customers[customer.ID].Blocked = false
	f.createOrder(t, customer.ID)
}

func TestCreateOrder_WithItemsComputesTotals(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	product := f.addProduct("Widget", "10.00", 100)

	discount := decimal.NewFromInt(10)
	output := f.createOrder(t, customer.ID, OrderItemInput{
		ProductID: product.ID,
		Quantity:  3,
		Discount:  &discount,
	})

	if len(output.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(output.Items))
	}
	if output.Items[0].ItemNumber != 10 {
		t.Errorf("expected item number 10, got %d", output.Items[0].ItemNumber)
	}
	if output.Order.NetAmount.String() != "27" {
		t.Errorf("expected net 27, got %s", output.Order.NetAmount)
	}
	if output.Order.TaxAmount.String() != "5.13" {
		t.Errorf("expected tax 5.13, got %s", output.Order.TaxAmount)
	}
	if output.Order.GrossAmount.String() != "32.13" {
		t.Errorf("expected gross 32.13, got %s", output.Order.GrossAmount)
	}
}

func TestAddItem_AssignsNumbersAndRecalculates(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	product := f.addProduct("Widget", "10.00", 100)
	order := f.createOrder(t, customer.ID).Order

	first, err := f.useCase.AddItem(context.Background(), AddItemInput{
		OrderID: order.ID,
		Item:    OrderItemInput{ProductID: product.ID, Quantity: 2},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if first.Item.ItemNumber != 10 {
		t.Errorf("expected item number 10, got %d", first.Item.ItemNumber)
	}

	second, err := f.useCase.AddItem(context.Background(), AddItemInput{
		OrderID: order.ID,
		Item:    OrderItemInput{ProductID: product.ID, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if second.Item.ItemNumber != 20 {
		t.Errorf("expected item number 20, got %d", second.Item.ItemNumber)
	}

	stored, _ := f.repo.GetByID(context.Background(), order.ID)
	if stored.NetAmount.String() != "30" {
		t.Errorf("expected net 30, got %s", stored.NetAmount)
	}
	if stored.GrossAmount.String() != "35.7" {
		t.Errorf("expected gross 35.7, got %s", stored.GrossAmount)
	}
}

func TestUpdateItem_RecalculatesTotals(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	product := f.addProduct("Widget", "10.00", 100)
	output := f.createOrder(t, customer.ID, OrderItemInput{ProductID: product.ID, Quantity: 1})

	quantity := 5
	updated, err := f.useCase.UpdateItem(context.Background(), UpdateItemInput{
		ItemID:   output.Items[0].ID,
		Quantity: &quantity,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if updated.Item.NetAmount.String() != "50" {
		t.Errorf("expected item net 50, got %s", updated.Item.NetAmount)
	}

	stored, _ := f.repo.GetByID(context.Background(), output.Order.ID)
	if stored.NetAmount.String() != "50" {
		t.Errorf("expected order net 50, got %s", stored.NetAmount)
	}
}

func TestUpdateItem_RejectsBadQuantity(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	product := f.addProduct("Widget", "10.00", 100)
	output := f.createOrder(t, customer.ID, OrderItemInput{ProductID: product.ID, Quantity: 2})

	quantity := 0
	_, err := f.useCase.UpdateItem(context.Background(), UpdateItemInput{
		ItemID:   output.Items[0].ID,
		Quantity: &quantity,
	})
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestDeleteItem_LastItemResetsTotals(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	product := f.addProduct("Widget", "10.00", 100)
	output := f.createOrder(t, customer.ID, OrderItemInput{ProductID: product.ID, Quantity: 3})

	deleted, err := f.useCase.DeleteItem(context.Background(), DeleteItemInput{ItemID: output.Items[0].ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !deleted.Totals.Net.IsZero() || !deleted.Totals.Tax.IsZero() || !deleted.Totals.Gross.IsZero() {
		t.Errorf("expected zero totals, got %+v", deleted.Totals)
	}

	stored, _ := f.repo.GetByID(context.Background(), output.Order.ID)
	if !stored.GrossAmount.IsZero() {
		t.Errorf("expected stored gross 0, got %s", stored.GrossAmount)
	}
}

func TestConfirmOrder_Succeeds(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	product := f.addProduct("Widget", "10.00", 5)
	order := f.createOrder(t, customer.ID, OrderItemInput{ProductID: product.ID, Quantity: 5}).Order

	output, err := f.useCase.ConfirmOrder(context.Background(), ConfirmOrderInput{ID: order.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output.Order.Status != domain.StatusConfirmed {
		t.Errorf("expected status CONFIRMED, got %s", output.Order.Status)
	}
	if f.publisher.confirmed != 1 {
		t.Errorf("expected 1 confirmed event, got %d", f.publisher.confirmed)
	}
}

func TestConfirmOrder_RejectsNonNewStatus(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	order := f.createOrder(t, customer.ID).Order

	if _, err := f.useCase.ConfirmOrder(context.Background(), ConfirmOrderInput{ID: order.ID}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	_, err := f.useCase.ConfirmOrder(context.Background(), ConfirmOrderInput{ID: order.ID})
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestConfirmOrder_InsufficientStockNamesProduct(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	product := f.addProduct("Widget", "10.00", 2)
	order := f.createOrder(t, customer.ID, OrderItemInput{ProductID: product.ID, Quantity: 3}).Order

	_, err := f.useCase.ConfirmOrder(context.Background(), ConfirmOrderInput{ID: order.ID})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Widget") || !strings.Contains(err.Error(), "2 available") {
		t.Errorf("expected error to name product and available quantity, got %v", err)
	}

	stored, _ := f.repo.GetByID(context.Background(), order.ID)
	if stored.Status != domain.StatusNew {
		t.Errorf("expected status NEW, got %s", stored.Status)
	}
}

func TestCancelOrder_AppendsReasonNote(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	order := f.createOrder(t, customer.ID).Order

	output, err := f.useCase.CancelOrder(context.Background(), CancelOrderInput{
		ID:     order.ID,
		Reason: "customer withdrew",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output.Order.Status != domain.StatusCancelled {
		t.Errorf("expected status CANCELLED, got %s", output.Order.Status)
	}
	if !strings.Contains(output.Order.InternalNotes, "[CANCELLED]") ||
		!strings.Contains(output.Order.InternalNotes, "customer withdrew") {
		t.Errorf("expected cancellation note, got %q", output.Order.InternalNotes)
	}
	if f.publisher.cancelled != 1 {
		t.Errorf("expected 1 cancelled event, got %d", f.publisher.cancelled)
	}
}

func TestCancelOrder_RejectedAfterShipping(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	order := f.createOrder(t, customer.ID).Order

	stored := f.repo.orders[order.ID]
	stored.Status = domain.StatusShipped

	_, err := f.useCase.CancelOrder(context.Background(), CancelOrderInput{ID: order.ID})
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestCompleteDelivery_DecrementsStock(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	product := f.addProduct("Widget", "10.00", 10)
	order := f.createOrder(t, customer.ID, OrderItemInput{ProductID: product.ID, Quantity: 4}).Order

	if _, err := f.useCase.ConfirmOrder(context.Background(), ConfirmOrderInput{ID: order.ID}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	output, err := f.useCase.CompleteDelivery(context.Background(), CompleteDeliveryInput{ID: order.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if output.Order.Status != domain.StatusDelivered {
		t.Errorf("expected status DELIVERED, got %s", output.Order.Status)
	}
	if output.Items[0].DeliveredQuantity != 4 || output.Items[0].DeliveryStatus != domain.DeliveryComplete {
		t.Errorf("expected item fully delivered, got %+v", output.Items[0])
	}
	if f.products.products[product.ID].StockQuantity != 6 {
		t.Errorf("expected stock 6, got %d", f.products.products[product.ID].StockQuantity)
	}
	if f.publisher.delivered != 1 {
		t.Errorf("expected 1 delivered event, got %d", f.publisher.delivered)
	}
}

func TestCompleteDelivery_RejectsNegativeStock(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	product := f.addProduct("Widget", "10.00", 5)
	order := f.createOrder(t, customer.ID, OrderItemInput{ProductID: product.ID, Quantity: 5}).Order

	if _, err := f.useCase.ConfirmOrder(context.Background(), ConfirmOrderInput{ID: order.ID}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// stock shrinks between confirmation and delivery
	f.products.products[product.ID].StockQuantity = 3

	_, err := f.useCase.CompleteDelivery(context.Background(), CompleteDeliveryInput{ID: order.ID})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "Widget") {
		t.Errorf("expected error to name the product, got %v", err)
	}
	if f.products.products[product.ID].StockQuantity != 3 {
		t.Errorf("expected stock unchanged at 3, got %d", f.products.products[product.ID].StockQuantity)
	}

	stored, _ := f.repo.GetByID(context.Background(), order.ID)
	if stored.Status != domain.StatusConfirmed {
		t.Errorf("expected status CONFIRMED, got %s", stored.Status)
	}
}

func TestCompleteDelivery_RejectedFromNew(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)
	order := f.createOrder(t, customer.ID).Order

	_, err := f.useCase.CompleteDelivery(context.Background(), CompleteDeliveryInput{ID: order.ID})
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestOpenOrdersByCustomer(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)

	open := f.createOrder(t, customer.ID).Order
	cancelled := f.createOrder(t, customer.ID).Order
	if _, err := f.useCase.CancelOrder(context.Background(), CancelOrderInput{ID: cancelled.ID}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	orders, err := f.useCase.OpenOrdersByCustomer(context.Background(),
		OpenOrdersByCustomerInput{CustomerID: customer.ID})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(orders) != 1 || orders[0].ID != open.ID {
		t.Errorf("expected only the open order, got %d orders", len(orders))
	}
}

func TestOrderStatistics(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)

	f.createOrder(t, customer.ID)

	delivered := f.repo.orders[f.createOrder(t, customer.ID).Order.ID]
	delivered.Status = domain.StatusDelivered
	delivered.GrossAmount = decimal.RequireFromString("100.00")

	completed := f.repo.orders[f.createOrder(t, customer.ID).Order.ID]
	completed.Status = domain.StatusCompleted
	completed.GrossAmount = decimal.RequireFromString("50.50")

	stats, err := f.useCase.OrderStatistics(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if stats.TotalOrders != 3 {
		t.Errorf("expected 3 orders, got %d", stats.TotalOrders)
	}
	if stats.OpenOrders != 1 {
		t.Errorf("expected 1 open order, got %d", stats.OpenOrders)
	}
	if stats.TotalRevenue.String() != "150.5" {
		t.Errorf("expected revenue 150.5, got %s", stats.TotalRevenue)
	}
	if stats.AvgOrderValue.String() != "75.25" {
		t.Errorf("expected avg 75.25, got %s", stats.AvgOrderValue)
	}
}

func TestNextOrderNumber_DoesNotReserve(t *testing.T) {
	f := newFixture()
	customer := f.addCustomer(false)

	number, err := f.useCase.NextOrderNumber(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if number != "ORD-2025-0001" {
		t.Errorf("expected ORD-2025-0001, got %s", number)
	}

	// the dry run must not consume the number
	order := f.createOrder(t, customer.ID).Order
	if order.OrderNumber != "ORD-2025-0001" {
		t.Errorf("expected ORD-2025-0001, got %s", order.OrderNumber)
	}
}
