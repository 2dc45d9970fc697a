package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ordermgmt/internal/orders/domain"
	"ordermgmt/internal/orders/ports"
	"ordermgmt/pkg/errors"
	"ordermgmt/pkg/logger"
	"ordermgmt/pkg/sequence"
)

// Order statuses that count as open for customer queries
var openOrderStatuses = map[domain.OrderStatus]bool{
	domain.StatusNew:       true,
	domain.StatusConfirmed: true,
	domain.StatusInProcess: true,
}

// Order statuses that count as open for order statistics; shipped orders
// are still in flight from the warehouse's point of view
var inFlightStatuses = map[domain.OrderStatus]bool{
	domain.StatusNew:       true,
	domain.StatusConfirmed: true,
	domain.StatusInProcess: true,
	domain.StatusShipped:   true,
}

// Order statuses that count as completed revenue
var completedStatuses = map[domain.OrderStatus]bool{
	domain.StatusDelivered: true,
	domain.StatusCompleted: true,
}

// OrderUseCase handles order business logic
type OrderUseCase struct {
	repo        ports.OrderRepository
	products    ports.ProductStore
	customers   ports.CustomerStore
	publisher   ports.EventPublisher
	log         *logger.Logger
	seqAttempts int
	now         func() time.Time
}

// NewOrderUseCase creates a new order use case
func NewOrderUseCase(
	repo ports.OrderRepository,
	products ports.ProductStore,
	customers ports.CustomerStore,
	publisher ports.EventPublisher,
	log *logger.Logger,
	sequenceRetries int,
) *OrderUseCase {
	if sequenceRetries < 1 {
		sequenceRetries = 1
	}
	return &OrderUseCase{
		repo:        repo,
		products:    products,
		customers:   customers,
		publisher:   publisher,
		log:         log,
		seqAttempts: sequenceRetries,
		now:         time.Now,
	}
}

// OrderItemInput represents one order line in a create or add request.
// Nil price fields fall back to the product's values.
type OrderItemInput struct {
	ProductID     uuid.UUID
	Quantity      int
	UnitPrice     *decimal.Decimal
	Discount      *decimal.Decimal
	TaxRate       *decimal.Decimal
	UnitOfMeasure string
}

// CreateOrderInput represents the input for creating an order
type CreateOrderInput struct {
	OrderNumber string // assigned from the sequence when empty
	CustomerID  uuid.UUID
	OrderDate   *time.Time
	Items       []OrderItemInput
}

// CreateOrderOutput represents the output of creating an order
type CreateOrderOutput struct {
	Order *domain.Order
	Items []*domain.OrderItem
}

// CreateOrder creates an order with its initial items in one transaction.
// Orders for blocked customers are rejected naming the customer. The
// order number is assigned per year from the sequence; on a collision
// with a concurrent creation the number is re-derived and the insert
// retried.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderOutput, error) {
	customer, err := uc.customers.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer.Blocked {
		return nil, domain.NewCustomerBlocked(customerName(customer))
	}

	orderDate := uc.now()
	if input.OrderDate != nil {
		orderDate = *input.OrderDate
	}

	order := domain.NewOrder(input.CustomerID, orderDate)

	items := make([]*domain.OrderItem, 0, len(input.Items))
	for idx, itemInput := range input.Items {
		item, err := uc.priceItem(ctx, order.ID, itemInput)
		if err != nil {
			return nil, err
		}
		item.ItemNumber = (idx + 1) * domain.ItemNumberStep
		items = append(items, item)
	}

	totals := domain.CalculateTotals(items)
	order.NetAmount = totals.Net
	order.TaxAmount = totals.Tax
	order.GrossAmount = totals.Gross

	assignNumber := input.OrderNumber == ""
	order.OrderNumber = input.OrderNumber
	year := orderDate.Year()

	for attempt := 0; attempt < uc.seqAttempts; attempt++ {
		if assignNumber {
			highest, err := uc.repo.HighestOrderNumber(ctx, sequence.OrderPrefix(year))
			if err != nil {
				return nil, err
			}
			order.OrderNumber, err = sequence.NextOrderNumber(year, highest)
			if err != nil {
				return nil, err
			}
		}

		err = uc.repo.Transaction(ctx, func(repo ports.OrderRepository) error {
			if err := repo.Create(ctx, order); err != nil {
				return err
			}
			for _, item := range items {
				if err := repo.CreateItem(ctx, item); err != nil {
					return err
				}
			}
			return nil
		})
		if err == nil {
			break
		}
		if assignNumber && errors.Is(err, errors.CodeConflict) {
			continue
		}
		return nil, err
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to assign order number")
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderCreated(ctx, order); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish order created event",
				zap.Error(err),
				zap.String("order_number", order.OrderNumber),
			)
		}
	}

	uc.log.WithContext(ctx).Info("order created",
		zap.String("order_number", order.OrderNumber),
		zap.String("customer_number", customer.CustomerNumber),
		zap.Int("items", len(items)),
	)

	return &CreateOrderOutput{Order: order, Items: items}, nil
}

// priceItem loads the referenced product and builds a priced order line
func (uc *OrderUseCase) priceItem(ctx context.Context, orderID uuid.UUID, input OrderItemInput) (*domain.OrderItem, error) {
	product, err := uc.products.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	return domain.NewOrderItem(orderID, product, input.Quantity,
		input.UnitPrice, input.Discount, input.TaxRate, input.UnitOfMeasure)
}

// GetOrderInput represents the input for getting an order
type GetOrderInput struct {
	ID uuid.UUID
}

// GetOrderOutput represents the output of getting an order
type GetOrderOutput struct {
	Order *domain.Order
	Items []*domain.OrderItem
}

// GetOrder retrieves an order with its items
func (uc *OrderUseCase) GetOrder(ctx context.Context, input GetOrderInput) (*GetOrderOutput, error) {
	order, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	items, err := uc.repo.ListItems(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &GetOrderOutput{Order: order, Items: items}, nil
}

// AddItemInput represents the input for adding an order item
type AddItemInput struct {
	OrderID uuid.UUID
	Item    OrderItemInput
}

// AddItemOutput represents the output of adding an order item
type AddItemOutput struct {
	Item   *domain.OrderItem
	Totals domain.Totals
}

// AddItem appends a priced line to an order and recomputes the order
// totals within the same transaction. Item numbers continue in steps of
// ten after the highest existing line.
func (uc *OrderUseCase) AddItem(ctx context.Context, input AddItemInput) (*AddItemOutput, error) {
	item, err := uc.priceItem(ctx, input.OrderID, input.Item)
	if err != nil {
		return nil, err
	}

	var totals domain.Totals
	err = uc.repo.Transaction(ctx, func(repo ports.OrderRepository) error {
		if _, err := repo.GetByID(ctx, input.OrderID); err != nil {
			return err
		}

		highest, err := repo.HighestItemNumber(ctx, input.OrderID)
		if err != nil {
			return err
		}
		item.ItemNumber = highest + domain.ItemNumberStep

		if err := repo.CreateItem(ctx, item); err != nil {
			return err
		}

		totals, err = uc.recalculateTotals(ctx, repo, input.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &AddItemOutput{Item: item, Totals: totals}, nil
}

// UpdateItemInput represents the input for updating an order item.
// Nil fields are left unchanged.
type UpdateItemInput struct {
	ItemID    uuid.UUID
	Quantity  *int
	UnitPrice *decimal.Decimal
	Discount  *decimal.Decimal
	TaxRate   *decimal.Decimal
}

// UpdateItemOutput represents the output of updating an order item
type UpdateItemOutput struct {
	Item   *domain.OrderItem
	Totals domain.Totals
}

// UpdateItem applies the supplied fields, rederives the line amounts and
// recomputes the order totals within the same transaction
func (uc *OrderUseCase) UpdateItem(ctx context.Context, input UpdateItemInput) (*UpdateItemOutput, error) {
	var item *domain.OrderItem
	var totals domain.Totals

	err := uc.repo.Transaction(ctx, func(repo ports.OrderRepository) error {
		var err error
		item, err = repo.GetItem(ctx, input.ItemID)
		if err != nil {
			return err
		}

		if input.Quantity != nil {
			item.Quantity = *input.Quantity
		}
		if input.UnitPrice != nil {
			item.UnitPrice = *input.UnitPrice
		}
		if input.Discount != nil {
			item.Discount = *input.Discount
		}
		if input.TaxRate != nil {
			item.TaxRate = *input.TaxRate
		}

		if err := item.ComputeAmounts(); err != nil {
			return err
		}
		if err := repo.UpdateItem(ctx, item); err != nil {
			return err
		}

		totals, err = uc.recalculateTotals(ctx, repo, item.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &UpdateItemOutput{Item: item, Totals: totals}, nil
}

// DeleteItemInput represents the input for deleting an order item
type DeleteItemInput struct {
	ItemID uuid.UUID
}

// DeleteItemOutput represents the output of deleting an order item
type DeleteItemOutput struct {
	Totals domain.Totals
}

// DeleteItem removes a line and recomputes the order totals within the
// same transaction. Deleting the last line resets the totals to zero.
func (uc *OrderUseCase) DeleteItem(ctx context.Context, input DeleteItemInput) (*DeleteItemOutput, error) {
	var totals domain.Totals

	err := uc.repo.Transaction(ctx, func(repo ports.OrderRepository) error {
		item, err := repo.GetItem(ctx, input.ItemID)
		if err != nil {
			return err
		}
		if err := repo.DeleteItem(ctx, input.ItemID); err != nil {
			return err
		}

		totals, err = uc.recalculateTotals(ctx, repo, item.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return &DeleteItemOutput{Totals: totals}, nil
}

// recalculateTotals rereads the order's item set, derives fresh totals
// and persists them. Must run inside the mutating transaction.
func (uc *OrderUseCase) recalculateTotals(ctx context.Context, repo ports.OrderRepository, orderID uuid.UUID) (domain.Totals, error) {
	items, err := repo.ListItems(ctx, orderID)
	if err != nil {
		return domain.Totals{}, err
	}

	totals := domain.CalculateTotals(items)
	return totals, repo.UpdateTotals(ctx, orderID, totals)
}

// ConfirmOrderInput represents the input for confirming an order
type ConfirmOrderInput struct {
	ID uuid.UUID
}

// ConfirmOrderOutput represents the output of confirming an order
type ConfirmOrderOutput struct {
	Order *domain.Order
}

// ConfirmOrder transitions a NEW order to CONFIRMED after checking that
// every line's product has enough stock. The first short product aborts
// the confirmation, named together with its available quantity.
func (uc *OrderUseCase) ConfirmOrder(ctx context.Context, input ConfirmOrderInput) (*ConfirmOrderOutput, error) {
	var order *domain.Order

	err := uc.repo.Transaction(ctx, func(repo ports.OrderRepository) error {
		var err error
		order, err = repo.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}

		if err := order.Confirm(); err != nil {
			return err
		}

		items, err := repo.ListItems(ctx, input.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			product, err := uc.products.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product.StockQuantity < item.Quantity {
				return domain.NewInsufficientStock(product.Name, product.StockQuantity, item.Quantity)
			}
		}

		return repo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderConfirmed(ctx, order); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish order confirmed event",
				zap.Error(err),
				zap.String("order_number", order.OrderNumber),
			)
		}
	}

	uc.log.WithContext(ctx).Info("order confirmed",
		zap.String("order_number", order.OrderNumber),
	)

	return &ConfirmOrderOutput{Order: order}, nil
}

// CancelOrderInput represents the input for cancelling an order
type CancelOrderInput struct {
	ID     uuid.UUID
	Reason string
}

// CancelOrderOutput represents the output of cancelling an order
type CancelOrderOutput struct {
	Order *domain.Order
}

// CancelOrder transitions an order to CANCELLED and records the reason
// in the internal notes log
func (uc *OrderUseCase) CancelOrder(ctx context.Context, input CancelOrderInput) (*CancelOrderOutput, error) {
	order, err := uc.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(input.Reason, uc.now()); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, order); err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderCancelled(ctx, order); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish order cancelled event",
				zap.Error(err),
				zap.String("order_number", order.OrderNumber),
			)
		}
	}

	uc.log.WithContext(ctx).Info("order cancelled",
		zap.String("order_number", order.OrderNumber),
	)

	return &CancelOrderOutput{Order: order}, nil
}

// CompleteDeliveryInput represents the input for completing delivery
type CompleteDeliveryInput struct {
	ID uuid.UUID
}

// CompleteDeliveryOutput represents the output of completing delivery
type CompleteDeliveryOutput struct {
	Order *domain.Order
	Items []*domain.OrderItem
}

// CompleteDelivery marks every line as fully delivered, decrements the
// product stock per line and transitions the order to DELIVERED, all in
// one transaction. A decrement that would drive any product's stock
// negative aborts the whole delivery.
func (uc *OrderUseCase) CompleteDelivery(ctx context.Context, input CompleteDeliveryInput) (*CompleteDeliveryOutput, error) {
	var order *domain.Order
	var items []*domain.OrderItem

	err := uc.repo.Transaction(ctx, func(repo ports.OrderRepository) error {
		var err error
		order, err = repo.GetByID(ctx, input.ID)
		if err != nil {
			return err
		}

		if err := order.MarkDelivered(); err != nil {
			return err
		}

		items, err = repo.ListItems(ctx, input.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := repo.DecrementProductStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			item.MarkDelivered()
			if err := repo.UpdateItem(ctx, item); err != nil {
				return err
			}
		}

		return repo.Update(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	if uc.publisher != nil {
		if err := uc.publisher.PublishOrderDelivered(ctx, order); err != nil {
			uc.log.WithContext(ctx).Error("failed to publish order delivered event",
				zap.Error(err),
				zap.String("order_number", order.OrderNumber),
			)
		}
	}

	uc.log.WithContext(ctx).Info("order delivered",
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", len(items)),
	)

	return &CompleteDeliveryOutput{Order: order, Items: items}, nil
}

// OpenOrdersByCustomerInput represents the input for the open-orders query
type OpenOrdersByCustomerInput struct {
	CustomerID uuid.UUID
}

// OpenOrdersByCustomer returns a customer's orders that are still open
// (NEW, CONFIRMED or IN_PROCESS)
func (uc *OrderUseCase) OpenOrdersByCustomer(ctx context.Context, input OpenOrdersByCustomerInput) ([]*domain.Order, error) {
	orders, err := uc.repo.ListByCustomer(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	open := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if openOrderStatuses[order.Status] {
			open = append(open, order)
		}
	}

	return open, nil
}

// OrderStatisticsOutput aggregates the order book
type OrderStatisticsOutput struct {
	TotalOrders   int
	OpenOrders    int
	TotalRevenue  decimal.Decimal
	AvgOrderValue decimal.Decimal
}

// OrderStatistics computes order counts, completed revenue and average
// order value over the whole order book
func (uc *OrderUseCase) OrderStatistics(ctx context.Context) (*OrderStatisticsOutput, error) {
	orders, err := uc.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	out := &OrderStatisticsOutput{
		TotalOrders:   len(orders),
		TotalRevenue:  decimal.Zero,
		AvgOrderValue: decimal.Zero,
	}

	completed := 0
	for _, order := range orders {
		if inFlightStatuses[order.Status] {
			out.OpenOrders++
		}
		if completedStatuses[order.Status] {
			out.TotalRevenue = out.TotalRevenue.Add(order.GrossAmount)
			completed++
		}
	}

	out.TotalRevenue = out.TotalRevenue.Round(2)
	if completed > 0 {
		out.AvgOrderValue = out.TotalRevenue.Div(decimal.NewFromInt(int64(completed))).Round(2)
	}

	return out, nil
}

// NextOrderNumber returns the number the next order would receive in the
// current year. The number is not reserved; assignment happens on creation.
func (uc *OrderUseCase) NextOrderNumber(ctx context.Context) (string, error) {
	year := uc.now().Year()
	highest, err := uc.repo.HighestOrderNumber(ctx, sequence.OrderPrefix(year))
	if err != nil {
		return "", err
	}
	return sequence.NextOrderNumber(year, highest)
}

func customerName(customer *ports.CustomerInfo) string {
	if customer.Name != "" {
		return customer.Name
	}
	return customer.CustomerNumber
}
