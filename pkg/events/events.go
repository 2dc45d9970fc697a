package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Exchange names
const (
	ExchangeCustomers = "customers.events"
	ExchangeProducts  = "products.events"
	ExchangeOrders    = "orders.events"
)

// Routing keys
const (
	RoutingKeyCustomerCreated     = "customer.created"
	RoutingKeyCustomerBlocked     = "customer.blocked"
	RoutingKeyProductPriceChanged = "product.price-changed"
	RoutingKeyProductStockAdjust  = "product.stock-adjusted"
	RoutingKeyOrderCreated        = "order.created"
	RoutingKeyOrderConfirmed      = "order.confirmed"
	RoutingKeyOrderCancelled      = "order.cancelled"
	RoutingKeyOrderDelivered      = "order.delivered"
)

// Envelope is the common wrapper for all published events
type Envelope struct {
	Version   string      `json:"version"`
	EventType string      `json:"event_type"`
	Timestamp time.Time   `json:"timestamp"`
	TraceID   string      `json:"trace_id"`
	Payload   interface{} `json:"payload"`
}

func newEnvelope(eventType, traceID string, payload interface{}) *Envelope {
	return &Envelope{
		Version:   "1.0",
		EventType: eventType,
		Timestamp: time.Now(),
		TraceID:   traceID,
		Payload:   payload,
	}
}

// CustomerPayload contains customer data
type CustomerPayload struct {
	ID             uuid.UUID `json:"id"`
	CustomerNumber string    `json:"customer_number"`
	Status         string    `json:"status"`
}

// NewCustomerCreatedEvent creates a customer.created event
func NewCustomerCreatedEvent(id uuid.UUID, number, status, traceID string) *Envelope {
	return newEnvelope(RoutingKeyCustomerCreated, traceID,
		CustomerPayload{ID: id, CustomerNumber: number, Status: status})
}

// NewCustomerBlockedEvent creates a customer.blocked event
func NewCustomerBlockedEvent(id uuid.UUID, number, traceID string) *Envelope {
	return newEnvelope(RoutingKeyCustomerBlocked, traceID,
		CustomerPayload{ID: id, CustomerNumber: number, Status: "BLOCKED"})
}

// PriceChangedPayload contains old and new product price
type PriceChangedPayload struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductNumber string          `json:"product_number"`
	OldPrice      decimal.Decimal `json:"old_price"`
	NewPrice      decimal.Decimal `json:"new_price"`
	Currency      string          `json:"currency"`
}

// NewProductPriceChangedEvent creates a product.price-changed event
func NewProductPriceChangedEvent(id uuid.UUID, number string, oldPrice, newPrice decimal.Decimal, currency, traceID string) *Envelope {
	return newEnvelope(RoutingKeyProductPriceChanged, traceID, PriceChangedPayload{
		ProductID:     id,
		ProductNumber: number,
		OldPrice:      oldPrice,
		NewPrice:      newPrice,
		Currency:      currency,
	})
}

// StockAdjustedPayload contains the stock movement
type StockAdjustedPayload struct {
	ProductID     uuid.UUID `json:"product_id"`
	ProductNumber string    `json:"product_number"`
	OldStock      int       `json:"old_stock"`
	NewStock      int       `json:"new_stock"`
	Reason        string    `json:"reason,omitempty"`
}

// NewProductStockAdjustedEvent creates a product.stock-adjusted event
func NewProductStockAdjustedEvent(id uuid.UUID, number string, oldStock, newStock int, reason, traceID string) *Envelope {
	return newEnvelope(RoutingKeyProductStockAdjust, traceID, StockAdjustedPayload{
		ProductID:     id,
		ProductNumber: number,
		OldStock:      oldStock,
		NewStock:      newStock,
		Reason:        reason,
	})
}

// OrderPayload contains order data
type OrderPayload struct {
	ID          uuid.UUID       `json:"id"`
	OrderNumber string          `json:"order_number"`
	CustomerID  uuid.UUID       `json:"customer_id"`
	Status      string          `json:"status"`
	GrossAmount decimal.Decimal `json:"gross_amount"`
}

// NewOrderEvent creates an order lifecycle event for the given routing key
func NewOrderEvent(routingKey string, id uuid.UUID, number string, customerID uuid.UUID, status string, gross decimal.Decimal, traceID string) *Envelope {
	return newEnvelope(routingKey, traceID, OrderPayload{
		ID:          id,
		OrderNumber: number,
		CustomerID:  customerID,
		Status:      status,
		GrossAmount: gross,
	})
}
