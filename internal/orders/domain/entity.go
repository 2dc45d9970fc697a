package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle state of an order
type OrderStatus string

// Order statuses
const (
	StatusNew       OrderStatus = "NEW"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusInProcess OrderStatus = "IN_PROCESS"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCompleted OrderStatus = "COMPLETED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// DeliveryStatus represents the delivery state of an order item
type DeliveryStatus string

// Delivery statuses
const (
	DeliveryOpen     DeliveryStatus = "OPEN"
	DeliveryPartial  DeliveryStatus = "PARTIAL"
	DeliveryComplete DeliveryStatus = "COMPLETE"
)

// DefaultCurrency is used when an order is created without one
// (single-currency setup).
const DefaultCurrency = "EUR"

// ItemNumberStep is the spacing between consecutive item numbers,
// leaving room for manual insertions between lines.
const ItemNumberStep = 10

// Order represents the order domain entity. Totals are derived from the
// item set and never set directly by callers.
type Order struct {
	ID            uuid.UUID
	OrderNumber   string
	CustomerID    uuid.UUID
	OrderDate     time.Time
	Status        OrderStatus
	Currency      string
	NetAmount     decimal.Decimal
	TaxAmount     decimal.Decimal
	GrossAmount   decimal.Decimal
	InternalNotes string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewOrder creates a new order in status NEW
func NewOrder(customerID uuid.UUID, orderDate time.Time) *Order {
	return &Order{
		ID:          uuid.New(),
		CustomerID:  customerID,
		OrderDate:   orderDate,
		Status:      StatusNew,
		Currency:    DefaultCurrency,
		NetAmount:   decimal.Zero,
		TaxAmount:   decimal.Zero,
		GrossAmount: decimal.Zero,
	}
}

// Confirm transitions the order to CONFIRMED. Only orders in status NEW
// can be confirmed; stock coverage is checked by the caller before the
// transition is applied.
func (o *Order) Confirm() error {
	if o.Status != StatusNew {
		return NewInvalidTransition("confirmed", o.Status)
	}
	o.Status = StatusConfirmed
	return nil
}

// Cancel transitions the order to CANCELLED and appends a timestamped
// note to the internal notes log. Orders that have left the warehouse
// (SHIPPED, DELIVERED, COMPLETED) can no longer be cancelled.
func (o *Order) Cancel(reason string, at time.Time) error {
	switch o.Status {
	case StatusShipped, StatusDelivered, StatusCompleted:
		return NewInvalidTransition("cancelled", o.Status)
	}

	if reason == "" {
		reason = "no reason given"
	}

	o.AppendNote(fmt.Sprintf("[CANCELLED] %s: %s", at.Format(time.RFC3339), reason))
	o.Status = StatusCancelled
	return nil
}

// MarkDelivered transitions the order to DELIVERED. Delivery requires a
// confirmed order; partially processed and shipped orders qualify too.
func (o *Order) MarkDelivered() error {
	switch o.Status {
	case StatusConfirmed, StatusInProcess, StatusShipped:
		o.Status = StatusDelivered
		return nil
	}
	return NewInvalidTransition("delivered", o.Status)
}

// AppendNote adds a line to the internal notes log. Existing notes are
// never overwritten.
func (o *Order) AppendNote(note string) {
	if o.InternalNotes == "" {
		o.InternalNotes = note
		return
	}
	o.InternalNotes += "\n" + note
}

// OrderItem represents one line of an order. Net and tax amounts are
// derived from quantity, price, discount and tax rate.
type OrderItem struct {
	ID                uuid.UUID
	OrderID           uuid.UUID
	ProductID         uuid.UUID
	ItemNumber        int
	Quantity          int
	UnitOfMeasure     string
	UnitPrice         decimal.Decimal
	Discount          decimal.Decimal
	TaxRate           decimal.Decimal
	NetAmount         decimal.Decimal
	TaxAmount         decimal.Decimal
	DeliveredQuantity int
	DeliveryStatus    DeliveryStatus
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MarkDelivered records full delivery of the line
func (i *OrderItem) MarkDelivered() {
	i.DeliveredQuantity = i.Quantity
	i.DeliveryStatus = DeliveryComplete
}
