package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the tax rate in percent applied when neither the
// caller nor the product supplies one.
var DefaultTaxRate = decimal.NewFromInt(19)

var oneHundred = decimal.NewFromInt(100)

// ProductInfo is the slice of product data order pricing needs. It is
// filled from the products context by a read-only store.
type ProductInfo struct {
	ID            uuid.UUID
	ProductNumber string
	Name          string
	BasePrice     decimal.Decimal
	TaxRate       decimal.Decimal
	UnitOfMeasure string
	StockQuantity int
	IsActive      bool
}

// NewOrderItem builds a priced order line for a product. Unit price, tax
// rate and unit of measure fall back to the product's values when not
// supplied; the discount defaults to zero. Inactive products are rejected
// by name.
func NewOrderItem(orderID uuid.UUID, product *ProductInfo, quantity int,
	unitPrice, discount, taxRate *decimal.Decimal, unitOfMeasure string) (*OrderItem, error) {

	if !product.IsActive {
		return nil, NewProductInactive(product.Name)
	}
	if quantity <= 0 {
		return nil, ErrQuantityNotPositive
	}

	item := &OrderItem{
		ID:             uuid.New(),
		OrderID:        orderID,
		ProductID:      product.ID,
		Quantity:       quantity,
		UnitOfMeasure:  unitOfMeasure,
		Discount:       decimal.Zero,
		DeliveryStatus: DeliveryOpen,
	}

	item.UnitPrice = product.BasePrice
	if unitPrice != nil {
		item.UnitPrice = *unitPrice
	}

	item.TaxRate = product.TaxRate
	if item.TaxRate.IsZero() {
		item.TaxRate = DefaultTaxRate
	}
	if taxRate != nil {
		item.TaxRate = *taxRate
	}

	if discount != nil {
		item.Discount = *discount
	}
	if item.UnitOfMeasure == "" {
		item.UnitOfMeasure = product.UnitOfMeasure
	}

	if err := item.ComputeAmounts(); err != nil {
		return nil, err
	}

	return item, nil
}

// ComputeAmounts derives the line's net and tax amount:
//
//	net = round(quantity × unitPrice × (1 − discount/100), 2)
//	tax = round(net × taxRate/100, 2)
func (i *OrderItem) ComputeAmounts() error {
	if i.Quantity <= 0 {
		return ErrQuantityNotPositive
	}
	if i.UnitPrice.IsNegative() {
		return ErrNegativeUnitPrice
	}
	if i.Discount.IsNegative() || i.Discount.GreaterThan(oneHundred) {
		return ErrDiscountOutOfRange
	}

	qty := decimal.NewFromInt(int64(i.Quantity))
	discountFactor := decimal.NewFromInt(1).Sub(i.Discount.Div(oneHundred))

	i.NetAmount = qty.Mul(i.UnitPrice).Mul(discountFactor).Round(2)
	i.TaxAmount = i.NetAmount.Mul(i.TaxRate).Div(oneHundred).Round(2)
	return nil
}

// Totals holds an order's derived amounts
type Totals struct {
	Net   decimal.Decimal
	Tax   decimal.Decimal
	Gross decimal.Decimal
}

// CalculateTotals sums an item set into order totals. Each sum is rounded
// to two decimals, gross = net + tax. An empty set yields zero totals, so
// deleting the last item resets the order. The calculation is a pure
// function of the item set and therefore idempotent.
func CalculateTotals(items []*OrderItem) Totals {
	net := decimal.Zero
	tax := decimal.Zero

	for _, item := range items {
		net = net.Add(item.NetAmount)
		tax = tax.Add(item.TaxAmount)
	}

	net = net.Round(2)
	tax = tax.Round(2)

	return Totals{
		Net:   net,
		Tax:   tax,
		Gross: net.Add(tax),
	}
}
