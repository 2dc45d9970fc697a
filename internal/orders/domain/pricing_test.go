package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func activeProduct() *ProductInfo {
	return &ProductInfo{
		ID:            uuid.New(),
		ProductNumber: "PRD-001",
		Name:          "Widget",
		BasePrice:     decimal.RequireFromString("10.00"),
		TaxRate:       decimal.NewFromInt(19),
		UnitOfMeasure: "PCE",
		StockQuantity: 100,
		IsActive:      true,
	}
}

func TestNewOrderItem_ComputesAmounts(t *testing.T) {
	discount := decimal.NewFromInt(10)

	item, err := NewOrderItem(uuid.New(), activeProduct(), 3, nil, &discount, nil, "")
	require.NoError(t, err)

	assert.Equal(t, "27", item.NetAmount.String())
	assert.Equal(t, "5.13", item.TaxAmount.String())
}

func TestNewOrderItem_DefaultsFromProduct(t *testing.T) {
	item, err := NewOrderItem(uuid.New(), activeProduct(), 2, nil, nil, nil, "")
	require.NoError(t, err)

	assert.Equal(t, "10", item.UnitPrice.String())
	assert.Equal(t, "19", item.TaxRate.String())
	assert.Equal(t, "PCE", item.UnitOfMeasure)
	assert.True(t, item.Discount.IsZero())
	assert.Equal(t, DeliveryOpen, item.DeliveryStatus)
}

func TestNewOrderItem_OverridesWin(t *testing.T) {
	price := decimal.RequireFromString("8.50")
	taxRate := decimal.NewFromInt(7)

	item, err := NewOrderItem(uuid.New(), activeProduct(), 1, &price, nil, &taxRate, "BOX")
	require.NoError(t, err)

	assert.Equal(t, "8.5", item.UnitPrice.String())
	assert.Equal(t, "7", item.TaxRate.String())
	assert.Equal(t, "BOX", item.UnitOfMeasure)
}

func TestNewOrderItem_FallbackTaxRate(t *testing.T) {
	product := activeProduct()
	product.TaxRate = decimal.Zero

	item, err := NewOrderItem(uuid.New(), product, 1, nil, nil, nil, "")
	require.NoError(t, err)

	assert.True(t, item.TaxRate.Equal(DefaultTaxRate))
}

func TestNewOrderItem_RejectsInactiveProduct(t *testing.T) {
	product := activeProduct()
	product.IsActive = false

	_, err := NewOrderItem(uuid.New(), product, 1, nil, nil, nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Widget")
}

func TestNewOrderItem_RejectsBadQuantity(t *testing.T) {
	_, err := NewOrderItem(uuid.New(), activeProduct(), 0, nil, nil, nil, "")
	assert.Error(t, err)

	_, err = NewOrderItem(uuid.New(), activeProduct(), -1, nil, nil, nil, "")
	assert.Error(t, err)
}

func TestComputeAmounts_RejectsDiscountOutOfRange(t *testing.T) {
	discount := decimal.NewFromInt(101)
	_, err := NewOrderItem(uuid.New(), activeProduct(), 1, nil, &discount, nil, "")
	assert.Error(t, err)

	discount = decimal.NewFromInt(-1)
	_, err = NewOrderItem(uuid.New(), activeProduct(), 1, nil, &discount, nil, "")
	assert.Error(t, err)
}

func TestCalculateTotals(t *testing.T) {
	items := []*OrderItem{
		{NetAmount: decimal.RequireFromString("27.00"), TaxAmount: decimal.RequireFromString("5.13")},
		{NetAmount: decimal.RequireFromString("10.00"), TaxAmount: decimal.RequireFromString("1.90")},
	}

	totals := CalculateTotals(items)
	assert.Equal(t, "37", totals.Net.String())
	assert.Equal(t, "7.03", totals.Tax.String())
	assert.Equal(t, "44.03", totals.Gross.String())
}

func TestCalculateTotals_EmptySet(t *testing.T) {
	totals := CalculateTotals(nil)
	assert.True(t, totals.Net.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Gross.IsZero())
}

func TestCalculateTotals_Idempotent(t *testing.T) {
	items := []*OrderItem{
		{NetAmount: decimal.RequireFromString("1.11"), TaxAmount: decimal.RequireFromString("0.21")},
		{NetAmount: decimal.RequireFromString("2.22"), TaxAmount: decimal.RequireFromString("0.42")},
	}

	first := CalculateTotals(items)
	second := CalculateTotals(items)

	assert.True(t, first.Net.Equal(second.Net))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Gross.Equal(second.Gross))
}
