package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm_OnlyFromNew(t *testing.T) {
	order := NewOrder(uuid.New(), time.Now())
	require.NoError(t, order.Confirm())
	assert.Equal(t, StatusConfirmed, order.Status)

	assert.Error(t, order.Confirm())
}

func TestCancel_AppendsNote(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	order := NewOrder(uuid.New(), at)
	require.NoError(t, order.Cancel("customer withdrew", at))

	assert.Equal(t, StatusCancelled, order.Status)
	assert.Equal(t, "[CANCELLED] 2025-03-01T09:30:00Z: customer withdrew", order.InternalNotes)
}

func TestCancel_DefaultReasonAndNotePreserved(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	order := NewOrder(uuid.New(), at)
	order.AppendNote("rush order")
	require.NoError(t, order.Cancel("", at))

	assert.Equal(t, "rush order\n[CANCELLED] 2025-03-01T09:30:00Z: no reason given", order.InternalNotes)
}

func TestCancel_RejectedAfterShipping(t *testing.T) {
	for _, status := range []OrderStatus{StatusShipped, StatusDelivered, StatusCompleted} {
		order := NewOrder(uuid.New(), time.Now())
		order.Status = status

		err := order.Cancel("too late", time.Now())
		assert.Error(t, err, "status %s", status)
		assert.Equal(t, status, order.Status)
		assert.Empty(t, order.InternalNotes)
	}
}

func TestMarkDelivered_States(t *testing.T) {
	for _, status := range []OrderStatus{StatusConfirmed, StatusInProcess, StatusShipped} {
		order := NewOrder(uuid.New(), time.Now())
		order.Status = status

		require.NoError(t, order.MarkDelivered(), "status %s", status)
		assert.Equal(t, StatusDelivered, order.Status)
	}

	for _, status := range []OrderStatus{StatusNew, StatusDelivered, StatusCompleted, StatusCancelled} {
		order := NewOrder(uuid.New(), time.Now())
		order.Status = status

		assert.Error(t, order.MarkDelivered(), "status %s", status)
	}
}

func TestItemMarkDelivered(t *testing.T) {
	item := &OrderItem{Quantity: 4, DeliveryStatus: DeliveryOpen}
	item.MarkDelivered()

	assert.Equal(t, 4, item.DeliveredQuantity)
	assert.Equal(t, DeliveryComplete, item.DeliveryStatus)
}
