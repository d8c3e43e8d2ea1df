package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOrderStatus(t *testing.T) {
	valid := []string{"pending", "confirmed", "processing", "shipped", "delivered", "cancelled"}
	for _, s := range valid {
		t.Run(s, func(t *testing.T) {
			status, err := ParseOrderStatus(s)
			require.NoError(t, err)
			assert.Equal(t, OrderStatus(s), status)
		})
	}

	for _, s := range []string{"", "PENDING", "unknown", "refunded"} {
		t.Run("invalid_"+s, func(t *testing.T) {
			_, err := ParseOrderStatus(s)
			assert.ErrorIs(t, err, ErrInvalidOrderStatus)
		})
	}
}

func TestParsePaymentStatus(t *testing.T) {
	for _, s := range []string{"pending", "completed", "failed", "refunded"} {
		status, err := ParsePaymentStatus(s)
		require.NoError(t, err)
		assert.Equal(t, PaymentStatus(s), status)
	}

	_, err := ParsePaymentStatus("shipped")
	assert.ErrorIs(t, err, ErrInvalidPaymentStatus)
}

func TestParsePaymentMethod(t *testing.T) {
	for _, s := range []string{"stripe", "paypal", "cash_on_delivery"} {
		method, err := ParsePaymentMethod(s)
		require.NoError(t, err)
		assert.Equal(t, PaymentMethod(s), method)
	}

	_, err := ParsePaymentMethod("bitcoin")
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
}

func TestCanBeCancelled(t *testing.T) {
	cases := []struct {
		status OrderStatus
		want   bool
	}{
		{OrderStatusPending, true},
		{OrderStatusConfirmed, true},
		{OrderStatusProcessing, false},
		{OrderStatusShipped, false},
		{OrderStatusDelivered, false},
		{OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			order := &Order{Status: tc.status}
			assert.Equal(t, tc.want, order.CanBeCancelled())
		})
	}
}

func TestApplyStatusStampsShippedAt(t *testing.T) {
	order := &Order{Status: OrderStatusProcessing}
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)

	order.ApplyStatus(OrderStatusShipped, now)

	assert.Equal(t, OrderStatusShipped, order.Status)
	require.NotNil(t, order.ShippedAt)
	assert.Equal(t, now, *order.ShippedAt)
	assert.Nil(t, order.DeliveredAt)
}

func TestApplyStatusStampsTimestampsOnce(t *testing.T) {
	first := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	later := first.Add(48 * time.Hour)

	order := &Order{Status: OrderStatusProcessing}
	order.ApplyStatus(OrderStatusShipped, first)
	order.ApplyStatus(OrderStatusShipped, later)

	require.NotNil(t, order.ShippedAt)
	assert.Equal(t, first, *order.ShippedAt)

	order.ApplyStatus(OrderStatusDelivered, later)
	order.ApplyStatus(OrderStatusDelivered, later.Add(time.Hour))

	require.NotNil(t, order.DeliveredAt)
	assert.Equal(t, later, *order.DeliveredAt)
}

func TestApplyStatusAllowsAnyTransition(t *testing.T) {
	// 管理端不限制迁移方向
	order := &Order{Status: OrderStatusDelivered}
	order.ApplyStatus(OrderStatusPending, time.Now())
	assert.Equal(t, OrderStatusPending, order.Status)
}

func TestFormatOrderNumber(t *testing.T) {
	day := time.Date(2025, 1, 15, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "AG-20250115-0007", FormatOrderNumber("AG", day, 7))
	assert.Equal(t, "AG-20250115-0042", FormatOrderNumber("AG", day, 42))
	assert.Equal(t, "AG-20250115-12345", FormatOrderNumber("AG", day, 12345))
}
