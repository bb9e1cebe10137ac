package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto_pos_backend/internal/models"
)

func takeawayRequest(payer float64) CreateOrderRequest {
	return CreateOrderRequest{
		Type:          string(models.OrderTypeTakeaway),
		Items:         []CreateOrderItemRequest{{ProductID: "p-burger", Quantity: 2}}, // 11.00
		PaymentMethod: string(models.PaymentMethodCash),
		PayerAmount:   payer,
		StaffName:     "dana",
	}
}

func dineInRequest(table int, payer float64) CreateOrderRequest {
	req := takeawayRequest(payer)
	req.Type = string(models.OrderTypeDineIn)
	req.TableNumber = intPtr(table)
	return req
}

func TestCreateOrderTakeawayPaidInFull(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)

	assert.Equal(t, int64(1), order.ID)
	assert.Equal(t, models.OrderStatusComplete, order.Status)
	assert.Equal(t, 11.00, order.Total)
	assert.Equal(t, 11.00, order.AmountPaid)
	assert.Equal(t, 0.0, order.AmountRemaining)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Burger", order.Items[0].Product.Name)

	stored, err := s.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.Status, stored.Status)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
}

func TestCreateOrderIDsAreSequential(t *testing.T) {
	s := newTestStack(t)

	for want := int64(1); want <= 3; want++ {
		order, err := s.orders.CreateOrder(takeawayRequest(11.00))
		require.NoError(t, err)
		assert.Equal(t, want, order.ID)
	}
}

func TestCreateOrderValidationConsumesNoID(t *testing.T) {
	s := newTestStack(t)

	bad := takeawayRequest(11.00)
	bad.Items = []CreateOrderItemRequest{{ProductID: "p-missing", Quantity: 1}}
	_, err := s.orders.CreateOrder(bad)
	require.ErrorIs(t, err, ErrValidation)

	order, err := s.orders.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)
	assert.Equal(t, int64(1), order.ID)
}

func TestCreateOrderDineInPendingOccupiesTable(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(dineInRequest(3, 0))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, 0.0, order.AmountPaid)
	assert.Equal(t, order.Total, order.AmountRemaining)

	table, err := s.tables.SelectTable(3)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
	require.NotNil(t, table.CurrentOrder)
	assert.Equal(t, order.ID, table.CurrentOrder.ID)
}

func TestCreateOrderDineInOnOccupiedTable(t *testing.T) {
	s := newTestStack(t)

	_, err := s.orders.CreateOrder(dineInRequest(3, 0))
	require.NoError(t, err)

	_, err = s.orders.CreateOrder(dineInRequest(3, 0))
	assert.ErrorIs(t, err, ErrTableOccupied)
}

func TestCreateOrderDineInPaidInFullLeavesTableFree(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(dineInRequest(5, 11.00))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusComplete, order.Status)

	table, err := s.tables.SelectTable(5)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusAvailable, table.Status)
	assert.Nil(t, table.CurrentOrder)
}

func TestCreateOrderDineInRequiresTable(t *testing.T) {
	s := newTestStack(t)

	req := dineInRequest(1, 0)
	req.TableNumber = nil
	_, err := s.orders.CreateOrder(req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderTakeawayUnpaidRejected(t *testing.T) {
	s := newTestStack(t)

	_, err := s.orders.CreateOrder(takeawayRequest(0))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderDeliveryRequiresAddress(t *testing.T) {
	s := newTestStack(t)

	req := takeawayRequest(11.00)
	req.Type = string(models.OrderTypeDelivery)
	_, err := s.orders.CreateOrder(req)
	require.ErrorIs(t, err, ErrValidation)

	req.CustomerAddress = strPtr("12 Main St")
	order, err := s.orders.CreateOrder(req)
	require.NoError(t, err)
	assert.Equal(t, models.OrderTypeDelivery, order.Type)
}

func TestCreateOrderOverpaymentCappedAtTotal(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(takeawayRequest(20.00))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusComplete, order.Status)
	assert.Equal(t, order.Total, order.AmountPaid)
	assert.Equal(t, 0.0, order.AmountRemaining)
}

func TestCreateOrderDiscountApplied(t *testing.T) {
	s := newTestStack(t)

	req := takeawayRequest(0)
	req.DiscountPercent = 10
	req.PayerAmount = 9.90
	order, err := s.orders.CreateOrder(req)
	require.NoError(t, err)
	assert.Equal(t, 11.00, order.Subtotal)
	assert.Equal(t, 1.10, order.DiscountAmount)
	assert.Equal(t, 9.90, order.Total)
	assert.Equal(t, models.OrderStatusComplete, order.Status)
}

func TestRecordPaymentSettlesOrderAndFreesTable(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(dineInRequest(2, 5.00))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusIncomplete, order.Status)
	assert.Equal(t, 6.00, order.AmountRemaining)

	paid, err := s.orders.RecordPayment(order.ID, RecordPaymentRequest{Amount: 6.00})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusComplete, paid.Status)
	assert.Equal(t, 11.00, paid.AmountPaid)
	assert.Equal(t, 0.0, paid.AmountRemaining)

	table, err := s.tables.SelectTable(2)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusAvailable, table.Status)
}

func TestRecordPaymentPartialKeepsOrderIncomplete(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(dineInRequest(2, 0))
	require.NoError(t, err)

	paid, err := s.orders.RecordPayment(order.ID, RecordPaymentRequest{Amount: 4.00})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusIncomplete, paid.Status)
	assert.Equal(t, 4.00, paid.AmountPaid)
	assert.Equal(t, 7.00, paid.AmountRemaining)
	assert.Equal(t, paid.Total, paid.AmountPaid+paid.AmountRemaining)

	table, err := s.tables.SelectTable(2)
	require.NoError(t, err)
	assert.Equal(t, models.TableStatusOccupied, table.Status)
}

func TestRecordPaymentOverpaymentCapped(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(dineInRequest(2, 5.00))
	require.NoError(t, err)

	paid, err := s.orders.RecordPayment(order.ID, RecordPaymentRequest{Amount: 50.00})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusComplete, paid.Status)
	assert.Equal(t, paid.Total, paid.AmountPaid)
	assert.Equal(t, 0.0, paid.AmountRemaining)
}

func TestRecordPaymentOnCompleteOrderRejected(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)

	_, err = s.orders.RecordPayment(order.ID, RecordPaymentRequest{Amount: 1.00})
	assert.ErrorIs(t, err, ErrOrderAlreadyComplete)
}

func TestRecordPaymentRejectsNonPositiveAmount(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(dineInRequest(1, 0))
	require.NoError(t, err)

	_, err = s.orders.RecordPayment(order.ID, RecordPaymentRequest{Amount: 0})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = s.orders.RecordPayment(order.ID, RecordPaymentRequest{Amount: -5})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateOrderReplacesItems(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(dineInRequest(4, 0))
	require.NoError(t, err)

	update := dineInRequest(4, 0)
	update.Items = []CreateOrderItemRequest{
		{ProductID: "p-burger", Quantity: 1},
		{ProductID: "p-cola", Quantity: 2},
	}
	updated, err := s.orders.UpdateOrder(order.ID, update)
	require.NoError(t, err)
	assert.Equal(t, order.ID, updated.ID)
	require.Len(t, updated.Items, 2)
	assert.Equal(t, 9.00, updated.Total) // 5.50 + 2*1.75

	stored, err := s.orders.GetOrderByID(order.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 2)
	assert.Equal(t, "p-cola", stored.Items[1].Product.ID)
}

func TestUpdateOrderCompleteOrderImmutable(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)

	_, err = s.orders.UpdateOrder(order.ID, takeawayRequest(11.00))
	assert.ErrorIs(t, err, ErrOrderAlreadyComplete)
}

func TestUpdateOrderTypeImmutable(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(dineInRequest(1, 0))
	require.NoError(t, err)

	update := takeawayRequest(11.00)
	_, err = s.orders.UpdateOrder(order.ID, update)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteOrderActiveDineInGuard(t *testing.T) {
	s := newTestStack(t)

	order, err := s.orders.CreateOrder(dineInRequest(6, 0))
	require.NoError(t, err)

	err = s.orders.DeleteOrder(order.ID)
	assert.ErrorIs(t, err, ErrOrderHoldsTable)

	_, err = s.orders.RecordPayment(order.ID, RecordPaymentRequest{Amount: 11.00})
	require.NoError(t, err)
	require.NoError(t, s.orders.DeleteOrder(order.ID))

	_, err = s.orders.GetOrderByID(order.ID)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrderIDNotReused(t *testing.T) {
	s := newTestStack(t)

	first, err := s.orders.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)
	require.NoError(t, s.orders.DeleteOrder(first.ID))

	second, err := s.orders.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)
	assert.Equal(t, first.ID+1, second.ID)
}

func TestSequenceSeededFromExistingOrders(t *testing.T) {
	s := newTestStack(t)

	_, err := s.orders.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)
	_, err = s.orders.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)

	// A fresh service over the same database continues the sequence.
	reopened, err := NewOrderService(s.repo, s.catalog, s.tables, s.db)
	require.NoError(t, err)
	order, err := reopened.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)
	assert.Equal(t, int64(3), order.ID)
}

func TestGetOrdersFilters(t *testing.T) {
	s := newTestStack(t)

	_, err := s.orders.CreateOrder(takeawayRequest(11.00))
	require.NoError(t, err)
	_, err = s.orders.CreateOrder(dineInRequest(1, 0))
	require.NoError(t, err)

	status := string(models.OrderStatusPending)
	orders, total, err := s.orders.GetOrders(models.OrderFilters{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, models.OrderTypeDineIn, orders[0].Type)
	require.Len(t, orders[0].Items, 1)
}
