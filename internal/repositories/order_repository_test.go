package repositories

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resto_pos_backend/internal/database"
	"resto_pos_backend/internal/models"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.ApplySchema(db, database.DriverSQLite))
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleOrder(id int64, status models.OrderStatus, created time.Time) *models.Order {
	return &models.Order{
		ID:            id,
		Type:          models.OrderTypeTakeaway,
		Subtotal:      10,
		Total:         10,
		AmountPaid:    10,
		Status:        status,
		PaymentMethod: models.PaymentMethodCash,
		StaffName:     "dana",
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func TestCreateAndGetOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	now := time.Now().Truncate(time.Second)
	order := sampleOrder(1, models.OrderStatusComplete, now)
	require.NoError(t, repo.CreateOrder(db, order))

	item := &models.OrderItem{
		OrderID:  1,
		LineNo:   1,
		Product:  models.Product{ID: "p1", Name: "Burger", Price: 10, Category: "Mains"},
		Quantity: 1,
	}
	require.NoError(t, repo.CreateOrderItem(db, item))

	got, err := repo.GetOrderByID(1)
	require.NoError(t, err)
	assert.Equal(t, order.Total, got.Total)
	assert.Equal(t, order.Status, got.Status)

	items, err := repo.GetOrderItemsByOrderID(1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Burger", items[0].Product.Name)
}

func TestCreateOrderDuplicateID(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	now := time.Now()
	require.NoError(t, repo.CreateOrder(db, sampleOrder(1, models.OrderStatusComplete, now)))
	err := repo.CreateOrder(db, sampleOrder(1, models.OrderStatusComplete, now))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestGetOrderByIDNotFound(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	_, err := repo.GetOrderByID(42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaxOrderID(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	maxID, err := repo.MaxOrderID()
	require.NoError(t, err)
	assert.Equal(t, int64(0), maxID)

	now := time.Now()
	require.NoError(t, repo.CreateOrder(db, sampleOrder(7, models.OrderStatusComplete, now)))
	maxID, err = repo.MaxOrderID()
	require.NoError(t, err)
	assert.Equal(t, int64(7), maxID)
}

func TestGetOrdersFiltersAndPagination(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	now := time.Now().Truncate(time.Second)
	require.NoError(t, repo.CreateOrder(db, sampleOrder(1, models.OrderStatusComplete, now)))
	require.NoError(t, repo.CreateOrder(db, sampleOrder(2, models.OrderStatusComplete, now)))
	pending := sampleOrder(3, models.OrderStatusPending, now)
	pending.Type = models.OrderTypeDineIn
	table := 4
	pending.TableNumber = &table
	pending.AmountPaid = 0
	pending.AmountRemaining = 10
	require.NoError(t, repo.CreateOrder(db, pending))

	all, total, err := repo.GetOrders(models.OrderFilters{})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, all, 3)

	status := string(models.OrderStatusComplete)
	completed, total, err := repo.GetOrders(models.OrderFilters{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, completed, 2)

	paged, total, err := repo.GetOrders(models.OrderFilters{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, paged, 1)
	assert.Equal(t, int64(3), paged[0].ID)

	byTable, _, err := repo.GetOrders(models.OrderFilters{TableNumber: &table})
	require.NoError(t, err)
	require.Len(t, byTable, 1)
	assert.Equal(t, int64(3), byTable[0].ID)
}

func TestGetOrdersDateFilter(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	today := time.Now()
	yesterday := today.AddDate(0, 0, -1)
	require.NoError(t, repo.CreateOrder(db, sampleOrder(1, models.OrderStatusComplete, yesterday)))
	require.NoError(t, repo.CreateOrder(db, sampleOrder(2, models.OrderStatusComplete, today)))

	date := today.Format("2006-01-02")
	orders, total, err := repo.GetOrders(models.OrderFilters{Date: &date})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(2), orders[0].ID)
}

func TestGetActiveDineInOrders(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	now := time.Now()
	settled := sampleOrder(1, models.OrderStatusComplete, now)
	settled.Type = models.OrderTypeDineIn
	tableOne := 1
	settled.TableNumber = &tableOne
	require.NoError(t, repo.CreateOrder(db, settled))

	active := sampleOrder(2, models.OrderStatusPending, now)
	active.Type = models.OrderTypeDineIn
	tableTwo := 2
	active.TableNumber = &tableTwo
	require.NoError(t, repo.CreateOrder(db, active))
	require.NoError(t, repo.CreateOrderItem(db, &models.OrderItem{
		OrderID: 2, LineNo: 1,
		Product:  models.Product{ID: "p1", Name: "Burger", Price: 10},
		Quantity: 1,
	}))

	orders, err := repo.GetActiveDineInOrders()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(2), orders[0].ID)
	require.Len(t, orders[0].Items, 1)
}

func TestUpdateOrderPayment(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	now := time.Now().Truncate(time.Second)
	order := sampleOrder(1, models.OrderStatusPending, now)
	order.AmountPaid = 0
	order.AmountRemaining = 10
	require.NoError(t, repo.CreateOrder(db, order))

	require.NoError(t, repo.UpdateOrderPayment(db, 1, models.OrderStatusComplete, 10, 0, now))
	got, err := repo.GetOrderByID(1)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusComplete, got.Status)
	assert.Equal(t, 10.0, got.AmountPaid)

	err = repo.UpdateOrderPayment(db, 99, models.OrderStatusComplete, 10, 0, now)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteOrderTransactionAtomicity(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	now := time.Now()
	require.NoError(t, repo.CreateOrder(db, sampleOrder(1, models.OrderStatusComplete, now)))
	require.NoError(t, repo.CreateOrderItem(db, &models.OrderItem{
		OrderID: 1, LineNo: 1,
		Product:  models.Product{ID: "p1", Name: "Burger", Price: 10},
		Quantity: 1,
	}))

	// A rolled back transaction leaves the order untouched.
	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = repo.DeleteOrderItemsByOrderID(tx, 1)
	require.NoError(t, err)
	_, err = repo.DeleteOrder(tx, 1)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	_, err = repo.GetOrderByID(1)
	require.NoError(t, err)
	items, err := repo.GetOrderItemsByOrderID(1)
	require.NoError(t, err)
	assert.Len(t, items, 1)

	// A committed one removes both.
	tx, err = db.Begin()
	require.NoError(t, err)
	_, err = repo.DeleteOrderItemsByOrderID(tx, 1)
	require.NoError(t, err)
	_, err = repo.DeleteOrder(tx, 1)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	_, err = repo.GetOrderByID(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCountOrdersByStatus(t *testing.T) {
	db := newTestDB(t)
	repo := NewOrderRepository(db)

	now := time.Now()
	require.NoError(t, repo.CreateOrder(db, sampleOrder(1, models.OrderStatusComplete, now)))
	require.NoError(t, repo.CreateOrder(db, sampleOrder(2, models.OrderStatusComplete, now)))
	pending := sampleOrder(3, models.OrderStatusPending, now)
	pending.Type = models.OrderTypeDineIn
	table := 1
	pending.TableNumber = &table
	require.NoError(t, repo.CreateOrder(db, pending))

	counts, err := repo.CountOrdersByStatus()
	require.NoError(t, err)
	assert.Equal(t, 2, counts[models.OrderStatusComplete])
	assert.Equal(t, 1, counts[models.OrderStatusPending])
}
