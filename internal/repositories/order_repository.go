package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"resto_pos_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// OrderRepository defines the interface for order-related database operations.
// Order ids are assigned by the caller (the lifecycle manager's sequence), so
// CreateOrder inserts the id it is given instead of relying on the database.
type OrderRepository interface {
	// Order methods
	CreateOrder(executor SQLExecutor, order *models.Order) error
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error) // orders, total count, error
	GetActiveDineInOrders() ([]models.Order, error)
	MaxOrderID() (int64, error)
	UpdateOrderHeader(executor SQLExecutor, order *models.Order) error
	UpdateOrderPayment(executor SQLExecutor, orderID int64, status models.OrderStatus, paid, remaining float64, updatedAt time.Time) error
	DeleteOrder(executor SQLExecutor, orderID int64) (int64, error)
	DeleteAllOrders(executor SQLExecutor) error
	CountOrdersByStatus() (map[models.OrderStatus]int, error)

	// OrderItem methods
	CreateOrderItem(executor SQLExecutor, item *models.OrderItem) error
	GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error)
	DeleteOrderItemsByOrderID(executor SQLExecutor, orderID int64) (int64, error)
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

const orderColumns = `id, order_type, table_number, subtotal, discount_percent, discount_amount,
	total, amount_paid, amount_remaining, status, payment_method,
	customer_name, customer_contact, customer_address, staff_name, created_at, updated_at`

// --- Order Methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) error {
	query := `INSERT INTO orders
	            (` + orderColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err := executor.Exec(query,
		order.ID, order.Type, order.TableNumber, order.Subtotal, order.DiscountPercent, order.DiscountAmount,
		order.Total, order.AmountPaid, order.AmountRemaining, order.Status, order.PaymentMethod,
		order.CustomerName, order.CustomerContact, order.CustomerAddress, order.StaffName,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: order id %d", ErrDuplicateKey, order.ID)
		}
		return fmt.Errorf("%w: creating order %d: %v", ErrDatabaseError, order.ID, err)
	}
	return nil
}

func scanOrder(row *sql.Row) (*models.Order, error) {
	order := &models.Order{}
	err := row.Scan(
		&order.ID, &order.Type, &order.TableNumber, &order.Subtotal, &order.DiscountPercent, &order.DiscountAmount,
		&order.Total, &order.AmountPaid, &order.AmountRemaining, &order.Status, &order.PaymentMethod,
		&order.CustomerName, &order.CustomerContact, &order.CustomerAddress, &order.StaffName,
		&order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) GetOrderByID(orderID int64) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + `, COUNT(*) OVER() as total_count FROM orders`)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.Type != nil && *filters.Type != "" {
		conditions = append(conditions, fmt.Sprintf("order_type = $%d", argCounter))
		args = append(args, *filters.Type)
		argCounter++
	}
	if filters.TableNumber != nil {
		conditions = append(conditions, fmt.Sprintf("table_number = $%d", argCounter))
		args = append(args, *filters.TableNumber)
		argCounter++
	}
	if filters.Date != nil && *filters.Date != "" {
		if startOfDay, endOfDay, err := dayBounds(*filters.Date); err == nil {
			conditions = append(conditions, fmt.Sprintf("created_at BETWEEN $%d AND $%d", argCounter, argCounter+1))
			args = append(args, startOfDay, endOfDay)
			argCounter += 2
		}
	}
	if filters.DateFrom != nil && *filters.DateFrom != "" {
		if startOfDay, _, err := dayBounds(*filters.DateFrom); err == nil {
			conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argCounter))
			args = append(args, startOfDay)
			argCounter++
		}
	}
	if filters.DateTo != nil && *filters.DateTo != "" {
		if _, endOfDay, err := dayBounds(*filters.DateTo); err == nil {
			conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argCounter))
			args = append(args, endOfDay)
			argCounter++
		}
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY id")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 1 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.Type, &o.TableNumber, &o.Subtotal, &o.DiscountPercent, &o.DiscountAmount,
			&o.Total, &o.AmountPaid, &o.AmountRemaining, &o.Status, &o.PaymentMethod,
			&o.CustomerName, &o.CustomerContact, &o.CustomerAddress, &o.StaffName,
			&o.CreatedAt, &o.UpdatedAt,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

// GetActiveDineInOrders returns all dine-in orders that still hold a table
// (pending or incomplete), items included. This is the authoritative input
// for table-state reconciliation.
func (r *orderRepository) GetActiveDineInOrders() ([]models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders
	          WHERE order_type = $1 AND status IN ($2, $3)
	          ORDER BY id`
	rows, err := r.db.Query(query, models.OrderTypeDineIn, models.OrderStatusPending, models.OrderStatusIncomplete)
	if err != nil {
		return nil, fmt.Errorf("%w: querying active dine-in orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.Type, &o.TableNumber, &o.Subtotal, &o.DiscountPercent, &o.DiscountAmount,
			&o.Total, &o.AmountPaid, &o.AmountRemaining, &o.Status, &o.PaymentMethod,
			&o.CustomerName, &o.CustomerContact, &o.CustomerAddress, &o.StaffName,
			&o.CreatedAt, &o.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning active dine-in order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating active dine-in orders: %v", ErrDatabaseError, err)
	}

	for i := range orders {
		items, err := r.GetOrderItemsByOrderID(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// MaxOrderID returns the highest assigned order id, 0 when no orders exist.
// The lifecycle manager seeds its sequence from this at startup.
func (r *orderRepository) MaxOrderID() (int64, error) {
	var maxID sql.NullInt64
	err := r.db.QueryRow(`SELECT MAX(id) FROM orders`).Scan(&maxID)
	if err != nil {
		return 0, fmt.Errorf("%w: getting max order id: %v", ErrDatabaseError, err)
	}
	if !maxID.Valid {
		return 0, nil
	}
	return maxID.Int64, nil
}

// UpdateOrderHeader rewrites the mutable fields of an order (a dine-in
// re-save). Items are replaced separately within the same transaction.
func (r *orderRepository) UpdateOrderHeader(executor SQLExecutor, order *models.Order) error {
	query := `UPDATE orders SET
	            subtotal = $1, discount_percent = $2, discount_amount = $3, total = $4,
	            amount_paid = $5, amount_remaining = $6, status = $7, payment_method = $8,
	            customer_name = $9, customer_contact = $10, customer_address = $11, updated_at = $12
	          WHERE id = $13`
	result, err := executor.Exec(query,
		order.Subtotal, order.DiscountPercent, order.DiscountAmount, order.Total,
		order.AmountPaid, order.AmountRemaining, order.Status, order.PaymentMethod,
		order.CustomerName, order.CustomerContact, order.CustomerAddress, order.UpdatedAt,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating order %d: %v", ErrDatabaseError, order.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order update %d: %v", ErrDatabaseError, order.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) UpdateOrderPayment(executor SQLExecutor, orderID int64, status models.OrderStatus, paid, remaining float64, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, amount_paid = $2, amount_remaining = $3, updated_at = $4 WHERE id = $5`
	result, err := executor.Exec(query, status, paid, remaining, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating payment for order %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for payment update %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrder(executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM orders WHERE id = $1`
	result, err := executor.Exec(query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return 0, ErrNotFound
	}
	return rowsAffected, nil
}

// DeleteAllOrders empties the orders and order_items tables. Only a backup
// restore calls this, inside the restore transaction.
func (r *orderRepository) DeleteAllOrders(executor SQLExecutor) error {
	if _, err := executor.Exec(`DELETE FROM order_items`); err != nil {
		return fmt.Errorf("%w: clearing order items: %v", ErrDatabaseError, err)
	}
	if _, err := executor.Exec(`DELETE FROM orders`); err != nil {
		return fmt.Errorf("%w: clearing orders: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *orderRepository) CountOrdersByStatus() (map[models.OrderStatus]int, error) {
	rows, err := r.db.Query(`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("%w: counting orders by status: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	counts := map[models.OrderStatus]int{}
	for rows.Next() {
		var status models.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("%w: scanning status count: %v", ErrDatabaseError, err)
		}
		counts[status] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating status counts: %v", ErrDatabaseError, err)
	}
	return counts, nil
}

// --- OrderItem Methods ---

func (r *orderRepository) CreateOrderItem(executor SQLExecutor, item *models.OrderItem) error {
	query := `INSERT INTO order_items
	            (order_id, line_no, product_id, product_name, product_price, product_category, product_image, quantity)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := executor.Exec(query,
		item.OrderID, item.LineNo,
		item.Product.ID, item.Product.Name, item.Product.Price, item.Product.Category, item.Product.Image,
		item.Quantity,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return fmt.Errorf("%w: creating order item (constraint: %s): %v", ErrDatabaseError, pqErr.Constraint, err)
		}
		return fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *orderRepository) GetOrderItemsByOrderID(orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := `SELECT order_id, line_no, product_id, product_name, product_price, product_category, product_image, quantity
	          FROM order_items
	          WHERE order_id = $1
	          ORDER BY line_no`

	rows, err := r.db.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.OrderID, &item.LineNo,
			&item.Product.ID, &item.Product.Name, &item.Product.Price, &item.Product.Category, &item.Product.Image,
			&item.Quantity,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) DeleteOrderItemsByOrderID(executor SQLExecutor, orderID int64) (int64, error) {
	query := `DELETE FROM order_items WHERE order_id = $1`
	result, err := executor.Exec(query, orderID)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return rowsAffected, nil
}

// dayBounds parses a YYYY-MM-DD date and returns the inclusive start and end
// of that day.
func dayBounds(date string) (time.Time, time.Time, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	start := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, parsed.Location())
	end := start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end, nil
}
