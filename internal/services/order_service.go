package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"resto_pos_backend/internal/models"
	"resto_pos_backend/internal/repositories"
	"resto_pos_backend/pkg/utils"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrOrderNotFound        = errors.New("order not found")
	ErrOrderAlreadyComplete = errors.New("order is already complete")
	ErrOrderHoldsTable      = errors.New("order still holds an occupied table")
)

// CreateOrderItemRequest is one requested line of a new or re-saved order.
type CreateOrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gte=1"`
}

// CreateOrderRequest is the payload for creating an order. The same shape is
// accepted on update; type and table are immutable after creation.
type CreateOrderRequest struct {
	Type            string                   `json:"type" binding:"required"`
	TableNumber     *int                     `json:"table_number,omitempty"`
	Items           []CreateOrderItemRequest `json:"items" binding:"required"`
	DiscountPercent float64                  `json:"discount_percent"`
	PaymentMethod   string                   `json:"payment_method" binding:"required"`
	PayerAmount     float64                  `json:"payer_amount"`
	CustomerName    *string                  `json:"customer_name,omitempty"`
	CustomerContact *string                  `json:"customer_contact,omitempty"`
	CustomerAddress *string                  `json:"customer_address,omitempty"`
	StaffName       string                   `json:"staff_name"`
}

// RecordPaymentRequest is the payload for a follow-up payment against an
// incomplete or pending order.
type RecordPaymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// OrderService owns the order lifecycle: id assignment, pricing, settlement
// state, and the table transitions each mutation triggers.
type OrderService interface {
	CreateOrder(req CreateOrderRequest) (*models.Order, error)
	UpdateOrder(orderID int64, req CreateOrderRequest) (*models.Order, error)
	GetOrderByID(orderID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	RecordPayment(orderID int64, req RecordPaymentRequest) (*models.Order, error)
	DeleteOrder(orderID int64) error
	ResyncSequence() error
}

type orderService struct {
	orderRepo repositories.OrderRepository
	catalog   Catalog
	tables    *TableService
	db        *sql.DB
	seq       *OrderSequence
	now       func() time.Time
}

// NewOrderService wires the order lifecycle manager and seeds its id sequence
// from the highest order id already in storage.
func NewOrderService(orderRepo repositories.OrderRepository, catalog Catalog, tables *TableService, db *sql.DB) (OrderService, error) {
	maxID, err := orderRepo.MaxOrderID()
	if err != nil {
		return nil, fmt.Errorf("seeding order sequence: %w", err)
	}
	return &orderService{
		orderRepo: orderRepo,
		catalog:   catalog,
		tables:    tables,
		db:        db,
		seq:       NewOrderSequence(maxID),
		now:       time.Now,
	}, nil
}

// CreateOrder validates the request, prices it against the catalog, assigns
// the next sequential id and persists the order atomically with its items.
// Validation runs before the id is allocated, so a rejected request consumes
// no id; a storage failure releases the id it took.
func (s *orderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	cart, totals, err := s.buildCart(req)
	if err != nil {
		return nil, err
	}
	status, paid, remaining, err := settlementState(req, totals.Total)
	if err != nil {
		return nil, err
	}

	if models.OrderType(req.Type) == models.OrderTypeDineIn {
		if req.TableNumber == nil {
			return nil, fmt.Errorf("%w: dine-in orders require a table number", ErrValidation)
		}
		if err := s.tables.EnsureAvailable(*req.TableNumber); err != nil {
			return nil, err
		}
	}

	now := s.now()
	order := &models.Order{
		ID:              s.seq.Next(),
		Type:            models.OrderType(req.Type),
		TableNumber:     req.TableNumber,
		Items:           cart.Lines(),
		Subtotal:        totals.Subtotal,
		DiscountPercent: totals.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		Total:           totals.Total,
		AmountPaid:      paid,
		AmountRemaining: remaining,
		Status:          status,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		CustomerAddress: req.CustomerAddress,
		StaffName:       req.StaffName,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.persistNewOrder(order); err != nil {
		s.seq.Release(order.ID)
		return nil, err
	}

	if order.Type == models.OrderTypeDineIn {
		if order.IsActive() {
			if err := s.tables.OrderOpened(order); err != nil {
				utils.LogError(err, "Failed to mark table occupied after order create", map[string]interface{}{"order_id": order.ID})
			}
		} else if err := s.tables.OrderSettled(order); err != nil {
			utils.LogError(err, "Failed to release table after fully paid order create", map[string]interface{}{"order_id": order.ID})
		}
	}
	return order, nil
}

func (s *orderService) persistNewOrder(order *models.Order) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning order create transaction: %v", repositories.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.CreateOrder(tx, order); err != nil {
		return err
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
		if err := s.orderRepo.CreateOrderItem(tx, &order.Items[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing order create transaction: %v", repositories.ErrDatabaseError, err)
	}
	return nil
}

// UpdateOrder re-saves an active order: items, discount and customer details
// are replaced, type and table stay fixed. Complete orders are immutable.
func (s *orderService) UpdateOrder(orderID int64, req CreateOrderRequest) (*models.Order, error) {
	existing, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if existing.Status == models.OrderStatusComplete {
		return nil, fmt.Errorf("%w: order %d", ErrOrderAlreadyComplete, orderID)
	}
	if models.OrderType(req.Type) != existing.Type {
		return nil, fmt.Errorf("%w: order type cannot change after creation", ErrValidation)
	}
	if req.TableNumber != nil && (existing.TableNumber == nil || *req.TableNumber != *existing.TableNumber) {
		return nil, fmt.Errorf("%w: table assignment cannot change after creation", ErrValidation)
	}

	cart, totals, err := s.buildCart(req)
	if err != nil {
		return nil, err
	}
	status, paid, remaining, err := settlementState(req, totals.Total)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:              existing.ID,
		Type:            existing.Type,
		TableNumber:     existing.TableNumber,
		Items:           cart.Lines(),
		Subtotal:        totals.Subtotal,
		DiscountPercent: totals.DiscountPercent,
		DiscountAmount:  totals.DiscountAmount,
		Total:           totals.Total,
		AmountPaid:      paid,
		AmountRemaining: remaining,
		Status:          status,
		PaymentMethod:   models.PaymentMethod(req.PaymentMethod),
		CustomerName:    req.CustomerName,
		CustomerContact: req.CustomerContact,
		CustomerAddress: req.CustomerAddress,
		StaffName:       existing.StaffName,
		CreatedAt:       existing.CreatedAt,
		UpdatedAt:       s.now(),
	}
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("%w: beginning order update transaction: %v", repositories.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.UpdateOrderHeader(tx, order); err != nil {
		return nil, err
	}
	if _, err := s.orderRepo.DeleteOrderItemsByOrderID(tx, order.ID); err != nil {
		return nil, err
	}
	for i := range order.Items {
		if err := s.orderRepo.CreateOrderItem(tx, &order.Items[i]); err != nil {
			return nil, err
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing order update transaction: %v", repositories.ErrDatabaseError, err)
	}

	if order.Type == models.OrderTypeDineIn {
		if order.IsActive() {
			if err := s.tables.OrderUpdated(order); err != nil {
				utils.LogError(err, "Failed to refresh table state after order update", map[string]interface{}{"order_id": order.ID})
			}
		} else if err := s.tables.OrderSettled(order); err != nil {
			utils.LogError(err, "Failed to release table after order settled via update", map[string]interface{}{"order_id": order.ID})
		}
	}
	return order, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}
		return nil, err
	}
	items, err := s.orderRepo.GetOrderItemsByOrderID(orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, total, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, err
	}
	for i := range orders {
		items, err := s.orderRepo.GetOrderItemsByOrderID(orders[i].ID)
		if err != nil {
			return nil, 0, err
		}
		orders[i].Items = items
	}
	return orders, total, nil
}

// RecordPayment applies a follow-up payment to a pending or incomplete order.
// Paying the remaining balance (or more) settles the order; the recorded paid
// amount is capped at the order total.
func (s *orderService) RecordPayment(orderID int64, req RecordPaymentRequest) (*models.Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ErrValidation)
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == models.OrderStatusComplete {
		return nil, fmt.Errorf("%w: order %d", ErrOrderAlreadyComplete, orderID)
	}

	paid := utils.RoundCents(order.AmountPaid + req.Amount)
	remaining := utils.RoundCents(order.Total - paid)
	status := models.OrderStatusIncomplete
	if remaining <= 0 {
		paid = order.Total
		remaining = 0
		status = models.OrderStatusComplete
	}

	updatedAt := s.now()
	if err := s.orderRepo.UpdateOrderPayment(s.db, orderID, status, paid, remaining, updatedAt); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}
		return nil, err
	}

	order.AmountPaid = paid
	order.AmountRemaining = remaining
	order.Status = status
	order.UpdatedAt = updatedAt

	if order.Type == models.OrderTypeDineIn {
		if status == models.OrderStatusComplete {
			if err := s.tables.OrderSettled(order); err != nil {
				utils.LogError(err, "Failed to release table after settlement", map[string]interface{}{"order_id": order.ID})
			}
		} else if err := s.tables.OrderUpdated(order); err != nil {
			utils.LogError(err, "Failed to refresh table state after partial payment", map[string]interface{}{"order_id": order.ID})
		}
	}
	return order, nil
}

// DeleteOrder removes an order and its items. An active dine-in order still
// holding its table must be settled (or its table released) first.
func (s *orderService) DeleteOrder(orderID int64) error {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return err
	}
	if order.IsActive() && s.tables.HoldsOrder(order) {
		return fmt.Errorf("%w: order %d on table %d", ErrOrderHoldsTable, order.ID, *order.TableNumber)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning order delete transaction: %v", repositories.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := s.orderRepo.DeleteOrderItemsByOrderID(tx, orderID); err != nil {
		return err
	}
	if _, err := s.orderRepo.DeleteOrder(tx, orderID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return fmt.Errorf("%w: %d", ErrOrderNotFound, orderID)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing order delete transaction: %v", repositories.ErrDatabaseError, err)
	}
	// Deleted ids are never reissued; the sequence keeps counting forward.
	return nil
}

// ResyncSequence re-seeds the id sequence from storage after a restore
// replaced the order set.
func (s *orderService) ResyncSequence() error {
	maxID, err := s.orderRepo.MaxOrderID()
	if err != nil {
		return err
	}
	s.seq.Reseed(maxID)
	return nil
}

func (s *orderService) buildCart(req CreateOrderRequest) (*Cart, CartTotals, error) {
	if !models.IsValidOrderType(req.Type) {
		return nil, CartTotals{}, fmt.Errorf("%w: invalid order type %q", ErrValidation, req.Type)
	}
	if !models.IsValidPaymentMethod(req.PaymentMethod) {
		return nil, CartTotals{}, fmt.Errorf("%w: invalid payment method %q", ErrValidation, req.PaymentMethod)
	}
	if len(req.Items) == 0 {
		return nil, CartTotals{}, fmt.Errorf("%w: order must contain at least one item", ErrValidation)
	}
	if models.OrderType(req.Type) == models.OrderTypeDelivery {
		if req.CustomerAddress == nil || *req.CustomerAddress == "" {
			return nil, CartTotals{}, fmt.Errorf("%w: delivery orders require a customer address", ErrValidation)
		}
	}

	cart := NewCart()
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, CartTotals{}, fmt.Errorf("%w: item quantity must be at least 1", ErrValidation)
		}
		if err := cart.AddItemQuantity(s.catalog, item.ProductID, item.Quantity); err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return nil, CartTotals{}, fmt.Errorf("%w: unknown product %s", ErrValidation, item.ProductID)
			}
			return nil, CartTotals{}, err
		}
	}
	return cart, cart.Totals(req.DiscountPercent), nil
}

// settlementState derives status, amount paid and amount remaining from the
// payer amount tendered at save time. Paying in full settles immediately; a
// partial payment leaves the order incomplete; paying nothing is only allowed
// for dine-in orders, which stay pending until the table settles.
func settlementState(req CreateOrderRequest, total float64) (models.OrderStatus, float64, float64, error) {
	payer := utils.RoundCents(req.PayerAmount)
	if payer < 0 {
		return "", 0, 0, fmt.Errorf("%w: payer amount must not be negative", ErrValidation)
	}
	if payer > total {
		// Overpayment settles the order; change handed back to the
		// customer is not recorded.
		payer = total
	}

	switch {
	case payer >= total:
		return models.OrderStatusComplete, total, 0, nil
	case payer > 0:
		return models.OrderStatusIncomplete, payer, utils.RoundCents(total - payer), nil
	default:
		if models.OrderType(req.Type) != models.OrderTypeDineIn {
			return "", 0, 0, fmt.Errorf("%w: %s orders must be paid at least partially at save time", ErrValidation, req.Type)
		}
		return models.OrderStatusPending, 0, total, nil
	}
}
