package models

import "time"

// OrderType defines the type for order channels.
type OrderType string

const (
	OrderTypeTakeaway OrderType = "takeaway"
	OrderTypeDineIn   OrderType = "dinein"
	OrderTypeDelivery OrderType = "delivery"
)

// IsValidOrderType checks if the provided string is a valid OrderType.
func IsValidOrderType(t string) bool {
	switch OrderType(t) {
	case OrderTypeTakeaway, OrderTypeDineIn, OrderTypeDelivery:
		return true
	default:
		return false
	}
}

// OrderStatus defines the type for order lifecycle states:
// pending (saved dine-in draft, nothing billed), incomplete (partially paid),
// complete (fully paid, terminal).
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusIncomplete OrderStatus = "incomplete"
	OrderStatusComplete   OrderStatus = "complete"
)

// IsValidOrderStatus checks if the provided string is a valid OrderStatus.
func IsValidOrderStatus(s string) bool {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusIncomplete, OrderStatusComplete:
		return true
	default:
		return false
	}
}

// PaymentMethod defines the accepted payment instruments.
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodCard PaymentMethod = "card"
	PaymentMethodUPI  PaymentMethod = "upi"
)

// IsValidPaymentMethod checks if the provided string is a valid PaymentMethod.
func IsValidPaymentMethod(m string) bool {
	switch PaymentMethod(m) {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI:
		return true
	default:
		return false
	}
}

// OrderItem is one line of an order. The product fields are a snapshot taken
// at order time so historical receipts survive later catalog edits.
type OrderItem struct {
	OrderID  int64   `json:"order_id" db:"order_id"`
	LineNo   int     `json:"line_no" db:"line_no"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity" db:"quantity"`
}

// Order is a persisted order record. IDs are sequential integers assigned by
// the lifecycle manager and never reused, even after deletion.
type Order struct {
	ID              int64         `json:"id" db:"id"`
	Type            OrderType     `json:"type" db:"order_type"`
	TableNumber     *int          `json:"table_number,omitempty" db:"table_number"`
	Items           []OrderItem   `json:"items"`
	Subtotal        float64       `json:"subtotal" db:"subtotal"`
	DiscountPercent float64       `json:"discount_percent" db:"discount_percent"`
	DiscountAmount  float64       `json:"discount_amount" db:"discount_amount"`
	Total           float64       `json:"total" db:"total"`
	AmountPaid      float64       `json:"amount_paid" db:"amount_paid"`
	AmountRemaining float64       `json:"amount_remaining" db:"amount_remaining"`
	Status          OrderStatus   `json:"status" db:"status"`
	PaymentMethod   PaymentMethod `json:"payment_method" db:"payment_method"`
	CustomerName    *string       `json:"customer_name,omitempty" db:"customer_name"`
	CustomerContact *string       `json:"customer_contact,omitempty" db:"customer_contact"`
	CustomerAddress *string       `json:"customer_address,omitempty" db:"customer_address"`
	StaffName       string        `json:"staff_name" db:"staff_name"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the order still holds a table or an open balance.
func (o *Order) IsActive() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusIncomplete
}

// OrderFilters defines the available filters for querying orders.
// This struct is used by both the service and repository layers.
type OrderFilters struct {
	Status      *string `form:"status"`
	Type        *string `form:"type"`
	TableNumber *int    `form:"table_number"`
	Date        *string `form:"date"`      // Expected format YYYY-MM-DD
	DateFrom    *string `form:"date_from"` // Expected format YYYY-MM-DD
	DateTo      *string `form:"date_to"`   // Expected format YYYY-MM-DD
	Page        int     `form:"page"`
	PageSize    int     `form:"page_size"` // 0 disables pagination
}
