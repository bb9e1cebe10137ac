package services

import (
	"resto_pos_backend/internal/models"
	"resto_pos_backend/pkg/utils"
)

// Catalog supplies read-only product lookups to order construction.
type Catalog interface {
	GetProduct(productID string) (*models.Product, error)
	ListProducts() ([]models.Product, error)
}

// CartTotals is the result of pricing a cart.
type CartTotals struct {
	Subtotal        float64 `json:"subtotal"`
	DiscountPercent float64 `json:"discount_percent"`
	DiscountAmount  float64 `json:"discount_amount"`
	Total           float64 `json:"total"`
}

// Cart accumulates line items before an order is committed. It never touches
// storage; product fields are snapshotted into the lines at add time.
type Cart struct {
	lines []models.OrderItem
}

// NewCart creates an empty cart.
func NewCart() *Cart {
	return &Cart{}
}

// AddItem adds one unit of the given product, looking it up in the catalog.
// An existing line for the product is incremented instead of duplicated.
func (c *Cart) AddItem(catalog Catalog, productID string) error {
	return c.AddItemQuantity(catalog, productID, 1)
}

// AddItemQuantity adds qty units of the given product.
func (c *Cart) AddItemQuantity(catalog Catalog, productID string, qty int) error {
	if qty < 1 {
		return ErrValidation
	}
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity += qty
			return nil
		}
	}
	product, err := catalog.GetProduct(productID)
	if err != nil {
		return err
	}
	c.lines = append(c.lines, models.OrderItem{
		Product:  *product,
		Quantity: qty,
	})
	return nil
}

// RemoveOneUnit decrements the line for the given product, dropping the line
// entirely when its quantity reaches zero.
func (c *Cart) RemoveOneUnit(productID string) error {
	for i := range c.lines {
		if c.lines[i].Product.ID == productID {
			c.lines[i].Quantity--
			if c.lines[i].Quantity <= 0 {
				c.lines = append(c.lines[:i], c.lines[i+1:]...)
			}
			return nil
		}
	}
	return ErrProductNotFound
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns the cart contents with line numbers assigned in insertion
// order.
func (c *Cart) Lines() []models.OrderItem {
	lines := make([]models.OrderItem, len(c.lines))
	copy(lines, c.lines)
	for i := range lines {
		lines[i].LineNo = i + 1
	}
	return lines
}

// Totals prices the cart. discountPercent is clamped to [0, 100]; amounts are
// rounded to cents. Pure function of the cart contents.
func (c *Cart) Totals(discountPercent float64) CartTotals {
	if discountPercent < 0 {
		discountPercent = 0
	}
	if discountPercent > 100 {
		discountPercent = 100
	}

	var subtotal float64
	for _, line := range c.lines {
		subtotal += line.Product.Price * float64(line.Quantity)
	}
	subtotal = utils.RoundCents(subtotal)
	discountAmount := utils.RoundCents(subtotal * discountPercent / 100)

	return CartTotals{
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  discountAmount,
		Total:           utils.RoundCents(subtotal - discountAmount),
	}
}
