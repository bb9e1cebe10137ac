package models

// Product is a sellable catalog entry. Reference data owned by the catalog;
// the order core only ever reads it (and snapshots it onto order lines).
type Product struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name" binding:"required"`
	Price    float64 `json:"price" db:"price"`
	Category string  `json:"category" db:"category" binding:"required"`
	Image    string  `json:"image" db:"image"`
}
