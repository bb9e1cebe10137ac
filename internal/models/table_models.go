package models

// TableStatus defines the occupancy state of a physical table.
type TableStatus string

const (
	TableStatusAvailable TableStatus = "available"
	TableStatusOccupied  TableStatus = "occupied"
)

// Table represents one physical dine-in table. Tables are created once from
// configuration and only ever change status; the invariant is
// status == occupied iff CurrentOrder != nil, and CurrentOrder (when set)
// is an active dine-in order whose table number matches.
type Table struct {
	Number       int         `json:"number"`
	Status       TableStatus `json:"status"`
	CurrentOrder *Order      `json:"current_order,omitempty"`
}
