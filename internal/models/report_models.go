package models

// SalesReport summarizes completed orders over a date range.
type SalesReport struct {
	From            string             `json:"from"`
	To              string             `json:"to"`
	OrderCount      int                `json:"order_count"`
	Revenue         float64            `json:"revenue"`
	DiscountGiven   float64            `json:"discount_given"`
	ByType          map[string]float64 `json:"by_type"`
	ByPaymentMethod map[string]float64 `json:"by_payment_method"`
}

// DashboardStats mirrors the dashboard summary counters.
type DashboardStats struct {
	TotalOrders      int `json:"total_orders"`
	CompleteOrders   int `json:"complete_orders"`
	IncompleteOrders int `json:"incomplete_orders"`
	PendingOrders    int `json:"pending_orders"`
	OccupiedTables   int `json:"occupied_tables"`
}
