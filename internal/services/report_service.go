package services

import (
	"resto_pos_backend/internal/models"
	"resto_pos_backend/internal/repositories"
	"resto_pos_backend/pkg/utils"
)

// ReportService aggregates order data for the sales report and the dashboard
// summary.
type ReportService struct {
	orderRepo repositories.OrderRepository
	tables    *TableService
}

func NewReportService(orderRepo repositories.OrderRepository, tables *TableService) *ReportService {
	return &ReportService{orderRepo: orderRepo, tables: tables}
}

// SalesReport totals revenue and discounts over completed orders created in
// the inclusive [from, to] date range (YYYY-MM-DD). Empty bounds leave the
// range open on that side.
func (s *ReportService) SalesReport(from, to string) (*models.SalesReport, error) {
	status := string(models.OrderStatusComplete)
	filters := models.OrderFilters{Status: &status}
	if from != "" {
		filters.DateFrom = &from
	}
	if to != "" {
		filters.DateTo = &to
	}

	orders, _, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, err
	}

	report := &models.SalesReport{
		From:            from,
		To:              to,
		ByType:          map[string]float64{},
		ByPaymentMethod: map[string]float64{},
	}
	for _, order := range orders {
		report.OrderCount++
		report.Revenue += order.Total
		report.DiscountGiven += order.DiscountAmount
		report.ByType[string(order.Type)] += order.Total
		report.ByPaymentMethod[string(order.PaymentMethod)] += order.Total
	}
	report.Revenue = utils.RoundCents(report.Revenue)
	report.DiscountGiven = utils.RoundCents(report.DiscountGiven)
	for k, v := range report.ByType {
		report.ByType[k] = utils.RoundCents(v)
	}
	for k, v := range report.ByPaymentMethod {
		report.ByPaymentMethod[k] = utils.RoundCents(v)
	}
	return report, nil
}

// DashboardStats returns the live counters shown on the dashboard.
func (s *ReportService) DashboardStats() (*models.DashboardStats, error) {
	counts, err := s.orderRepo.CountOrdersByStatus()
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		CompleteOrders:   counts[models.OrderStatusComplete],
		IncompleteOrders: counts[models.OrderStatusIncomplete],
		PendingOrders:    counts[models.OrderStatusPending],
		OccupiedTables:   s.tables.OccupiedCount(),
	}
	stats.TotalOrders = stats.CompleteOrders + stats.IncompleteOrders + stats.PendingOrders
	return stats, nil
}
