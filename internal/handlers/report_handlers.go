package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_backend/internal/services"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetSalesReport handles GET /reports/sales?from=YYYY-MM-DD&to=YYYY-MM-DD.
func (h *ReportHandler) GetSalesReport(c *gin.Context) {
	report, err := h.reportService.SalesReport(c.Query("from"), c.Query("to"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetDashboardSummary handles GET /dashboard/summary.
func (h *ReportHandler) GetDashboardSummary(c *gin.Context) {
	stats, err := h.reportService.DashboardStats()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
