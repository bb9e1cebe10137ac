package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resto_pos_backend/internal/services"
	"resto_pos_backend/pkg/utils"
)

type TableHandler struct {
	tableService *services.TableService
}

func NewTableHandler(tableService *services.TableService) *TableHandler {
	return &TableHandler{tableService: tableService}
}

// GetTables handles GET /tables.
func (h *TableHandler) GetTables(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tables": h.tableService.ListTables()})
}

// GetTable handles GET /tables/:number. An occupied table comes back with its
// current order attached so the terminal resumes editing it.
func (h *TableHandler) GetTable(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		utils.RespondValidationFailed(c, "Table number must be an integer")
		return
	}

	table, err := h.tableService.SelectTable(number)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, table)
}

// ReconcileTables handles POST /tables/reconcile, rebuilding table state from
// the stored orders.
func (h *TableHandler) ReconcileTables(c *gin.Context) {
	if err := h.tableService.Reconcile(); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tables": h.tableService.ListTables()})
}
