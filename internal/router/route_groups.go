package router

import (
	"github.com/gin-gonic/gin"

	"resto_pos_backend/internal/handlers"
)

// SetupOrderRoutes sets up the order lifecycle routes.
func SetupOrderRoutes(authenticatedGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := authenticatedGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PUT("/:id", orderHandler.UpdateOrder)
		orderRoutes.POST("/:id/payments", orderHandler.RecordPayment)
		orderRoutes.DELETE("/:id", orderHandler.DeleteOrder)
	}
}

// SetupTableRoutes sets up the table occupancy routes.
func SetupTableRoutes(authenticatedGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := authenticatedGroup.Group("/tables")
	{
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.GET("/:number", tableHandler.GetTable)
		tableRoutes.POST("/reconcile", tableHandler.ReconcileTables)
	}
}

// SetupProductRoutes sets up the product catalog routes.
func SetupProductRoutes(authenticatedGroup *gin.RouterGroup, productHandler *handlers.ProductHandler) {
	productRoutes := authenticatedGroup.Group("/products")
	{
		productRoutes.POST("", productHandler.CreateProduct)
		productRoutes.GET("", productHandler.GetProducts)
		productRoutes.GET("/:id", productHandler.GetProductByID)
		productRoutes.PUT("/:id", productHandler.UpdateProduct)
		productRoutes.DELETE("/:id", productHandler.DeleteProduct)
	}
}

// SetupBackupRoutes sets up the backup and restore routes.
func SetupBackupRoutes(authenticatedGroup *gin.RouterGroup, backupHandler *handlers.BackupHandler) {
	backupRoutes := authenticatedGroup.Group("/backups")
	{
		backupRoutes.GET("/logs", backupHandler.GetBackupLogs)
		backupRoutes.POST("/create", backupHandler.CreateBackup)
		backupRoutes.GET("/list", backupHandler.ListBackups)
		backupRoutes.GET("/export", backupHandler.ExportData)
		backupRoutes.GET("/download/:filename", backupHandler.DownloadBackup)
		backupRoutes.POST("/restore", backupHandler.RestoreBackup)
		backupRoutes.POST("/toggle", backupHandler.ToggleAutoBackup)
	}
}

// SetupReportRoutes sets up the reporting and dashboard routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	{
		reportRoutes.GET("/sales", reportHandler.GetSalesReport)
	}
	authenticatedGroup.GET("/dashboard/summary", reportHandler.GetDashboardSummary)
}
