package router

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"resto_pos_backend/internal/handlers"
	"resto_pos_backend/internal/middleware"
	"resto_pos_backend/internal/repositories"
	"resto_pos_backend/internal/services"
)

// Config carries the runtime settings the service wiring needs.
type Config struct {
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string
	TableCount        int
	BackupDir         string
}

// App exposes the long-lived services the entrypoint manages after wiring:
// the backup scheduler and the table registry that must be reconciled at
// startup.
type App struct {
	Tables  *services.TableService
	Backups *services.BackupService
	Orders  services.OrderService
}

// Setup wires repositories, services and handlers onto the engine and returns
// the application services.
func Setup(engine *gin.Engine, db *sql.DB, cfg Config) (*App, error) {
	// Repositories
	orderRepo := repositories.NewOrderRepository(db)
	productRepo := repositories.NewProductRepository(db)
	settingRepo := repositories.NewSettingRepository(db)
	backupLogRepo := repositories.NewBackupLogRepository(db)

	// Services
	catalogService := services.NewCatalogService(productRepo, db)
	tableService := services.NewTableService(orderRepo, cfg.TableCount)
	orderService, err := services.NewOrderService(orderRepo, catalogService, tableService, db)
	if err != nil {
		return nil, err
	}
	authService := services.NewAuthService(cfg.AdminUsername, cfg.AdminPasswordHash, cfg.AdminPassword)
	backupService := services.NewBackupService(orderRepo, settingRepo, backupLogRepo, db, cfg.BackupDir)
	reportService := services.NewReportService(orderRepo, tableService)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	orderHandler := handlers.NewOrderHandler(orderService)
	tableHandler := handlers.NewTableHandler(tableService)
	productHandler := handlers.NewProductHandler(catalogService)
	backupHandler := handlers.NewBackupHandler(backupService, orderService, tableService)
	reportHandler := handlers.NewReportHandler(reportService)

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := engine.Group("/api/v1")
	apiV1.POST("/auth/login", authHandler.Login)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupOrderRoutes(authenticated, orderHandler)
		SetupTableRoutes(authenticated, tableHandler)
		SetupProductRoutes(authenticated, productHandler)
		SetupBackupRoutes(authenticated, backupHandler)
		SetupReportRoutes(authenticated, reportHandler)
	}

	return &App{Tables: tableService, Backups: backupService, Orders: orderService}, nil
}
