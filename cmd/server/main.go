package main

import (
	"log"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"resto_pos_backend/internal/database"
	routerpkg "resto_pos_backend/internal/router"
	"resto_pos_backend/pkg/utils"
)

func main() {
	// Load .env if present; real environment variables take precedence.
	_ = godotenv.Load()

	utils.InitLogger()
	utils.SetJWTSecret(utils.Getenv("JWT_SECRET", "dev-only-insecure-secret"))

	dbCfg := database.Config{
		Driver: utils.Getenv("DB_DRIVER", database.DriverSQLite),
		DSN:    utils.Getenv("DB_DSN", utils.Getenv("DB_PATH", "pos.db")),
	}
	db, err := database.Open(dbCfg)
	if err != nil {
		utils.LogError(err, "Failed to open database")
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()
	utils.LogInfo("Database initialized", map[string]interface{}{"driver": dbCfg.Driver})

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())

	corsAllowedOriginsEnv := os.Getenv("CORS_ALLOWED_ORIGINS")
	var allowedOrigins []string
	if corsAllowedOriginsEnv != "" {
		allowedOrigins = strings.Split(corsAllowedOriginsEnv, ",")
	} else {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = allowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	appCfg := routerpkg.Config{
		AdminUsername:     utils.Getenv("ADMIN_USERNAME", "admin"),
		AdminPassword:     utils.Getenv("ADMIN_PASSWORD", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		TableCount:        utils.GetenvInt("TABLE_COUNT", 12),
		BackupDir:         utils.Getenv("BACKUP_DIR", "backups"),
	}

	app, err := routerpkg.Setup(engine, db, appCfg)
	if err != nil {
		utils.LogError(err, "Failed to wire application")
		log.Fatalf("Failed to wire application: %v", err)
	}

	// Table state is derived from stored orders; rebuild it before serving.
	if err := app.Tables.Reconcile(); err != nil {
		utils.LogError(err, "Failed to reconcile table state")
		log.Fatalf("Failed to reconcile table state: %v", err)
	}

	app.Backups.Start()
	defer app.Backups.Stop()

	port := utils.Getenv("PORT", "8080")
	utils.LogInfo("Server starting", map[string]interface{}{"port": port, "tables": appCfg.TableCount})

	if err := engine.Run(":" + port); err != nil {
		utils.LogError(err, "Failed to start server")
		log.Fatalf("Failed to start server: %v", err)
	}
}
