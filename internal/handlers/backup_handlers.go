package handlers

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"resto_pos_backend/internal/models"
	"resto_pos_backend/internal/services"
	"resto_pos_backend/pkg/utils"
)

type BackupHandler struct {
	backupService *services.BackupService
	orderService  services.OrderService
	tableService  *services.TableService
}

// NewBackupHandler wires the backup endpoints. The order and table services
// are needed after a restore, which replaces the order set underneath them.
func NewBackupHandler(backupService *services.BackupService, orderService services.OrderService, tableService *services.TableService) *BackupHandler {
	return &BackupHandler{backupService: backupService, orderService: orderService, tableService: tableService}
}

// GetBackupLogs handles GET /backups/logs.
func (h *BackupHandler) GetBackupLogs(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		parsed, err := utils.StrToInt64(raw)
		if err != nil || parsed < 1 {
			utils.RespondValidationFailed(c, "limit must be a positive integer")
			return
		}
		limit = int(parsed)
	}

	logs, err := h.backupService.GetBackupLogs(limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// CreateBackup handles POST /backups/create, writing a manual backup file.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	log, err := h.backupService.PerformBackup(models.BackupTypeManual)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, log)
}

// ListBackups handles GET /backups/list.
func (h *BackupHandler) ListBackups(c *gin.Context) {
	files, err := h.backupService.ListBackups()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"files": files})
}

// ExportData handles GET /backups/export, returning the full data set as a
// downloadable JSON document.
func (h *BackupHandler) ExportData(c *gin.Context) {
	data, err := h.backupService.ExportData()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="pos-export.json"`)
	c.JSON(http.StatusOK, data)
}

// DownloadBackup handles GET /backups/download/:filename.
func (h *BackupHandler) DownloadBackup(c *gin.Context) {
	filename := c.Param("filename")
	if filepath.Base(filename) != filename {
		utils.RespondValidationFailed(c, "Invalid backup filename")
		return
	}
	if _, err := h.backupService.ReadBackup(filename); err != nil {
		handleServiceError(c, err)
		return
	}
	c.FileAttachment(filepath.Join(h.backupService.BackupDir(), filename), filename)
}

type restoreRequest struct {
	Filename string             `json:"filename,omitempty"`
	Data     *models.BackupData `json:"data,omitempty"`
}

// RestoreBackup handles POST /backups/restore. The request either names a
// backup file on disk or carries an exported document inline. After the
// restore the order id sequence is re-seeded and table state reconciled
// against the replaced order set.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	var req restoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	var data *models.BackupData
	switch {
	case req.Data != nil:
		data = req.Data
	case req.Filename != "":
		loaded, err := h.backupService.ReadBackup(req.Filename)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		data = loaded
	default:
		utils.RespondValidationFailed(c, "Either filename or data must be provided")
		return
	}

	if err := h.backupService.ImportData(data); err != nil {
		handleServiceError(c, err)
		return
	}
	if err := h.orderService.ResyncSequence(); err != nil {
		handleServiceError(c, err)
		return
	}
	if err := h.tableService.Reconcile(); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.LogInfo("Backup restored", map[string]interface{}{"orders": len(data.Data.Orders)})
	c.JSON(http.StatusOK, gin.H{"message": "Backup restored successfully", "orders_restored": len(data.Data.Orders)})
}

type toggleRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ToggleAutoBackup handles POST /backups/toggle.
func (h *BackupHandler) ToggleAutoBackup(c *gin.Context) {
	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.backupService.SetAutoBackupEnabled(*req.Enabled); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auto_backup_enabled": *req.Enabled})
}
