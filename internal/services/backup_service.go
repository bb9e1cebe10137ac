package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"resto_pos_backend/internal/models"
	"resto_pos_backend/internal/repositories"
	"resto_pos_backend/pkg/utils"
)

const backupDataVersion = 1

var ErrBackupNotFound = errors.New("backup file not found")

// BackupService exports and restores the full data set as JSON documents and
// runs the automatic backup scheduler.
type BackupService struct {
	orderRepo   repositories.OrderRepository
	settingRepo repositories.SettingRepository
	logRepo     repositories.BackupLogRepository
	db          *sql.DB
	dir         string
	interval    time.Duration
	retention   time.Duration
	checkEvery  time.Duration
	now         func() time.Time
	stop        chan struct{}
}

// NewBackupService wires the backup subsystem. Backup files are written to
// dir; automatic backups run at most once per interval and files older than
// retention are pruned on each run.
func NewBackupService(orderRepo repositories.OrderRepository, settingRepo repositories.SettingRepository, logRepo repositories.BackupLogRepository, db *sql.DB, dir string) *BackupService {
	return &BackupService{
		orderRepo:   orderRepo,
		settingRepo: settingRepo,
		logRepo:     logRepo,
		db:          db,
		dir:         dir,
		interval:    24 * time.Hour,
		retention:   30 * 24 * time.Hour,
		checkEvery:  time.Hour,
		now:         time.Now,
		stop:        make(chan struct{}),
	}
}

// BackupDir returns the directory backup files are written to.
func (s *BackupService) BackupDir() string {
	return s.dir
}

// ExportData collects every order (items included), all settings and the
// backup log into a single document.
func (s *BackupService) ExportData() (*models.BackupData, error) {
	orders, _, err := s.orderRepo.GetOrders(models.OrderFilters{})
	if err != nil {
		return nil, err
	}
	for i := range orders {
		items, err := s.orderRepo.GetOrderItemsByOrderID(orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}

	settings, err := s.settingRepo.GetSettings()
	if err != nil {
		return nil, err
	}
	logs, err := s.logRepo.GetBackupLogs(0)
	if err != nil {
		return nil, err
	}

	return &models.BackupData{
		Version:   backupDataVersion,
		Timestamp: s.now(),
		Data: models.BackupTables{
			Orders:     orders,
			Settings:   settings,
			BackupLogs: logs,
		},
	}, nil
}

// ImportData replaces the entire data set with the given document in one
// transaction. Order ids are restored verbatim; the caller must re-seed the
// order sequence and reconcile table state afterwards.
func (s *BackupService) ImportData(data *models.BackupData) error {
	if data.Version != backupDataVersion {
		return fmt.Errorf("%w: unsupported backup version %d", ErrValidation, data.Version)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: beginning restore transaction: %v", repositories.ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if err := s.orderRepo.DeleteAllOrders(tx); err != nil {
		return err
	}
	if err := s.settingRepo.DeleteAllSettings(tx); err != nil {
		return err
	}
	if err := s.logRepo.DeleteAllBackupLogs(tx); err != nil {
		return err
	}

	for i := range data.Data.Orders {
		order := &data.Data.Orders[i]
		if err := s.orderRepo.CreateOrder(tx, order); err != nil {
			return err
		}
		for j := range order.Items {
			order.Items[j].OrderID = order.ID
			if err := s.orderRepo.CreateOrderItem(tx, &order.Items[j]); err != nil {
				return err
			}
		}
	}
	for _, setting := range data.Data.Settings {
		if err := s.settingRepo.SetSetting(tx, setting.Key, setting.Value); err != nil {
			return err
		}
	}
	for i := range data.Data.BackupLogs {
		if err := s.logRepo.CreateBackupLog(tx, &data.Data.BackupLogs[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing restore transaction: %v", repositories.ErrDatabaseError, err)
	}
	return nil
}

// PerformBackup writes a backup file and records the attempt in the backup
// log. Automatic backups also advance the last-backup marker.
func (s *BackupService) PerformBackup(backupType models.BackupType) (*models.BackupLog, error) {
	data, err := s.ExportData()
	if err != nil {
		s.recordAttempt(backupType, false, "")
		return nil, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		s.recordAttempt(backupType, false, "")
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	filename := fmt.Sprintf("%s-backup-%s.json", backupType, s.now().Format("2006-01-02T15-04-05"))
	path := filepath.Join(s.dir, filename)

	payload, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		s.recordAttempt(backupType, false, "")
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		s.recordAttempt(backupType, false, "")
		return nil, fmt.Errorf("writing backup file: %w", err)
	}

	if backupType == models.BackupTypeAuto {
		if err := s.settingRepo.SetSetting(s.db, models.SettingLastBackupDate, s.now().Format(time.RFC3339)); err != nil {
			utils.LogError(err, "Failed to record last backup date", nil)
		}
	}

	log := s.recordAttempt(backupType, true, path)
	utils.LogInfo("Backup written", map[string]interface{}{"type": backupType, "file": path})
	return log, nil
}

func (s *BackupService) recordAttempt(backupType models.BackupType, success bool, path string) *models.BackupLog {
	log := &models.BackupLog{
		Timestamp: s.now(),
		Type:      backupType,
		Success:   success,
		FilePath:  path,
	}
	if err := s.logRepo.CreateBackupLog(s.db, log); err != nil {
		utils.LogError(err, "Failed to record backup attempt", nil)
	}
	return log
}

// ListBackups returns the backup filenames on disk, newest first.
func (s *BackupService) ListBackups() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

// ReadBackup loads a backup document by filename. The name must be a bare
// filename from ListBackups, never a path.
func (s *BackupService) ReadBackup(filename string) (*models.BackupData, error) {
	if filepath.Base(filename) != filename || !strings.HasSuffix(filename, ".json") {
		return nil, fmt.Errorf("%w: invalid backup filename", ErrValidation)
	}
	payload, err := os.ReadFile(filepath.Join(s.dir, filename))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrBackupNotFound, filename)
		}
		return nil, fmt.Errorf("reading backup file: %w", err)
	}
	var data models.BackupData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("%w: malformed backup file: %v", ErrValidation, err)
	}
	return &data, nil
}

// GetBackupLogs returns the most recent backup attempts.
func (s *BackupService) GetBackupLogs(limit int) ([]models.BackupLog, error) {
	return s.logRepo.GetBackupLogs(limit)
}

// AutoBackupEnabled reports the scheduler toggle; it defaults to on when the
// setting was never written.
func (s *BackupService) AutoBackupEnabled() (bool, error) {
	value, err := s.settingRepo.GetSetting(models.SettingAutoBackupEnabled)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return value == "true", nil
}

// SetAutoBackupEnabled flips the scheduler toggle.
func (s *BackupService) SetAutoBackupEnabled(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return s.settingRepo.SetSetting(s.db, models.SettingAutoBackupEnabled, value)
}

// Start launches the scheduler goroutine: every check interval it runs an
// automatic backup when the toggle is on and the last one is older than the
// backup interval, then prunes expired automatic backup files.
func (s *BackupService) Start() {
	go func() {
		ticker := time.NewTicker(s.checkEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.checkAndBackup()
			case <-s.stop:
				return
			}
		}
	}()
}

// Stop shuts down the scheduler goroutine.
func (s *BackupService) Stop() {
	close(s.stop)
}

func (s *BackupService) checkAndBackup() {
	enabled, err := s.AutoBackupEnabled()
	if err != nil {
		utils.LogError(err, "Failed to read auto-backup setting", nil)
		return
	}
	if !enabled {
		return
	}

	if last, err := s.settingRepo.GetSetting(models.SettingLastBackupDate); err == nil {
		if lastTime, parseErr := time.Parse(time.RFC3339, last); parseErr == nil {
			if s.now().Sub(lastTime) < s.interval {
				return
			}
		}
	} else if !errors.Is(err, repositories.ErrNotFound) {
		utils.LogError(err, "Failed to read last backup date", nil)
		return
	}

	if _, err := s.PerformBackup(models.BackupTypeAuto); err != nil {
		utils.LogError(err, "Automatic backup failed", nil)
	}
	s.cleanOldBackups()
}

// cleanOldBackups removes automatic backup files past the retention window.
// Manual backups are never pruned.
func (s *BackupService) cleanOldBackups() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			utils.LogError(err, "Failed to scan backup directory for pruning", nil)
		}
		return
	}

	cutoff := s.now().Add(-s.retention)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "auto-backup-") || !strings.HasSuffix(name, ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
				utils.LogError(err, "Failed to prune expired backup", map[string]interface{}{"file": name})
			} else {
				utils.LogInfo("Pruned expired backup", map[string]interface{}{"file": name})
			}
		}
	}
}
