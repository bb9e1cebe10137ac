package repositories

import (
	"database/sql"
	"fmt"

	"resto_pos_backend/internal/models"
)

// BackupLogRepository defines the interface for backup attempt records.
type BackupLogRepository interface {
	CreateBackupLog(executor SQLExecutor, log *models.BackupLog) error
	GetBackupLogs(limit int) ([]models.BackupLog, error)
	DeleteAllBackupLogs(executor SQLExecutor) error
}

type backupLogRepository struct {
	db *sql.DB
}

// NewBackupLogRepository creates a new instance of BackupLogRepository.
func NewBackupLogRepository(db *sql.DB) BackupLogRepository {
	return &backupLogRepository{db: db}
}

func (r *backupLogRepository) CreateBackupLog(executor SQLExecutor, log *models.BackupLog) error {
	success := 0
	if log.Success {
		success = 1
	}
	query := `INSERT INTO backup_logs (timestamp, type, success, file_path) VALUES ($1, $2, $3, $4)`
	if _, err := executor.Exec(query, log.Timestamp, log.Type, success, log.FilePath); err != nil {
		return fmt.Errorf("%w: creating backup log: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetBackupLogs returns the most recent attempts first. A limit of zero or
// less returns all of them.
func (r *backupLogRepository) GetBackupLogs(limit int) ([]models.BackupLog, error) {
	logs := []models.BackupLog{}
	query := `SELECT id, timestamp, type, success, file_path FROM backup_logs ORDER BY timestamp DESC, id DESC`
	var args []interface{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying backup logs: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l models.BackupLog
		var success int
		if err := rows.Scan(&l.ID, &l.Timestamp, &l.Type, &success, &l.FilePath); err != nil {
			return nil, fmt.Errorf("%w: scanning backup log: %v", ErrDatabaseError, err)
		}
		l.Success = success != 0
		logs = append(logs, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating backup log rows: %v", ErrDatabaseError, err)
	}
	return logs, nil
}

func (r *backupLogRepository) DeleteAllBackupLogs(executor SQLExecutor) error {
	if _, err := executor.Exec(`DELETE FROM backup_logs`); err != nil {
		return fmt.Errorf("%w: clearing backup logs: %v", ErrDatabaseError, err)
	}
	return nil
}
