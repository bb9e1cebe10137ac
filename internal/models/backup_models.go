package models

import "time"

// Setting is one key/value row of the application settings table.
type Setting struct {
	Key   string `json:"key" db:"key"`
	Value string `json:"value" db:"value"`
}

// Setting keys used by the backup scheduler.
const (
	SettingAutoBackupEnabled = "auto_backup_enabled"
	SettingLastBackupDate    = "last_backup_date"
)

// BackupType distinguishes scheduled from operator-triggered backups.
type BackupType string

const (
	BackupTypeAuto   BackupType = "auto"
	BackupTypeManual BackupType = "manual"
)

// BackupLog records one backup attempt.
type BackupLog struct {
	ID        int64      `json:"id" db:"id"`
	Timestamp time.Time  `json:"timestamp" db:"timestamp"`
	Type      BackupType `json:"type" db:"type"`
	Success   bool       `json:"success" db:"success"`
	FilePath  string     `json:"file_path" db:"file_path"`
}

// BackupData is the JSON document written by an export and accepted by a
// restore. A restore of an export must reproduce the order set
// field-for-field, ids included.
type BackupData struct {
	Version   int          `json:"version"`
	Timestamp time.Time    `json:"timestamp"`
	Data      BackupTables `json:"data"`
}

// BackupTables groups the exported record sets.
type BackupTables struct {
	Orders     []Order     `json:"orders"`
	Settings   []Setting   `json:"settings"`
	BackupLogs []BackupLog `json:"backup_logs"`
}
