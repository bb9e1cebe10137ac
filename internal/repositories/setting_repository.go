package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"resto_pos_backend/internal/models"
)

// SettingRepository defines the interface for key/value settings storage.
type SettingRepository interface {
	GetSetting(key string) (string, error)
	SetSetting(executor SQLExecutor, key, value string) error
	GetSettings() ([]models.Setting, error)
	DeleteAllSettings(executor SQLExecutor) error
}

type settingRepository struct {
	db *sql.DB
}

// NewSettingRepository creates a new instance of SettingRepository.
func NewSettingRepository(db *sql.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetSetting(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: getting setting %s: %v", ErrDatabaseError, key, err)
	}
	return value, nil
}

// SetSetting writes a key, replacing any previous value. The upsert form is
// understood by both sqlite and postgres.
func (r *settingRepository) SetSetting(executor SQLExecutor, key, value string) error {
	query := `INSERT INTO settings (key, value) VALUES ($1, $2)
	          ON CONFLICT (key) DO UPDATE SET value = $2`
	if _, err := executor.Exec(query, key, value); err != nil {
		return fmt.Errorf("%w: setting %s: %v", ErrDatabaseError, key, err)
	}
	return nil
}

func (r *settingRepository) GetSettings() ([]models.Setting, error) {
	settings := []models.Setting{}
	rows, err := r.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying settings: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, fmt.Errorf("%w: scanning setting: %v", ErrDatabaseError, err)
		}
		settings = append(settings, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating setting rows: %v", ErrDatabaseError, err)
	}
	return settings, nil
}

func (r *settingRepository) DeleteAllSettings(executor SQLExecutor) error {
	if _, err := executor.Exec(`DELETE FROM settings`); err != nil {
		return fmt.Errorf("%w: clearing settings: %v", ErrDatabaseError, err)
	}
	return nil
}
