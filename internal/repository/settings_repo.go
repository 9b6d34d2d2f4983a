package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"versequest/internal/database"
)

// SettingMaskInterval is the settings key for the fill-in masking interval.
const SettingMaskInterval = "mask_interval"

// SettingsRepository reads and writes application-wide settings
type SettingsRepository struct {
	db database.DBTX
}

func NewSettingsRepository(db database.DBTX) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key. ok is false when it is unset.
func (r *SettingsRepository) GetSetting(key string) (value string, ok bool, err error) {
	err = r.db.QueryRow("SELECT setting_value FROM settings WHERE setting_key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(key, value string) error {
	if _, err := r.db.Exec(r.db.GetDialect().UpsertSettingQuery(), key, value); err != nil {
		return fmt.Errorf("failed to save setting %s: %w", key, err)
	}
	return nil
}

// GetMaskInterval returns the stored masking interval, or fallback when none
// is stored or the stored value is not a number.
func (r *SettingsRepository) GetMaskInterval(fallback int) int {
	value, ok, err := r.GetSetting(SettingMaskInterval)
	if err != nil || !ok {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}

// SetMaskInterval stores the masking interval
func (r *SettingsRepository) SetMaskInterval(interval int) error {
	return r.SetSetting(SettingMaskInterval, strconv.Itoa(interval))
}
