package db

import (
	"errors"

	"gorm.io/gorm"
)

// SyncSchema creates/updates tables and indexes from models. The local
// schema is small enough that versioned migrations are not needed.
func SyncSchema(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is required")
	}
	if err := db.AutoMigrate(
		&Config{},
		&BookingAttempt{},
	); err != nil {
		return err
	}
	return db.Exec(`CREATE INDEX IF NOT EXISTS idx_attempts_created_at ON booking_attempts(created_at DESC);`).Error
}
