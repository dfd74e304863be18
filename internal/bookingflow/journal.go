package bookingflow

import (
	"errors"
	"time"

	dbmodel "devevent/cli/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Journal records the terminal outcome of each submission in the local
// database. The remote service stays the source of truth for bookings; the
// journal only answers "what did this client attempt and how did it end",
// which is what the manage-bookings screen shows for failed attempts.
type Journal struct {
	db *gorm.DB
}

func NewJournal(gdb *gorm.DB) (*Journal, error) {
	if gdb == nil {
		return nil, errors.New("db is required")
	}
	return &Journal{db: gdb}, nil
}

func (j *Journal) Record(userID, eventSlug string, res Result) error {
	if j == nil || j.db == nil {
		return errors.New("journal is not initialized")
	}
	now := time.Now().UTC().Unix()
	row := dbmodel.BookingAttempt{
		AttemptID: res.AttemptID,
		UserID:    userID,
		EventSlug: eventSlug,
		State:     string(res.State),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if res.Err != nil {
		row.ErrorKind = string(res.Err.Kind)
		row.ErrorText = res.Err.Message
	}
	if res.Booking != nil {
		row.BookingID = res.Booking.ID
	}
	return j.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "attempt_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"state":      row.State,
			"error_kind": row.ErrorKind,
			"error_text": row.ErrorText,
			"booking_id": row.BookingID,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
}

// Recent lists the latest attempts, newest first.
func (j *Journal) Recent(limit int) ([]dbmodel.BookingAttempt, error) {
	if j == nil || j.db == nil {
		return nil, errors.New("journal is not initialized")
	}
	if limit <= 0 {
		limit = 50
	}
	var rows []dbmodel.BookingAttempt
	err := j.db.Order("created_at DESC, attempt_id DESC").Limit(limit).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
