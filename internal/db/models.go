package db

// Config is a small key/value table for locally persisted settings and the
// encrypted session token.
type Config struct {
	Key       string `gorm:"column:key;primaryKey"`
	Value     string `gorm:"column:value;not null;default:''"`
	UpdatedAt int64  `gorm:"column:updated_at;not null;default:0"`
}

func (Config) TableName() string { return "config" }

// BookingAttempt journals one run of the booking workflow: which (user,
// event) pair it was for, the terminal state it reached and, on failure, the
// normalized error. The remote service stays the source of truth for booking
// records; this table only records what this client attempted.
type BookingAttempt struct {
	AttemptID string `gorm:"column:attempt_id;primaryKey"`
	UserID    string `gorm:"column:user_id;not null;default:'';index:idx_attempts_user_event,priority:1"`
	EventSlug string `gorm:"column:event_slug;not null;default:'';index:idx_attempts_user_event,priority:2"`
	State     string `gorm:"column:state;not null;default:''"`
	ErrorKind string `gorm:"column:error_kind;not null;default:''"`
	ErrorText string `gorm:"column:error_text;not null;default:''"`
	BookingID int64  `gorm:"column:booking_id;not null;default:0"`
	CreatedAt int64  `gorm:"column:created_at;not null;default:0"`
	UpdatedAt int64  `gorm:"column:updated_at;not null;default:0"`
}

func (BookingAttempt) TableName() string { return "booking_attempts" }
