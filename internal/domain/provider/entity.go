package provider

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// DayHours is the bookable window for one weekday.
type DayHours struct {
	IsOpen bool   `json:"is_open"`
	Open   string `json:"open,omitempty"`  // "09:00"
	Close  string `json:"close,omitempty"` // "17:00"
}

// Schedule holds a provider's weekly hours plus explicit blackout dates.
// Stored as a JSONB column.
type Schedule struct {
	// WeeklyHours is keyed by lowercase weekday name ("monday"),
	// with an optional generic "weekdays" fallback entry.
	WeeklyHours      map[string]DayHours `json:"weekly_hours,omitempty"`
	UnavailableDates []string            `json:"unavailable_dates,omitempty"` // "2025-06-01"
}

func (s Schedule) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *Schedule) Scan(src interface{}) error {
	if src == nil {
		*s = Schedule{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return errors.New("schedule: unsupported scan type")
	}
	return json.Unmarshal(b, s)
}

// Provider is the schedulable party a booking is made against.
type Provider struct {
	ID          uuid.UUID `db:"id" json:"id"`
	UserID      uuid.UUID `db:"user_id" json:"user_id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	Specialty   string    `db:"specialty" json:"specialty,omitempty"`
	AutoConfirm bool      `db:"auto_confirm" json:"auto_confirm"`
	Schedule    Schedule  `db:"schedule" json:"schedule"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
