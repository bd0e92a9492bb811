package provider

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// weekdaysFallbackKey is the generic weekly-hours entry consulted when
// no entry exists for the specific weekday.
const weekdaysFallbackKey = "weekdays"

// HoursError reports a requested time outside the provider's window,
// carrying the configured hours for the user-facing message.
type HoursError struct {
	Open  string
	Close string
}

func (e *HoursError) Error() string {
	return fmt.Sprintf("requested time is outside business hours (%s - %s)", e.Open, e.Close)
}

func (e *HoursError) Unwrap() error { return ErrOutsideHours }

// ClockMinutes parses an "HH:MM" clock value into minutes since midnight.
func ClockMinutes(s string) (int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid clock value %q", s)
	}
	return h*60 + m, nil
}

// hoursFor resolves the weekly-hours entry for a weekday using the
// ordered lookup: specific day, then the generic "weekdays" fallback.
// The hard default, when neither exists, is open with no window.
func (s Schedule) hoursFor(weekday string) (DayHours, bool) {
	if h, ok := s.WeeklyHours[weekday]; ok {
		return h, true
	}
	if h, ok := s.WeeklyHours[weekdaysFallbackKey]; ok {
		return h, true
	}
	return DayHours{}, false
}

// CheckSlot evaluates the requested date and time (minutes since
// midnight) against the schedule. Pure, no mutation.
func (s Schedule) CheckSlot(date time.Time, minutes int) error {
	day := date.Format("2006-01-02")
	for _, blocked := range s.UnavailableDates {
		if blocked == day {
			return ErrDateUnavailable
		}
	}

	weekday := strings.ToLower(date.Weekday().String())
	hours, ok := s.hoursFor(weekday)
	if !ok {
		// No hours configured at all: open by default.
		return nil
	}
	if !hours.IsOpen {
		return ErrDayClosed
	}
	if hours.Open == "" || hours.Close == "" {
		return nil
	}

	openAt, err := ClockMinutes(hours.Open)
	if err != nil {
		return nil
	}
	closeAt, err := ClockMinutes(hours.Close)
	if err != nil {
		return nil
	}
	if minutes < openAt || minutes >= closeAt {
		return &HoursError{Open: hours.Open, Close: hours.Close}
	}
	return nil
}
