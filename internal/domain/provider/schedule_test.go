package provider_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fonthenet/sihadz-api/internal/domain/provider"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestClockMinutes(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:00", 540, false},
		{"13:30", 810, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"0900", 0, true},
		{"", 0, true},
		{"ab:cd", 0, true},
	}

	for _, c := range cases {
		got, err := provider.ClockMinutes(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("ClockMinutes(%q): expected error, got %d", c.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ClockMinutes(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ClockMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestCheckSlotBlackoutDate(t *testing.T) {
	s := provider.Schedule{
		WeeklyHours: map[string]provider.DayHours{
			"monday": {IsOpen: true, Open: "09:00", Close: "17:00"},
		},
		UnavailableDates: []string{"2026-09-07"},
	}

	// 2026-09-07 is a Monday with hours, but the blackout wins.
	err := s.CheckSlot(mustDate(t, "2026-09-07"), 600)
	if !errors.Is(err, provider.ErrDateUnavailable) {
		t.Fatalf("expected ErrDateUnavailable, got %v", err)
	}
}

func TestCheckSlotClosedDay(t *testing.T) {
	s := provider.Schedule{
		WeeklyHours: map[string]provider.DayHours{
			"monday": {IsOpen: false},
		},
	}

	err := s.CheckSlot(mustDate(t, "2026-09-07"), 600)
	if !errors.Is(err, provider.ErrDayClosed) {
		t.Fatalf("expected ErrDayClosed, got %v", err)
	}
}

func TestCheckSlotOutsideHours(t *testing.T) {
	s := provider.Schedule{
		WeeklyHours: map[string]provider.DayHours{
			"monday": {IsOpen: true, Open: "09:00", Close: "17:00"},
		},
	}
	day := mustDate(t, "2026-09-07")

	cases := []struct {
		name    string
		minutes int
		outside bool
	}{
		{"before open", 8 * 60, true},
		{"at open", 9 * 60, false},
		{"mid day", 12 * 60, false},
		{"last minute", 16*60 + 59, false},
		{"at close", 17 * 60, true},
		{"after close", 20 * 60, true},
	}

	for _, c := range cases {
		err := s.CheckSlot(day, c.minutes)
		if !c.outside {
			if err != nil {
				t.Errorf("%s: expected slot accepted, got %v", c.name, err)
			}
			continue
		}
		if !errors.Is(err, provider.ErrOutsideHours) {
			t.Errorf("%s: expected ErrOutsideHours, got %v", c.name, err)
			continue
		}
		var hoursErr *provider.HoursError
		if !errors.As(err, &hoursErr) {
			t.Errorf("%s: expected HoursError, got %T", c.name, err)
			continue
		}
		if !strings.Contains(hoursErr.Error(), "09:00") || !strings.Contains(hoursErr.Error(), "17:00") {
			t.Errorf("%s: message should carry configured hours, got %q", c.name, hoursErr.Error())
		}
	}
}

func TestCheckSlotWeekdaysFallback(t *testing.T) {
	s := provider.Schedule{
		WeeklyHours: map[string]provider.DayHours{
			"weekdays": {IsOpen: true, Open: "10:00", Close: "18:00"},
			"sunday":   {IsOpen: false},
		},
	}

	// Monday has no specific entry, the generic one applies.
	if err := s.CheckSlot(mustDate(t, "2026-09-07"), 11*60); err != nil {
		t.Fatalf("monday via fallback: expected accepted, got %v", err)
	}
	err := s.CheckSlot(mustDate(t, "2026-09-07"), 9*60)
	if !errors.Is(err, provider.ErrOutsideHours) {
		t.Fatalf("monday via fallback: expected ErrOutsideHours, got %v", err)
	}

	// Sunday has its own entry, which beats the fallback.
	err = s.CheckSlot(mustDate(t, "2026-09-06"), 11*60)
	if !errors.Is(err, provider.ErrDayClosed) {
		t.Fatalf("sunday: expected ErrDayClosed, got %v", err)
	}
}

func TestCheckSlotOpenByDefault(t *testing.T) {
	// No schedule configured at all: every slot is accepted.
	var s provider.Schedule
	if err := s.CheckSlot(mustDate(t, "2026-09-07"), 3*60); err != nil {
		t.Fatalf("empty schedule: expected accepted, got %v", err)
	}

	// Open day with no window behaves the same.
	s = provider.Schedule{
		WeeklyHours: map[string]provider.DayHours{
			"monday": {IsOpen: true},
		},
	}
	if err := s.CheckSlot(mustDate(t, "2026-09-07"), 3*60); err != nil {
		t.Fatalf("open day without window: expected accepted, got %v", err)
	}
}
