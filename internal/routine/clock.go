package routine

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockTime is a parsed "H:MM AM/PM" wall-clock time.
type ClockTime struct {
	Hour   int // 0..23
	Minute int // 0..59
}

// ParseClock converts a routine item's time string ("7:30 AM", "12:00 PM")
// into a 24-hour ClockTime. The 12-hour conversion rules: PM with hour < 12
// adds 12; 12 AM becomes hour 0.
func ParseClock(s string) (ClockTime, error) {
	parts := strings.Fields(strings.TrimSpace(s))
	if len(parts) != 2 {
		return ClockTime{}, fmt.Errorf("invalid time %q: expected \"H:MM AM/PM\"", s)
	}

	meridiem := strings.ToUpper(parts[1])
	if meridiem != "AM" && meridiem != "PM" {
		return ClockTime{}, fmt.Errorf("invalid time %q: meridiem must be AM or PM", s)
	}

	hm := strings.Split(parts[0], ":")
	if len(hm) != 2 {
		return ClockTime{}, fmt.Errorf("invalid time %q: expected \"H:MM\"", s)
	}

	hour, err := strconv.Atoi(hm[0])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(hm[1])
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}

	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return ClockTime{}, fmt.Errorf("time %q out of range", s)
	}

	if meridiem == "PM" && hour < 12 {
		hour += 12
	} else if meridiem == "AM" && hour == 12 {
		hour = 0
	}

	return ClockTime{Hour: hour, Minute: minute}, nil
}

// At anchors the clock time to a calendar day, seconds and below zeroed.
func (ct ClockTime) At(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), ct.Hour, ct.Minute, 0, 0, day.Location())
}

// String renders the time back in "H:MM AM/PM" form.
func (ct ClockTime) String() string {
	meridiem := "AM"
	hour := ct.Hour
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		hour -= 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, ct.Minute, meridiem)
}
