// Package timegrid provides the pure date and time utilities behind the
// calendar: time-slot enumeration, week and month boundary computation, and
// date-key formatting that is immune to timezone drift.
package timegrid

import (
	"errors"
	"fmt"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateKey = errors.New("date key must be in YYYY-MM-DD format")
	ErrInvalidTime    = errors.New("time must be in HH:MM format")
)

// GridStartHour is the earliest displayed hour, the zero point for vertical
// positioning in the day and week views.
const GridStartHour = 6

// GridEndHour is the last slot of the grid, midnight rendered as hour 24.
const GridEndHour = 24

// Slot is one hourly row of the calendar grid. Hour runs 6..24; the final
// slot represents midnight and displays as "12 AM".
type Slot struct {
	Key     string // "HH:00", the slot's wire identity ("24:00" for midnight)
	Display string // "6 AM" .. "11 PM", "12 AM"
	Hour    int    // 6..24
}

// Slots returns the fixed sequence of 19 hourly slots from 6:00 through
// midnight. The result is freshly allocated; callers may not rely on shared
// backing storage but the content is always identical.
func Slots() []Slot {
	slots := make([]Slot, 0, GridEndHour-GridStartHour+1)
	for h := GridStartHour; h <= GridEndHour; h++ {
		slots = append(slots, Slot{
			Key:     fmt.Sprintf("%02d:00", h),
			Display: hourLabel(h),
			Hour:    h,
		})
	}
	return slots
}

func hourLabel(h int) string {
	switch {
	case h == 24:
		return "12 AM"
	case h == 12:
		return "12 PM"
	case h < 12:
		return fmt.Sprintf("%d AM", h)
	default:
		return fmt.Sprintf("%d PM", h-12)
	}
}

// TruncateToDay returns t with the time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay returns true if the two times fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// WeekStart returns the Sunday on or before t, truncated to midnight.
func WeekStart(t time.Time) time.Time {
	day := TruncateToDay(t)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// WeekEnd returns the Saturday of t's week at the last representable moment
// of the day.
func WeekEnd(t time.Time) time.Time {
	start := WeekStart(t)
	return endOfDay(start.AddDate(0, 0, 6))
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// MonthGridStart returns the Sunday beginning the week that contains the
// first day of t's month, so the month grid is always whole weeks.
func MonthGridStart(t time.Time) time.Time {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return WeekStart(first)
}

// MonthGridEnd returns the Saturday ending the week that contains the last
// day of t's month.
func MonthGridEnd(t time.Time) time.Time {
	last := time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
	return WeekEnd(last)
}

// FormatDateKey renders t as "YYYY-MM-DD" from its local components. The key
// is built without any UTC round trip, so a date near midnight never shifts
// by a day under a non-zero UTC offset.
func FormatDateKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDateKey parses a "YYYY-MM-DD" key into local midnight of that day.
// It is the exact inverse of FormatDateKey.
func ParseDateKey(key string) (time.Time, error) {
	if len(key) != 10 || key[4] != '-' || key[7] != '-' {
		return time.Time{}, ErrInvalidDateKey
	}
	var year, month, day int
	if _, err := fmt.Sscanf(key, "%04d-%02d-%02d", &year, &month, &day); err != nil {
		return time.Time{}, ErrInvalidDateKey
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, ErrInvalidDateKey
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.Local), nil
}

// At combines a day with a wall-clock "HH:MM" time in the day's location.
// Hour 24 resolves to midnight of the following day.
func At(day time.Time, clock string) (time.Time, error) {
	hour, minute, err := parseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location()), nil
}

func parseClock(clock string) (hour, minute int, err error) {
	if len(clock) != 5 || clock[2] != ':' {
		return 0, 0, ErrInvalidTime
	}
	if _, err := fmt.Sscanf(clock, "%02d:%02d", &hour, &minute); err != nil {
		return 0, 0, ErrInvalidTime
	}
	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, 0, ErrInvalidTime
	}
	return hour, minute, nil
}

// MinutesSinceGridStart returns the minutes between t's wall-clock time and
// the 6:00 grid start, clamped at zero for earlier times.
func MinutesSinceGridStart(t time.Time) int {
	mins := (t.Hour()-GridStartHour)*60 + t.Minute()
	if mins < 0 {
		return 0
	}
	return mins
}
