package schedule

import (
	"fmt"
	"time"
)

const (
	// SlotStepMinutes is the grid every booking start must sit on.
	SlotStepMinutes = 30

	// DefaultSlotMinutes is the implicit duration of a candidate slot when
	// classifying conflicts against booked intervals.
	DefaultSlotMinutes = 30

	// AfternoonStartHour splits the day into morning and afternoon for
	// half-day closures. Fixed business policy, deliberately not derived
	// from the templates.
	AfternoonStartHour = 14
)

// Closure types.
const (
	ClosureFull      = "full"
	ClosureMorning   = "morning"
	ClosureAfternoon = "afternoon"
)

func IsClosureType(t string) bool {
	return t == ClosureFull || t == ClosureMorning || t == ClosureAfternoon
}

// ===============================
// Dates and slot strings
// ===============================

// ParseDate parses a naive YYYY-MM-DD date. time.Parse pins it to UTC
// midnight, so the derived weekday never shifts with the server's zone.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil && len(s) == 10
}

// Weekday returns 0=Sunday..6=Saturday for a YYYY-MM-DD date.
func Weekday(date string) (int, error) {
	d, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	return int(d.Weekday()), nil
}

// IsValidSlot reports whether s is a zero-padded HH:MM string aligned to the
// 30-minute grid.
func IsValidSlot(s string) bool {
	t, err := time.Parse("15:04", s)
	if err != nil || len(s) != 5 {
		return false
	}
	return t.Minute()%SlotStepMinutes == 0
}

// MinuteOfDay converts an HH:MM string to minutes since midnight. Input is
// assumed valid; callers validate at the boundary.
func MinuteOfDay(s string) int {
	t, _ := time.Parse("15:04", s)
	return t.Hour()*60 + t.Minute()
}

func FormatMinute(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// HalfOf classifies a slot as morning or afternoon against the fixed
// 14:00 boundary.
func HalfOf(slot string) string {
	if MinuteOfDay(slot) < AfternoonStartHour*60 {
		return ClosureMorning
	}
	return ClosureAfternoon
}

// Overlaps is the single overlap predicate used everywhere: half-open
// intervals [aStart, aEnd) and [bStart, bEnd) in minutes of day.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return bStart < aEnd && aStart < bEnd
}
