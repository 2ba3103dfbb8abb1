package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Business day boundaries. A business day runs 09:00 local to 08:00 local
// the next calendar day, so night shifts belong to one coherent day.
const (
	BusinessDayStartHour = 9
	BusinessDayEndHour   = 8
)

// CheckoutCutoffMinutes is the minutes-since-midnight boundary (08:00) used
// to decide whether a midnight-crossing check-out belongs to the next day.
const CheckoutCutoffMinutes = BusinessDayEndHour * 60

// MinutesPerDay normalizes midnight-crossing clock arithmetic.
const MinutesPerDay = 24 * 60

// FixedZone builds a DST-free location for the given offset in minutes east of UTC.
func FixedZone(offsetMinutes int) *time.Location {
	sign := "+"
	abs := offsetMinutes
	if abs < 0 {
		sign = "-"
		abs = -abs
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/60, abs%60)
	return time.FixedZone(name, offsetMinutes*60)
}

// DateOf truncates an instant to local midnight in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// BusinessDayWindow returns the half-open instant window
// [businessDate 09:00, businessDate+1 08:00) in loc.
func BusinessDayWindow(businessDate time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(businessDate.Year(), businessDate.Month(), businessDate.Day(),
		BusinessDayStartHour, 0, 0, 0, loc)
	next := businessDate.AddDate(0, 0, 1)
	end := time.Date(next.Year(), next.Month(), next.Day(),
		BusinessDayEndHour, 0, 0, 0, loc)
	return start, end
}

// SaturdayIndexInMonth returns the 1-based index (1-5) of the given day if it
// is a Saturday, or (0, false) otherwise.
func SaturdayIndexInMonth(year int, month time.Month, day int) (int, bool) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	dowOfFirst := int(first.Weekday())
	firstSaturday := 1 + ((6-dowOfFirst)+7)%7
	if day < firstSaturday || (day-firstSaturday)%7 != 0 {
		return 0, false
	}
	return 1 + (day-firstSaturday)/7, true
}

// DaysInMonth returns the actual number of days (28-31) in the calendar month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseClock converts an "HH:MM" string to minutes since midnight.
// Malformed input yields zero, never an error.
func ParseClock(s string) int {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0
	}
	return h*60 + m
}

// MinutesSinceMidnight converts an instant to minutes past local midnight in loc.
func MinutesSinceMidnight(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// SameLocalDate reports whether two instants fall on the same calendar date in loc.
func SameLocalDate(a, b time.Time, loc *time.Location) bool {
	al, bl := a.In(loc), b.In(loc)
	return al.Year() == bl.Year() && al.Month() == bl.Month() && al.Day() == bl.Day()
}

// FormatDate renders a date in the canonical YYYY-MM-DD form used throughout
// the engine and its storage layer.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
