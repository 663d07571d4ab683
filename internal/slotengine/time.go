package slotengine

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/salonmost/booking-api/internal/models"
)

// Overlaps reports whether the half-open intervals [startA, endA) and
// [startB, endB) intersect. Intervals that only touch at a boundary do not
// overlap, which is what allows back-to-back appointments.
func Overlaps(startA, endA, startB, endB time.Time) bool {
	return startA.Before(endB) && endA.After(startB)
}

// ParseClock parses a local "HH:MM" time-of-day string.
func ParseClock(clock string) (hour, minute int, err error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed clock value %q", clock)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed clock value %q", clock)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed clock value %q", clock)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("clock value %q out of range", clock)
	}
	return hour, minute, nil
}

// CombineDateTime anchors a "HH:MM" time-of-day on the calendar date of t,
// zeroing seconds and sub-second components.
func CombineDateTime(t time.Time, clock string) (time.Time, error) {
	hour, minute, err := ParseClock(clock)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), hour, minute, 0, 0, t.Location()), nil
}

// IsWorkingDay reports whether date falls on one of the stylist's working
// weekdays (0=Sunday..6=Saturday).
func IsWorkingDay(stylist models.Stylist, date time.Time) bool {
	return stylist.WorkingDays.Contains(int(date.Weekday()))
}

// DateKey formats t as YYYY-MM-DD for cache keys and day grouping.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// FilterFutureSlots keeps only slots strictly after now, preserving order.
// A slot starting exactly at now is excluded.
func FilterFutureSlots(slots []time.Time, now time.Time) []time.Time {
	out := make([]time.Time, 0, len(slots))
	for _, s := range slots {
		if s.After(now) {
			out = append(out, s)
		}
	}
	return out
}
