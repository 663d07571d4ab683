package slotengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmost/booking-api/internal/models"
)

func TestOverlapsHalfOpenSemantics(t *testing.T) {
	base := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	min := func(m int) time.Time { return base.Add(time.Duration(m) * time.Minute) }

	cases := []struct {
		name                           string
		startA, endA, startB, endB     time.Time
		want                           bool
	}{
		{"disjoint", min(0), min(30), min(60), min(90), false},
		{"touching at boundary", min(0), min(30), min(30), min(60), false},
		{"touching other side", min(30), min(60), min(0), min(30), false},
		{"partial overlap", min(0), min(45), min(30), min(90), true},
		{"contained", min(15), min(30), min(0), min(60), true},
		{"containing", min(0), min(60), min(15), min(30), true},
		{"identical", min(0), min(30), min(0), min(30), true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.startA, tc.endA, tc.startB, tc.endB))
		})
	}
}

func TestCombineDateTime(t *testing.T) {
	date := time.Date(2025, 6, 11, 16, 45, 33, 912, time.UTC)

	combined, err := CombineDateTime(date, "09:05")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 6, 11, 9, 5, 0, 0, time.UTC), combined)

	_, err = CombineDateTime(date, "9am")
	assert.Error(t, err)
	_, err = CombineDateTime(date, "24:00")
	assert.Error(t, err)
	_, err = CombineDateTime(date, "12:61")
	assert.Error(t, err)
}

func TestIsWorkingDay(t *testing.T) {
	stylist := models.Stylist{WorkingDays: models.WorkingDays{2, 3, 4, 5, 6}}

	tuesday := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Tuesday, tuesday.Weekday())
	monday := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsWorkingDay(stylist, tuesday))
	assert.False(t, IsWorkingDay(stylist, monday))
}

func TestDateKey(t *testing.T) {
	assert.Equal(t, "2025-06-11", DateKey(time.Date(2025, 6, 11, 23, 59, 0, 0, time.UTC)))
}

func TestFilterFutureSlots(t *testing.T) {
	now := time.Date(2025, 6, 11, 12, 0, 0, 0, time.UTC)
	slots := []time.Time{
		now.Add(-15 * time.Minute),
		now, // exactly now is not bookable
		now.Add(15 * time.Minute),
		now.Add(30 * time.Minute),
	}

	future := FilterFutureSlots(slots, now)
	require.Len(t, future, 2)
	assert.Equal(t, now.Add(15*time.Minute), future[0])
	assert.Equal(t, now.Add(30*time.Minute), future[1])

	assert.Empty(t, FilterFutureSlots(nil, now))
}

func TestBookingRangesSkipsCancelled(t *testing.T) {
	start := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	bookings := []models.Booking{
		{Status: models.BookingStatusConfirmed, StartTime: start, EndTime: start.Add(time.Hour)},
		{Status: models.BookingStatusCancelled, StartTime: start.Add(2 * time.Hour), EndTime: start.Add(3 * time.Hour)},
		{Status: models.BookingStatusPending, StartTime: start.Add(4 * time.Hour), EndTime: start.Add(5 * time.Hour)},
	}

	ranges := BookingRanges(bookings)
	require.Len(t, ranges, 2)
	assert.Equal(t, start, ranges[0].Start)
	assert.Equal(t, start.Add(4*time.Hour), ranges[1].Start)
}
