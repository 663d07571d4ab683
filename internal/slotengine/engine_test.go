package slotengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmost/booking-api/internal/models"
)

func strPtr(s string) *string { return &s }

func testDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func at(t *testing.T, date time.Time, clock string) time.Time {
	t.Helper()
	ts, err := CombineDateTime(date, clock)
	require.NoError(t, err)
	return ts
}

func fullWeek() models.WorkingDays {
	return models.WorkingDays{0, 1, 2, 3, 4, 5, 6}
}

func testStylist() models.Stylist {
	return models.Stylist{
		ID:          "stylist-1",
		Name:        "Amara",
		WorkingDays: fullWeek(),
		StartTime:   "09:00",
		EndTime:     "18:00",
		IsActive:    true,
	}
}

func TestSlotsForStylistAroundExistingBooking(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")
	stylist := testStylist()

	bookings := []Range{{Start: at(t, date, "10:00"), End: at(t, date, "11:00")}}

	slots, err := engine.SlotsForStylist(stylist, date, 60, bookings, nil)
	require.NoError(t, err)

	// 09:00 ends exactly at the booking start, so it survives; 09:15
	// through 10:45 all collide; the next opening is 11:00.
	require.NotEmpty(t, slots)
	assert.Equal(t, at(t, date, "09:00"), slots[0])
	assert.Equal(t, at(t, date, "11:00"), slots[1])

	for _, s := range slots {
		assert.False(t, Overlaps(s, s.Add(60*time.Minute), bookings[0].Start, bookings[0].End),
			"slot %s overlaps the existing booking", s.Format("15:04"))
	}

	// Last start that still ends by closing at 18:00.
	assert.Equal(t, at(t, date, "17:00"), slots[len(slots)-1])
	// 09:00 plus every quarter hour from 11:00 through 17:00 inclusive.
	assert.Len(t, slots, 1+25)
}

func TestSlotsForStylistBreakBoundary(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")
	stylist := testStylist()
	stylist.BreakStart = strPtr("13:00")
	stylist.BreakEnd = strPtr("14:00")

	slots, err := engine.SlotsForStylist(stylist, date, 45, nil, nil)
	require.NoError(t, err)

	byStart := map[string]bool{}
	for _, s := range slots {
		byStart[s.Format("15:04")] = true
	}

	// 12:15 ends exactly at 13:00: touching is not overlapping.
	assert.True(t, byStart["12:15"])
	// 12:30 ends 13:15, inside the break.
	assert.False(t, byStart["12:30"])
	// Nothing may start during the break either.
	assert.False(t, byStart["13:00"])
	assert.False(t, byStart["13:45"])
	// First slot after the break.
	assert.True(t, byStart["14:00"])
}

func TestSlotsForStylistNonWorkingDay(t *testing.T) {
	engine := New(Config{})
	stylist := testStylist()
	stylist.WorkingDays = models.WorkingDays{1, 2, 3, 4, 5} // weekdays only

	sunday := testDate(t, "2025-06-08")
	require.Equal(t, time.Sunday, sunday.Weekday())

	slots, err := engine.SlotsForStylist(stylist, sunday, 30, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSlotsForStylistGridAlignmentAndContainment(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")
	stylist := testStylist()
	stylist.StartTime = "09:30"
	stylist.EndTime = "17:10"

	slots, err := engine.SlotsForStylist(stylist, date, 40, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	windowStart := at(t, date, "09:30")
	windowEnd := at(t, date, "17:10")
	for _, s := range slots {
		offset := s.Sub(windowStart)
		assert.Zero(t, offset%DefaultSlotInterval, "start %s is off the 15-minute grid", s.Format("15:04"))
		assert.False(t, s.Add(40*time.Minute).After(windowEnd), "slot %s runs past closing", s.Format("15:04"))
	}
}

func TestSlotsForStylistBackToBackAdjacency(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")
	stylist := testStylist()

	bookings := []Range{{Start: at(t, date, "10:00"), End: at(t, date, "10:30")}}

	slots, err := engine.SlotsForStylist(stylist, date, 30, bookings, nil)
	require.NoError(t, err)

	byStart := map[string]bool{}
	for _, s := range slots {
		byStart[s.Format("15:04")] = true
	}
	// Ends exactly when the booking starts.
	assert.True(t, byStart["09:30"])
	// Starts exactly when the booking ends.
	assert.True(t, byStart["10:30"])
	assert.False(t, byStart["10:00"])
	assert.False(t, byStart["10:15"])
	assert.False(t, byStart["09:45"])
}

func TestSlotsForStylistExternalBlocks(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")
	stylist := testStylist()

	blocked := []Range{{Start: at(t, date, "15:00"), End: at(t, date, "16:00")}}

	slots, err := engine.SlotsForStylist(stylist, date, 30, nil, blocked)
	require.NoError(t, err)

	for _, s := range slots {
		assert.False(t, Overlaps(s, s.Add(30*time.Minute), blocked[0].Start, blocked[0].End),
			"slot %s overlaps the calendar block", s.Format("15:04"))
	}
}

func TestSlotsForStylistDeterminism(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")
	stylist := testStylist()
	stylist.BreakStart = strPtr("12:00")
	stylist.BreakEnd = strPtr("13:00")
	bookings := []Range{{Start: at(t, date, "09:30"), End: at(t, date, "10:15")}}

	first, err := engine.SlotsForStylist(stylist, date, 45, bookings, nil)
	require.NoError(t, err)
	second, err := engine.SlotsForStylist(stylist, date, 45, bookings, nil)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSlotsForStylistStrictWindowScanMatchesDefault(t *testing.T) {
	date := testDate(t, "2025-06-11")
	stylist := testStylist()
	bookings := []Range{{Start: at(t, date, "16:00"), End: at(t, date, "17:30")}}

	relaxed, err := New(Config{}).SlotsForStylist(stylist, date, 90, bookings, nil)
	require.NoError(t, err)
	strict, err := New(Config{StrictWindowScan: true}).SlotsForStylist(stylist, date, 90, bookings, nil)
	require.NoError(t, err)

	assert.Equal(t, relaxed, strict)
}

func TestSlotsForStylistMalformedScheduleRejected(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")
	stylist := testStylist()
	stylist.EndTime = "25:99"

	_, err := engine.SlotsForStylist(stylist, date, 30, nil, nil)
	assert.Error(t, err)
}

func TestSlotsAllStylistsSortedWithTieBreak(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")

	a := testStylist()
	a.ID, a.Name = "stylist-a", "Amara"
	b := testStylist()
	b.ID, b.Name = "stylist-b", "Bindu"
	b.StartTime = "10:00"

	slots, err := engine.SlotsAllStylists([]models.Stylist{b, a}, date, 60, nil, nil)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	for i := 1; i < len(slots); i++ {
		prev, cur := slots[i-1], slots[i]
		assert.False(t, cur.Start.Before(prev.Start), "output not sorted at index %d", i)
		if cur.Start.Equal(prev.Start) {
			assert.Less(t, prev.StylistID, cur.StylistID, "tie at %s not broken by stylist id", cur.Start.Format("15:04"))
		}
	}

	// Before 10:00 only stylist-a is open.
	assert.Equal(t, "stylist-a", slots[0].StylistID)
	assert.Equal(t, at(t, date, "09:00"), slots[0].Start)
	assert.Equal(t, at(t, date, "10:00"), slots[0].End)
}

func TestSlotsAllStylistsSkipsInactive(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")

	active := testStylist()
	inactive := testStylist()
	inactive.ID, inactive.Name = "stylist-2", "Chamari"
	inactive.IsActive = false

	slots, err := engine.SlotsAllStylists([]models.Stylist{active, inactive}, date, 30, nil, nil)
	require.NoError(t, err)

	for _, s := range slots {
		assert.NotEqual(t, "stylist-2", s.StylistID)
	}
}

func TestSlotsAllStylistsUsesPerStylistOccupancy(t *testing.T) {
	engine := New(Config{})
	date := testDate(t, "2025-06-11")

	a := testStylist()
	a.ID = "stylist-a"
	b := testStylist()
	b.ID = "stylist-b"

	bookings := map[string][]Range{
		"stylist-a": {{Start: at(t, date, "09:00"), End: at(t, date, "12:00")}},
	}

	slots, err := engine.SlotsAllStylists([]models.Stylist{a, b}, date, 60, bookings, nil)
	require.NoError(t, err)

	for _, s := range slots {
		if s.StylistID == "stylist-a" {
			assert.False(t, s.Start.Before(at(t, date, "12:00")), "stylist-a slot %s ignores their booking", s.Start.Format("15:04"))
		}
	}
	// stylist-b is unaffected by stylist-a's morning booking.
	assert.Equal(t, "stylist-b", slots[0].StylistID)
	assert.Equal(t, at(t, date, "09:00"), slots[0].Start)
}
