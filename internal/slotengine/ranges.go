package slotengine

import (
	"time"

	"github.com/salonmost/booking-api/internal/models"
)

// Range is an occupied half-open interval [Start, End). Bookings and
// external calendar blocks both reduce to this.
type Range struct {
	Start time.Time
	End   time.Time
}

// BookingRanges converts non-cancelled bookings into occupied ranges.
func BookingRanges(bookings []models.Booking) []Range {
	ranges := make([]Range, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		ranges = append(ranges, Range{Start: b.StartTime, End: b.EndTime})
	}
	return ranges
}

// BlockedRanges converts stored calendar blocks into occupied ranges.
func BlockedRanges(blocks []models.BlockedRange) []Range {
	ranges := make([]Range, 0, len(blocks))
	for _, b := range blocks {
		ranges = append(ranges, Range{Start: b.StartTime, End: b.EndTime})
	}
	return ranges
}

func anyOverlap(start, end time.Time, ranges []Range) bool {
	for _, r := range ranges {
		if Overlaps(start, end, r.Start, r.End) {
			return true
		}
	}
	return false
}
