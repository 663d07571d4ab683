// Package slotengine computes bookable appointment start times for a
// stylist on a given day. It is pure: no I/O, no clock reads, and identical
// inputs always yield identical output.
package slotengine

import (
	"sort"
	"time"

	"github.com/salonmost/booking-api/internal/models"
)

// DefaultSlotInterval is the grid step candidate slots are generated on.
const DefaultSlotInterval = 15 * time.Minute

// Config tunes engine behaviour.
type Config struct {
	// SlotInterval is the candidate grid step. Zero means DefaultSlotInterval.
	SlotInterval time.Duration
	// StrictWindowScan keeps scanning the grid after a candidate overruns
	// closing time instead of stopping at the first overflow. With a fixed
	// service duration the accepted set is identical either way; the flag
	// exists because the stop-on-overflow behaviour is a documented quirk
	// of the engine this one replaces.
	StrictWindowScan bool
}

// Engine generates availability slots.
type Engine struct {
	interval time.Duration
	strict   bool
}

// New constructs an Engine.
func New(cfg Config) *Engine {
	interval := cfg.SlotInterval
	if interval <= 0 {
		interval = DefaultSlotInterval
	}
	return &Engine{interval: interval, strict: cfg.StrictWindowScan}
}

// SlotsForStylist returns the sorted start times at which a service of
// durationMinutes can begin for the stylist on the given date. Candidates
// are walked on the engine's grid inside the stylist's working window and
// rejected when they overlap the break, a booking, or an external block.
// A non-working date yields an empty result, not an error.
func (e *Engine) SlotsForStylist(
	stylist models.Stylist,
	date time.Time,
	durationMinutes int,
	bookings []Range,
	blocked []Range,
) ([]time.Time, error) {
	slots := []time.Time{}

	if !IsWorkingDay(stylist, date) {
		return slots, nil
	}

	dayStart, err := CombineDateTime(date, stylist.StartTime)
	if err != nil {
		return nil, err
	}
	dayEnd, err := CombineDateTime(date, stylist.EndTime)
	if err != nil {
		return nil, err
	}

	var breakStart, breakEnd time.Time
	hasBreak := false
	if stylist.BreakStart != nil && stylist.BreakEnd != nil {
		breakStart, err = CombineDateTime(date, *stylist.BreakStart)
		if err != nil {
			return nil, err
		}
		breakEnd, err = CombineDateTime(date, *stylist.BreakEnd)
		if err != nil {
			return nil, err
		}
		hasBreak = true
	}

	duration := time.Duration(durationMinutes) * time.Minute

	for current := dayStart; current.Before(dayEnd); current = current.Add(e.interval) {
		slotEnd := current.Add(duration)

		// The grid is monotonically increasing, so the first overflow past
		// closing time ends the walk. Conflict rejections below do NOT end
		// it: a later grid point can still fit.
		if slotEnd.After(dayEnd) {
			if e.strict {
				continue
			}
			break
		}

		if hasBreak && Overlaps(current, slotEnd, breakStart, breakEnd) {
			continue
		}
		if anyOverlap(current, slotEnd, bookings) {
			continue
		}
		if anyOverlap(current, slotEnd, blocked) {
			continue
		}

		slots = append(slots, current)
	}

	return slots, nil
}

// SlotsAllStylists aggregates availability across every active stylist for
// auto-assign mode. Inactive stylists never appear. The result is sorted
// ascending by start time; identical starts are ordered by stylist ID so the
// output is reproducible.
func (e *Engine) SlotsAllStylists(
	stylists []models.Stylist,
	date time.Time,
	durationMinutes int,
	bookingsByStylist map[string][]Range,
	blockedByStylist map[string][]Range,
) ([]models.TimeSlot, error) {
	duration := time.Duration(durationMinutes) * time.Minute
	all := []models.TimeSlot{}

	for _, stylist := range stylists {
		if !stylist.IsActive {
			continue
		}

		starts, err := e.SlotsForStylist(stylist, date, durationMinutes, bookingsByStylist[stylist.ID], blockedByStylist[stylist.ID])
		if err != nil {
			return nil, err
		}

		for _, start := range starts {
			all = append(all, models.TimeSlot{
				Start:       start,
				End:         start.Add(duration),
				StylistID:   stylist.ID,
				StylistName: stylist.Name,
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start.Equal(all[j].Start) {
			return all[i].StylistID < all[j].StylistID
		}
		return all[i].Start.Before(all[j].Start)
	})

	return all, nil
}
