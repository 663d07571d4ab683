package dto

import "github.com/salonmost/booking-api/internal/models"

// StylistRef identifies the stylist an availability answer belongs to.
type StylistRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// StylistAvailability is the single-stylist availability payload. Slots are
// ISO-8601 start timestamps on the 15-minute grid.
type StylistAvailability struct {
	Slots   []string   `json:"slots"`
	Cached  bool       `json:"cached"`
	Stylist StylistRef `json:"stylist"`
}

// AutoAssignAvailability is the any-stylist availability payload.
type AutoAssignAvailability struct {
	Slots  []models.TimeSlot `json:"slots"`
	Cached bool              `json:"cached"`
	Mode   string            `json:"mode"`
}

// AutoAssignMode is the mode marker for AutoAssignAvailability responses.
const AutoAssignMode = "auto-assign"
