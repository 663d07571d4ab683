package dto

import "time"

// CreateBookingRequest is the payload for creating a booking. The end time
// is derived from the service duration, never supplied by the client.
type CreateBookingRequest struct {
	ClientName  string    `json:"client_name" validate:"required,max=200"`
	ClientEmail string    `json:"client_email" validate:"required,email"`
	ClientPhone string    `json:"client_phone" validate:"required,max=32"`
	ServiceID   string    `json:"service_id" validate:"required"`
	StylistID   string    `json:"stylist_id" validate:"required"`
	StartTime   time.Time `json:"start_time" validate:"required"`
}

// UpdateBookingStatusRequest changes a booking's lifecycle status.
type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}

// RescheduleBookingRequest moves a booking to a new start time.
type RescheduleBookingRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
}

// WhatsAppConfirmationRequest asks for a confirmation message for a booking.
type WhatsAppConfirmationRequest struct {
	BookingID string `json:"booking_id" validate:"required"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
}

// WhatsAppConfirmation carries the rendered message and a wa.me link the
// front desk can open directly.
type WhatsAppConfirmation struct {
	Message string `json:"message"`
	WaLink  string `json:"wa_link"`
	Phone   string `json:"phone"`
}

// CalendarSyncResult summarizes one sync run.
type CalendarSyncResult struct {
	EventsSeen     int       `json:"events_seen"`
	RangesImported int       `json:"ranges_imported"`
	SyncedAt       time.Time `json:"synced_at"`
}
