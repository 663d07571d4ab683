package models

import "time"

// Booking status values. Cancelled bookings never occupy availability.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// ValidBookingStatus reports whether s is a known status value.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking represents a client appointment with a stylist.
type Booking struct {
	ID          string    `db:"id" json:"id"`
	ClientName  string    `db:"client_name" json:"client_name"`
	ClientEmail string    `db:"client_email" json:"client_email"`
	ClientPhone string    `db:"client_phone" json:"client_phone"`
	ServiceID   string    `db:"service_id" json:"service_id"`
	StylistID   string    `db:"stylist_id" json:"stylist_id"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// BookingFilter captures filtering options for listing bookings.
type BookingFilter struct {
	StylistID string
	ServiceID string
	Status    string
	DateFrom  *time.Time
	DateTo    *time.Time
	Page      int
	PageSize  int
}
