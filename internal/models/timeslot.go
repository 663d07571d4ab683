package models

import "time"

// TimeSlot is one bookable opening in auto-assign mode.
type TimeSlot struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	StylistID   string    `json:"stylist_id"`
	StylistName string    `json:"stylist_name"`
}

// BlockedRange is an externally-sourced busy interval for a stylist,
// imported from their linked calendar. The engine treats it exactly like a
// booking: an opaque interval to avoid.
type BlockedRange struct {
	ID            string    `db:"id" json:"id"`
	StylistID     string    `db:"stylist_id" json:"stylist_id"`
	StartTime     time.Time `db:"start_time" json:"start_time"`
	EndTime       time.Time `db:"end_time" json:"end_time"`
	SourceEventID *string   `db:"source_event_id" json:"source_event_id,omitempty"`
	SyncedAt      time.Time `db:"synced_at" json:"synced_at"`
}
