package models

import "time"

// Service is a bookable catalog item. DurationMinutes feeds the slot engine.
type Service struct {
	ID              string    `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Description     *string   `db:"description" json:"description,omitempty"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	Price           float64   `db:"price" json:"price"`
	Category        *string   `db:"category" json:"category,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
