package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// WorkingDays is a set of weekday indices (0=Sunday..6=Saturday) stored as a
// JSON array column.
type WorkingDays []int

// Scan implements sql.Scanner.
func (w *WorkingDays) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case []byte:
		return json.Unmarshal(v, w)
	case string:
		return json.Unmarshal([]byte(v), w)
	default:
		return fmt.Errorf("unsupported working_days type %T", src)
	}
}

// Value implements driver.Valuer.
func (w WorkingDays) Value() (driver.Value, error) {
	if w == nil {
		return "[]", nil
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

// Contains reports whether the weekday index is part of the set.
func (w WorkingDays) Contains(weekday int) bool {
	for _, d := range w {
		if d == weekday {
			return true
		}
	}
	return false
}

// Stylist represents a service provider and their recurring weekly schedule.
// Times are local HH:MM strings, matching how the salon configures them.
type Stylist struct {
	ID          string      `db:"id" json:"id"`
	Name        string      `db:"name" json:"name"`
	Email       *string     `db:"email" json:"email,omitempty"`
	Phone       *string     `db:"phone" json:"phone,omitempty"`
	Bio         *string     `db:"bio" json:"bio,omitempty"`
	PhotoURL    *string     `db:"photo_url" json:"photo_url,omitempty"`
	WorkingDays WorkingDays `db:"working_days" json:"working_days"`
	StartTime   string      `db:"start_time" json:"start_time"`
	EndTime     string      `db:"end_time" json:"end_time"`
	BreakStart  *string     `db:"break_start" json:"break_start,omitempty"`
	BreakEnd    *string     `db:"break_end" json:"break_end,omitempty"`
	IsActive    bool        `db:"is_active" json:"is_active"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
}
