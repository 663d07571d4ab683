package repository

import "errors"

var (
	// ErrBookingOverlap is returned by the check-and-insert booking create
	// when the requested interval is already occupied for the stylist.
	ErrBookingOverlap = errors.New("booking interval overlaps an existing booking")

	errNoRowsUpdated = errors.New("no rows updated")
)
