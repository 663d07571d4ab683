package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonmost/booking-api/internal/models"
)

const bookingColumns = "id, client_name, client_email, client_phone, service_id, stylist_id, start_time, end_time, status, created_at"

// BookingRepository manages persistence for bookings.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository constructs a BookingRepository.
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// List returns bookings matching the filter along with the total count.
func (r *BookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
	base := "FROM bookings WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.StylistID != "" {
		conditions = append(conditions, fmt.Sprintf("stylist_id = $%d", len(args)+1))
		args = append(args, filter.StylistID)
	}
	if filter.ServiceID != "" {
		conditions = append(conditions, fmt.Sprintf("service_id = $%d", len(args)+1))
		args = append(args, filter.ServiceID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d", len(args)+1))
		args = append(args, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		conditions = append(conditions, fmt.Sprintf("start_time < $%d", len(args)+1))
		args = append(args, *filter.DateTo)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", bookingColumns, base, size, offset)
	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list bookings: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count bookings: %w", err)
	}

	return bookings, total, nil
}

// FindByID fetches a booking by ID.
func (r *BookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE id = $1", bookingColumns)
	var booking models.Booking
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListForStylistOnDate returns a stylist's non-cancelled bookings whose start
// falls on the calendar day of date. This feeds the slot engine.
func (r *BookingRepository) ListForStylistOnDate(ctx context.Context, stylistID string, date time.Time) ([]models.Booking, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	query := fmt.Sprintf(`SELECT %s FROM bookings
		WHERE stylist_id = $1 AND status != $2 AND start_time >= $3 AND start_time < $4
		ORDER BY start_time ASC`, bookingColumns)

	var bookings []models.Booking
	if err := r.db.SelectContext(ctx, &bookings, query, stylistID, models.BookingStatusCancelled, dayStart, dayEnd); err != nil {
		return nil, fmt.Errorf("list bookings for stylist %s: %w", stylistID, err)
	}
	return bookings, nil
}

// lockStylistSlots takes a transaction-scoped advisory lock serializing all
// slot writes for one stylist. An existence check alone does not hold under
// READ COMMITTED (a guard matching zero rows locks nothing, so two racing
// transactions can both pass it); the advisory lock makes guard-plus-write
// atomic per stylist. Released automatically at commit or rollback.
func lockStylistSlots(ctx context.Context, tx *sqlx.Tx, stylistID string) error {
	if _, err := tx.ExecContext(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", stylistID); err != nil {
		return fmt.Errorf("lock stylist slots: %w", err)
	}
	return nil
}

// CreateIfFree inserts the booking inside a transaction that holds the
// stylist's slot lock while verifying no non-cancelled booking overlaps the
// requested interval. ErrBookingOverlap is returned when the interval is
// already occupied.
func (r *BookingRepository) CreateIfFree(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = "booking-" + uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := lockStylistSlots(ctx, tx, booking.StylistID); err != nil {
		return err
	}

	const guard = `SELECT id FROM bookings
		WHERE stylist_id = $1 AND status != $2 AND start_time < $4 AND end_time > $3
		LIMIT 1`
	var conflicting string
	err = tx.GetContext(ctx, &conflicting, guard, booking.StylistID, models.BookingStatusCancelled, booking.StartTime, booking.EndTime)
	if err == nil {
		return ErrBookingOverlap
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("check booking overlap: %w", err)
	}

	const insert = `INSERT INTO bookings (id, client_name, client_email, client_phone, service_id, stylist_id, start_time, end_time, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	if _, err := tx.ExecContext(ctx, insert,
		booking.ID, booking.ClientName, booking.ClientEmail, booking.ClientPhone,
		booking.ServiceID, booking.StylistID, booking.StartTime, booking.EndTime,
		booking.Status, booking.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking: %w", err)
	}
	return nil
}

// UpdateStatus changes a booking's status and returns the updated row.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error) {
	const query = `UPDATE bookings SET status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return nil, sql.ErrNoRows
	}
	return r.FindByID(ctx, id)
}

// UpdateTime moves a booking to a new interval and returns the updated row.
// The move runs under the same per-stylist lock and overlap guard as
// CreateIfFree, so a reschedule cannot land on an occupied slot.
func (r *BookingRepository) UpdateTime(ctx context.Context, id string, start, end time.Time) (*models.Booking, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin reschedule tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var stylistID string
	if err := tx.GetContext(ctx, &stylistID, "SELECT stylist_id FROM bookings WHERE id = $1", id); err != nil {
		return nil, err
	}
	if err := lockStylistSlots(ctx, tx, stylistID); err != nil {
		return nil, err
	}

	const guard = `SELECT id FROM bookings
		WHERE stylist_id = $1 AND id != $2 AND status != $3 AND start_time < $5 AND end_time > $4
		LIMIT 1`
	var conflicting string
	err = tx.GetContext(ctx, &conflicting, guard, stylistID, id, models.BookingStatusCancelled, start, end)
	if err == nil {
		return nil, ErrBookingOverlap
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check booking overlap: %w", err)
	}

	const update = `UPDATE bookings SET start_time = $2, end_time = $3 WHERE id = $1`
	if _, err := tx.ExecContext(ctx, update, id, start, end); err != nil {
		return nil, fmt.Errorf("update booking time: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reschedule: %w", err)
	}
	return r.FindByID(ctx, id)
}
