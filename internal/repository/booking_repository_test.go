package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmost/booking-api/internal/models"
)

func bookingRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "client_name", "client_email", "client_phone", "service_id",
		"stylist_id", "start_time", "end_time", "status", "created_at",
	})
}

func TestBookingRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	start := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	rows := bookingRows().
		AddRow("booking-1", "Nimali", "nimali@example.com", "+9477", "service-1", "stylist-1", start, start.Add(time.Hour), models.BookingStatusConfirmed, time.Now())

	mock.ExpectQuery("SELECT id, client_name, .+ FROM bookings WHERE 1=1 AND stylist_id = \\$1 AND status = \\$2 ORDER BY created_at DESC").
		WithArgs("stylist-1", models.BookingStatusConfirmed).
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM bookings WHERE 1=1").
		WithArgs("stylist-1", models.BookingStatusConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	bookings, total, err := repo.List(context.Background(), models.BookingFilter{
		StylistID: "stylist-1",
		Status:    models.BookingStatusConfirmed,
	})
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryListForStylistOnDateExcludesCancelled(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	date := time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)
	dayStart := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT id, client_name, .+ FROM bookings\\s+WHERE stylist_id = \\$1 AND status != \\$2 AND start_time >= \\$3 AND start_time < \\$4").
		WithArgs("stylist-1", models.BookingStatusCancelled, dayStart, dayStart.AddDate(0, 0, 1)).
		WillReturnRows(bookingRows())

	bookings, err := repo.ListForStylistOnDate(context.Background(), "stylist-1", date)
	require.NoError(t, err)
	assert.Empty(t, bookings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCreateIfFree(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	start := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		ClientName:  "Nimali",
		ClientEmail: "nimali@example.com",
		ClientPhone: "+9477",
		ServiceID:   "service-1",
		StylistID:   "stylist-1",
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Status:      models.BookingStatusConfirmed,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("stylist-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM bookings")).
		WithArgs("stylist-1", models.BookingStatusCancelled, start, start.Add(time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateIfFree(context.Background(), booking))
	assert.NotEmpty(t, booking.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryCreateIfFreeRejectsOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	start := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	booking := &models.Booking{
		StylistID: "stylist-1",
		StartTime: start,
		EndTime:   start.Add(time.Hour),
		Status:    models.BookingStatusConfirmed,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("stylist-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM bookings")).
		WithArgs("stylist-1", models.BookingStatusCancelled, start, start.Add(time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("booking-existing"))
	mock.ExpectRollback()

	err := repo.CreateIfFree(context.Background(), booking)
	assert.ErrorIs(t, err, ErrBookingOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryUpdateTimeMovesBooking(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	start := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT stylist_id FROM bookings WHERE id = $1")).
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"stylist_id"}).AddRow("stylist-1"))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("stylist-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM bookings")).
		WithArgs("stylist-1", "booking-1", models.BookingStatusCancelled, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("UPDATE bookings SET start_time = \\$2").
		WithArgs("booking-1", start, end).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT id, client_name, .+ FROM bookings WHERE id = \\$1").
		WithArgs("booking-1").
		WillReturnRows(bookingRows().
			AddRow("booking-1", "Nimali", "nimali@example.com", "+9477", "service-1", "stylist-1", start, end, models.BookingStatusConfirmed, time.Now()))

	booking, err := repo.UpdateTime(context.Background(), "booking-1", start, end)
	require.NoError(t, err)
	assert.Equal(t, start, booking.StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryUpdateTimeRejectsOverlap(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	start := time.Date(2025, 6, 12, 14, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT stylist_id FROM bookings WHERE id = $1")).
		WithArgs("booking-1").
		WillReturnRows(sqlmock.NewRows([]string{"stylist_id"}).AddRow("stylist-1"))
	mock.ExpectExec(regexp.QuoteMeta("SELECT pg_advisory_xact_lock(hashtext($1))")).
		WithArgs("stylist-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM bookings")).
		WithArgs("stylist-1", "booking-1", models.BookingStatusCancelled, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("booking-other"))
	mock.ExpectRollback()

	_, err := repo.UpdateTime(context.Background(), "booking-1", start, end)
	assert.ErrorIs(t, err, ErrBookingOverlap)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewBookingRepository(db)

	start := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("UPDATE bookings SET status = \\$2").
		WithArgs("booking-1", models.BookingStatusCancelled).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery("SELECT id, client_name, .+ FROM bookings WHERE id = \\$1").
		WithArgs("booking-1").
		WillReturnRows(bookingRows().
			AddRow("booking-1", "Nimali", "nimali@example.com", "+9477", "service-1", "stylist-1", start, start.Add(time.Hour), models.BookingStatusCancelled, time.Now()))

	booking, err := repo.UpdateStatus(context.Background(), "booking-1", models.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
