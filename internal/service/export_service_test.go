package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmost/booking-api/internal/models"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

func newExportFixture(bookings []models.Booking) *ScheduleExportService {
	store := &bookingStoreMock{
		listFn: func(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error) {
			return bookings, len(bookings), nil
		},
	}
	stylists := &stylistReaderMock{
		listFn: func(ctx context.Context, activeOnly bool) ([]models.Stylist, error) {
			return []models.Stylist{*availabilityStylist()}, nil
		},
	}
	catalog := &catalogStoreMock{
		listFn: func(ctx context.Context) ([]models.Service, error) {
			return []models.Service{*availabilityServiceFixture()}, nil
		},
	}
	return NewScheduleExportService(store, stylists, catalog, nil)
}

func TestDailyScheduleCSV(t *testing.T) {
	day := time.Date(2030, time.May, 6, 0, 0, 0, 0, time.UTC)
	svc := newExportFixture([]models.Booking{
		{
			ID: "booking-2", ClientName: "Ishara Silva", ClientPhone: "+94770000000",
			ServiceID: "service-1", StylistID: "stylist-1",
			StartTime: day.Add(14 * time.Hour), EndTime: day.Add(15 * time.Hour),
			Status: models.BookingStatusConfirmed,
		},
		{
			ID: "booking-1", ClientName: "Amaya Perera", ClientPhone: "+94771234567",
			ServiceID: "service-1", StylistID: "stylist-1",
			StartTime: day.Add(10 * time.Hour), EndTime: day.Add(11 * time.Hour),
			Status: models.BookingStatusConfirmed,
		},
		{
			ID: "booking-3", ClientName: "Cancelled Client", ClientPhone: "+94772222222",
			ServiceID: "service-1", StylistID: "stylist-1",
			StartTime: day.Add(12 * time.Hour), EndTime: day.Add(13 * time.Hour),
			Status: models.BookingStatusCancelled,
		},
	})

	file, err := svc.DailySchedule(context.Background(), day, ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "schedule-2030-05-06.csv", file.Filename)

	lines := bytes.Split(bytes.TrimSpace(file.Content), []byte("\n"))
	require.Len(t, lines, 3, "header plus two non-cancelled bookings")
	assert.Contains(t, string(lines[0]), "Time")
	// rows come out in start-time order
	assert.Contains(t, string(lines[1]), "Amaya Perera")
	assert.Contains(t, string(lines[1]), "10:00 - 11:00")
	assert.Contains(t, string(lines[1]), "Haircut")
	assert.Contains(t, string(lines[1]), "Nadeesha")
	assert.Contains(t, string(lines[2]), "Ishara Silva")
}

func TestDailySchedulePDF(t *testing.T) {
	day := time.Date(2030, time.May, 6, 0, 0, 0, 0, time.UTC)
	svc := newExportFixture(nil)

	file, err := svc.DailySchedule(context.Background(), day, ExportFormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "schedule-2030-05-06.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Content, []byte("%PDF")))
}

func TestDailyScheduleRejectsUnknownFormat(t *testing.T) {
	svc := newExportFixture(nil)

	_, err := svc.DailySchedule(context.Background(), time.Now(), "xlsx")
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}
