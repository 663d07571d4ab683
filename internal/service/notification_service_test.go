package service

import (
	"context"
	"database/sql"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	"github.com/salonmost/booking-api/pkg/config"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

func whatsAppConfig() config.WhatsAppConfig {
	return config.WhatsAppConfig{
		SalonName:     "SALON MOST",
		LocationLine:  "762 Pannipitiya Road, Battaramulla",
		CurrencyCode:  "LKR",
		WaLinkBaseURL: "https://wa.me",
	}
}

func confirmationBooking() *models.Booking {
	return &models.Booking{
		ID:          "booking-1",
		ClientName:  "Amaya Perera",
		ClientPhone: "+94 77-123 4567",
		ServiceID:   "service-1",
		StylistID:   "stylist-1",
		StartTime:   time.Date(2030, time.May, 6, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2030, time.May, 6, 11, 0, 0, 0, time.UTC),
		Status:      models.BookingStatusConfirmed,
	}
}

func newNotificationFixture() *NotificationService {
	bookings := &bookingStoreMock{
		findFn: func(ctx context.Context, id string) (*models.Booking, error) {
			if id != "booking-1" {
				return nil, sql.ErrNoRows
			}
			return confirmationBooking(), nil
		},
	}
	catalog := &serviceReaderMock{
		findFn: func(ctx context.Context, id string) (*models.Service, error) {
			return availabilityServiceFixture(), nil
		},
	}
	stylists := &stylistReaderMock{
		findFn: func(ctx context.Context, id string) (*models.Stylist, error) {
			return availabilityStylist(), nil
		},
	}
	return NewNotificationService(bookings, catalog, stylists, whatsAppConfig(), nil)
}

func TestBuildConfirmationMessage(t *testing.T) {
	svc := newNotificationFixture()

	confirmation, err := svc.BuildConfirmation(context.Background(), dto.WhatsAppConfirmationRequest{BookingID: "booking-1"})
	require.NoError(t, err)

	assert.Contains(t, confirmation.Message, "SALON MOST")
	assert.Contains(t, confirmation.Message, "Amaya Perera")
	assert.Contains(t, confirmation.Message, "Haircut")
	assert.Contains(t, confirmation.Message, "Nadeesha")
	assert.Contains(t, confirmation.Message, "Monday, 6 May 2030")
	assert.Contains(t, confirmation.Message, "10:00 AM - 11:00 AM")
	assert.Contains(t, confirmation.Message, "LKR 2500.00")
	assert.Contains(t, confirmation.Message, "762 Pannipitiya Road, Battaramulla")
	assert.Contains(t, confirmation.Message, "booking-1")
	assert.Equal(t, "+94 77-123 4567", confirmation.Phone)
}

func TestBuildConfirmationLink(t *testing.T) {
	svc := newNotificationFixture()

	confirmation, err := svc.BuildConfirmation(context.Background(), dto.WhatsAppConfirmationRequest{BookingID: "booking-1"})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(confirmation.WaLink, "https://wa.me/94771234567?text="))
	parsed, err := url.Parse(confirmation.WaLink)
	require.NoError(t, err)
	assert.Equal(t, confirmation.Message, parsed.Query().Get("text"))
}

func TestBuildConfirmationPhoneOverride(t *testing.T) {
	svc := newNotificationFixture()

	confirmation, err := svc.BuildConfirmation(context.Background(), dto.WhatsAppConfirmationRequest{
		BookingID: "booking-1",
		Phone:     "+94 71 999 0000",
	})
	require.NoError(t, err)
	assert.Equal(t, "+94 71 999 0000", confirmation.Phone)
	assert.Contains(t, confirmation.WaLink, "/94719990000?")
}

func TestBuildConfirmationUnknownBooking(t *testing.T) {
	svc := newNotificationFixture()

	_, err := svc.BuildConfirmation(context.Background(), dto.WhatsAppConfirmationRequest{BookingID: "booking-missing"})
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestEnqueueConfirmationDelivers(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	svc := newNotificationFixture()
	svc.logger = zap.New(core)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Queue().Start(ctx)

	svc.EnqueueConfirmation(*confirmationBooking())

	deadline := time.After(2 * time.Second)
	for logs.FilterMessage("confirmation ready").Len() == 0 {
		select {
		case <-deadline:
			t.Fatal("confirmation was never processed")
		case <-time.After(10 * time.Millisecond):
		}
	}

	svc.Queue().Stop()
	entry := logs.FilterMessage("confirmation ready").All()[0]
	assert.Equal(t, "booking-1", entry.ContextMap()["booking_id"])
}
