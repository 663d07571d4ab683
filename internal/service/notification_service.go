package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	"github.com/salonmost/booking-api/pkg/config"
	"github.com/salonmost/booking-api/pkg/jobs"
)

const jobTypeWhatsAppConfirmation = "whatsapp_confirmation"

// NotificationService renders WhatsApp confirmation messages and dispatches
// them asynchronously so booking creation never waits on messaging.
type NotificationService struct {
	bookings bookingStore
	catalog  serviceReader
	stylists stylistReader
	cfg      config.WhatsAppConfig
	logger   *zap.Logger
	queue    *jobs.Queue
}

// NewNotificationService constructs a NotificationService with its own
// background queue. The caller owns the queue lifecycle via Queue().
func NewNotificationService(
	bookings bookingStore,
	catalog serviceReader,
	stylists stylistReader,
	cfg config.WhatsAppConfig,
	logger *zap.Logger,
) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		bookings: bookings,
		catalog:  catalog,
		stylists: stylists,
		cfg:      cfg,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("notifications", s.handleJob, jobs.QueueConfig{
		Workers: 2,
		Logger:  logger,
	})
	return s
}

// Queue exposes the background queue for lifecycle management.
func (s *NotificationService) Queue() *jobs.Queue {
	return s.queue
}

// EnqueueConfirmation schedules a confirmation message for a new booking.
// Enqueue failures are logged, never surfaced: the booking already exists.
func (s *NotificationService) EnqueueConfirmation(booking models.Booking) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    jobTypeWhatsAppConfirmation,
		Payload: booking.ID,
	})
	if err != nil {
		s.logger.Warn("failed to enqueue confirmation",
			zap.String("booking_id", booking.ID), zap.Error(err))
	}
}

func (s *NotificationService) handleJob(ctx context.Context, job jobs.Job) error {
	bookingID, ok := job.Payload.(string)
	if !ok {
		s.logger.Error("confirmation job with unexpected payload", zap.String("job_id", job.ID))
		return nil
	}
	confirmation, err := s.BuildConfirmation(ctx, dto.WhatsAppConfirmationRequest{BookingID: bookingID})
	if err != nil {
		return err
	}
	// delivery is manual via the wa.me link; the rendered message is logged
	// for the front desk audit trail
	s.logger.Info("confirmation ready",
		zap.String("booking_id", bookingID),
		zap.String("wa_link", confirmation.WaLink))
	return nil
}

// BuildConfirmation renders the confirmation message and wa.me link for a
// booking. An explicit phone overrides the one captured at booking time.
func (s *NotificationService) BuildConfirmation(ctx context.Context, req dto.WhatsAppConfirmationRequest) (*dto.WhatsAppConfirmation, error) {
	booking, err := s.bookings.FindByID(ctx, req.BookingID)
	if err != nil {
		return nil, notFoundOrInternal(err, "booking not found", "failed to load booking")
	}
	service, err := s.catalog.FindByID(ctx, booking.ServiceID)
	if err != nil {
		return nil, notFoundOrInternal(err, "service not found", "failed to load service")
	}
	stylist, err := s.stylists.FindByID(ctx, booking.StylistID)
	if err != nil {
		return nil, notFoundOrInternal(err, "stylist not found", "failed to load stylist")
	}

	phone := booking.ClientPhone
	if req.Phone != "" {
		phone = req.Phone
	}

	message := s.renderMessage(booking, service, stylist)
	return &dto.WhatsAppConfirmation{
		Message: message,
		WaLink:  s.waLink(phone, message),
		Phone:   phone,
	}, nil
}

func (s *NotificationService) renderMessage(booking *models.Booking, service *models.Service, stylist *models.Stylist) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s — Booking Confirmation\n\n", s.cfg.SalonName)
	fmt.Fprintf(&b, "Dear %s, your appointment is confirmed!\n\n", booking.ClientName)
	fmt.Fprintf(&b, "Service: %s\n", service.Name)
	fmt.Fprintf(&b, "Stylist: %s\n", stylist.Name)
	fmt.Fprintf(&b, "Date: %s\n", booking.StartTime.Format("Monday, 2 January 2006"))
	fmt.Fprintf(&b, "Time: %s - %s\n", booking.StartTime.Format("3:04 PM"), booking.EndTime.Format("3:04 PM"))
	fmt.Fprintf(&b, "Price: %s %.2f\n\n", s.cfg.CurrencyCode, service.Price)
	fmt.Fprintf(&b, "Location: %s\n\n", s.cfg.LocationLine)
	fmt.Fprintf(&b, "Booking ID: %s", booking.ID)
	return b.String()
}

func (s *NotificationService) waLink(phone, message string) string {
	return fmt.Sprintf("%s/%s?text=%s",
		strings.TrimSuffix(s.cfg.WaLinkBaseURL, "/"),
		phoneDigits(phone),
		url.QueryEscape(message))
}

// phoneDigits strips formatting so "+94 77-123 4567" becomes "94771234567",
// the form wa.me expects.
func phoneDigits(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
