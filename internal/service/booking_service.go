package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	"github.com/salonmost/booking-api/internal/repository"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

type bookingStore interface {
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, int, error)
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	CreateIfFree(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, id, status string) (*models.Booking, error)
	UpdateTime(ctx context.Context, id string, start, end time.Time) (*models.Booking, error)
}

type confirmationEnqueuer interface {
	EnqueueConfirmation(booking models.Booking)
}

// BookingService manages the booking lifecycle. Every write that changes a
// stylist's occupancy invalidates the matching availability cache entry
// before returning, so the next availability read recomputes.
type BookingService struct {
	bookings      bookingStore
	catalog       serviceReader
	stylists      stylistReader
	cache         *CacheService
	notifications confirmationEnqueuer
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewBookingService constructs a BookingService.
func NewBookingService(
	bookings bookingStore,
	catalog serviceReader,
	stylists stylistReader,
	cache *CacheService,
	notifications confirmationEnqueuer,
	logger *zap.Logger,
) *BookingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{
		bookings:      bookings,
		catalog:       catalog,
		stylists:      stylists,
		cache:         cache,
		notifications: notifications,
		validator:     validator.New(),
		logger:        logger,
	}
}

// Create books a slot. The end time is derived from the service duration and
// the insert is guarded server-side, so two clients racing for the same slot
// cannot both win regardless of what availability they were shown.
func (s *BookingService) Create(ctx context.Context, req dto.CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking request")
	}

	service, err := s.catalog.FindByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}

	stylist, err := s.stylists.FindByID(ctx, req.StylistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stylist not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stylist")
	}

	booking := &models.Booking{
		ID:          "booking-" + uuid.NewString(),
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ClientPhone: req.ClientPhone,
		ServiceID:   service.ID,
		StylistID:   stylist.ID,
		StartTime:   req.StartTime,
		EndTime:     req.StartTime.Add(time.Duration(service.DurationMinutes) * time.Minute),
		Status:      models.BookingStatusConfirmed,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.bookings.CreateIfFree(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrBookingOverlap) {
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}

	s.invalidateAvailability(ctx, booking.StylistID, booking.StartTime)

	if s.notifications != nil {
		s.notifications.EnqueueConfirmation(*booking)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("stylist_id", booking.StylistID),
		zap.Time("start_time", booking.StartTime))
	return booking, nil
}

// List returns bookings matching the filter with pagination metadata.
func (s *BookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	if filter.Status != "" && !models.ValidBookingStatus(filter.Status) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown booking status")
	}

	bookings, total, err := s.bookings.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// Get returns a single booking by ID.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booking")
	}
	return booking, nil
}

// UpdateStatus changes a booking's status. Cancelling frees the slot, so the
// availability entry for that day is invalidated either way.
func (s *BookingService) UpdateStatus(ctx context.Context, id string, req dto.UpdateBookingStatusRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status")
	}

	booking, err := s.bookings.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update booking")
	}

	s.invalidateAvailability(ctx, booking.StylistID, booking.StartTime)
	return booking, nil
}

// Reschedule moves a booking to a new start, keeping its original duration.
// Both the old and the new day's availability entries are invalidated.
func (s *BookingService) Reschedule(ctx context.Context, id string, req dto.RescheduleBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reschedule request")
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	duration := current.EndTime.Sub(current.StartTime)
	updated, err := s.bookings.UpdateTime(ctx, id, req.StartTime, req.StartTime.Add(duration))
	if err != nil {
		if errors.Is(err, repository.ErrBookingOverlap) {
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reschedule booking")
	}

	s.invalidateAvailability(ctx, current.StylistID, current.StartTime)
	s.invalidateAvailability(ctx, updated.StylistID, updated.StartTime)
	return updated, nil
}

func (s *BookingService) invalidateAvailability(ctx context.Context, stylistID string, start time.Time) {
	key := AvailabilityCacheKey(stylistID, start)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.logger.Warn("availability invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
