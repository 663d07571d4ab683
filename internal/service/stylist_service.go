package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	"github.com/salonmost/booking-api/internal/slotengine"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

type stylistStore interface {
	List(ctx context.Context, activeOnly bool) ([]models.Stylist, error)
	FindByID(ctx context.Context, id string) (*models.Stylist, error)
	Create(ctx context.Context, stylist *models.Stylist) error
	Update(ctx context.Context, stylist *models.Stylist) error
	Deactivate(ctx context.Context, id string) error
}

// StylistService manages stylist records and guards the schedule invariants
// the slot engine depends on: parseable clocks, start before end, and breaks
// contained in the working window.
type StylistService struct {
	stylists  stylistStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStylistService constructs a StylistService.
func NewStylistService(stylists stylistStore, cache *CacheService, logger *zap.Logger) *StylistService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StylistService{
		stylists:  stylists,
		cache:     cache,
		validator: validator.New(),
		logger:    logger,
	}
}

// List returns stylists, optionally restricted to active ones.
func (s *StylistService) List(ctx context.Context, activeOnly bool) ([]models.Stylist, error) {
	stylists, err := s.stylists.List(ctx, activeOnly)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list stylists")
	}
	return stylists, nil
}

// Get returns one stylist by ID.
func (s *StylistService) Get(ctx context.Context, id string) (*models.Stylist, error) {
	stylist, err := s.stylists.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stylist not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stylist")
	}
	return stylist, nil
}

// Create registers a new stylist after validating the working schedule.
func (s *StylistService) Create(ctx context.Context, req dto.CreateStylistRequest) (*models.Stylist, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid stylist request")
	}

	stylist := &models.Stylist{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Bio:         req.Bio,
		PhotoURL:    req.PhotoURL,
		WorkingDays: models.WorkingDays(req.WorkingDays),
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		BreakStart:  req.BreakStart,
		BreakEnd:    req.BreakEnd,
		IsActive:    true,
	}
	if err := validateSchedule(stylist); err != nil {
		return nil, err
	}

	if err := s.stylists.Create(ctx, stylist); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create stylist")
	}
	s.logger.Info("stylist created", zap.String("stylist_id", stylist.ID))
	return stylist, nil
}

// Update applies partial changes. Schedule edits change what the engine
// generates, so the stylist's cached availability is dropped wholesale.
func (s *StylistService) Update(ctx context.Context, id string, req dto.UpdateStylistRequest) (*models.Stylist, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid stylist request")
	}

	stylist, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		stylist.Name = *req.Name
	}
	if req.Email != nil {
		stylist.Email = req.Email
	}
	if req.Phone != nil {
		stylist.Phone = req.Phone
	}
	if req.Bio != nil {
		stylist.Bio = req.Bio
	}
	if req.PhotoURL != nil {
		stylist.PhotoURL = req.PhotoURL
	}
	if req.WorkingDays != nil {
		stylist.WorkingDays = models.WorkingDays(*req.WorkingDays)
	}
	if req.StartTime != nil {
		stylist.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		stylist.EndTime = *req.EndTime
	}
	if req.BreakStart != nil {
		stylist.BreakStart = req.BreakStart
	}
	if req.BreakEnd != nil {
		stylist.BreakEnd = req.BreakEnd
	}
	if req.IsActive != nil {
		stylist.IsActive = *req.IsActive
	}
	if err := validateSchedule(stylist); err != nil {
		return nil, err
	}

	if err := s.stylists.Update(ctx, stylist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stylist not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update stylist")
	}

	s.invalidateStylist(ctx, id)
	return stylist, nil
}

// Deactivate soft-deletes a stylist so they stop appearing in availability.
func (s *StylistService) Deactivate(ctx context.Context, id string) error {
	if err := s.stylists.Deactivate(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "stylist not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate stylist")
	}
	s.invalidateStylist(ctx, id)
	return nil
}

func (s *StylistService) invalidateStylist(ctx context.Context, id string) {
	pattern := fmt.Sprintf("avail:%s:*", id)
	if err := s.cache.InvalidatePattern(ctx, pattern); err != nil {
		s.logger.Warn("availability invalidation failed", zap.String("pattern", pattern), zap.Error(err))
	}
}

// validateSchedule enforces the invariants availability generation assumes.
func validateSchedule(stylist *models.Stylist) error {
	startH, startM, err := slotengine.ParseClock(stylist.StartTime)
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidSchedule, "start_time must be HH:MM")
	}
	endH, endM, err := slotengine.ParseClock(stylist.EndTime)
	if err != nil {
		return appErrors.Clone(appErrors.ErrInvalidSchedule, "end_time must be HH:MM")
	}
	start := startH*60 + startM
	end := endH*60 + endM
	if start >= end {
		return appErrors.Clone(appErrors.ErrInvalidSchedule, "start_time must be before end_time")
	}

	if (stylist.BreakStart == nil) != (stylist.BreakEnd == nil) {
		return appErrors.Clone(appErrors.ErrInvalidSchedule, "break_start and break_end must be set together")
	}
	if stylist.BreakStart != nil {
		bsH, bsM, err := slotengine.ParseClock(*stylist.BreakStart)
		if err != nil {
			return appErrors.Clone(appErrors.ErrInvalidSchedule, "break_start must be HH:MM")
		}
		beH, beM, err := slotengine.ParseClock(*stylist.BreakEnd)
		if err != nil {
			return appErrors.Clone(appErrors.ErrInvalidSchedule, "break_end must be HH:MM")
		}
		bs := bsH*60 + bsM
		be := beH*60 + beM
		if bs >= be {
			return appErrors.Clone(appErrors.ErrInvalidSchedule, "break_start must be before break_end")
		}
		if bs < start || be > end {
			return appErrors.Clone(appErrors.ErrInvalidSchedule, "break must fall inside working hours")
		}
	}
	return nil
}
