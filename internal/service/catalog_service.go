package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

type catalogStore interface {
	List(ctx context.Context) ([]models.Service, error)
	FindByID(ctx context.Context, id string) (*models.Service, error)
	Create(ctx context.Context, service *models.Service) error
	Update(ctx context.Context, service *models.Service) error
}

// CatalogService manages the service catalog.
type CatalogService struct {
	catalog   catalogStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(catalog catalogStore, cache *CacheService, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		catalog:   catalog,
		cache:     cache,
		validator: validator.New(),
		logger:    logger,
	}
}

// List returns the full catalog.
func (s *CatalogService) List(ctx context.Context) ([]models.Service, error) {
	services, err := s.catalog.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list services")
	}
	return services, nil
}

// Get returns one catalog service by ID.
func (s *CatalogService) Get(ctx context.Context, id string) (*models.Service, error) {
	service, err := s.catalog.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}
	return service, nil
}

// Create adds a service to the catalog. Durations must land on the booking
// grid or generated slots would drift off the 15-minute boundaries.
func (s *CatalogService) Create(ctx context.Context, req dto.CreateServiceRequest) (*models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service request")
	}
	if req.DurationMinutes%15 != 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duration_minutes must be a multiple of 15")
	}

	service := &models.Service{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Price:           req.Price,
		Category:        req.Category,
	}
	if err := s.catalog.Create(ctx, service); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create service")
	}
	s.logger.Info("service created", zap.String("service_id", service.ID))
	return service, nil
}

// Update applies partial changes. Duration changes alter slot generation, so
// all cached availability is dropped.
func (s *CatalogService) Update(ctx context.Context, id string, req dto.UpdateServiceRequest) (*models.Service, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid service request")
	}

	service, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	durationChanged := false
	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Description != nil {
		service.Description = req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes%15 != 0 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "duration_minutes must be a multiple of 15")
		}
		durationChanged = service.DurationMinutes != *req.DurationMinutes
		service.DurationMinutes = *req.DurationMinutes
	}
	if req.Price != nil {
		service.Price = *req.Price
	}
	if req.Category != nil {
		service.Category = req.Category
	}

	if err := s.catalog.Update(ctx, service); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update service")
	}

	if durationChanged {
		if err := s.cache.InvalidatePattern(ctx, "avail:*"); err != nil {
			s.logger.Warn("availability invalidation failed", zap.Error(err))
		}
	}
	return service, nil
}
