package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	"github.com/salonmost/booking-api/internal/slotengine"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

type stylistReader interface {
	List(ctx context.Context, activeOnly bool) ([]models.Stylist, error)
	FindByID(ctx context.Context, id string) (*models.Stylist, error)
}

type serviceReader interface {
	FindByID(ctx context.Context, id string) (*models.Service, error)
}

type dayBookingLister interface {
	ListForStylistOnDate(ctx context.Context, stylistID string, date time.Time) ([]models.Booking, error)
}

type dayBlockLister interface {
	ListForStylistOnDate(ctx context.Context, stylistID string, date time.Time) ([]models.BlockedRange, error)
}

// AvailabilityService answers "when can this service be booked" questions.
// It owns the cache protocol around the pure slot engine: check cache, on
// miss gather occupancy, generate, store, then filter out past slots.
type AvailabilityService struct {
	stylists stylistReader
	catalog  serviceReader
	bookings dayBookingLister
	blocks   dayBlockLister
	engine   *slotengine.Engine
	cache    *CacheService
	metrics  *MetricsService
	logger   *zap.Logger
	cacheTTL time.Duration
	now      func() time.Time
}

// AvailabilityServiceParams groups constructor dependencies.
type AvailabilityServiceParams struct {
	Stylists stylistReader
	Catalog  serviceReader
	Bookings dayBookingLister
	Blocks   dayBlockLister
	Engine   *slotengine.Engine
	Cache    *CacheService
	Metrics  *MetricsService
	Logger   *zap.Logger
	CacheTTL time.Duration
}

// NewAvailabilityService constructs an AvailabilityService.
func NewAvailabilityService(params AvailabilityServiceParams) *AvailabilityService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := params.Engine
	if engine == nil {
		engine = slotengine.New(slotengine.Config{})
	}
	ttl := params.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &AvailabilityService{
		stylists: params.Stylists,
		catalog:  params.Catalog,
		bookings: params.Bookings,
		blocks:   params.Blocks,
		engine:   engine,
		cache:    params.Cache,
		metrics:  params.Metrics,
		logger:   logger,
		cacheTTL: ttl,
		now:      time.Now,
	}
}

// AvailabilityCacheKey builds the cache key for a stylist/date pair.
func AvailabilityCacheKey(stylistID string, date time.Time) string {
	return fmt.Sprintf("avail:%s:%s", stylistID, slotengine.DateKey(date))
}

// ForStylist computes bookable start times for one stylist. Cached slot
// lists are reused within the TTL; past-filtering always runs against the
// current clock so a cached morning answer stays correct in the afternoon.
func (s *AvailabilityService) ForStylist(ctx context.Context, stylistID, serviceID string, date time.Time) (*dto.StylistAvailability, error) {
	service, err := s.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	stylist, err := s.findStylist(ctx, stylistID)
	if err != nil {
		return nil, err
	}

	ref := dto.StylistRef{ID: stylist.ID, Name: stylist.Name}
	cacheKey := AvailabilityCacheKey(stylist.ID, date)

	var cached []time.Time
	if hit, _ := s.cache.Get(ctx, cacheKey, &cached); hit {
		return &dto.StylistAvailability{
			Slots:   formatSlots(slotengine.FilterFutureSlots(cached, s.now())),
			Cached:  true,
			Stylist: ref,
		}, nil
	}

	slots, err := s.generate(ctx, *stylist, date, service.DurationMinutes)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, cacheKey, slots, s.cacheTTL); err != nil {
		s.logger.Warn("availability cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}

	return &dto.StylistAvailability{
		Slots:   formatSlots(slotengine.FilterFutureSlots(slots, s.now())),
		Cached:  false,
		Stylist: ref,
	}, nil
}

// AutoAssign computes openings across every active stylist. This mode skips
// the cache: the combined answer changes whenever any stylist's day does.
func (s *AvailabilityService) AutoAssign(ctx context.Context, serviceID string, date time.Time) (*dto.AutoAssignAvailability, error) {
	service, err := s.findService(ctx, serviceID)
	if err != nil {
		return nil, err
	}

	stylists, err := s.stylists.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stylists")
	}

	bookingsByStylist := make(map[string][]slotengine.Range, len(stylists))
	blocksByStylist := make(map[string][]slotengine.Range, len(stylists))
	for _, stylist := range stylists {
		bookings, err := s.bookings.ListForStylistOnDate(ctx, stylist.ID, date)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
		}
		bookingsByStylist[stylist.ID] = slotengine.BookingRanges(bookings)
		blocksByStylist[stylist.ID] = s.blockedRanges(ctx, stylist.ID, date)
	}

	started := time.Now()
	all, err := s.engine.SlotsAllStylists(stylists, date, service.DurationMinutes, bookingsByStylist, blocksByStylist)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "slot generation failed")
	}
	s.metrics.ObserveSlotGeneration("auto-assign", time.Since(started))

	now := s.now()
	future := make([]models.TimeSlot, 0, len(all))
	for _, slot := range all {
		if slot.Start.After(now) {
			future = append(future, slot)
		}
	}

	return &dto.AutoAssignAvailability{
		Slots:  future,
		Cached: false,
		Mode:   dto.AutoAssignMode,
	}, nil
}

func (s *AvailabilityService) generate(ctx context.Context, stylist models.Stylist, date time.Time, durationMinutes int) ([]time.Time, error) {
	bookings, err := s.bookings.ListForStylistOnDate(ctx, stylist.ID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	started := time.Now()
	slots, err := s.engine.SlotsForStylist(stylist, date, durationMinutes, slotengine.BookingRanges(bookings), s.blockedRanges(ctx, stylist.ID, date))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "slot generation failed")
	}
	s.metrics.ObserveSlotGeneration("single", time.Since(started))

	return slots, nil
}

// blockedRanges is fail-open: if external blocks cannot be loaded the day is
// computed from internal bookings alone rather than failing the request.
func (s *AvailabilityService) blockedRanges(ctx context.Context, stylistID string, date time.Time) []slotengine.Range {
	if s.blocks == nil {
		return nil
	}
	blocks, err := s.blocks.ListForStylistOnDate(ctx, stylistID, date)
	if err != nil {
		s.logger.Warn("failed to load external blocks, computing without them",
			zap.String("stylist_id", stylistID), zap.Error(err))
		return nil
	}
	return slotengine.BlockedRanges(blocks)
}

func (s *AvailabilityService) findService(ctx context.Context, serviceID string) (*models.Service, error) {
	service, err := s.catalog.FindByID(ctx, serviceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "service not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load service")
	}
	return service, nil
}

func (s *AvailabilityService) findStylist(ctx context.Context, stylistID string) (*models.Stylist, error) {
	stylist, err := s.stylists.FindByID(ctx, stylistID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "stylist not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stylist")
	}
	return stylist, nil
}

func formatSlots(slots []time.Time) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.Format(time.RFC3339))
	}
	return out
}
