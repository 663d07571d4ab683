package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salonmost/booking-api/internal/calendar"
	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

type calendarEvents interface {
	Events(ctx context.Context) ([]calendar.Event, error)
}

type blockedRangeStore interface {
	ReplaceSynced(ctx context.Context, blocks []models.BlockedRange) error
}

// CalendarSyncService imports busy intervals from the linked calendar as
// blocked ranges. Events are matched to stylists by organizer or attendee
// email; entries that match nobody are ignored rather than guessed at.
type CalendarSyncService struct {
	events   calendarEvents
	blocks   blockedRangeStore
	stylists stylistReader
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
}

// NewCalendarSyncService constructs a CalendarSyncService.
func NewCalendarSyncService(
	events calendarEvents,
	blocks blockedRangeStore,
	stylists stylistReader,
	cache *CacheService,
	logger *zap.Logger,
) *CalendarSyncService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarSyncService{
		events:   events,
		blocks:   blocks,
		stylists: stylists,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
	}
}

// Sync pulls the event window and replaces all previously synced blocked
// ranges in one transaction, then drops cached availability so the next
// read reflects the imported blocks.
func (s *CalendarSyncService) Sync(ctx context.Context) (*dto.CalendarSyncResult, error) {
	events, err := s.events.Events(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "calendar fetch failed")
	}

	stylists, err := s.stylists.List(ctx, true)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stylists")
	}
	byEmail := make(map[string]string, len(stylists))
	for _, stylist := range stylists {
		if stylist.Email != nil && *stylist.Email != "" {
			byEmail[strings.ToLower(*stylist.Email)] = stylist.ID
		}
	}

	syncedAt := s.now().UTC()
	blocks := make([]models.BlockedRange, 0, len(events))
	for _, event := range events {
		if event.Status == "cancelled" || event.AllDay {
			continue
		}
		stylistID, ok := s.matchStylist(event, byEmail)
		if !ok {
			s.logger.Debug("calendar event matches no stylist, skipping",
				zap.String("event_id", event.ID))
			continue
		}
		eventID := event.ID
		blocks = append(blocks, models.BlockedRange{
			ID:            "block-" + uuid.NewString(),
			StylistID:     stylistID,
			StartTime:     event.Start,
			EndTime:       event.End,
			SourceEventID: &eventID,
			SyncedAt:      syncedAt,
		})
	}

	if err := s.blocks.ReplaceSynced(ctx, blocks); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store blocked ranges")
	}

	if err := s.cache.InvalidatePattern(ctx, "avail:*"); err != nil {
		s.logger.Warn("availability invalidation failed after sync", zap.Error(err))
	}

	s.logger.Info("calendar sync complete",
		zap.Int("events_seen", len(events)),
		zap.Int("ranges_imported", len(blocks)))
	return &dto.CalendarSyncResult{
		EventsSeen:     len(events),
		RangesImported: len(blocks),
		SyncedAt:       syncedAt,
	}, nil
}

func (s *CalendarSyncService) matchStylist(event calendar.Event, byEmail map[string]string) (string, bool) {
	if id, ok := byEmail[strings.ToLower(event.Organizer)]; ok {
		return id, true
	}
	for _, attendee := range event.Attendees {
		if id, ok := byEmail[strings.ToLower(attendee)]; ok {
			return id, true
		}
	}
	return "", false
}
