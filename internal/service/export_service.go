package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/salonmost/booking-api/internal/models"
	"github.com/salonmost/booking-api/internal/slotengine"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
	"github.com/salonmost/booking-api/pkg/export"
)

// Export formats supported by the schedule export endpoint.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// ExportFile is a rendered schedule ready to stream to the client.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ScheduleExportService renders a day's bookings as a front-desk run sheet.
type ScheduleExportService struct {
	bookings bookingStore
	stylists stylistReader
	catalog  catalogStore
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewScheduleExportService constructs a ScheduleExportService.
func NewScheduleExportService(bookings bookingStore, stylists stylistReader, catalog catalogStore, logger *zap.Logger) *ScheduleExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleExportService{
		bookings: bookings,
		stylists: stylists,
		catalog:  catalog,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

var scheduleHeaders = []string{"Time", "Client", "Phone", "Service", "Stylist", "Status"}

// DailySchedule renders every non-cancelled booking for the given day.
func (s *ScheduleExportService) DailySchedule(ctx context.Context, date time.Time, format string) (*ExportFile, error) {
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)
	bookings, _, err := s.bookings.List(ctx, models.BookingFilter{
		DateFrom: &dayStart,
		DateTo:   &dayEnd,
		Page:     1,
		PageSize: 500,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load bookings")
	}

	stylistNames, err := s.stylistNames(ctx)
	if err != nil {
		return nil, err
	}
	serviceNames, err := s.serviceNames(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].StartTime.Before(bookings[j].StartTime)
	})

	rows := make([]map[string]string, 0, len(bookings))
	for _, booking := range bookings {
		if booking.Status == models.BookingStatusCancelled {
			continue
		}
		rows = append(rows, map[string]string{
			"Time":    fmt.Sprintf("%s - %s", booking.StartTime.Format("15:04"), booking.EndTime.Format("15:04")),
			"Client":  booking.ClientName,
			"Phone":   booking.ClientPhone,
			"Service": serviceNames[booking.ServiceID],
			"Stylist": stylistNames[booking.StylistID],
			"Status":  booking.Status,
		})
	}

	dataset := export.Dataset{Headers: scheduleHeaders, Rows: rows}
	dateKey := slotengine.DateKey(date)

	switch format {
	case ExportFormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "csv render failed")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("schedule-%s.csv", dateKey),
		}, nil
	default:
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Schedule for %s", dateKey))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf render failed")
		}
		return &ExportFile{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("schedule-%s.pdf", dateKey),
		}, nil
	}
}

func (s *ScheduleExportService) stylistNames(ctx context.Context) (map[string]string, error) {
	stylists, err := s.stylists.List(ctx, false)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stylists")
	}
	names := make(map[string]string, len(stylists))
	for _, stylist := range stylists {
		names[stylist.ID] = stylist.Name
	}
	return names, nil
}

func (s *ScheduleExportService) serviceNames(ctx context.Context) (map[string]string, error) {
	services, err := s.catalog.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load services")
	}
	names := make(map[string]string, len(services))
	for _, service := range services {
		names[service.ID] = service.Name
	}
	return names, nil
}
