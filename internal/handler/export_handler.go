package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salonmost/booking-api/internal/service"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
	"github.com/salonmost/booking-api/pkg/response"
)

type exportSrv interface {
	DailySchedule(ctx context.Context, date time.Time, format string) (*service.ExportFile, error)
}

// ExportHandler streams the daily run sheet as CSV or PDF.
type ExportHandler struct {
	exports exportSrv
}

// NewExportHandler constructs an ExportHandler.
func NewExportHandler(exports exportSrv) *ExportHandler {
	return &ExportHandler{exports: exports}
}

// DailySchedule godoc
// @Summary Export a day's schedule
// @Tags Schedule
// @Produce text/csv
// @Produce application/pdf
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /schedule/export [get]
func (h *ExportHandler) DailySchedule(c *gin.Context) {
	dateStr := c.Query("date")
	if dateStr == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date is required"))
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD"))
		return
	}
	format := c.DefaultQuery("format", service.ExportFormatCSV)

	file, err := h.exports.DailySchedule(c.Request.Context(), date, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
