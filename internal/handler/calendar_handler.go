package handler

import (
	"context"
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonmost/booking-api/internal/dto"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
	"github.com/salonmost/booking-api/pkg/response"
)

type calendarSyncSrv interface {
	Sync(ctx context.Context) (*dto.CalendarSyncResult, error)
}

// CalendarHandler exposes the manual sync trigger. The endpoint is meant for
// cron callers and is guarded by a shared secret header.
type CalendarHandler struct {
	sync       calendarSyncSrv
	cronSecret string
}

// NewCalendarHandler constructs a CalendarHandler.
func NewCalendarHandler(sync calendarSyncSrv, cronSecret string) *CalendarHandler {
	return &CalendarHandler{sync: sync, cronSecret: cronSecret}
}

// Sync godoc
// @Summary Import blocked ranges from the linked calendar
// @Tags Calendar
// @Produce json
// @Param X-Cron-Secret header string true "Shared cron secret"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /calendar/sync [post]
func (h *CalendarHandler) Sync(c *gin.Context) {
	if h.cronSecret == "" || subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Cron-Secret")), []byte(h.cronSecret)) != 1 {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid cron secret"))
		return
	}

	result, err := h.sync.Sync(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
