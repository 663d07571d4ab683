package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonmost/booking-api/internal/dto"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
	"github.com/salonmost/booking-api/pkg/response"
)

type notificationSrv interface {
	BuildConfirmation(ctx context.Context, req dto.WhatsAppConfirmationRequest) (*dto.WhatsAppConfirmation, error)
}

// NotificationHandler renders WhatsApp confirmations on demand, for the
// front desk resending a message or using a different number.
type NotificationHandler struct {
	notifications notificationSrv
}

// NewNotificationHandler constructs a NotificationHandler.
func NewNotificationHandler(notifications notificationSrv) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// WhatsApp godoc
// @Summary Build a WhatsApp confirmation message
// @Tags Notifications
// @Accept json
// @Produce json
// @Param payload body dto.WhatsAppConfirmationRequest true "Booking reference"
// @Success 200 {object} response.Envelope
// @Router /notifications/whatsapp [post]
func (h *NotificationHandler) WhatsApp(c *gin.Context) {
	var req dto.WhatsAppConfirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if req.BookingID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "booking_id is required"))
		return
	}

	confirmation, err := h.notifications.BuildConfirmation(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, confirmation, nil)
}
