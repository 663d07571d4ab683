package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salonmost/booking-api/internal/dto"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

type availabilitySrv interface {
	ForStylist(ctx context.Context, stylistID, serviceID string, date time.Time) (*dto.StylistAvailability, error)
	AutoAssign(ctx context.Context, serviceID string, date time.Time) (*dto.AutoAssignAvailability, error)
}

// AvailabilityHandler serves slot queries. Responses use the flat widget
// contract ({slots, cached, ...}) rather than the admin envelope: the public
// booking page consumes these payloads directly.
type AvailabilityHandler struct {
	availability availabilitySrv
}

// NewAvailabilityHandler constructs an AvailabilityHandler.
func NewAvailabilityHandler(availability availabilitySrv) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// Get godoc
// @Summary Available slots for a service
// @Tags Availability
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param serviceId query string true "Service ID"
// @Param stylistId query string false "Stylist ID; omit or pass 'any' for any-stylist mode"
// @Success 200 {object} dto.StylistAvailability
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /availability [get]
func (h *AvailabilityHandler) Get(c *gin.Context) {
	dateStr := c.Query("date")
	serviceID := c.Query("serviceId")
	if dateStr == "" || serviceID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date and serviceId are required"})
		return
	}
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}

	// "any" is the widget's sentinel for no stylist preference
	if stylistID := c.Query("stylistId"); stylistID != "" && stylistID != "any" {
		result, err := h.availability.ForStylist(c.Request.Context(), stylistID, serviceID, date)
		if err != nil {
			h.error(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
		return
	}

	result, err := h.availability.AutoAssign(c.Request.Context(), serviceID, date)
	if err != nil {
		h.error(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AvailabilityHandler) error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}
