package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
	"github.com/salonmost/booking-api/pkg/response"
)

type stylistSrv interface {
	List(ctx context.Context, activeOnly bool) ([]models.Stylist, error)
	Get(ctx context.Context, id string) (*models.Stylist, error)
	Create(ctx context.Context, req dto.CreateStylistRequest) (*models.Stylist, error)
	Update(ctx context.Context, id string, req dto.UpdateStylistRequest) (*models.Stylist, error)
	Deactivate(ctx context.Context, id string) error
}

// StylistHandler wires stylist management to HTTP routes.
type StylistHandler struct {
	stylists stylistSrv
}

// NewStylistHandler constructs a StylistHandler.
func NewStylistHandler(stylists stylistSrv) *StylistHandler {
	return &StylistHandler{stylists: stylists}
}

// List godoc
// @Summary List stylists
// @Tags Stylists
// @Produce json
// @Param active query bool false "Only active stylists"
// @Success 200 {object} response.Envelope
// @Router /stylists [get]
func (h *StylistHandler) List(c *gin.Context) {
	activeOnly := strings.EqualFold(c.Query("active"), "true")
	stylists, err := h.stylists.List(c.Request.Context(), activeOnly)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stylists, nil)
}

// Get godoc
// @Summary Get stylist detail
// @Tags Stylists
// @Produce json
// @Param id path string true "Stylist ID"
// @Success 200 {object} response.Envelope
// @Router /stylists/{id} [get]
func (h *StylistHandler) Get(c *gin.Context) {
	stylist, err := h.stylists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stylist, nil)
}

// Create godoc
// @Summary Register a stylist
// @Tags Stylists
// @Accept json
// @Produce json
// @Param payload body dto.CreateStylistRequest true "Stylist payload"
// @Success 201 {object} response.Envelope
// @Router /stylists [post]
func (h *StylistHandler) Create(c *gin.Context) {
	var req dto.CreateStylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	stylist, err := h.stylists.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, stylist)
}

// Update godoc
// @Summary Update a stylist
// @Tags Stylists
// @Accept json
// @Produce json
// @Param id path string true "Stylist ID"
// @Param payload body dto.UpdateStylistRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /stylists/{id} [patch]
func (h *StylistHandler) Update(c *gin.Context) {
	var req dto.UpdateStylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	stylist, err := h.stylists.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stylist, nil)
}

// Deactivate godoc
// @Summary Deactivate a stylist
// @Tags Stylists
// @Param id path string true "Stylist ID"
// @Success 204
// @Router /stylists/{id} [delete]
func (h *StylistHandler) Deactivate(c *gin.Context) {
	if err := h.stylists.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
