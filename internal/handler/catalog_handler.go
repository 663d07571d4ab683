package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
	"github.com/salonmost/booking-api/pkg/response"
)

type catalogSrv interface {
	List(ctx context.Context) ([]models.Service, error)
	Get(ctx context.Context, id string) (*models.Service, error)
	Create(ctx context.Context, req dto.CreateServiceRequest) (*models.Service, error)
	Update(ctx context.Context, id string, req dto.UpdateServiceRequest) (*models.Service, error)
}

// CatalogHandler wires the service catalog to HTTP routes.
type CatalogHandler struct {
	catalog catalogSrv
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog catalogSrv) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary List catalog services
// @Tags Services
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /services [get]
func (h *CatalogHandler) List(c *gin.Context) {
	services, err := h.catalog.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, services, nil)
}

// Get godoc
// @Summary Get service detail
// @Tags Services
// @Produce json
// @Param id path string true "Service ID"
// @Success 200 {object} response.Envelope
// @Router /services/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	service, err := h.catalog.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service, nil)
}

// Create godoc
// @Summary Add a catalog service
// @Tags Services
// @Accept json
// @Produce json
// @Param payload body dto.CreateServiceRequest true "Service payload"
// @Success 201 {object} response.Envelope
// @Router /services [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	var req dto.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	service, err := h.catalog.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, service)
}

// Update godoc
// @Summary Update a catalog service
// @Tags Services
// @Accept json
// @Produce json
// @Param id path string true "Service ID"
// @Param payload body dto.UpdateServiceRequest true "Fields to change"
// @Success 200 {object} response.Envelope
// @Router /services/{id} [patch]
func (h *CatalogHandler) Update(c *gin.Context) {
	var req dto.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	service, err := h.catalog.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, service, nil)
}
