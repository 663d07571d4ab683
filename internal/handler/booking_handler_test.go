package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

type fakeBookingSrv struct {
	createResp *models.Booking
	createErr  error
	listResp   []models.Booking
	listErr    error
	lastFilter models.BookingFilter
	getResp    *models.Booking
	getErr     error
	statusResp *models.Booking
	statusErr  error
	reschResp  *models.Booking
	reschErr   error
}

func (f *fakeBookingSrv) Create(context.Context, dto.CreateBookingRequest) (*models.Booking, error) {
	return f.createResp, f.createErr
}

func (f *fakeBookingSrv) List(_ context.Context, filter models.BookingFilter) ([]models.Booking, *models.Pagination, error) {
	f.lastFilter = filter
	return f.listResp, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: len(f.listResp)}, f.listErr
}

func (f *fakeBookingSrv) Get(context.Context, string) (*models.Booking, error) {
	return f.getResp, f.getErr
}

func (f *fakeBookingSrv) UpdateStatus(context.Context, string, dto.UpdateBookingStatusRequest) (*models.Booking, error) {
	return f.statusResp, f.statusErr
}

func (f *fakeBookingSrv) Reschedule(context.Context, string, dto.RescheduleBookingRequest) (*models.Booking, error) {
	return f.reschResp, f.reschErr
}

type bookingEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error map[string]interface{} `json:"error"`
}

func TestBookingCreateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&fakeBookingSrv{
		createResp: &models.Booking{ID: "booking-1", Status: models.BookingStatusConfirmed},
	})

	body := `{"client_name":"Amaya Perera","client_email":"amaya@example.com","client_phone":"+94771234567","service_id":"service-1","stylist_id":"stylist-1","start_time":"2030-05-06T10:00:00Z"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	var envelope bookingEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, string(envelope.Data), "booking-1")
}

func TestBookingCreateSlotTaken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&fakeBookingSrv{
		createErr: appErrors.Clone(appErrors.ErrSlotTaken, ""),
	})

	body := `{"client_name":"Amaya Perera","client_email":"amaya@example.com","client_phone":"+94771234567","service_id":"service-1","stylist_id":"stylist-1","start_time":"2030-05-06T10:00:00Z"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	require.Equal(t, http.StatusConflict, rec.Code)
	var envelope bookingEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "SLOT_TAKEN", envelope.Error["code"])
}

func TestBookingCreateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&fakeBookingSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookingListParsesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeBookingSrv{}
	handler := NewBookingHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet,
		"/bookings?stylistId=stylist-1&status=confirmed&dateFrom=2030-05-06&dateTo=2030-05-06&page=2&limit=10", nil)

	handler.List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "stylist-1", srv.lastFilter.StylistID)
	assert.Equal(t, "confirmed", srv.lastFilter.Status)
	assert.Equal(t, 2, srv.lastFilter.Page)
	assert.Equal(t, 10, srv.lastFilter.PageSize)
	require.NotNil(t, srv.lastFilter.DateFrom)
	require.NotNil(t, srv.lastFilter.DateTo)
	// dateTo is inclusive: the filter window ends at the next midnight
	assert.Equal(t, time.Date(2030, time.May, 7, 0, 0, 0, 0, time.UTC), *srv.lastFilter.DateTo)
}

func TestBookingUpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&fakeBookingSrv{
		statusResp: &models.Booking{ID: "booking-1", Status: models.BookingStatusCancelled},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
	c.Request = httptest.NewRequest(http.MethodPatch, "/bookings/booking-1/status", strings.NewReader(`{"status":"cancelled"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestBookingGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewBookingHandler(&fakeBookingSrv{
		getErr: appErrors.Clone(appErrors.ErrNotFound, "booking not found"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Params = gin.Params{{Key: "id", Value: "booking-x"}}
	c.Request = httptest.NewRequest(http.MethodGet, "/bookings/booking-x", nil)

	handler.Get(c)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
