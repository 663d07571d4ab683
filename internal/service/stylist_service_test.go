package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmost/booking-api/internal/dto"
	"github.com/salonmost/booking-api/internal/models"
	appErrors "github.com/salonmost/booking-api/pkg/errors"
)

type stylistStoreMock struct {
	listFn       func(ctx context.Context, activeOnly bool) ([]models.Stylist, error)
	findFn       func(ctx context.Context, id string) (*models.Stylist, error)
	createFn     func(ctx context.Context, stylist *models.Stylist) error
	updateFn     func(ctx context.Context, stylist *models.Stylist) error
	deactivateFn func(ctx context.Context, id string) error
}

func (m *stylistStoreMock) List(ctx context.Context, activeOnly bool) ([]models.Stylist, error) {
	return m.listFn(ctx, activeOnly)
}

func (m *stylistStoreMock) FindByID(ctx context.Context, id string) (*models.Stylist, error) {
	return m.findFn(ctx, id)
}

func (m *stylistStoreMock) Create(ctx context.Context, stylist *models.Stylist) error {
	return m.createFn(ctx, stylist)
}

func (m *stylistStoreMock) Update(ctx context.Context, stylist *models.Stylist) error {
	return m.updateFn(ctx, stylist)
}

func (m *stylistStoreMock) Deactivate(ctx context.Context, id string) error {
	return m.deactivateFn(ctx, id)
}

func validStylistRequest() dto.CreateStylistRequest {
	return dto.CreateStylistRequest{
		Name:        "Nadeesha",
		WorkingDays: []int{1, 2, 3, 4, 5},
		StartTime:   "09:00",
		EndTime:     "18:00",
	}
}

func TestCreateStylist(t *testing.T) {
	store := &stylistStoreMock{
		createFn: func(ctx context.Context, stylist *models.Stylist) error {
			stylist.ID = "stylist-1"
			return nil
		},
	}
	svc := NewStylistService(store, nil, nil)

	stylist, err := svc.Create(context.Background(), validStylistRequest())
	require.NoError(t, err)
	assert.Equal(t, "stylist-1", stylist.ID)
	assert.True(t, stylist.IsActive)
}

func TestCreateStylistScheduleInvariants(t *testing.T) {
	svc := NewStylistService(&stylistStoreMock{}, nil, nil)

	cases := []struct {
		name   string
		mutate func(*dto.CreateStylistRequest)
	}{
		{"malformed start", func(r *dto.CreateStylistRequest) { r.StartTime = "9am" }},
		{"start after end", func(r *dto.CreateStylistRequest) { r.StartTime = "19:00" }},
		{"start equals end", func(r *dto.CreateStylistRequest) { r.StartTime = "18:00" }},
		{"break without end", func(r *dto.CreateStylistRequest) { r.BreakStart = strPtr("13:00") }},
		{"break outside window", func(r *dto.CreateStylistRequest) {
			r.BreakStart = strPtr("08:00")
			r.BreakEnd = strPtr("09:30")
		}},
		{"inverted break", func(r *dto.CreateStylistRequest) {
			r.BreakStart = strPtr("14:00")
			r.BreakEnd = strPtr("13:00")
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validStylistRequest()
			tc.mutate(&req)
			_, err := svc.Create(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrInvalidSchedule.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestCreateStylistAcceptsValidBreak(t *testing.T) {
	store := &stylistStoreMock{
		createFn: func(ctx context.Context, stylist *models.Stylist) error { return nil },
	}
	svc := NewStylistService(store, nil, nil)

	req := validStylistRequest()
	req.BreakStart = strPtr("13:00")
	req.BreakEnd = strPtr("14:00")
	_, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
}

func TestUpdateStylistInvalidatesAvailability(t *testing.T) {
	existing := availabilityStylist()
	store := &stylistStoreMock{
		findFn: func(ctx context.Context, id string) (*models.Stylist, error) {
			return existing, nil
		},
		updateFn: func(ctx context.Context, stylist *models.Stylist) error { return nil },
	}
	cacheRepo := newMemCacheRepo()
	cacheRepo.data["avail:stylist-1:2030-05-06"] = []byte(`[]`)
	cacheRepo.data["avail:stylist-1:2030-05-07"] = []byte(`[]`)
	cacheRepo.data["avail:stylist-2:2030-05-06"] = []byte(`[]`)
	cache := NewCacheService(cacheRepo, nil, 0, nil, true)

	svc := NewStylistService(store, cache, nil)
	newEnd := "17:00"
	updated, err := svc.Update(context.Background(), "stylist-1", dto.UpdateStylistRequest{EndTime: &newEnd})
	require.NoError(t, err)
	assert.Equal(t, "17:00", updated.EndTime)

	assert.NotContains(t, cacheRepo.data, "avail:stylist-1:2030-05-06")
	assert.NotContains(t, cacheRepo.data, "avail:stylist-1:2030-05-07")
	assert.Contains(t, cacheRepo.data, "avail:stylist-2:2030-05-06", "other stylists keep their entries")
}

func TestUpdateStylistRejectsBrokenSchedule(t *testing.T) {
	store := &stylistStoreMock{
		findFn: func(ctx context.Context, id string) (*models.Stylist, error) {
			return availabilityStylist(), nil
		},
	}
	svc := NewStylistService(store, nil, nil)

	badStart := "20:00"
	_, err := svc.Update(context.Background(), "stylist-1", dto.UpdateStylistRequest{StartTime: &badStart})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidSchedule.Code, appErrors.FromError(err).Code)
}

func TestGetStylistNotFound(t *testing.T) {
	store := &stylistStoreMock{
		findFn: func(ctx context.Context, id string) (*models.Stylist, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewStylistService(store, nil, nil)

	_, err := svc.Get(context.Background(), "stylist-missing")
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.FromError(err).Status)
}

func TestDeactivateStylist(t *testing.T) {
	var deactivated string
	store := &stylistStoreMock{
		deactivateFn: func(ctx context.Context, id string) error {
			deactivated = id
			return nil
		},
	}
	svc := NewStylistService(store, nil, nil)

	require.NoError(t, svc.Deactivate(context.Background(), "stylist-1"))
	assert.Equal(t, "stylist-1", deactivated)
}

func strPtr(s string) *string { return &s }
