package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonmost/booking-api/internal/models"
)

const stylistColumns = "id, name, email, phone, bio, photo_url, working_days, start_time, end_time, break_start, break_end, is_active, created_at"

// StylistRepository manages persistence for stylists and their schedules.
type StylistRepository struct {
	db *sqlx.DB
}

// NewStylistRepository constructs a StylistRepository.
func NewStylistRepository(db *sqlx.DB) *StylistRepository {
	return &StylistRepository{db: db}
}

// List returns stylists, optionally restricted to active ones.
func (r *StylistRepository) List(ctx context.Context, activeOnly bool) ([]models.Stylist, error) {
	query := fmt.Sprintf("SELECT %s FROM stylists ORDER BY name ASC", stylistColumns)
	if activeOnly {
		query = fmt.Sprintf("SELECT %s FROM stylists WHERE is_active = TRUE ORDER BY name ASC", stylistColumns)
	}

	var stylists []models.Stylist
	if err := r.db.SelectContext(ctx, &stylists, query); err != nil {
		return nil, fmt.Errorf("list stylists: %w", err)
	}
	return stylists, nil
}

// FindByID fetches a stylist by ID.
func (r *StylistRepository) FindByID(ctx context.Context, id string) (*models.Stylist, error) {
	query := fmt.Sprintf("SELECT %s FROM stylists WHERE id = $1", stylistColumns)
	var stylist models.Stylist
	if err := r.db.GetContext(ctx, &stylist, query, id); err != nil {
		return nil, err
	}
	return &stylist, nil
}

// Create inserts a new stylist. The ID is generated when absent.
func (r *StylistRepository) Create(ctx context.Context, stylist *models.Stylist) error {
	if stylist.ID == "" {
		stylist.ID = "stylist-" + uuid.NewString()
	}
	if stylist.CreatedAt.IsZero() {
		stylist.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO stylists (id, name, email, phone, bio, photo_url, working_days, start_time, end_time, break_start, break_end, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	if _, err := r.db.ExecContext(ctx, query,
		stylist.ID, stylist.Name, stylist.Email, stylist.Phone, stylist.Bio, stylist.PhotoURL,
		stylist.WorkingDays, stylist.StartTime, stylist.EndTime, stylist.BreakStart, stylist.BreakEnd,
		stylist.IsActive, stylist.CreatedAt,
	); err != nil {
		return fmt.Errorf("create stylist: %w", err)
	}
	return nil
}

// Update persists schedule and profile changes for a stylist.
func (r *StylistRepository) Update(ctx context.Context, stylist *models.Stylist) error {
	const query = `UPDATE stylists
		SET name = $2, email = $3, phone = $4, bio = $5, photo_url = $6, working_days = $7,
			start_time = $8, end_time = $9, break_start = $10, break_end = $11, is_active = $12
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		stylist.ID, stylist.Name, stylist.Email, stylist.Phone, stylist.Bio, stylist.PhotoURL,
		stylist.WorkingDays, stylist.StartTime, stylist.EndTime, stylist.BreakStart, stylist.BreakEnd,
		stylist.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update stylist: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update stylist %s: %w", stylist.ID, errNoRowsUpdated)
	}
	return nil
}

// Deactivate removes a stylist from availability computation without
// deleting their booking history.
func (r *StylistRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE stylists SET is_active = FALSE WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("deactivate stylist: %w", err)
	}
	return nil
}
