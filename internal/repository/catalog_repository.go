package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/salonmost/booking-api/internal/models"
)

const serviceColumns = "id, name, description, duration_minutes, price, category, created_at"

// CatalogRepository manages persistence for the service menu.
type CatalogRepository struct {
	db *sqlx.DB
}

// NewCatalogRepository constructs a CatalogRepository.
func NewCatalogRepository(db *sqlx.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// List returns every catalog service ordered by category then name.
func (r *CatalogRepository) List(ctx context.Context) ([]models.Service, error) {
	query := fmt.Sprintf("SELECT %s FROM services ORDER BY category NULLS LAST, name ASC", serviceColumns)
	var services []models.Service
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// FindByID fetches a catalog service by ID.
func (r *CatalogRepository) FindByID(ctx context.Context, id string) (*models.Service, error) {
	query := fmt.Sprintf("SELECT %s FROM services WHERE id = $1", serviceColumns)
	var service models.Service
	if err := r.db.GetContext(ctx, &service, query, id); err != nil {
		return nil, err
	}
	return &service, nil
}

// Create inserts a new catalog service.
func (r *CatalogRepository) Create(ctx context.Context, service *models.Service) error {
	if service.ID == "" {
		service.ID = "service-" + uuid.NewString()
	}
	if service.CreatedAt.IsZero() {
		service.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO services (id, name, description, duration_minutes, price, category, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query,
		service.ID, service.Name, service.Description, service.DurationMinutes, service.Price, service.Category, service.CreatedAt,
	); err != nil {
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

// Update persists changes to a catalog service.
func (r *CatalogRepository) Update(ctx context.Context, service *models.Service) error {
	const query = `UPDATE services
		SET name = $2, description = $3, duration_minutes = $4, price = $5, category = $6
		WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query,
		service.ID, service.Name, service.Description, service.DurationMinutes, service.Price, service.Category,
	)
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update service %s: %w", service.ID, errNoRowsUpdated)
	}
	return nil
}
