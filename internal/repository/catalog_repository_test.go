package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonmost/booking-api/internal/models"
)

func TestCatalogRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "duration_minutes", "price", "category", "created_at"}).
		AddRow("service-1", "Signature Cut & Style", "Precision cut with wash and blow-dry", 60, 85.0, "Hair", time.Now()).
		AddRow("service-2", "Luxury Gel Manicure", nil, 45, 55.0, "Nails", time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, duration_minutes, price, category, created_at FROM services ORDER BY category NULLS LAST, name ASC")).
		WillReturnRows(rows)

	services, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 2)
	assert.Equal(t, 60, services[0].DurationMinutes)
	assert.Nil(t, services[1].Description)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "description", "duration_minutes", "price", "category", "created_at"}).
		AddRow("service-1", "Spa Pedicure", nil, 60, 70.0, "Nails", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, description, duration_minutes, price, category, created_at FROM services WHERE id = $1")).
		WithArgs("service-1").
		WillReturnRows(rows)

	service, err := repo.FindByID(context.Background(), "service-1")
	require.NoError(t, err)
	assert.Equal(t, "Spa Pedicure", service.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCatalogRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCatalogRepository(db)

	mock.ExpectExec("INSERT INTO services").
		WillReturnResult(sqlmock.NewResult(1, 1))

	service := &models.Service{Name: "Bridal Makeup", DurationMinutes: 90, Price: 150}
	require.NoError(t, repo.Create(context.Background(), service))
	assert.NotEmpty(t, service.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
