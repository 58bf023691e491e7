package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

type customerRepository struct {
	db DBTX
}

func NewCustomerRepository(db DBTX) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, tenant_id, first_name, last_name, email, phone, address, city, country, postal_code, license_no, is_deleted, created_at, updated_at
	          FROM customers WHERE id = $1 AND tenant_id = $2 AND is_deleted = FALSE`
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&c.ID, &c.TenantID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.Address, &c.City, &c.Country, &c.PostalCode, &c.LicenseNo,
		&c.IsDeleted, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("customer", id.String())
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *customerRepository) CountCreatedBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM customers WHERE tenant_id = $1 AND is_deleted = FALSE AND created_at >= $2 AND created_at < $3`
	if err := r.db.QueryRowContext(ctx, query, tenantID, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

type locationRepository struct {
	db DBTX
}

func NewLocationRepository(db DBTX) repository.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Location, error) {
	l := &domain.Location{}
	query := `SELECT id, tenant_id, name, address, city FROM locations WHERE id = $1 AND tenant_id = $2`
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(&l.ID, &l.TenantID, &l.Name, &l.Address, &l.City)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("location", id.String())
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}
