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

type vehicleRepository struct {
	db DBTX
}

func NewVehicleRepository(db DBTX) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	query := `SELECT id, tenant_id, make, model, year, plate, day_rate, status, is_deleted, created_at, updated_at
	          FROM vehicles WHERE id = $1 AND tenant_id = $2 AND is_deleted = FALSE`
	err := r.db.QueryRowContext(ctx, query, id, tenantID).Scan(
		&v.ID, &v.TenantID, &v.Make, &v.Model, &v.Year, &v.Plate, &v.DayRate,
		&v.Status, &v.IsDeleted, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("vehicle", id.String())
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *vehicleRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.VehicleStatus) error {
	query := `UPDATE vehicles SET status = $1, updated_at = $2 WHERE id = $3 AND tenant_id = $4 AND is_deleted = FALSE`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), id, tenantID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFound("vehicle", id.String())
	}
	return nil
}
