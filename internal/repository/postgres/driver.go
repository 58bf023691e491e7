package postgres

import (
	"context"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

type driverRepository struct {
	db DBTX
}

func NewDriverRepository(db DBTX) repository.DriverRepository {
	return &driverRepository{db: db}
}

// Replace swaps the booking's driver set in place: delete then recreate,
// inside the caller's transaction.
func (r *driverRepository) Replace(ctx context.Context, tenantID, bookingID uuid.UUID, drivers []domain.RentalDriver) error {
	del := `DELETE FROM rental_drivers WHERE booking_id = $1 AND tenant_id = $2`
	if _, err := r.db.ExecContext(ctx, del, bookingID, tenantID); err != nil {
		return err
	}

	ins := `INSERT INTO rental_drivers (id, tenant_id, booking_id, customer_id, is_primary) VALUES ($1, $2, $3, $4, $5)`
	for i := range drivers {
		d := &drivers[i]
		if d.ID == uuid.Nil {
			d.ID = uuid.New()
		}
		d.TenantID = tenantID
		d.BookingID = bookingID
		if _, err := r.db.ExecContext(ctx, ins, d.ID, d.TenantID, d.BookingID, d.CustomerID, d.IsPrimary); err != nil {
			return err
		}
	}
	return nil
}

func (r *driverRepository) ListByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]domain.RentalDriver, error) {
	query := `SELECT id, tenant_id, booking_id, customer_id, is_primary
	          FROM rental_drivers WHERE booking_id = $1 AND tenant_id = $2 ORDER BY is_primary DESC, id`
	rows, err := r.db.QueryContext(ctx, query, bookingID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []domain.RentalDriver
	for rows.Next() {
		var d domain.RentalDriver
		if err := rows.Scan(&d.ID, &d.TenantID, &d.BookingID, &d.CustomerID, &d.IsPrimary); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}
