package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

type bookingRepository struct {
	db DBTX
}

func NewBookingRepository(db DBTX) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, tenant_id, vehicle_id, charge_type_id, number, code, start_date, end_date,
	pickup_location_id, return_location_id, status, is_deleted, created_at, created_by, updated_at, updated_by`

func scanBooking(row interface{ Scan(...any) error }) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(&b.ID, &b.TenantID, &b.VehicleID, &b.ChargeTypeID, &b.Number, &b.Code,
		&b.StartDate, &b.EndDate, &b.PickupLocationID, &b.ReturnLocationID, &b.Status,
		&b.IsDeleted, &b.CreatedAt, &b.CreatedBy, &b.UpdatedAt, &b.UpdatedBy)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	query := `INSERT INTO rentals (id, tenant_id, vehicle_id, charge_type_id, number, code, start_date, end_date,
	            pickup_location_id, return_location_id, status, is_deleted, created_at, created_by, updated_at, updated_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, FALSE, $12, $13, $14, $15)`
	_, err := r.db.ExecContext(ctx, query, b.ID, b.TenantID, b.VehicleID, b.ChargeTypeID, b.Number, b.Code,
		b.StartDate, b.EndDate, b.PickupLocationID, b.ReturnLocationID, b.Status,
		b.CreatedAt, b.CreatedBy, b.UpdatedAt, b.UpdatedBy)
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM rentals WHERE id = $1 AND tenant_id = $2 AND is_deleted = FALSE`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id, tenantID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NewNotFound("booking", id.String())
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	b.UpdatedAt = time.Now().UTC()
	query := `UPDATE rentals SET vehicle_id=$1, charge_type_id=$2, start_date=$3, end_date=$4,
	            pickup_location_id=$5, return_location_id=$6, status=$7, updated_at=$8, updated_by=$9
	          WHERE id=$10 AND tenant_id=$11 AND is_deleted = FALSE`
	res, err := r.db.ExecContext(ctx, query, b.VehicleID, b.ChargeTypeID, b.StartDate, b.EndDate,
		b.PickupLocationID, b.ReturnLocationID, b.Status, b.UpdatedAt, b.UpdatedBy, b.ID, b.TenantID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFound("booking", b.ID.String())
	}
	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status domain.BookingStatus, actorID *uuid.UUID) error {
	query := `UPDATE rentals SET status=$1, updated_at=$2, updated_by=$3 WHERE id=$4 AND tenant_id=$5 AND is_deleted = FALSE`
	res, err := r.db.ExecContext(ctx, query, status, time.Now().UTC(), actorID, id, tenantID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewNotFound("booking", id.String())
	}
	return nil
}

// NextNumber allocates the next sequential booking number for the tenant.
// The tenant row is locked first: under read committed two transactions
// scanning MAX(number) concurrently would both see the same value and hand
// out duplicate codes. Callers must hold an open transaction so the lock
// lives until commit.
func (r *bookingRepository) NextNumber(ctx context.Context, tenantID uuid.UUID) (int, error) {
	var locked uuid.UUID
	lock := `SELECT id FROM tenants WHERE id = $1 FOR UPDATE`
	if err := r.db.QueryRowContext(ctx, lock, tenantID).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, domain.NewNotFound("tenant", tenantID.String())
		}
		return 0, err
	}

	var n int
	query := `SELECT COALESCE(MAX(number), 0) + 1 FROM rentals WHERE tenant_id = $1`
	if err := r.db.QueryRowContext(ctx, query, tenantID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *bookingRepository) List(ctx context.Context, tenantID uuid.UUID, status string, page, pageSize int) ([]domain.Booking, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := `SELECT ` + bookingColumns + ` FROM rentals WHERE tenant_id = $1 AND is_deleted = FALSE`
	args := []any{tenantID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int
	countQuery := "SELECT COUNT(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListStartingBetween(ctx context.Context, tenantID uuid.UUID, statuses []domain.BookingStatus, from, to time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM rentals
	          WHERE tenant_id = $1 AND is_deleted = FALSE AND status = ANY($2) AND start_date >= $3 AND start_date < $4
	          ORDER BY start_date`
	return r.listWindow(ctx, query, tenantID, statuses, from, to)
}

func (r *bookingRepository) ListEndingBetween(ctx context.Context, tenantID uuid.UUID, statuses []domain.BookingStatus, from, to time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM rentals
	          WHERE tenant_id = $1 AND is_deleted = FALSE AND status = ANY($2) AND end_date >= $3 AND end_date < $4
	          ORDER BY end_date`
	return r.listWindow(ctx, query, tenantID, statuses, from, to)
}

func (r *bookingRepository) listWindow(ctx context.Context, query string, tenantID uuid.UUID, statuses []domain.BookingStatus, from, to time.Time) ([]domain.Booking, error) {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	rows, err := r.db.QueryContext(ctx, query, tenantID, pq.Array(names), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) CountStartingBetween(ctx context.Context, tenantID uuid.UUID, status domain.BookingStatus, from, to time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM rentals
	          WHERE tenant_id = $1 AND is_deleted = FALSE AND status = $2 AND start_date >= $3 AND start_date < $4`
	if err := r.db.QueryRowContext(ctx, query, tenantID, status, from, to).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *bookingRepository) CountByStatusBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (map[domain.BookingStatus]int, error) {
	query := `SELECT status, COUNT(*) FROM rentals
	          WHERE tenant_id = $1 AND is_deleted = FALSE AND start_date >= $2 AND start_date < $3
	          GROUP BY status`
	rows, err := r.db.QueryContext(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.BookingStatus]int)
	for rows.Next() {
		var status domain.BookingStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// AvgCompletedDurationDays returns the mean billed duration (days, rounded up
// per booking, minimum one) of completed rentals fully inside the window.
func (r *bookingRepository) AvgCompletedDurationDays(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var avg decimal.Decimal
	query := `SELECT COALESCE(AVG(GREATEST(CEIL(EXTRACT(EPOCH FROM (end_date - start_date)) / 86400), 1)), 0)
	          FROM rentals
	          WHERE tenant_id = $1 AND is_deleted = FALSE AND status = $2 AND start_date >= $3 AND end_date < $4`
	err := r.db.QueryRowContext(ctx, query, tenantID, domain.BookingStatusCompleted, from, to).Scan(&avg)
	if err != nil {
		return decimal.Zero, err
	}
	return avg, nil
}
