package postgres

import (
	"context"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

type activityRepository struct {
	db DBTX
}

func NewActivityRepository(db DBTX) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, a *domain.RentalActivity) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	query := `INSERT INTO rental_activities (id, tenant_id, booking_id, action, from_status, to_status, actor_id, note, occurred_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.TenantID, a.BookingID, a.Action,
		a.FromStatus, a.ToStatus, a.ActorID, a.Note, a.OccurredAt)
	return err
}

func (r *activityRepository) ListByBooking(ctx context.Context, tenantID, bookingID uuid.UUID) ([]domain.RentalActivity, error) {
	query := `SELECT id, tenant_id, booking_id, action, from_status, to_status, actor_id, note, occurred_at
	          FROM rental_activities WHERE booking_id = $1 AND tenant_id = $2 ORDER BY occurred_at`
	rows, err := r.db.QueryContext(ctx, query, bookingID, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []domain.RentalActivity
	for rows.Next() {
		var a domain.RentalActivity
		if err := rows.Scan(&a.ID, &a.TenantID, &a.BookingID, &a.Action, &a.FromStatus,
			&a.ToStatus, &a.ActorID, &a.Note, &a.OccurredAt); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
