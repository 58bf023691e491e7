package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

type notificationRepository struct {
	db DBTX
}

func NewNotificationRepository(db DBTX) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

// Create inserts a notification. A non-empty DedupKey hits the partial unique
// index on (tenant_id, dedup_key); the conflicting insert is dropped and
// created is false, which keeps reminder reruns idempotent.
func (r *notificationRepository) Create(ctx context.Context, n *domain.TenantNotification) (bool, error) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = time.Now().UTC()
	query := `INSERT INTO tenant_notifications (id, tenant_id, booking_id, kind, priority, message, action_link, dedup_key, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
	          ON CONFLICT (tenant_id, dedup_key) WHERE dedup_key IS NOT NULL DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, n.ID, n.TenantID, n.BookingID, n.Kind, n.Priority,
		n.Message, n.ActionLink, n.DedupKey, n.CreatedAt)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// List returns the tenant's notifications newest first, with the read flag
// resolved for the requesting operator via the read-status join.
func (r *notificationRepository) List(ctx context.Context, tenantID, userID uuid.UUID, page, pageSize int) ([]domain.TenantNotification, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var count int
	countQuery := `SELECT COUNT(*) FROM tenant_notifications WHERE tenant_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, tenantID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT n.id, n.tenant_id, n.booking_id, n.kind, n.priority, n.message, n.action_link,
	                 COALESCE(n.dedup_key, ''), (rs.notification_id IS NOT NULL) AS is_read, n.created_at
	          FROM tenant_notifications n
	          LEFT JOIN notification_read_statuses rs ON rs.notification_id = n.id AND rs.user_id = $2
	          WHERE n.tenant_id = $1
	          ORDER BY n.created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, tenantID, userID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.TenantNotification
	for rows.Next() {
		var n domain.TenantNotification
		if err := rows.Scan(&n.ID, &n.TenantID, &n.BookingID, &n.Kind, &n.Priority,
			&n.Message, &n.ActionLink, &n.DedupKey, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, 0, err
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkRead(ctx context.Context, tenantID, userID, notificationID uuid.UUID) error {
	query := `INSERT INTO notification_read_statuses (notification_id, user_id, read_at)
	          SELECT id, $1, $2 FROM tenant_notifications WHERE id = $3 AND tenant_id = $4
	          ON CONFLICT (notification_id, user_id) DO NOTHING`
	res, err := r.db.ExecContext(ctx, query, userID, time.Now().UTC(), notificationID, tenantID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Either already read or not this tenant's notification; verify which.
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM tenant_notifications WHERE id = $1 AND tenant_id = $2)`
		if err := r.db.QueryRowContext(ctx, check, notificationID, tenantID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.NewNotFound("notification", notificationID.String())
		}
	}
	return nil
}
