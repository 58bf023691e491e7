package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rentalfleet-backend/internal/domain"
	"rentalfleet-backend/internal/repository"
)

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.PaymentTransaction) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()
	query := `INSERT INTO payment_transactions (id, tenant_id, booking_id, kind, amount, reference, occurred_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.TenantID, p.BookingID, p.Kind, p.Amount,
		p.Reference, p.OccurredAt, p.CreatedAt)
	return err
}

// SumBetween totals transactions of one kind on completed rentals inside the
// window. Earnings aggregation calls this once for payments and once for
// refunds and subtracts.
func (r *paymentRepository) SumBetween(ctx context.Context, tenantID uuid.UUID, kind domain.TransactionKind, from, to time.Time) (decimal.Decimal, error) {
	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(p.amount), 0)
	          FROM payment_transactions p
	          JOIN rentals r ON r.id = p.booking_id AND r.tenant_id = p.tenant_id
	          WHERE p.tenant_id = $1 AND p.kind = $2 AND p.occurred_at >= $3 AND p.occurred_at < $4
	            AND r.status = $5 AND r.is_deleted = FALSE`
	err := r.db.QueryRowContext(ctx, query, tenantID, kind, from, to, domain.BookingStatusCompleted).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return sum, nil
}
